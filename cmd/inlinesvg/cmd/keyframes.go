package cmd

import (
	"fmt"

	"github.com/go-drift/inlinesvg/pkg/inlinesvg"
)

func init() {
	RegisterCommand(&Command{
		Name:  "keyframes",
		Short: "Print the keyframes style sheet",
		Long: `Print the empty @keyframes rules that carry icon names.

One rule is emitted for each sentinel (NULL, NONE, HIDDEN) and for each icon
in the manifest, so CSS such as

  .button:hover svg { animation-name: svg_ArrowIcon; }

fires an animationstart event naming the icon. Pages that render their own
style sheet can include this output instead of relying on injection.`,
		Usage: "inlinesvg keyframes",
		Run:   runKeyframes,
	})
}

func runKeyframes(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}
	r, err := loadManifest()
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, inlinesvg.Keyframes(r.Names()))
	return nil
}
