package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-drift/inlinesvg/pkg/dom"
	"github.com/go-drift/inlinesvg/pkg/inlinesvg"
	"github.com/go-drift/inlinesvg/pkg/loop"
)

func init() {
	RegisterCommand(&Command{
		Name:  "catalog",
		Short: "Render every icon as an HTML page",
		Long: `Render a catalog of every icon in the manifest.

Each icon gets a <section data-svg-name> with an <h1> label and the inlined
SVG. The page includes the keyframes style sheet and is written to stdout.

Flags:
  --class NAME     Class of the wrapping <div> (default: catalog)
  --no-default     Leave the SVGs empty, waiting for animation signals`,
		Usage: "inlinesvg catalog [--class NAME] [--no-default]",
		Run:   runCatalog,
	})
}

type catalogOptions struct {
	className  string
	useDefault bool
}

func parseCatalogArgs(args []string) (catalogOptions, error) {
	opts := catalogOptions{className: "catalog", useDefault: true}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--class":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("--class requires a value")
			}
			opts.className = args[i+1]
			i++
		case "--no-default":
			opts.useDefault = false
		default:
			if strings.HasPrefix(args[i], "--class=") {
				opts.className = strings.TrimPrefix(args[i], "--class=")
				continue
			}
			return opts, fmt.Errorf("unknown flag: %s", args[i])
		}
	}
	return opts, nil
}

func runCatalog(args []string) error {
	opts, err := parseCatalogArgs(args)
	if err != nil {
		return err
	}
	r, err := loadManifest()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lp := loop.New()
	doc := dom.NewDocument()
	engine := inlinesvg.NewEngine(inlinesvg.Config{
		Scheduler: lp,
		Fetcher:   newFetcher(r),
		Document:  doc,
		Context:   ctx,
	})
	factory := engine.Configure(inlinesvg.PathMap(r.Paths), inlinesvg.Options{
		UniquifyIDs: r.UniquifyIDs,
		UniqueHash:  r.UniqueHash,
	})

	lp.Post(func() {
		factory.Catalog(doc.Body(), opts.className, opts.useDefault)
	})
	if err := lp.RunUntilIdle(ctx); err != nil {
		return fmt.Errorf("catalog interrupted: %w", err)
	}

	return doc.Render(stdout)
}
