package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/go-drift/inlinesvg/pkg/fetch"
	"github.com/go-drift/inlinesvg/pkg/svgtext"
)

func init() {
	RegisterCommand(&Command{
		Name:  "check",
		Short: "Fetch every icon and report failures",
		Long: `Fetch every icon in the manifest and report the result.

Each icon is fetched once, applying the same status and content-type rules
as the runtime. Icons are listed with their root attributes; failures are
listed with the error and make the command exit non-zero.

Flags:
  --concurrency N  Maximum simultaneous requests (default: unbounded)`,
		Usage: "inlinesvg check [--concurrency N]",
		Run:   runCheck,
	})
}

func runCheck(args []string) error {
	limit := 0
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--concurrency":
			if i+1 >= len(args) {
				return fmt.Errorf("--concurrency requires a value")
			}
			n, err := strconv.Atoi(args[i+1])
			if err != nil || n < 0 {
				return fmt.Errorf("invalid --concurrency %q", args[i+1])
			}
			limit = n
			i++
		default:
			return fmt.Errorf("unknown flag: %s", args[i])
		}
	}

	r, err := loadManifest()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	names := r.Names()
	urls := make([]string, len(names))
	for i, name := range names {
		urls[i] = r.Paths[name]
	}
	results := fetch.SettleAll(ctx, newFetcher(r), urls, limit)

	failed := 0
	for i, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(stdout, "  %-24s FAIL  %v\n", names[i], res.Err)
			continue
		}
		entry := svgtext.Parse(res.Body)
		fmt.Fprintf(stdout, "  %-24s ok    %d attributes, %d bytes\n", names[i], len(entry.Attributes), len(entry.Content))
	}

	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "%d icons, %d failed\n", len(names), failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d icons failed", failed, len(names))
	}
	return nil
}
