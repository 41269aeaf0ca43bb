// Package cmd implements the inlinesvg CLI commands.
//
// The command structure follows standard Go CLI patterns with a root command
// that dispatches to subcommands (catalog, keyframes, check).
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-drift/inlinesvg/cmd/inlinesvg/internal/config"
	"github.com/go-drift/inlinesvg/pkg/errors"
	"github.com/go-drift/inlinesvg/pkg/fetch"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// Command represents a CLI command.
type Command struct {
	Name        string
	Short       string
	Long        string
	Usage       string
	Run         func(args []string) error
	SubCommands []*Command
}

var rootCmd = &Command{
	Name:  "inlinesvg",
	Short: "inlinesvg - inline SVG icons driven by CSS animation names",
	Long: `inlinesvg inspects an icon manifest (inlinesvg.yaml) and renders the
markup and style sheets used to swap inline SVG icons from CSS.

Use "inlinesvg <command> --help" for more information about a command.`,
	Usage: "inlinesvg <command> [flags]",
}

// Commands registered with the CLI.
var commands = make(map[string]*Command)

// stdout receives command output.
var stdout io.Writer = os.Stdout

// manifestPath is set by --manifest. Empty searches upward from the working
// directory.
var manifestPath string

// RegisterCommand adds a command to the CLI.
func RegisterCommand(cmd *Command) {
	commands[cmd.Name] = cmd
	rootCmd.SubCommands = append(rootCmd.SubCommands, cmd)
}

// Execute runs the CLI with the process arguments.
func Execute() error {
	return run(os.Args[1:])
}

func run(args []string) error {
	manifestPath = ""

	// Handle no arguments
	if len(args) == 0 {
		printHelp(rootCmd)
		return nil
	}

	// Handle global flags and extract --manifest and --verbose
	var filteredArgs []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-h", "--help", "help":
			if len(filteredArgs) == 0 {
				printHelp(rootCmd)
				return nil
			}
			filteredArgs = append(filteredArgs, arg)
		case "-v", "--version", "version":
			if len(filteredArgs) == 0 {
				fmt.Fprintf(stdout, "inlinesvg version %s (built %s)\n", Version, BuildTime)
				return nil
			}
			filteredArgs = append(filteredArgs, arg)
		case "--manifest":
			if i+1 < len(args) {
				manifestPath = args[i+1]
				i++
			} else {
				return fmt.Errorf("--manifest requires a file path")
			}
		case "--verbose":
			errors.SetHandler(&errors.LogHandler{Verbose: true})
		default:
			if strings.HasPrefix(arg, "--manifest=") {
				manifestPath = strings.TrimPrefix(arg, "--manifest=")
				continue
			}
			filteredArgs = append(filteredArgs, arg)
		}
	}
	args = filteredArgs

	if len(args) == 0 {
		printHelp(rootCmd)
		return nil
	}

	// Find and execute the command
	cmdName := args[0]
	cmd, ok := commands[cmdName]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", cmdName)
		printHelp(rootCmd)
		return fmt.Errorf("unknown command: %s", cmdName)
	}

	// Check for help flag on subcommand
	cmdArgs := args[1:]
	for _, arg := range cmdArgs {
		if arg == "-h" || arg == "--help" || arg == "help" {
			printCommandHelp(cmd)
			return nil
		}
	}

	return cmd.Run(cmdArgs)
}

// loadManifest resolves the manifest named by --manifest, or the nearest
// inlinesvg.yaml.
func loadManifest() (*config.Resolved, error) {
	p := manifestPath
	if p == "" {
		var err error
		p, err = config.FindManifest()
		if err != nil {
			return nil, err
		}
	}
	r, err := config.Resolve(p)
	if err != nil {
		return nil, &errors.InlineError{Op: "manifest.load", Kind: errors.KindConfig, Err: err}
	}
	return r, nil
}

// newFetcher serves remote manifests over HTTP and local ones from the
// manifest directory.
func newFetcher(r *config.Resolved) fetch.Fetcher {
	if !r.Remote {
		return fetch.NewFS(os.DirFS(r.Dir))
	}
	return fetch.NewHTTP(nil, fetch.RequestOptions{
		Header:  r.Header,
		Timeout: r.Timeout,
	})
}

func printHelp(cmd *Command) {
	w := stdout
	fmt.Fprintln(w, cmd.Long)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintf(w, "  %s\n", cmd.Usage)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, sub := range cmd.SubCommands {
		fmt.Fprintf(w, "  %-14s %s\n", sub.Name, sub.Short)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -h, --help           Show help for a command")
	fmt.Fprintln(w, "  -v, --version        Show version information")
	fmt.Fprintln(w, "  --manifest FILE      Manifest to use (default: nearest inlinesvg.yaml)")
	fmt.Fprintln(w, "  --verbose            Include stack traces in error logs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  inlinesvg catalog > catalog.html    Render every icon")
	fmt.Fprintln(w, "  inlinesvg keyframes > icons.css     Print the keyframes style sheet")
	fmt.Fprintln(w, "  inlinesvg check                     Fetch every icon and report failures")
}

func printCommandHelp(cmd *Command) {
	fmt.Fprintln(stdout, cmd.Long)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Usage:")
	fmt.Fprintf(stdout, "  %s\n", cmd.Usage)
}
