package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mrlokans/booktable/internal/cli"
	"github.com/mrlokans/booktable/internal/config"
	"github.com/mrlokans/booktable/internal/entrypoint"
	"github.com/mrlokans/booktable/internal/logging"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	cfg := config.NewConfig()
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	// If no arguments or "serve" command, run the web UI
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		exitOnError(entrypoint.Run(cfg, Version))
		return
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "store":
		exitOnError(entrypoint.RunStore(cfg, Version))

	case "export":
		cmd := cli.NewExportCommand(cfg.Remote.BaseURL)
		if err := cmd.ParseFlags(args); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return
			}
			exitOnError(err)
		}
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		exitOnError(cmd.Run(ctx))

	case "version":
		fmt.Printf("booktable %s (%s)\n", Version, Commit)

	case "-h", "--help", "help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve     Start the book table web UI (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  store     Start the bundled sqlite book store\n")
	fmt.Fprintf(os.Stderr, "  export    Export the book collection to an Excel or PDF file\n")
	fmt.Fprintf(os.Stderr, "  version   Print the version\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
