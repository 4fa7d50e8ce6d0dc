package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mrlokans/booktable/internal/bookapi"
	"github.com/mrlokans/booktable/internal/config"
	"github.com/mrlokans/booktable/internal/exporters"
	"github.com/mrlokans/booktable/internal/table"
)

// ExportCommand writes the book collection to an Excel or PDF file, with the
// same search and sort the table applies.
type ExportCommand struct {
	BaseURL  string
	Format   string
	Query    string
	SortKey  string
	SortDir  string
	OutDir   string
	BaseName string
	Timeout  time.Duration

	// Store overrides the remote client, for tests.
	Store table.Store
	// Stdout receives progress output. Defaults to os.Stdout.
	Stdout io.Writer
}

// NewExportCommand creates the command. baseURL is the default for -url.
func NewExportCommand(baseURL string) *ExportCommand {
	return &ExportCommand{BaseURL: baseURL}
}

func (cmd *ExportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)

	defaultURL := cmd.BaseURL
	if defaultURL == "" {
		defaultURL = config.DefaultRemoteBaseURL
	}
	fs.StringVar(&cmd.BaseURL, "url", defaultURL, "URL of the books resource")
	fs.StringVar(&cmd.Format, "format", "xlsx", "Export format: xlsx or pdf")
	fs.StringVar(&cmd.Query, "q", "", "Only export books whose title contains this text")
	fs.StringVar(&cmd.SortKey, "sort", "", "Sort column: title, pageCount or publishDate")
	fs.StringVar(&cmd.SortDir, "dir", "asc", "Sort direction: asc or desc")
	fs.StringVar(&cmd.OutDir, "out", ".", "Directory to write the file to")
	fs.StringVar(&cmd.BaseName, "name", config.DefaultExportBaseName, "File name without extension")
	fs.DurationVar(&cmd.Timeout, "timeout", 30*time.Second, "Request timeout")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s export [options]\n\n", os.Args[0])
		fmt.Fprintf(fs.Output(), "Export the book collection to an Excel or PDF file.\n\n")
		fmt.Fprintf(fs.Output(), "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(fs.Output(), "\nExamples:\n")
		fmt.Fprintf(fs.Output(), "  %s export -format pdf\n", os.Args[0])
		fmt.Fprintf(fs.Output(), "  %s export -q dune -sort publishDate -dir desc -out ./exports\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, ok := exporters.ByFormat(cmd.Format); !ok {
		fs.Usage()
		return fmt.Errorf("unknown format %q", cmd.Format)
	}
	return nil
}

func (cmd *ExportCommand) Run(ctx context.Context) error {
	out := cmd.Stdout
	if out == nil {
		out = os.Stdout
	}

	exporter, ok := exporters.ByFormat(cmd.Format)
	if !ok {
		return fmt.Errorf("unknown format %q", cmd.Format)
	}

	store := cmd.Store
	if store == nil {
		store = bookapi.NewClient(cmd.BaseURL, bookapi.WithTimeout(cmd.Timeout))
	}

	inbox := &table.Inbox{}
	manager := table.NewManager(store, inbox)

	fmt.Fprintf(out, "Loading books from %s\n", cmd.BaseURL)
	if err := manager.Load(ctx); err != nil {
		return fmt.Errorf("failed to load books: %w", err)
	}

	manager.Search(cmd.Query)
	if cmd.SortKey != "" {
		key, err := table.ParseSortKey(cmd.SortKey)
		if err != nil {
			return err
		}
		dir, err := table.ParseSortDirection(cmd.SortDir)
		if err != nil {
			return err
		}
		if err := manager.SetSort(key, dir); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(cmd.OutDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(cmd.OutDir, exporters.Filename(cmd.BaseName, exporter))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	result, err := manager.Export(ctx, f, exporter)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("failed to export: %w", err)
	}

	for _, n := range inbox.Drain() {
		fmt.Fprintln(out, n.Message)
	}
	fmt.Fprintf(out, "Wrote %d books to %s\n", result.Rows, path)
	return nil
}
