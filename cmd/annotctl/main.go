package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wudi/annotkit/annot"
	"github.com/wudi/annotkit/observability"
	"github.com/wudi/annotkit/raster"
	"github.com/wudi/annotkit/template"
)

type options struct {
	templatesDir string
	list         bool
	show         string
	remove       string
	exportPath   string
	importPath   string
	preview      string
	outDir       string
	verbose      bool
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "annotctl: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "annotctl: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: annotctl [flags]\n")
		flag.PrintDefaults()
	}
	flag.StringVar(&opts.templatesDir, "templates", "templates", "Template directory")
	flag.BoolVar(&opts.list, "list", false, "List saved templates")
	flag.StringVar(&opts.show, "show", "", "Print a template's records as JSON")
	flag.StringVar(&opts.remove, "delete", "", "Delete a template")
	flag.StringVar(&opts.exportPath, "export", "", "Write all templates to a bundle file")
	flag.StringVar(&opts.importPath, "import", "", "Load templates from a bundle file")
	flag.StringVar(&opts.preview, "preview", "", "Render a template's annotations to PNG files")
	flag.StringVar(&opts.outDir, "out", "preview_output", "Directory for preview images")
	flag.BoolVar(&opts.verbose, "v", false, "Log progress to stderr")
	flag.Parse()

	if flag.NArg() != 0 {
		flag.Usage()
		return options{}, fmt.Errorf("unexpected argument %q", flag.Arg(0))
	}
	if !opts.list && opts.show == "" && opts.remove == "" && opts.exportPath == "" && opts.importPath == "" && opts.preview == "" {
		flag.Usage()
		return options{}, fmt.Errorf("no action requested")
	}
	return opts, nil
}

func run(opts options) error {
	var logger observability.Logger = observability.NopLogger{}
	if opts.verbose {
		logger = observability.NewTextLogger(os.Stderr)
	}

	store, err := template.NewStore(opts.templatesDir)
	if err != nil {
		return fmt.Errorf("open template store: %w", err)
	}

	if opts.importPath != "" {
		bundle, err := template.ReadBundle(opts.importPath)
		if err != nil {
			return fmt.Errorf("read bundle: %w", err)
		}
		if err := store.ImportAll(bundle); err != nil {
			return fmt.Errorf("import bundle: %w", err)
		}
		logger.Info("bundle imported",
			observability.String("path", opts.importPath),
			observability.Int("templates", len(bundle)))
	}

	if opts.exportPath != "" {
		bundle, err := store.ExportAll()
		if err != nil {
			return fmt.Errorf("export templates: %w", err)
		}
		if err := template.WriteBundle(opts.exportPath, bundle); err != nil {
			return fmt.Errorf("write bundle: %w", err)
		}
		logger.Info("bundle written",
			observability.String("path", opts.exportPath),
			observability.Int("templates", len(bundle)))
	}

	if opts.remove != "" {
		if err := store.Delete(opts.remove); err != nil {
			return fmt.Errorf("delete template: %w", err)
		}
	}

	if opts.list {
		names, err := store.List()
		if err != nil {
			return fmt.Errorf("list templates: %w", err)
		}
		for _, name := range names {
			fmt.Println(name)
		}
	}

	if opts.show != "" {
		records, err := store.Load(opts.show)
		if err != nil {
			return fmt.Errorf("load template: %w", err)
		}
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal template: %w", err)
		}
		fmt.Printf("%s\n", data)
	}

	if opts.preview != "" {
		if err := previewTemplate(store, opts.preview, opts.outDir, logger); err != nil {
			return err
		}
	}

	return nil
}

// previewTemplate renders each record at native scale into its own PNG.
// Records that fail to instantiate are reported and skipped.
func previewTemplate(store *template.Store, name, outDir string, logger observability.Logger) error {
	records, err := store.Load(name)
	if err != nil {
		return fmt.Errorf("load template: %w", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create preview dir: %w", err)
	}

	rend := raster.New(raster.WithLogger(logger))
	written := 0
	for idx, rec := range records {
		a, err := annot.FromRecord(rend, rec)
		if err != nil {
			fmt.Fprintf(os.Stderr, "annotctl: record %d: %v\n", idx, err)
			continue
		}
		data, err := rend.EncodePNG(a.Image())
		if err != nil {
			return fmt.Errorf("encode record %d: %w", idx, err)
		}
		path := filepath.Join(outDir, fmt.Sprintf("%s-%03d-%s.png", name, idx+1, a.Kind()))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write preview %q: %w", path, err)
		}
		written++
	}
	logger.Info("preview rendered",
		observability.String("template", name),
		observability.Int("images", written))
	return nil
}
