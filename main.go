package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/insightdelivered/trade-import/internal/api"
	"github.com/insightdelivered/trade-import/internal/config"
	"github.com/insightdelivered/trade-import/internal/extractor"
	"github.com/insightdelivered/trade-import/internal/locator"
	"github.com/insightdelivered/trade-import/internal/logger"
	"github.com/insightdelivered/trade-import/internal/models"
	"github.com/insightdelivered/trade-import/internal/parser"
	"github.com/insightdelivered/trade-import/internal/writer"
)

const version = "1.0.0"

func main() {
	// CLI flags
	formatFlag := flag.String("format", "csv", "Output format: csv or json")
	outputFlag := flag.String("output", "", "Output file path (defaults to input filename with the format's extension, - for stdout)")
	extFlag := flag.String("ext", "", "Source file extension passed to the registry (defaults to the input's extension)")
	headerFlag := flag.Bool("header", true, "Include broker and status rows in CSV")
	logLevelFlag := flag.String("log-level", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")
	serveFlag := flag.Bool("serve", false, "Run the HTTP import service instead of converting files")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	helpFlag := flag.Bool("help", false, "Show usage help")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Broker Trade Confirmation Importer
by Insight Delivered

Reads trade confirmations and dividend advices from German brokers
and converts them into portfolio activities.

Usage:
  trade-import [flags] <note.pdf|pages.json> [more ...]
  trade-import --serve

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Convert a settlement note to CSV next to the input
  trade-import abrechnung.pdf

  # JSON to stdout
  trade-import --format=json --output=- dividende.pdf

  # Already tokenized pages ([["line", ...], ...])
  trade-import --ext=pdf pages.json

  # HTTP service, configured through PORT, LOG_LEVEL, CACHE_TTL, ...
  trade-import --serve

Supported Brokers:
  1822direkt, comdirect, consorsbank, dkb, ing, onvista, postbank, smartbroker
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("trade-import v%s\n", version)
		os.Exit(0)
	}

	cfg := config.Load(nil)
	level := cfg.LogLevel
	if *logLevelFlag != "" {
		level = *logLevelFlag
	}
	log := logger.New(level, cfg.LogFormat, os.Stderr)

	if *serveFlag {
		if err := serve(cfg, log); err != nil {
			log.WithError(err).Fatal("server stopped")
		}
		return
	}

	if *helpFlag || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	w, err := writer.New(*formatFlag, *headerFlag)
	if err != nil {
		fatalf("%v\n", err)
	}
	if *outputFlag != "" && *outputFlag != "-" && flag.NArg() > 1 {
		fatalf("--output can only be used with a single input file\n")
	}

	registry := parser.Default(log)
	failed := false
	for _, inputPath := range flag.Args() {
		if err := processFile(registry, w, inputPath, *extFlag, *outputFlag, *formatFlag, log); err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", inputPath, err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func serve(cfg *config.Config, log *logrus.Logger) error {
	h := api.NewHandler(parser.Default(log), log, api.Options{
		Version:        version,
		CacheTTL:       cfg.CacheTTL,
		MaxUploadBytes: cfg.MaxUploadBytes,
		StaticDir:      cfg.StaticDir,
	})
	log.WithField("addr", cfg.Addr()).Info("starting import service")
	return api.NewApp(h).Listen(cfg.Addr())
}

func processFile(registry *parser.Registry, w writer.Writer, inputPath, ext, outputPath, format string, log logrus.FieldLogger) error {
	// Validate input file
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	doc, ext, err := loadDocument(inputPath, ext)
	if err != nil {
		return err
	}

	log = log.WithField("file", inputPath)
	log.WithField("pages", len(doc)).Debug("read document")

	res, err := registry.Parse(doc, ext)
	if err != nil {
		return err
	}
	if res.Status != models.StatusSuccess {
		log.WithField("status", res.Status.String()).Warn("no activities extracted")
	}

	// Determine output path
	if outputPath == "-" {
		return w.Write(os.Stdout, res)
	}
	outPath := outputPath
	if outPath == "" {
		base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
		outPath = base + "." + strings.ToLower(format)
		if outPath == inputPath {
			outPath = base + ".activities." + strings.ToLower(format)
		}
	}

	if err := writer.WriteToFile(w, outPath, res); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	log.WithFields(logrus.Fields{
		"broker":     res.Broker,
		"activities": len(res.Activities),
		"output":     outPath,
	}).Info("done")
	return nil
}

// loadDocument resolves the source extension and reads the document. The
// extension is checked first so that unsupported files never reach the PDF
// extractor. JSON files hold already tokenized pages and default to pdf.
func loadDocument(path, ext string) (locator.Document, string, error) {
	isJSON := strings.EqualFold(filepath.Ext(path), ".json")
	if ext == "" {
		ext = strings.TrimPrefix(filepath.Ext(path), ".")
		if isJSON {
			ext = parser.SupportedExtension
		}
	}
	if err := parser.CheckExtension(ext); err != nil {
		return nil, ext, err
	}
	doc, err := readDocument(path, isJSON)
	return doc, ext, err
}

// readDocument loads a PDF through the extractor or a JSON list of pages,
// each a list of lines.
func readDocument(path string, isJSON bool) (locator.Document, error) {
	if !isJSON {
		doc, err := extractor.ExtractDocument(path)
		if err != nil {
			return nil, fmt.Errorf("PDF extraction failed: %w", err)
		}
		return doc, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pages [][]string
	if err := json.Unmarshal(data, &pages); err != nil {
		return nil, fmt.Errorf("invalid pages file: %w", err)
	}
	return locator.NewDocument(pages), nil
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
