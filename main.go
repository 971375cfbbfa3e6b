package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/insightdelivered/subscription-detector/internal/api"
	"github.com/insightdelivered/subscription-detector/internal/detector"
	"github.com/insightdelivered/subscription-detector/internal/enrich"
	"github.com/insightdelivered/subscription-detector/internal/extractor"
	"github.com/insightdelivered/subscription-detector/internal/logger"
	"github.com/insightdelivered/subscription-detector/internal/models"
	"github.com/insightdelivered/subscription-detector/internal/writer"
)

const version = "2.0.0"

type options struct {
	format   string
	output   string
	serve    string
	enrich   bool
	model    string
	logLevel string
	workers  int
	year     int
}

func main() {
	var opts options
	flag.StringVar(&opts.format, "format", "json", "Output format: json, csv or table")
	flag.StringVar(&opts.output, "output", "", "Write the report to this file instead of stdout (single input only)")
	flag.StringVar(&opts.serve, "serve", "", "Run the HTTP API on this address, e.g. :8080 (\":\" uses $PORT)")
	flag.BoolVar(&opts.enrich, "enrich", false, "Ask Gemini for cleaner names of unrecognised merchants")
	flag.StringVar(&opts.model, "model", os.Getenv("GEMINI_MODEL"), "Gemini model used by -enrich")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (defaults to $LOG_LEVEL or info)")
	flag.IntVar(&opts.workers, "workers", runtime.NumCPU(), "Statements analysed in parallel")
	flag.IntVar(&opts.year, "year", 0, "Year for dates printed without one (inferred from the statement if omitted)")
	versionFlag := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Subscription Detector
by Insight Delivered (QEA AutoLens)

Finds recurring subscriptions in bank statements: PDF statements from
Metro Bank, HSBC and Barclays, CSV exports, or pasted statement text.

Usage:
  subscription-detector [flags] <statement> [statement ...]
  subscription-detector [flags] -            (read statement text from stdin)
  subscription-detector -serve=:8080

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # JSON report for one statement
  subscription-detector statement.pdf

  # Table for several months at once
  subscription-detector -format=table jan.pdf feb.pdf mar.pdf

  # CSV export to a file
  subscription-detector -format=csv -output=subs.csv export.csv

  # Pasted text
  pbpaste | subscription-detector -format=table -

Environment:
  LOG_LEVEL                        default for -log-level
  PORT                             port for -serve=:
  GEMINI_MODEL                     default for -model
  GOOGLE_API_KEY, GEMINI_API_KEY   credentials for -enrich
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("subscription-detector v%s\n", version)
		os.Exit(0)
	}

	level := logger.LevelFromEnv()
	if opts.logLevel != "" {
		level = logger.ParseLevel(opts.logLevel)
	}
	log := logger.New(level)

	if opts.serve == "" && flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, opts, flag.Args(), os.Stdout, log)
	stop()
	if err != nil {
		log.Error().Err(err).Msg("subscription detection failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, inputs []string, stdout io.Writer, log zerolog.Logger) error {
	var namer enrich.Namer
	if opts.enrich {
		g, err := enrich.NewGeminiNamer(ctx, opts.model)
		if err != nil {
			return err
		}
		namer = g
	}

	d := detector.New(detector.WithLogger(log), detector.WithYear(opts.year))

	if opts.serve != "" {
		return serve(ctx, listenAddr(opts.serve), &api.Handler{
			Detector: d,
			Namer:    namer,
			Log:      log,
			Version:  version,
		}, log)
	}

	w, err := writer.New(opts.format)
	if err != nil {
		return err
	}
	if opts.output != "" && len(inputs) != 1 {
		return errors.New("-output needs exactly one input")
	}

	reports := make([]*models.Report, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers)
	for i, path := range inputs {
		g.Go(func() error {
			report, err := analyze(gctx, d, namer, path, log)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if opts.output != "" {
		if err := writer.WriteToFile(w, opts.output, reports[0]); err != nil {
			return err
		}
		log.Info().Str("output", opts.output).Msg("report written")
		return nil
	}

	for i, report := range reports {
		if len(reports) > 1 && opts.format == "table" {
			fmt.Fprintf(stdout, "== %s ==\n", inputs[i])
		}
		if err := w.Write(stdout, report); err != nil {
			return err
		}
	}
	return nil
}

func analyze(ctx context.Context, d *detector.Detector, namer enrich.Namer, path string, log zerolog.Logger) (*models.Report, error) {
	start := time.Now()
	text, err := readInput(path)
	if err != nil {
		return nil, err
	}

	report, err := d.Analyze(text)
	if err != nil {
		return nil, err
	}
	if namer != nil {
		report.Subscriptions = enrich.Apply(ctx, namer, report.Subscriptions, log)
	}

	log.Info().
		Str("file", path).
		Str("bank", string(report.Bank)).
		Int("transactions", report.TransactionCount).
		Int("subscriptions", len(report.Subscriptions)).
		Dur("took", time.Since(start)).
		Msg("statement analysed")
	return report, nil
}

// readInput returns statement text from a PDF, a text or CSV file, or stdin
// when path is "-".
func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		text, err := extractor.ExtractFile(path)
		if err != nil {
			return "", fmt.Errorf("PDF extraction failed: %w", err)
		}
		return text, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// listenAddr fills in a missing port from $PORT, or 8080.
func listenAddr(addr string) string {
	if !strings.HasSuffix(addr, ":") {
		return addr
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return addr + port
}

func serve(ctx context.Context, addr string, h *api.Handler, log zerolog.Logger) error {
	app := api.NewApp(h)

	errc := make(chan error, 1)
	go func() {
		errc <- app.Listen(addr)
	}()
	log.Info().Str("addr", addr).Str("version", version).Msg("serving subscription API")

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		return app.ShutdownWithTimeout(5 * time.Second)
	}
}
