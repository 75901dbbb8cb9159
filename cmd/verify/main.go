package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"newsverifier/internal/app"
	"newsverifier/internal/config"
	"newsverifier/internal/logging"
	"newsverifier/internal/report"
)

func main() {
	headline := flag.String("headline", "", "headline to verify (defaults to the remaining arguments)")
	asJSON := flag.Bool("json", false, "print the result as JSON")
	docxPath := flag.String("docx", "", "also write a .docx report to this path")
	flag.Parse()

	text := strings.TrimSpace(*headline)
	if text == "" {
		text = strings.TrimSpace(strings.Join(flag.Args(), " "))
	}
	if text == "" {
		fmt.Fprintln(os.Stderr, "usage: verify [-json] [-docx report.docx] -headline \"...\"")
		os.Exit(2)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logger, err := logging.New(cfg.LogLevel, true, os.Stderr)
	if err != nil {
		log.Fatal().Err(err).Msg("init logger")
	}

	// Nothing can post articles to a one-shot run.
	cfg.Ingest = false

	ctx, cancel := runContext(context.Background(), cfg.VerifyTimeout)
	defer cancel()

	service, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("init service")
	}
	defer service.Close()

	result := service.Verifier.Verify(ctx, text)

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		err = enc.Encode(result)
	} else {
		err = report.WriteText(os.Stdout, result)
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("write result")
	}

	if *docxPath != "" {
		if err := report.SaveDocx(*docxPath, result); err != nil {
			logger.Fatal().Err(err).Msg("save docx report")
		}
		logger.Info().Str("path", *docxPath).Msg("report saved")
	}
}

// runContext bounds the run by timeout; a non-positive timeout leaves it
// unbounded.
func runContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return parent, func() {}
	}
	return context.WithTimeout(parent, timeout)
}
