// Package main provides the entry point for the Image Split Analyzer desktop app.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	fyneapp "fyne.io/fyne/v2/app"

	"split-analyzer/internal/analysis"
	"split-analyzer/internal/app"
	"split-analyzer/internal/config"
	"split-analyzer/internal/logger"
	"split-analyzer/internal/render"
	"split-analyzer/internal/tracer"
	"split-analyzer/internal/version"
	"split-analyzer/pkg/geometry"
	"split-analyzer/ui/mainwindow"
	"split-analyzer/ui/prefs"
)

const appID = "io.github.splitanalyzer"

func main() {
	configPath := flag.String("config", "split-analyzer.yaml", "Path to YAML config file")
	flag.Parse()

	if err := run(*configPath, flag.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(configPath, imagePath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, closeLog, err := logger.New(cfg.Logger)
	if err != nil {
		return err
	}
	defer closeLog()
	log.Info("starting", "version", version.String(), "analyzer", cfg.Analyzer.BaseURL)

	shutdownTracer, err := tracer.Setup(context.Background(), cfg.Tracer)
	if err != nil {
		return err
	}
	defer shutdownTracer(context.Background())

	style, err := render.FromConfig(cfg.Render)
	if err != nil {
		return err
	}

	session := app.NewSession(
		analysis.NewClient(cfg.Analyzer, log),
		render.New(style),
		geometry.SizeInt{Width: cfg.Display.MaxWidth, Height: cfg.Display.MaxHeight},
		log,
	)

	fyneApp := fyneapp.NewWithID(appID)
	fyneApp.Settings().SetTheme(&app.Theme{})

	win := mainwindow.New(fyneApp, session, prefs.Load(), log)

	if imagePath != "" {
		if err := win.LoadImageFile(imagePath); err != nil {
			log.Warn("failed to load image", "path", imagePath, "error", err)
		}
	}

	if cfg.Analyzer.HealthInterval > 0 {
		monitor := app.NewHealthMonitor(session, cfg.Analyzer.HealthInterval, win.SetModelStatus)
		go monitor.Run(win.Context())
	}

	win.ShowAndRun()
	return nil
}
