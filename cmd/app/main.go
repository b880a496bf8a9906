package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"FinVerdict/internal/di"
	"FinVerdict/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	report := flag.String("report", "", "comma-separated symbols: print a technical report and exit")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s price_source=%s narrative=%s", cfg.Environment, cfg.Price.Source, cfg.Narrative.Provider)

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	if *report != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := app.Report(ctx, strings.Split(*report, ",")); err != nil {
			log.Printf("report error: %v", err)
			os.Exit(1)
		}
		return
	}

	// Run application (blocks until signal)
	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
