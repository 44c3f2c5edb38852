package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"hibari/internal/config"
	"hibari/internal/replay"
)

func main() {
	caseDir := flag.String("case_dir", "", "path to case directory")
	configPath := flag.String("config", "", "optional config file for engine settings")
	flag.Parse()

	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if *caseDir == "" {
		fmt.Fprintln(os.Stderr, "case_dir is required")
		flag.Usage()
		os.Exit(1)
	}

	cfg := config.Default()
	config.Normalize(&cfg)
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	opts := replay.Options{CaseDir: *caseDir, Config: cfg}
	if err := opts.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "replay failed: %v\n", err)
		os.Exit(1)
	}
}
