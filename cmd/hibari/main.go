package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"hibari/internal/config"
	"hibari/internal/engine"
	"hibari/internal/runner"
	"hibari/internal/util"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	seed := flag.Int64("seed", 0, "override the base seed (0 keeps the configured value)")
	rounds := flag.Int("rounds", 0, "override the round count (0 keeps the configured value)")
	flag.Parse()

	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *rounds > 0 {
		cfg.Rounds = *rounds
	}
	util.SetVerbose(cfg.Logging.Verbose)
	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}
	util.Infof("starting hibari with %d worker(s)", cfg.Workers)
	if data, err := yaml.Marshal(&cfg); err == nil {
		util.Highlightf("config:\n%s", string(data))
	}

	if cfg.Workers == 1 {
		if err := runWorker(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "run failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	var wg sync.WaitGroup
	errCh := make(chan error, cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			workerCfg := cfg
			workerCfg.Seed = cfg.Seed + int64(worker)
			if workerCfg.Engine == "mysql" {
				workerCfg.Database = fmt.Sprintf("%s_w%d", cfg.Database, worker)
				config.Normalize(&workerCfg)
			}
			util.Infof("worker %d using seed %d", worker, workerCfg.Seed)
			if err := runWorker(workerCfg); err != nil {
				errCh <- err
			}
		}(i)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			fmt.Fprintf(os.Stderr, "run failed: %v\n", err)
			os.Exit(1)
		}
	}
}

func runWorker(cfg config.Config) error {
	ctx := context.Background()
	eng, err := engine.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer util.CloseWithErr(eng, "engine")
	return runner.New(cfg, eng).Run(ctx)
}
