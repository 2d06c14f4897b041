package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"cryptoedge-mcp/internal/config"
	"cryptoedge-mcp/internal/handler"
	"cryptoedge-mcp/internal/logging"
	"cryptoedge-mcp/internal/provider"
	"cryptoedge-mcp/internal/recorder"
	"cryptoedge-mcp/internal/rpc"
	"cryptoedge-mcp/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var (
		configPath    = flag.String("config", "configs/config.yaml", "path to YAML config file")
		debug         = flag.Bool("debug", false, "enable debug logging to stderr")
		sqlitePath    = flag.String("sqlite-path", "", "optional path to a SQLite analysis-audit database")
		warmWatchlist = flag.String("warm-watchlist", "", "comma-separated symbols to periodically warm in cache")
	)
	flag.Parse()

	if v := os.Getenv("CONFIG_PATH"); v != "" {
		*configPath = v
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	cfg.ApplyFlags(*debug, *sqlitePath, *warmWatchlist)

	auditLogger := logging.Setup(cfg.Debug)
	log.Println("[INFO] cryptoedge-mcp starting...")

	primary := provider.NewCoinPaprikaSource(cfg.Primary.BaseURL, cfg.Primary.APIKey)
	secondary := provider.NewGeckoTerminalSource(cfg.Secondary.BaseURL)
	prov := provider.NewWithTTLs(primary, secondary, cfg.Cache.PriceTTL, cfg.Cache.CandleTTL)

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, prov, cfg.Schedule.Watchlist)
	if err := sched.RegisterAll(cfg.Schedule.SweepCron, cfg.Schedule.WarmCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	h := handler.New(prov, rec)
	server := rpc.NewServer(h, os.Stdin, os.Stdout, auditLogger)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("[INFO] shutdown signal received, stopping...")
		cancel()
	}()

	log.Println("[INFO] cryptoedge-mcp is running, reading JSON-RPC requests from stdin")
	if err := server.Run(ctx); err != nil && ctx.Err() == nil {
		log.Printf("[ERROR] rpc server stopped: %v", err)
	}
	log.Println("[INFO] cryptoedge-mcp stopped")
}
