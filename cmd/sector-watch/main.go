package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sectorscope/internal/config"
	"sectorscope/internal/storage"
	"sectorscope/internal/watch"
	"sectorscope/internal/xano"
)

func main() {
	cfg, err := config.Load()
	must(err)
	must(cfg.Require("XANO_API_BASE_URL", cfg.XanoAPIBaseURL))
	if len(cfg.WatchSectorIDs) == 0 {
		must(fmt.Errorf("WATCH_SECTOR_IDS is empty"))
	}

	db, err := storage.Open(cfg)
	must(err)
	defer db.Close()

	api := xano.NewClient(cfg, xano.StaticToken(cfg.XanoAPIToken))
	svc := watch.NewService(db, api, cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	must(svc.Run(ctx))
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
