package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sectorscope/internal/config"
	"sectorscope/internal/pipeline"
	"sectorscope/internal/storage"
	"sectorscope/internal/watch"
	"sectorscope/internal/xano"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg)
	must(err)
	defer db.Close()

	cmd := os.Args[1]
	switch cmd {
	case "sector:snapshot":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		sectorID := fs.Int("sector", 0, "sector id")
		export := fs.Bool("export", false, "also export the snapshot to xlsx")
		_ = fs.Parse(os.Args[2:])
		if *sectorID == 0 {
			must(fmt.Errorf("--sector is required"))
		}
		must(cfg.Require("XANO_API_BASE_URL", cfg.XanoAPIBaseURL))

		svc := pipeline.NewSnapshotService(db, apiClient(cfg), cfg)
		snap, failures, err := svc.SnapshotSector(context.Background(), *sectorID)
		must(err)
		for _, failure := range failures {
			fmt.Printf("widget failed widget=%s err=%v\n", failure.Widget, failure.Err)
		}
		fmt.Printf("sector snapshot done sector=%d snapshot=%d transactions=%d companies=%d insights=%d\n",
			*sectorID, snap.ID, len(snap.Transactions), len(snap.Companies), len(snap.Insights))

		if *export {
			out := filepath.Join(cfg.OutputDir, fmt.Sprintf("sector_%d_%d.xlsx", *sectorID, snap.ID))
			must(pipeline.ExportSectorSnapshotXLSX(snap, out))
			fmt.Printf("exported snapshot=%d output=%s\n", snap.ID, out)
		}
	case "event:snapshot":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		eventID := fs.Int("event", 0, "corporate event id")
		_ = fs.Parse(os.Args[2:])
		if *eventID == 0 {
			must(fmt.Errorf("--event is required"))
		}
		must(cfg.Require("XANO_API_BASE_URL", cfg.XanoAPIBaseURL))

		svc := pipeline.NewSnapshotService(db, apiClient(cfg), cfg)
		snap, failures, err := svc.SnapshotEvent(context.Background(), *eventID)
		must(err)
		for _, failure := range failures {
			fmt.Printf("widget failed widget=%s err=%v\n", failure.Widget, failure.Err)
		}
		fmt.Printf("event snapshot done event=%d snapshot=%d counterparties=%d advisors=%d insights=%d\n",
			*eventID, snap.ID, len(snap.Counterparties), len(snap.Advisors), len(snap.Insights))
	case "normalize":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		kind := fs.String("kind", "", "transactions|acquirers|investors|companies|market-map|parties|insights")
		input := fs.String("input", "", "raw json file")
		out := fs.String("out", "", "output json path (stdout when empty)")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*kind) == "" || strings.TrimSpace(*input) == "" {
			must(fmt.Errorf("--kind and --input are required"))
		}

		result, err := pipeline.NormalizeFile(*kind, *input)
		must(err)
		blob, err := json.MarshalIndent(result, "", "  ")
		must(err)
		if strings.TrimSpace(*out) == "" {
			fmt.Println(string(blob))
			return
		}
		must(os.MkdirAll(filepath.Dir(*out), 0o755))
		must(os.WriteFile(*out, blob, 0o644))
		fmt.Printf("normalize done kind=%s output=%s\n", *kind, *out)
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		snapshotID := fs.Int64("snapshot", 0, "sector snapshot id")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if *snapshotID == 0 || strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--snapshot and --out are required"))
		}

		snap, err := db.GetSectorSnapshot(*snapshotID)
		must(err)
		must(pipeline.ExportSectorSnapshotXLSX(snap, *out))
		fmt.Printf("exported snapshot=%d output=%s\n", *snapshotID, *out)
	case "watch":
		must(cfg.Require("XANO_API_BASE_URL", cfg.XanoAPIBaseURL))
		if len(cfg.WatchSectorIDs) == 0 {
			must(fmt.Errorf("WATCH_SECTOR_IDS is empty"))
		}
		svc := watch.NewService(db, apiClient(cfg), cfg)
		must(svc.Run(context.Background()))
	default:
		usage()
		os.Exit(1)
	}
}

func apiClient(cfg config.Config) *xano.Client {
	return xano.NewClient(cfg, xano.StaticToken(cfg.XanoAPIToken))
}

func usage() {
	fmt.Println("usage: sectorscope <command>")
	fmt.Println("commands:")
	fmt.Println("  sector:snapshot --sector=7 [--export]")
	fmt.Println("  event:snapshot --event=33")
	fmt.Println("  normalize --kind=transactions --input=./raw.json [--out=./normalized.json]")
	fmt.Println("  export:xlsx --snapshot=1 --out=./out/sector.xlsx")
	fmt.Println("  watch")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
