package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"sectorscope/internal/config"
	"sectorscope/internal/storage"
)

type stubFetcher struct {
	payloads map[string]string
}

func (s *stubFetcher) Get(_ context.Context, endpoint string, _ map[string]string) (any, error) {
	body, ok := s.payloads[endpoint]
	if !ok {
		return nil, fmt.Errorf("endpoint down: %s", endpoint)
	}
	var out any
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func TestRunCycleSnapshotsAndExports(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.OpenSQLite(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	api := &stubFetcher{payloads: map[string]string{
		"sector/7/recent_transactions": `{"items":[{"buyer_name":"Acme","target_name":"Widgets"}]}`,
		"sector/7/strategic_acquirers": `{"items":[{"name":"Acme","deal_count":2}]}`,
		"sector/7/active_investors":    `{"items":[]}`,
		"sector/7/market_map":          `{"market_map":{"public":[{"id":5,"name":"Acme Corp"}]}}`,
		"sector/7/new_companies":       `{"items":[{"id":9,"name":"NewCo"}]}`,
		// insights intentionally absent
	}}

	cfg, _ := config.Load()
	cfg.WatchSectorIDs = []int{7}
	cfg.WatchAutoExport = true
	cfg.OutputDir = tmp

	svc := NewService(db, api, cfg)
	if err := svc.RunCycle(context.Background()); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(tmp, "watch", "sector_7_1.xlsx")
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("auto export missing: %v", err)
	}

	ts, err := db.GetMetadata("watch:last_cycle")
	if err != nil {
		t.Fatal(err)
	}
	if ts == nil || *ts == "" {
		t.Fatal("last cycle metadata not recorded")
	}

	families, err := svc.registry.Gather()
	if err != nil {
		t.Fatal(err)
	}
	found := map[string]bool{}
	for _, mf := range families {
		found[mf.GetName()] = true
	}
	if !found["sectorscope_widget_fetch_errors_total"] {
		t.Fatalf("missing error counter, got %v", found)
	}
	if !found["sectorscope_widget_records"] {
		t.Fatalf("missing records gauge, got %v", found)
	}
}
