package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sectorscope/internal"
	"sectorscope/internal/config"
	"sectorscope/internal/normalize"
	"sectorscope/internal/storage"
)

// Fetcher abstracts the API client so the pipeline can be fed canned
// payloads in tests.
type Fetcher interface {
	Get(ctx context.Context, endpoint string, params map[string]string) (any, error)
}

// WidgetError reports one dashboard widget whose fetch failed. The rest
// of the snapshot proceeds without it; an empty widget is a valid state.
type WidgetError struct {
	Widget string
	Err    error
}

func (w WidgetError) Error() string {
	return fmt.Sprintf("widget %s: %v", w.Widget, w.Err)
}

type SnapshotService struct {
	store storage.Store
	api   Fetcher
	cfg   config.Config
}

func NewSnapshotService(store storage.Store, api Fetcher, cfg config.Config) *SnapshotService {
	return &SnapshotService{store: store, api: api, cfg: cfg}
}

// SnapshotSector pulls every sector widget concurrently, adapts the raw
// payloads, and persists the result as one snapshot row. Widget failures
// are isolated: they come back in the WidgetError slice and leave the
// corresponding field empty.
func (s *SnapshotService) SnapshotSector(ctx context.Context, sectorID int) (*internal.SectorSnapshot, []WidgetError, error) {
	snap := &internal.SectorSnapshot{
		SectorID:  sectorID,
		FetchedAt: time.Now().UTC().Format(time.RFC3339),
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures []WidgetError
	)

	fetch := func(widget string, apply func(raw any)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			raw, err := s.api.Get(ctx, fmt.Sprintf("sector/%d/%s", sectorID, widget), nil)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, WidgetError{Widget: widget, Err: err})
				return
			}
			apply(raw)
		}()
	}

	fetch("recent_transactions", func(raw any) {
		snap.Transactions = normalize.AdaptTransactions(raw)
	})
	fetch("strategic_acquirers", func(raw any) {
		snap.Acquirers = normalize.AdaptRankedEntities(raw)
	})
	fetch("active_investors", func(raw any) {
		snap.Investors = normalize.AdaptRankedEntities(raw)
	})
	fetch("market_map", func(raw any) {
		snap.MarketMap = normalize.GroupByType(normalize.AdaptMarketMap(raw))
	})
	fetch("new_companies", func(raw any) {
		snap.Companies = normalize.AdaptSectorCompanies(raw)
	})
	fetch("insights", func(raw any) {
		snap.Insights = normalize.AdaptInsights(raw)
	})

	wg.Wait()

	if _, err := s.store.SaveSectorSnapshot(snap); err != nil {
		return nil, failures, err
	}
	return snap, failures, nil
}

// SnapshotEvent pulls the corporate-event widgets. Related insights are
// deduped against the event's own insights so the two lists never show
// the same article twice.
func (s *SnapshotService) SnapshotEvent(ctx context.Context, eventID int) (*internal.EventSnapshot, []WidgetError, error) {
	snap := &internal.EventSnapshot{
		EventID:   eventID,
		FetchedAt: time.Now().UTC().Format(time.RFC3339),
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures []WidgetError
	)

	fetch := func(widget string, apply func(raw any)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			raw, err := s.api.Get(ctx, fmt.Sprintf("corporate_event/%d/%s", eventID, widget), nil)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, WidgetError{Widget: widget, Err: err})
				return
			}
			apply(raw)
		}()
	}

	fetch("counterparties", func(raw any) {
		snap.Counterparties = normalize.AdaptEventParties(raw)
	})
	fetch("advisors", func(raw any) {
		snap.Advisors = normalize.AdaptEventParties(raw)
	})
	fetch("insights", func(raw any) {
		snap.Insights = normalize.AdaptInsights(raw)
	})
	fetch("related_insights", func(raw any) {
		snap.RelatedInsights = normalize.AdaptInsights(raw)
	})

	wg.Wait()

	snap.RelatedInsights = normalize.Dedupe(snap.Insights, snap.RelatedInsights, func(i internal.Insight) int {
		return i.ArticleID
	})

	if _, err := s.store.SaveEventSnapshot(snap); err != nil {
		return nil, failures, err
	}
	return snap, failures, nil
}
