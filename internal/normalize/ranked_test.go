package normalize

import "testing"

func TestAdaptRankedEntitiesNameRequired(t *testing.T) {
	raw := map[string]any{"data": []any{
		map[string]any{"deals_5y": 9.0}, // no resolvable name
		map[string]any{"acquirer": "Acme Capital", "deals_5y": 4.0},
	}}
	got := AdaptRankedEntities(raw)
	if len(got) != 1 {
		t.Fatalf("got %d rows", len(got))
	}
	if got[0].Name != "Acme Capital" || got[0].DealCount != 4 {
		t.Fatalf("unexpected row: %+v", got[0])
	}
}

func TestAdaptRankedEntityCountDefaultsToZero(t *testing.T) {
	got := AdaptRankedEntities([]any{map[string]any{"name": "Quiet Fund", "deals_5y": ""}})
	if len(got) != 1 || got[0].DealCount != 0 {
		t.Fatalf("unexpected rows: %+v", got)
	}
}

func TestAdaptRankedEntityMisspelledTargetKey(t *testing.T) {
	got := AdaptRankedEntities([]any{map[string]any{
		"name":                "Fund X",
		"resent_trasnactions": "Widgets Inc",
		"closed_date":         "2026-03-01",
		"acquirer_company_id": "15",
	}})
	if len(got) != 1 {
		t.Fatalf("got %d rows", len(got))
	}
	e := got[0]
	if e.MostRecentTarget != "Widgets Inc" || e.ClosedDate != "2026-03-01" || e.CompanyID != 15 {
		t.Fatalf("unexpected row: %+v", e)
	}
}
