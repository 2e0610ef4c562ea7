package normalize

import "testing"

func TestAdaptEventPartyRoleFromNestedVariant(t *testing.T) {
	raw := []any{map[string]any{
		"counterparty_name": "Divesting Corp",
		"counterparty_id":   31.0,
		"_counterparty_type": map[string]any{
			"counterparty_status": "Divestor",
		},
	}}
	got := AdaptEventParties(raw)
	if len(got) != 1 {
		t.Fatalf("got %d parties", len(got))
	}
	if got[0].Role != "Divestor" {
		t.Fatalf("role %q", got[0].Role)
	}
}

func TestAdaptEventPartyRolePrefersPluralContainer(t *testing.T) {
	raw := []any{map[string]any{
		"name":                "Acme",
		"_counterpartys_type": map[string]any{"counterparty_status": "Buyer"},
		"_counterparty_type":  map[string]any{"counterparty_status": "Seller"},
	}}
	got := AdaptEventParties(raw)
	if len(got) != 1 || got[0].Role != "Buyer" {
		t.Fatalf("unexpected: %+v", got)
	}
}

func TestRouteEntityLinkInvestor(t *testing.T) {
	rec := map[string]any{
		"is_that_investor":    true,
		"investor_profile_id": 44.0,
	}
	if got := RouteEntityLink(rec, 7); got != "/investors/44" {
		t.Fatalf("got %q", got)
	}

	// Non-positive profile id falls back to the entity id.
	rec = map[string]any{"is_that_investor": true, "investor_profile_id": 0.0}
	if got := RouteEntityLink(rec, 7); got != "/investors/7" {
		t.Fatalf("got %q", got)
	}
}

func TestRouteEntityLinkDataAnalytics(t *testing.T) {
	rec := map[string]any{"is_data_analytics_company": true}
	if got := RouteEntityLink(rec, 12); got != "/company/12" {
		t.Fatalf("got %q", got)
	}
}

func TestRouteEntityLinkCanonicalURLRewrite(t *testing.T) {
	rec := map[string]any{"profile_url": "https://app.example.com/investor/9"}
	if got := RouteEntityLink(rec, 0); got != "https://app.example.com/investors/9" {
		t.Fatalf("got %q", got)
	}
}

func TestRouteEntityLinkPlainText(t *testing.T) {
	if got := RouteEntityLink(map[string]any{}, 12); got != "" {
		t.Fatalf("got %q", got)
	}
	// Flags are read defensively: non-boolean values never route.
	rec := map[string]any{"is_that_investor": "yes"}
	if got := RouteEntityLink(rec, 12); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestAdaptEventPartyIndividuals(t *testing.T) {
	raw := []any{map[string]any{
		"name": "Advisory LLP",
		"individuals": []any{
			map[string]any{"name": "Dana Reed", "individuals_id": 301.0},
			map[string]any{"name": "Sam Ortiz"},
			map[string]any{"individuals_id": 999.0}, // nameless, skipped
		},
	}}
	got := AdaptEventParties(raw)
	if len(got) != 1 {
		t.Fatalf("got %d parties", len(got))
	}
	inds := got[0].Individuals
	if len(inds) != 2 {
		t.Fatalf("got %d individuals", len(inds))
	}
	if inds[0].LinkHref != "/individuals/301" {
		t.Fatalf("link %q", inds[0].LinkHref)
	}
	if inds[1].LinkHref != "" || inds[1].ID != 0 {
		t.Fatalf("plain-text individual: %+v", inds[1])
	}
}

func TestAdaptEventPartiesNameRequired(t *testing.T) {
	raw := []any{map[string]any{"counterparty_id": 5.0}}
	if got := AdaptEventParties(raw); len(got) != 0 {
		t.Fatalf("nameless party survived: %+v", got)
	}
}
