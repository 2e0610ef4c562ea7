package normalize

import (
	"testing"

	"sectorscope/internal"
)

func TestAdaptMarketMapBucketNameShape(t *testing.T) {
	raw := map[string]any{
		"market_map": map[string]any{
			"Public Companies": []any{
				map[string]any{"id": "5", "name": "Acme"},
			},
		},
	}
	got := AdaptMarketMap(raw)
	if len(got) != 1 {
		t.Fatalf("got %d companies", len(got))
	}
	c := got[0]
	if c.ID != 5 || c.Name != "Acme" || c.Type != internal.CompanyPublic {
		t.Fatalf("unexpected company: %+v", c)
	}
	if c.OwnershipText != "Public" {
		t.Fatalf("ownership label %q", c.OwnershipText)
	}
}

func TestAdaptMarketMapGroupObjectShape(t *testing.T) {
	raw := []any{
		map[string]any{
			"bucket": "venture_capital_backed",
			"companies": []any{
				map[string]any{"id": 1.0, "name": "Seedling"},
				map[string]any{"id": 2.0, "name": "Sprout"},
			},
		},
		map[string]any{
			"bucket": "Other",
			"items": []any{
				map[string]any{"id": 3.0, "name": "Quiet Co"},
			},
		},
	}
	got := AdaptMarketMap(raw)
	if len(got) != 3 {
		t.Fatalf("got %d companies", len(got))
	}
	if got[0].Type != internal.CompanyVCBacked || got[1].Type != internal.CompanyVCBacked {
		t.Fatalf("vc group: %+v", got[:2])
	}
	if got[2].Type != internal.CompanyPrivate {
		t.Fatalf("unmatched bucket should be private: %+v", got[2])
	}
}

func TestAdaptMarketMapFlatShape(t *testing.T) {
	raw := []any{
		map[string]any{"id": 9.0, "name": "Flat Co", "ownership": "Private Equity owned"},
	}
	got := AdaptMarketMap(raw)
	if len(got) != 1 || got[0].Type != internal.CompanyPEOwned {
		t.Fatalf("unexpected: %+v", got)
	}
}

func TestAdaptCompanyFields(t *testing.T) {
	raw := []any{map[string]any{
		"name":              "Acme Analytics",
		"linkedin_logo":     "iVBORw0KGgoAAAANSUhEUg==",
		"primary_sectors":   []any{"Software", map[string]any{"name": "Data"}},
		"sectors":           `{"Analytics","BI"}`,
		"ownership":         "Venture backed",
		"is_that_investor":  true,
		"linkedin_employee": "240",
		"country":           "Germany",
		"description":       "<p>Builds <b>dashboards</b></p>",
		"companies_investors": []any{
			map[string]any{"name": "Fund A"},
			"Fund B",
		},
		"original_new_company_id": 88.0,
	}}
	got := AdaptMarketMap(raw)
	if len(got) != 1 {
		t.Fatalf("got %d companies", len(got))
	}
	c := got[0]
	if c.ID != 88 {
		t.Fatalf("id %d", c.ID)
	}
	if c.Type != internal.CompanyVCBacked || c.OwnershipText != "Venture backed" {
		t.Fatalf("ownership: %+v", c)
	}
	if !c.IsInvestor || c.LinkedinMembers != 240 || c.Country != "Germany" {
		t.Fatalf("fields: %+v", c)
	}
	if c.Description != "Builds dashboards" {
		t.Fatalf("description %q", c.Description)
	}
	if len(c.PrimarySectors) != 2 || c.PrimarySectors[1] != "Data" {
		t.Fatalf("primary sectors %v", c.PrimarySectors)
	}
	if len(c.SecondarySectors) != 2 || c.SecondarySectors[0] != "Analytics" {
		t.Fatalf("secondary sectors %v", c.SecondarySectors)
	}
	if len(c.Investors) != 2 || c.Investors[0] != "Fund A" || c.Investors[1] != "Fund B" {
		t.Fatalf("investors %v", c.Investors)
	}
	if c.LogoSrc != "data:image/jpeg;base64,iVBORw0KGgoAAAANSUhEUg==" {
		t.Fatalf("logo %q", c.LogoSrc)
	}
}

func TestAdaptCompanyInvestorFlagNonBoolean(t *testing.T) {
	got := AdaptMarketMap([]any{map[string]any{"name": "X", "is_that_investor": "true"}})
	if len(got) != 1 || got[0].IsInvestor {
		t.Fatal("string-typed flag must not count as true")
	}
}

func TestAdaptSectorCompaniesNestedResult(t *testing.T) {
	raw := map[string]any{
		"result1": map[string]any{
			"items": []any{
				map[string]any{
					"id":               "11",
					"name":             "Nested Co",
					"sectors":          []any{"Fintech"},
					"linkedin_members": 55.0,
				},
			},
		},
	}
	got := AdaptSectorCompanies(raw)
	if len(got) != 1 {
		t.Fatalf("got %d companies", len(got))
	}
	c := got[0]
	if c.ID != 11 || c.Name != "Nested Co" || c.LinkedinMembers != 55 {
		t.Fatalf("unexpected company: %+v", c)
	}
	if len(c.SecondarySectors) != 1 || c.SecondarySectors[0] != "Fintech" {
		t.Fatalf("sectors %v", c.SecondarySectors)
	}
}

func TestAdaptSectorCompaniesBareArray(t *testing.T) {
	got := AdaptSectorCompanies([]any{map[string]any{"name": "Bare Co"}})
	if len(got) != 1 || got[0].Name != "Bare Co" {
		t.Fatalf("unexpected: %+v", got)
	}
	if got[0].Type != internal.CompanyPrivate {
		t.Fatalf("default bucket: %q", got[0].Type)
	}
}

func TestAdaptCompanyDropsNamelessRecords(t *testing.T) {
	got := AdaptMarketMap([]any{map[string]any{"id": 1.0}})
	if len(got) != 0 {
		t.Fatalf("nameless record survived: %+v", got)
	}
}
