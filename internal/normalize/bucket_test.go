package normalize

import (
	"testing"

	"sectorscope/internal"
)

func TestClassifyOwnership(t *testing.T) {
	cases := []struct {
		name      string
		hint      string
		ownership string
		want      internal.CompanyType
	}{
		{"public hint", "Public Companies", "", internal.CompanyPublic},
		{"underscored hint", "private_equity_owned", "", internal.CompanyPEOwned},
		{"pe token hint", "PE companies", "", internal.CompanyPEOwned},
		{"vc token hint", "VC", "", internal.CompanyVCBacked},
		{"venture hint", "Venture Capital Backed", "", internal.CompanyVCBacked},
		{"unmatched hint stays private", "Other Companies", "Public", internal.CompanyPrivate},
		{"ownership fallback public", "", "Publicly listed", internal.CompanyPublic},
		{"ownership fallback pe", "", "Private Equity owned since 2020", internal.CompanyPEOwned},
		{"ownership fallback venture", "", "venture backed", internal.CompanyVCBacked},
		{"default", "", "", internal.CompanyPrivate},
		{"garbage ownership", "", "family office", internal.CompanyPrivate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyOwnership(tc.hint, tc.ownership); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestClassifyOwnershipTotality(t *testing.T) {
	valid := map[internal.CompanyType]bool{
		internal.CompanyPublic:   true,
		internal.CompanyPEOwned:  true,
		internal.CompanyVCBacked: true,
		internal.CompanyPrivate:  true,
	}
	inputs := []string{"", "  ", "???", "pe", "vc", "PUBLIC", "companies", "_", "private-ish", "venture pe public"}
	for _, hint := range inputs {
		for _, ownership := range inputs {
			if got := ClassifyOwnership(hint, ownership); !valid[got] {
				t.Fatalf("hint=%q ownership=%q produced %q", hint, ownership, got)
			}
		}
	}
}

func TestOwnershipLabel(t *testing.T) {
	if got := OwnershipLabel("  Family owned ", internal.CompanyPrivate); got != "Family owned" {
		t.Fatalf("got %q", got)
	}
	canonical := map[internal.CompanyType]string{
		internal.CompanyPublic:   "Public",
		internal.CompanyPEOwned:  "Private Equity Owned",
		internal.CompanyVCBacked: "Venture Capital Backed",
		internal.CompanyPrivate:  "Private",
	}
	for bucket, want := range canonical {
		if got := OwnershipLabel("", bucket); got != want {
			t.Fatalf("bucket %q: got %q want %q", bucket, got, want)
		}
	}
}

func TestGroupByType(t *testing.T) {
	companies := []internal.Company{
		{Name: "A", Type: internal.CompanyPublic},
		{Name: "B", Type: internal.CompanyPublic},
		{Name: "C", Type: internal.CompanyVCBacked},
		{Name: "D"}, // missing type lands in private
	}
	groups := GroupByType(companies)
	if len(groups[internal.CompanyPublic]) != 2 {
		t.Fatalf("public: %d", len(groups[internal.CompanyPublic]))
	}
	if groups[internal.CompanyPublic][0].Name != "A" {
		t.Fatal("order not preserved within bucket")
	}
	if len(groups[internal.CompanyPrivate]) != 1 || groups[internal.CompanyPrivate][0].Name != "D" {
		t.Fatalf("private: %+v", groups[internal.CompanyPrivate])
	}
}
