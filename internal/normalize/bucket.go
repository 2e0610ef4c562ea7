package normalize

import (
	"strings"

	"sectorscope/internal"
)

// ClassifyOwnership assigns exactly one bucket to every company. The
// grouping hint wins when present (an unmatched hint still settles on
// private rather than falling through), then the free-text ownership
// field, then the private default.
func ClassifyOwnership(bucketHint, ownership string) internal.CompanyType {
	if strings.TrimSpace(bucketHint) != "" {
		t, _ := bucketFromText(bucketHint)
		return t
	}
	t, _ := bucketFromText(ownership)
	return t
}

func bucketFromText(raw string) (internal.CompanyType, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return internal.CompanyPrivate, false
	}
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "companies", " ")
	s = strings.Join(strings.Fields(s), " ")

	switch {
	case strings.Contains(s, "public"):
		return internal.CompanyPublic, true
	case strings.Contains(s, "private equity"), strings.Contains(s, "privateequity"), hasWord(s, "pe"):
		return internal.CompanyPEOwned, true
	case strings.Contains(s, "venture"), hasWord(s, "vc"):
		return internal.CompanyVCBacked, true
	}
	return internal.CompanyPrivate, false
}

func hasWord(s, word string) bool {
	for _, f := range strings.Fields(s) {
		if f == word {
			return true
		}
	}
	return false
}

// OwnershipLabel is the human-readable ownership text: the trimmed
// upstream value when present, else the canonical label for the bucket.
func OwnershipLabel(ownership string, t internal.CompanyType) string {
	if s := strings.TrimSpace(ownership); s != "" {
		return s
	}
	switch t {
	case internal.CompanyPublic:
		return "Public"
	case internal.CompanyPEOwned:
		return "Private Equity Owned"
	case internal.CompanyVCBacked:
		return "Venture Capital Backed"
	}
	return "Private"
}

// GroupByType buckets companies for the market-map view. Order within a
// bucket follows input order.
func GroupByType(companies []internal.Company) map[internal.CompanyType][]internal.Company {
	out := make(map[internal.CompanyType][]internal.Company, 4)
	for _, c := range companies {
		t := c.Type
		if t == "" {
			t = internal.CompanyPrivate
		}
		out[t] = append(out[t], c)
	}
	return out
}
