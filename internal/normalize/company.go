package normalize

import (
	"sort"
	"strings"

	"sectorscope/internal"
)

var (
	companyNameKeys        = []string{"name", "company_name", "company"}
	companyLogoKeys        = []string{"linkedin_logo", "logo", "company_logo"}
	companyCountryKeys     = []string{"country", "hq_country", "location"}
	companyOwnershipKeys   = []string{"ownership", "ownership_status", "ownership_type"}
	companyDescriptionKeys = []string{"description", "overview", "about"}
	// Both the employee- and member-named families are live upstream.
	linkedinMemberKeys = []string{
		"linkedin_members", "linkedin_members_count", "linkedin_members_latest",
		"linkedin_employee", "linkedin_employees", "linkedin_employee_count",
	}
	primarySectorKeys   = []string{"primary_sectors", "primary_sector"}
	secondarySectorKeys = []string{"secondary_sectors", "sectors", "secondary_sector"}
	bucketHintKeys      = []string{"bucket", "bucket_name", "category", "group", "type", "name"}
)

// AdaptMarketMap accepts the three container shapes the market-map
// endpoint has shipped over time: a map of bucket name to company array,
// an array of bucket-group objects with a nested company list, or a flat
// company array. An outer market_map wrapper is unwrapped first. Bucket
// names iterate in sorted order so output is deterministic.
func AdaptMarketMap(raw any) []internal.Company {
	if rec, ok := raw.(map[string]any); ok {
		if inner, ok := rec["market_map"]; ok {
			raw = inner
		}
	}

	switch v := raw.(type) {
	case []any:
		return adaptCompanyGroups(v)
	case map[string]any:
		if arr := ExtractArray(v); arr != nil {
			return adaptCompanyGroups(arr)
		}
		names := make([]string, 0, len(v))
		for name := range v {
			if _, ok := v[name].([]any); ok {
				names = append(names, name)
			}
		}
		sort.Strings(names)

		var out []internal.Company
		for _, name := range names {
			for _, row := range v[name].([]any) {
				rec, ok := RecordOf(row)
				if !ok {
					continue
				}
				if c, ok := adaptCompany(rec, name); ok {
					out = append(out, c)
				}
			}
		}
		return out
	}
	return nil
}

// adaptCompanyGroups handles both group-object arrays and flat company
// arrays; elements carrying a nested company list are treated as groups
// and contribute their label as the bucket hint.
func adaptCompanyGroups(rows []any) []internal.Company {
	var out []internal.Company
	for _, row := range rows {
		rec, ok := RecordOf(row)
		if !ok {
			continue
		}
		if nested := nestedCompanies(rec); nested != nil {
			hint := strings.TrimSpace(ResolveString(rec, bucketHintKeys...))
			for _, companyRow := range nested {
				companyRec, ok := RecordOf(companyRow)
				if !ok {
					continue
				}
				if c, ok := adaptCompany(companyRec, hint); ok {
					out = append(out, c)
				}
			}
			continue
		}
		if c, ok := adaptCompany(rec, ""); ok {
			out = append(out, c)
		}
	}
	return out
}

func nestedCompanies(rec map[string]any) []any {
	for _, key := range []string{"companies", "items"} {
		if arr, ok := rec[key].([]any); ok {
			return arr
		}
	}
	return nil
}

// AdaptSectorCompanies normalizes the sector-scoped company listing,
// which nests its rows under result1.items or returns a bare array. It
// prefers the sectors key for the secondary-sector list.
func AdaptSectorCompanies(raw any) []internal.Company {
	var out []internal.Company
	for _, row := range sectorCompanyRows(raw) {
		rec, ok := RecordOf(row)
		if !ok {
			continue
		}
		c, ok := adaptCompany(rec, "")
		if !ok {
			continue
		}
		if v, found := ResolveValue(rec, "sectors", "secondary_sectors"); found {
			c.SecondarySectors = stringList(v)
		}
		out = append(out, c)
	}
	return out
}

func sectorCompanyRows(raw any) []any {
	if rec, ok := raw.(map[string]any); ok {
		if inner, ok := rec["result1"]; ok {
			return ExtractArray(inner)
		}
	}
	return ExtractArray(raw)
}

func adaptCompany(rec map[string]any, bucketHint string) (internal.Company, bool) {
	name := strings.TrimSpace(ResolveString(rec, companyNameKeys...))
	if name == "" {
		return internal.Company{}, false
	}

	ownership := strings.TrimSpace(ResolveString(rec, companyOwnershipKeys...))
	companyType := ClassifyOwnership(bucketHint, ownership)

	var primary, secondary, investors []string
	if v, ok := ResolveValue(rec, primarySectorKeys...); ok {
		primary = stringList(v)
	}
	if v, ok := ResolveValue(rec, secondarySectorKeys...); ok {
		secondary = stringList(v)
	}
	if v, ok := ResolveValue(rec, "companies_investors", "investors"); ok {
		investors = stringList(v)
	}

	return internal.Company{
		ID:               companyID(rec),
		Name:             name,
		LogoSrc:          BuildImageSrc(ResolveString(rec, companyLogoKeys...)),
		PrimarySectors:   primary,
		SecondarySectors: secondary,
		OwnershipText:    OwnershipLabel(ownership, companyType),
		Type:             companyType,
		IsInvestor:       boolFlag(rec, "is_that_investor", "is_investor"),
		LinkedinMembers:  ResolveInt(rec, linkedinMemberKeys...),
		Country:          strings.TrimSpace(ResolveString(rec, companyCountryKeys...)),
		Description:      FlattenHTML(ResolveString(rec, companyDescriptionKeys...)),
		Investors:        investors,
	}, true
}

// companyID resolves the numeric identity: id (numeric or numeric
// string), then the legacy original_new_company_id, else 0.
func companyID(rec map[string]any) int {
	if f, ok := ResolveNumber(rec, "id"); ok {
		return int(f)
	}
	if f, ok := ResolveNumber(rec, "original_new_company_id", "company_id"); ok {
		return int(f)
	}
	return 0
}

// stringList coerces the ragged list shapes upstream uses for sector and
// investor fields: string arrays, object arrays with a name key, or a
// single braced-set string.
func stringList(v any) []string {
	var out []string
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			switch e := item.(type) {
			case string:
				if s := strings.TrimSpace(e); s != "" {
					out = append(out, s)
				}
			case map[string]any:
				if s := strings.TrimSpace(ResolveString(e, "name", "sector", "title")); s != "" {
					out = append(out, s)
				}
			}
		}
	case string:
		for _, part := range strings.Split(CleanBracedList(t), ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// boolFlag reads a boolean defensively: true only when one of the keys is
// actually present and boolean-typed.
func boolFlag(rec map[string]any, keys ...string) bool {
	v, ok := ResolveValue(rec, keys...)
	if !ok {
		return false
	}
	b, isBool := v.(bool)
	return isBool && b
}
