package normalize

import (
	"strings"

	"sectorscope/internal"
)

var (
	rankedNameKeys  = []string{"name", "company", "investor", "acquirer", "company_name", "investor_name"}
	rankedCountKeys = []string{"deals_5y", "count", "deals", "deal_count", "total_deals"}
	rankedIDKeys    = []string{"acquirer_company_id", "original_new_company_id", "company_id", "investor_company_id"}
	// The backend still emits the misspelled key on older sector
	// endpoints; keep it alongside the fixed spelling.
	rankedTargetKeys = []string{"most_recent_target", "recent_transactions", "resent_trasnactions", "latest_target"}
	rankedDateKeys   = []string{"closed_date", "most_recent_date", "date"}
	rankedLogoKeys   = []string{"linkedin_logo", "logo"}
)

// AdaptRankedEntities normalizes ranked listings such as strategic
// acquirers and active investors. Name is required; deal count defaults
// to zero when unresolvable.
func AdaptRankedEntities(raw any) []internal.RankedEntity {
	rows := ExtractArray(raw)
	out := make([]internal.RankedEntity, 0, len(rows))
	for _, row := range rows {
		rec, ok := RecordOf(row)
		if !ok {
			continue
		}
		if entity, ok := adaptRankedEntity(rec); ok {
			out = append(out, entity)
		}
	}
	return out
}

func adaptRankedEntity(rec map[string]any) (internal.RankedEntity, bool) {
	name := strings.TrimSpace(ResolveString(rec, rankedNameKeys...))
	if name == "" {
		return internal.RankedEntity{}, false
	}

	count := 0
	if f, ok := ResolveNumber(rec, rankedCountKeys...); ok {
		count = int(f)
	}

	return internal.RankedEntity{
		Name:             name,
		DealCount:        count,
		CompanyID:        ResolveInt(rec, rankedIDKeys...),
		MostRecentTarget: strings.TrimSpace(ResolveString(rec, rankedTargetKeys...)),
		ClosedDate:       strings.TrimSpace(ResolveString(rec, rankedDateKeys...)),
		LogoSrc:          BuildImageSrc(ResolveString(rec, rankedLogoKeys...)),
	}, true
}
