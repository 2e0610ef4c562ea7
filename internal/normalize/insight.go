package normalize

import (
	"strings"

	"sectorscope/internal"
)

var (
	insightIDKeys     = []string{"article_id", "id"}
	insightTitleKeys  = []string{"title", "headline", "name"}
	insightDateKeys   = []string{"date", "published_at", "created_at"}
	insightSourceKeys = []string{"source", "publication"}
)

// AdaptInsights normalizes article rows. A row with neither an article id
// nor a title has no identity and is dropped.
func AdaptInsights(raw any) []internal.Insight {
	rows := ExtractArray(raw)
	out := make([]internal.Insight, 0, len(rows))
	for _, row := range rows {
		rec, ok := RecordOf(row)
		if !ok {
			continue
		}
		ins := internal.Insight{
			ArticleID: ResolveInt(rec, insightIDKeys...),
			Title:     strings.TrimSpace(ResolveString(rec, insightTitleKeys...)),
			Date:      strings.TrimSpace(ResolveString(rec, insightDateKeys...)),
			Source:    strings.TrimSpace(ResolveString(rec, insightSourceKeys...)),
		}
		if ins.ArticleID == 0 && ins.Title == "" {
			continue
		}
		out = append(out, ins)
	}
	return out
}
