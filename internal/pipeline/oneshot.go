package pipeline

import (
	"encoding/json"
	"fmt"
	"os"

	"sectorscope/internal/normalize"
)

// NormalizeFile runs one adapter over a raw JSON payload on disk and
// returns the normalized records. Handy for replaying captured API
// responses without touching the network or the store.
func NormalizeFile(kind string, path string) (any, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw any
	if err := json.Unmarshal(blob, &raw); err != nil {
		return nil, fmt.Errorf("input not json: %w", err)
	}

	switch kind {
	case "transactions":
		return normalize.AdaptTransactions(raw), nil
	case "acquirers", "investors":
		return normalize.AdaptRankedEntities(raw), nil
	case "companies":
		return normalize.AdaptSectorCompanies(raw), nil
	case "market-map":
		return normalize.GroupByType(normalize.AdaptMarketMap(raw)), nil
	case "parties":
		return normalize.AdaptEventParties(raw), nil
	case "insights":
		return normalize.AdaptInsights(raw), nil
	default:
		return nil, fmt.Errorf("unsupported kind: %s", kind)
	}
}
