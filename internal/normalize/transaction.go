package normalize

import (
	"strings"

	"sectorscope/internal"
)

// Candidate key lists mirror the field names the backend has shipped
// across API versions; order encodes precedence.
var (
	transactionDateKeys   = []string{"deal_date", "date", "announcement_date", "closed_date", "completion_date"}
	transactionBuyerKeys  = []string{"buyer_name", "acquirer", "buyer_investor", "buyer", "investor_name"}
	transactionSellerKeys = []string{"seller_name", "seller", "vendor"}
	transactionTargetKeys = []string{"target_name", "company", "asset", "target", "company_name"}
	transactionValueKeys  = []string{"investment_amount_m", "deal_value", "value", "amount"}
	transactionTypeKeys   = []string{"deal_type", "transaction_type", "type"}
	transactionLogoKeys   = []string{"target_logo", "linkedin_logo", "company_logo", "logo"}
	targetCompanyIDKeys   = []string{"target_company_id", "company_id", "original_new_company_id"}
	eventIDKeys           = []string{"corporate_event_id", "event_id", "id"}
)

// AdaptTransactions normalizes a raw deal collection. A row survives as
// long as either side of the deal resolved; rows with neither buyer nor
// target are dropped.
func AdaptTransactions(raw any) []internal.Transaction {
	rows := ExtractArray(raw)
	out := make([]internal.Transaction, 0, len(rows))
	for _, row := range rows {
		rec, ok := RecordOf(row)
		if !ok {
			continue
		}
		if tx, ok := adaptTransaction(rec); ok {
			out = append(out, tx)
		}
	}
	return out
}

func adaptTransaction(rec map[string]any) (internal.Transaction, bool) {
	buyer := CleanBracedList(strings.TrimSpace(ResolveString(rec, transactionBuyerKeys...)))
	target := strings.TrimSpace(ResolveString(rec, transactionTargetKeys...))
	if buyer == "" && target == "" {
		return internal.Transaction{}, false
	}

	return internal.Transaction{
		Date:            strings.TrimSpace(ResolveString(rec, transactionDateKeys...)),
		Buyer:           buyer,
		Seller:          CleanBracedList(strings.TrimSpace(ResolveString(rec, transactionSellerKeys...))),
		Target:          target,
		Value:           strings.TrimSpace(ResolveString(rec, transactionValueKeys...)),
		Type:            strings.TrimSpace(ResolveString(rec, transactionTypeKeys...)),
		TargetLogoSrc:   BuildImageSrc(ResolveString(rec, transactionLogoKeys...)),
		EventID:         ResolveInt(rec, eventIDKeys...),
		TargetCompanyID: ResolveInt(rec, targetCompanyIDKeys...),
	}, true
}
