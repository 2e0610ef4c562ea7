package normalize

import (
	"strconv"
	"strings"

	"sectorscope/internal"
)

// Route prefixes for the dashboard's profile pages.
const (
	investorRoutePrefix   = "/investors/"
	companyRoutePrefix    = "/company/"
	individualRoutePrefix = "/individuals/"
)

var (
	partyNameKeys = []string{"counterparty_name", "name", "company_name", "advisor_name"}
	partyIDKeys   = []string{"counterparty_id", "company_id", "new_company_id", "id"}
	partyLogoKeys = []string{"linkedin_logo", "logo"}
	partyRoleKeys = []string{"counterparty_status", "advisor_role", "role"}
	// Upstream renamed this nested field between API versions; both the
	// underscore-prefixed and bare spellings are still live.
	partyTypeContainerKeys = []string{"_counterpartys_type", "counterpartys_type", "_counterparty_type", "counterparty_type"}
)

// AdaptEventParties normalizes counterparty and advisor rows of a
// corporate event. Name is required; everything else degrades to empty.
func AdaptEventParties(raw any) []internal.EventParty {
	rows := ExtractArray(raw)
	out := make([]internal.EventParty, 0, len(rows))
	for _, row := range rows {
		rec, ok := RecordOf(row)
		if !ok {
			continue
		}
		if party, ok := adaptEventParty(rec); ok {
			out = append(out, party)
		}
	}
	return out
}

func adaptEventParty(rec map[string]any) (internal.EventParty, bool) {
	name := strings.TrimSpace(ResolveString(rec, partyNameKeys...))
	if name == "" {
		return internal.EventParty{}, false
	}

	id := ResolveInt(rec, partyIDKeys...)
	return internal.EventParty{
		ID:          id,
		Name:        name,
		Role:        partyRole(rec),
		LogoSrc:     BuildImageSrc(ResolveString(rec, partyLogoKeys...)),
		LinkHref:    RouteEntityLink(rec, id),
		Individuals: adaptIndividuals(rec),
	}, true
}

// partyRole digs the role text out of the nested counterparty-type
// object, trying each container spelling before falling back to a flat
// role field on the record itself.
func partyRole(rec map[string]any) string {
	for _, key := range partyTypeContainerKeys {
		if nested, ok := rec[key].(map[string]any); ok {
			if role := strings.TrimSpace(ResolveString(nested, "counterparty_status", "status", "name")); role != "" {
				return role
			}
		}
	}
	return strings.TrimSpace(ResolveString(rec, partyRoleKeys...))
}

// RouteEntityLink decides where an entity row links, if anywhere:
// investors win (explicit investor-profile id when positive, else the
// entity id), data-analytics companies link to the company page, an
// explicit profile URL is taken as-is with the legacy /investor/ segment
// normalized, and everything else renders as plain text.
func RouteEntityLink(rec map[string]any, entityID int) string {
	if boolFlag(rec, "is_that_investor", "is_investor") {
		id := ResolveInt(rec, "investor_profile_id", "investors_id")
		if id <= 0 {
			id = entityID
		}
		if id > 0 {
			return investorRoutePrefix + strconv.Itoa(id)
		}
		return ""
	}

	if boolFlag(rec, "is_data_analytics_company", "is_data_analytic_company") {
		if entityID > 0 {
			return companyRoutePrefix + strconv.Itoa(entityID)
		}
		return ""
	}

	if href := strings.TrimSpace(ResolveString(rec, "profile_url", "url", "link")); href != "" {
		return strings.ReplaceAll(href, "/investor/", "/investors/")
	}
	return ""
}

func adaptIndividuals(rec map[string]any) []internal.Individual {
	v, ok := ResolveValue(rec, "individuals", "_individuals", "people")
	if !ok {
		return nil
	}

	var out []internal.Individual
	for _, row := range ExtractArray(v) {
		p, ok := RecordOf(row)
		if !ok {
			continue
		}
		name := strings.TrimSpace(ResolveString(p, "name", "individual_name", "full_name"))
		if name == "" {
			continue
		}
		ind := internal.Individual{Name: name}
		if f, ok := ResolveNumber(p, "individuals_id", "individual_id"); ok && f > 0 {
			ind.ID = int(f)
			ind.LinkHref = individualRoutePrefix + strconv.Itoa(ind.ID)
		}
		out = append(out, ind)
	}
	return out
}
