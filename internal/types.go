package internal

// CompanyType is the ownership taxonomy used for market-map grouping.
// Every normalized company carries exactly one of these.
type CompanyType string

const (
	CompanyPublic   CompanyType = "public"
	CompanyPEOwned  CompanyType = "private_equity_owned"
	CompanyVCBacked CompanyType = "venture_capital_backed"
	CompanyPrivate  CompanyType = "private"
)

// Transaction is a normalized deal row. Zero values mark fields the
// upstream record did not carry; at least one of Buyer/Target is non-empty.
type Transaction struct {
	Date            string
	Buyer           string
	Seller          string
	Target          string
	Value           string
	Type            string
	TargetLogoSrc   string
	EventID         int
	TargetCompanyID int
}

// RankedEntity is one row of a ranked listing (strategic acquirers,
// active investors). Name is always non-empty.
type RankedEntity struct {
	Name             string
	DealCount        int
	CompanyID        int
	MostRecentTarget string
	ClosedDate       string
	LogoSrc          string
}

type Company struct {
	ID               int
	Name             string
	LogoSrc          string
	PrimarySectors   []string
	SecondarySectors []string
	OwnershipText    string
	Type             CompanyType
	IsInvestor       bool
	LinkedinMembers  int
	Country          string
	Description      string
	Investors        []string
}

// Individual is a person attached to an event party; LinkHref is empty
// when the row renders as plain text.
type Individual struct {
	ID       int
	Name     string
	LinkHref string
}

// EventParty is a counterparty or advisor row of a corporate event.
type EventParty struct {
	ID          int
	Name        string
	Role        string
	LogoSrc     string
	LinkHref    string
	Individuals []Individual
}

type Insight struct {
	ArticleID int
	Title     string
	Date      string
	Source    string
}

// SectorSnapshot aggregates one refresh of every sector-page widget.
// A widget whose fetch failed is simply empty.
type SectorSnapshot struct {
	ID           int64
	SectorID     int
	Transactions []Transaction
	Acquirers    []RankedEntity
	Investors    []RankedEntity
	Companies    []Company
	MarketMap    map[CompanyType][]Company
	Insights     []Insight
	FetchedAt    string
}

type EventSnapshot struct {
	ID              int64
	EventID         int
	Counterparties  []EventParty
	Advisors        []EventParty
	Insights        []Insight
	RelatedInsights []Insight
	FetchedAt       string
}
