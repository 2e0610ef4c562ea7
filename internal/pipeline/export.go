package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"sectorscope/internal"
	"sectorscope/internal/normalize"
)

// ExportSectorSnapshotXLSX writes one workbook per snapshot: a sheet per
// dashboard widget, market-map companies folded into the Companies sheet
// with their bucket label.
func ExportSectorSnapshotXLSX(snap *internal.SectorSnapshot, outputPath string) error {
	f := excelize.NewFile()

	writeCompaniesSheet(f, f.GetSheetName(0), snap)
	writeTransactionsSheet(f, snap.Transactions)
	writeRankedSheet(f, "Acquirers", snap.Acquirers)
	writeRankedSheet(f, "Investors", snap.Investors)
	writeInsightsSheet(f, snap.Insights)

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func writeCompaniesSheet(f *excelize.File, sheet string, snap *internal.SectorSnapshot) {
	_ = f.SetSheetName(sheet, "Companies")
	sheet = "Companies"

	headers := []string{
		"company_id", "name", "bucket", "ownership", "primary_sectors",
		"secondary_sectors", "investors", "linkedin_members", "country",
		"is_investor", "description",
	}
	writeHeaders(f, sheet, headers)

	r := 2
	row := func(c internal.Company) {
		set := cellSetter(f, sheet, r)
		set(1, c.ID)
		set(2, c.Name)
		set(3, normalize.OwnershipLabel(c.OwnershipText, c.Type))
		set(4, c.OwnershipText)
		set(5, strings.Join(c.PrimarySectors, ", "))
		set(6, strings.Join(c.SecondarySectors, ", "))
		set(7, strings.Join(c.Investors, ", "))
		set(8, c.LinkedinMembers)
		set(9, c.Country)
		set(10, c.IsInvestor)
		set(11, c.Description)
		r++
	}

	for _, c := range snap.Companies {
		row(c)
	}
	for _, bucket := range []internal.CompanyType{
		internal.CompanyPublic,
		internal.CompanyPEOwned,
		internal.CompanyVCBacked,
		internal.CompanyPrivate,
	} {
		for _, c := range snap.MarketMap[bucket] {
			row(c)
		}
	}
}

func writeTransactionsSheet(f *excelize.File, txs []internal.Transaction) {
	const sheet = "Transactions"
	_, _ = f.NewSheet(sheet)

	writeHeaders(f, sheet, []string{
		"date", "buyer", "seller", "target", "value", "type", "event_id", "target_company_id",
	})
	for i, t := range txs {
		set := cellSetter(f, sheet, i+2)
		set(1, t.Date)
		set(2, t.Buyer)
		set(3, t.Seller)
		set(4, t.Target)
		set(5, t.Value)
		set(6, t.Type)
		set(7, t.EventID)
		set(8, t.TargetCompanyID)
	}
}

func writeRankedSheet(f *excelize.File, sheet string, entities []internal.RankedEntity) {
	_, _ = f.NewSheet(sheet)

	writeHeaders(f, sheet, []string{
		"name", "deal_count", "company_id", "most_recent_target", "closed_date",
	})
	for i, e := range entities {
		set := cellSetter(f, sheet, i+2)
		set(1, e.Name)
		set(2, e.DealCount)
		set(3, e.CompanyID)
		set(4, e.MostRecentTarget)
		set(5, e.ClosedDate)
	}
}

func writeInsightsSheet(f *excelize.File, insights []internal.Insight) {
	const sheet = "Insights"
	_, _ = f.NewSheet(sheet)

	writeHeaders(f, sheet, []string{"article_id", "title", "date", "source"})
	for i, ins := range insights {
		set := cellSetter(f, sheet, i+2)
		set(1, ins.ArticleID)
		set(2, ins.Title)
		set(3, ins.Date)
		set(4, ins.Source)
	}
}

func writeHeaders(f *excelize.File, sheet string, headers []string) {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
}

func cellSetter(f *excelize.File, sheet string, row int) func(col int, value any) {
	return func(col int, value any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, value)
	}
}
