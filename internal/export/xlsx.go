// Package export serializes quote results to interchange formats.
package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/tileit-labs/quote-cli/internal/pricing"
)

// xlsxHeaders is the column order for quote workbooks.
var xlsxHeaders = []string{
	"Address", "Material", "Pitch", "Roof Area (sqft)", "Crew Size",
	"Region Multiplier", "Material Cost", "Labor Cost", "Repair Cost",
	"Subtotal", "Overhead", "Profit", "Total", "Quote Range",
}

// WriteXLSX writes quotes to an XLSX workbook at path, one row per quote
// in input order.
func WriteXLSX(path string, quotes []pricing.QuoteResult) error {
	wb := xlsx.NewFile()
	sheet, err := wb.AddSheet("Quotes")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range xlsxHeaders {
		header.AddCell().SetString(h)
	}

	for _, q := range quotes {
		row := sheet.AddRow()
		row.AddCell().SetString(q.Address)
		row.AddCell().SetString(q.RoofMaterial)
		row.AddCell().SetFloat(q.Pitch)
		row.AddCell().SetFloat(q.RoofArea)
		row.AddCell().SetInt(q.CrewSizeUsed)
		row.AddCell().SetFloat(q.RegionMultiplier)
		row.AddCell().SetFloat(q.MaterialCost)
		row.AddCell().SetFloat(q.LaborCost)
		row.AddCell().SetFloat(q.RepairCost)
		row.AddCell().SetFloat(q.Subtotal)
		row.AddCell().SetFloat(q.Overhead)
		row.AddCell().SetFloat(q.Profit)
		row.AddCell().SetFloat(q.Total)
		row.AddCell().SetString(q.QuoteRange)
	}

	if err := wb.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}
