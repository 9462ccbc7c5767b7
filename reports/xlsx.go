package reports

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Sheet names in the exported workbook, in order.
const (
	SheetSummary     = "Summary"
	SheetByDay       = "Production by day"
	SheetCostRecipe  = "Cost by recipe"
	SheetByProduct   = "Production by product"
	SheetConsumption = "Input consumption"
)

// WriteXLSX writes r as a workbook with one sheet per grouping.
func WriteXLSX(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	sheets := []struct {
		name string
		rows [][]interface{}
	}{
		{SheetSummary, [][]interface{}{
			{"Window", string(r.Window)},
			{"From", r.Start.Format("2006-01-02 15:04")},
			{"To", r.End.Format("2006-01-02 15:04")},
			{"Batches", r.Summary.Batches},
			{"Completed batches", r.Summary.CompletedBatches},
			{"Total cost", r.Summary.TotalCost.InexactFloat64()},
		}},
		{SheetByDay, dayRows(r.ProductionByDay)},
		{SheetCostRecipe, costRows(r.CostByRecipe)},
		{SheetByProduct, productRows(r.ProductionByProduct)},
		{SheetConsumption, consumptionRows(r.ConsumptionByInput)},
	}

	for _, sheet := range sheets {
		if sheet.name != SheetSummary {
			if _, err := f.NewSheet(sheet.name); err != nil {
				return fmt.Errorf("create sheet %q: %w", sheet.name, err)
			}
		}
		if err := writeRows(f, sheet.name, sheet.rows); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("sheet %q row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func dayRows(days []DayProduction) [][]interface{} {
	rows := [][]interface{}{{"Day", "Quantity"}}
	for _, d := range days {
		rows = append(rows, []interface{}{d.Day, d.Quantity.InexactFloat64()})
	}
	return rows
}

func costRows(costs []RecipeCost) [][]interface{} {
	rows := [][]interface{}{{"Recipe", "Batches", "Cost"}}
	for _, c := range costs {
		rows = append(rows, []interface{}{c.Name, c.Batches, c.Cost.InexactFloat64()})
	}
	return rows
}

func productRows(products []ProductProduction) [][]interface{} {
	rows := [][]interface{}{{"Product", "Unit", "Quantity", "Batches"}}
	for _, p := range products {
		rows = append(rows, []interface{}{p.Name, p.Unit, p.Quantity.InexactFloat64(), p.Batches})
	}
	return rows
}

func consumptionRows(inputs []InputConsumption) [][]interface{} {
	rows := [][]interface{}{{"Input", "Unit", "Quantity"}}
	for _, c := range inputs {
		rows = append(rows, []interface{}{c.Name, c.Unit, c.Quantity.InexactFloat64()})
	}
	return rows
}
