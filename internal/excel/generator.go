package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/matte1240/app-mezzi/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders a fueling export for the given period: a summary block
// followed by one row per record, newest first.
func (g *Generator) Generate(records []model.FuelingRecord, from, to time.Time) ([]byte, error) {
	file := excelize.NewFile()

	sheet := "Rifornimenti"
	file.SetSheetName("Sheet1", sheet)

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	totalLiters := 0.0
	totalCost := 0.0
	for _, record := range records {
		totalLiters += record.Liters
		totalCost += record.Cost
	}

	set("A1", "Periodo dal")
	set("B1", formatDate(from))
	set("A2", "Periodo al")
	set("B2", formatDate(to))
	set("A3", "Numero rifornimenti")
	set("B3", len(records))
	set("A4", "Litri totali")
	set("B4", formatFloat(totalLiters))
	set("A5", "Costo totale, €")
	set("B5", formatFloat(totalCost))

	tableRow := 7
	headers := []string{
		"Data",
		"Targa",
		"Veicolo",
		"Litri",
		"Costo, €",
		"Km",
		"Note",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, tableRow)
		set(cell, header)
	}

	for i, record := range records {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), formatDate(record.Date))
		set(fmt.Sprintf("B%d", row), record.VehiclePlate)
		set(fmt.Sprintf("C%d", row), record.VehicleName)
		set(fmt.Sprintf("D%d", row), formatFloat(record.Liters))
		set(fmt.Sprintf("E%d", row), formatFloat(record.Cost))
		set(fmt.Sprintf("F%d", row), record.Mileage)
		set(fmt.Sprintf("G%d", row), formatString(record.Notes))
	}

	_ = file.SetColWidth(sheet, "A", "A", 14)
	_ = file.SetColWidth(sheet, "B", "B", 12)
	_ = file.SetColWidth(sheet, "C", "C", 28)
	_ = file.SetColWidth(sheet, "D", "F", 12)
	_ = file.SetColWidth(sheet, "G", "G", 36)

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

func formatString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func formatFloat(value float64) string {
	return fmt.Sprintf("%.2f", value)
}
