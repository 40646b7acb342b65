package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/matte1240/app-mezzi/internal/model"
)

type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

// Generate renders the printable vehicle sheet: registry data, the resolved
// mileage and service status, and the most recent timeline entries.
func (g *Generator) Generate(sheet model.VehicleSheet) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, tr(fmt.Sprintf("Scheda veicolo %s", sheet.Vehicle.Plate)), "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Generata il %s", formatDate(sheet.GeneratedAt))), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, tr("Dati veicolo"), "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)
	addField(pdf, tr, "Nome", sheet.Vehicle.Name)
	addField(pdf, tr, "Tipo", sheet.Vehicle.Type)
	addField(pdf, tr, "Stato", string(sheet.Vehicle.Status))
	addField(pdf, tr, "Proprietà", ownershipLabel(sheet.Vehicle.OwnershipType))
	addField(pdf, tr, "Immatricolazione", formatDatePtr(sheet.Vehicle.RegistrationDate))
	addField(pdf, tr, "Intervallo tagliando", fmt.Sprintf("%d km", sheet.Vehicle.ServiceIntervalKm))
	addField(pdf, tr, "Note", safeValue(strValue(sheet.Vehicle.Notes)))
	pdf.Ln(2)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, tr("Chilometraggio e scadenze"), "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)
	addField(pdf, tr, "Ultimo km noto", fmt.Sprintf("%d km (%s)", sheet.LastKnown.Km, formatDate(sheet.LastKnown.AsOf)))
	addField(pdf, tr, "Prossimo tagliando", fmt.Sprintf("%d km", sheet.Status.NextServiceKm))
	addField(pdf, tr, "Km al tagliando", fmt.Sprintf("%d km (%s)", sheet.Status.KmToService, bandLabel(sheet.Status.Band)))
	addField(pdf, tr, "Prossima revisione", formatDatePtr(sheet.Status.NextRevisionDate))
	if sheet.Vehicle.CurrentAnomaly != nil {
		pdf.SetTextColor(200, 0, 0)
		pdf.MultiCell(0, 5, tr(fmt.Sprintf("Anomalia aperta: %s", *sheet.Vehicle.CurrentAnomaly)), "", "L", false)
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.Ln(2)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, tr("Ultimi eventi"), "", 1, "L", false, 0, "")

	headers := []string{"Data", "Tipo", "Km", "Utente", "Dettagli"}
	colWidths := []float64{24, 32, 20, 34, 70}
	drawTableRow(pdf, g.fontName, tr, headers, colWidths, true)
	for _, entry := range sheet.History {
		row := []string{
			formatDate(entry.Date),
			kindLabel(entry.Kind),
			fmt.Sprintf("%d", entry.Mileage),
			safeValue(strValue(entry.UserName)),
			entry.Description,
		}
		drawTableRow(pdf, g.fontName, tr, row, colWidths, false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addField(pdf *gofpdf.Fpdf, tr func(string) string, label, value string) {
	pdf.CellFormat(50, 6, tr(label), "", 0, "L", false, 0, "")
	pdf.MultiCell(0, 6, tr(value), "", "L", false)
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, tr func(string) string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 9)
	for i, col := range cols {
		align := "L"
		if i == 2 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 7, tr(col), "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func kindLabel(kind model.HistoryEntryKind) string {
	switch kind {
	case model.HistoryTripLog:
		return "Utilizzo"
	case model.HistoryRefuel:
		return "Rifornimento"
	case model.HistoryMaintenance:
		return "Manutenzione"
	case model.HistoryMileageCheck:
		return "Controllo km"
	default:
		return string(kind)
	}
}

func bandLabel(band model.ServiceBand) string {
	switch band {
	case model.ServiceOverdue:
		return "scaduto"
	case model.ServiceDueSoon:
		return "in scadenza"
	default:
		return "regolare"
	}
}

func ownershipLabel(ownership model.OwnershipType) string {
	if ownership == model.OwnershipRental {
		return "Noleggio"
	}
	return "Di proprietà"
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "—"
	}
	return value
}

func strValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("02/01/2006")
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return formatDate(*t)
}
