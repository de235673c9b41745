package report

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"example.com/disgate/internal/common"
	"example.com/disgate/internal/lint"
)

const maxPDFFindings = 200

// SaveAcceptancePDF renders the acceptance report for the summarised capture
// into a PDF document.
func SaveAcceptancePDF(rep lint.AcceptanceReport, summary CaptureSummary, out string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("DIS Capture Acceptance Report", false)
	pdf.SetAuthor("disctl", false)
	pdf.SetCreator("disctl", false)
	pdf.SetMargins(15, 20, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	addPDFTitle(pdf, "DIS Capture Acceptance Report")
	if err := addCaptureSection(pdf, tr, summary); err != nil {
		return err
	}
	addSummarySection(pdf, rep)
	addGateMatrixSection(pdf, rep.GateMatrix)
	addHistogramSection(pdf, tr, summary.Histogram())
	addFindingsSection(pdf, tr, rep.Findings)

	if pdf.Err() {
		return pdf.Error()
	}
	return pdf.OutputFileAndClose(out)
}

func addPDFTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, title)
	pdf.Ln(12)
}

func addSectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(9)
}

// addCaptureSection lists the capture facts next to a QR code of its digest.
func addCaptureSection(pdf *gofpdf.Fpdf, tr func(string) string, s CaptureSummary) error {
	addSectionTitle(pdf, "Capture")
	top := pdf.GetY()
	if s.SHA256 != "" {
		png, err := DigestToQR(s.SHA256, 256)
		if err != nil {
			return err
		}
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("digest-qr", opts, bytes.NewReader(png))
		_, _, right, _ := pdf.GetMargins()
		pageW, _ := pdf.GetPageSize()
		pdf.ImageOptions("digest-qr", pageW-right-32, top, 32, 32, false, opts, 0, "")
	}

	pdf.SetFont("Helvetica", "", 10)
	items := []struct {
		label string
		value string
	}{
		{"File", emptyFallback(s.File, "-")},
		{"SHA-256", emptyFallback(s.SHA256, "-")},
		{"Size", common.FormatBytes(s.Size)},
		{"PDUs", strconv.Itoa(s.PDUs)},
		{"Resyncs", strconv.Itoa(s.Resyncs)},
	}
	for _, item := range items {
		pdf.CellFormat(30, 6, item.label, "", 0, "L", false, 0, "")
		pdf.MultiCell(110, 6, tr(item.value), "", "L", false)
	}
	if y := top + 34; pdf.GetY() < y && s.SHA256 != "" {
		pdf.SetY(y)
	}
	pdf.Ln(4)
	return nil
}

func addSummarySection(pdf *gofpdf.Fpdf, rep lint.AcceptanceReport) {
	addSectionTitle(pdf, "Summary")

	pdf.SetFont("Helvetica", "", 11)
	items := []struct {
		label string
		value string
	}{
		{label: "Total Findings", value: strconv.Itoa(rep.Summary.Total)},
		{label: "Errors", value: strconv.Itoa(rep.Summary.Errors)},
		{label: "Warnings", value: strconv.Itoa(rep.Summary.Warnings)},
		{label: "Overall", value: passLabel(rep.Summary.Pass)},
	}
	for _, item := range items {
		pdf.CellFormat(50, 6, item.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, item.value, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func addGateMatrixSection(pdf *gofpdf.Fpdf, rows []lint.GateResult) {
	addSectionTitle(pdf, "Gate Matrix")

	headers := []string{"Rule", "Name", "Severity", "Pass", "Findings", "Fixed"}
	widths := []float64{34, 64, 24, 18, 20, 20}

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range rows {
		values := []string{
			row.RuleId,
			emptyFallback(row.Name, "-"),
			severityLabel(row.Severity),
			passLabel(row.Pass),
			strconv.Itoa(row.Findings),
			strconv.Itoa(row.Fixed),
		}
		renderTableRow(pdf, widths, values, 5)
	}
	pdf.Ln(4)
}

// addHistogramSection draws one horizontal bar per PDU type.
func addHistogramSection(pdf *gofpdf.Fpdf, tr func(string) string, bars []TypeCount) {
	addSectionTitle(pdf, "PDU Types")
	if len(bars) == 0 {
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, "No PDUs indexed.", "", "L", false)
		pdf.Ln(2)
		return
	}
	const labelW, barMaxW, barH = 60.0, 100.0, 5.0
	peak := bars[0].Count
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetFillColor(70, 110, 160)
	for _, b := range bars {
		x, y := pdf.GetX(), pdf.GetY()
		pdf.CellFormat(labelW, barH, tr(b.Type), "", 0, "L", false, 0, "")
		w := barMaxW * float64(b.Count) / float64(peak)
		if w < 0.5 {
			w = 0.5
		}
		pdf.Rect(x+labelW, y+0.75, w, barH-1.5, "F")
		pdf.SetXY(x+labelW+w+2, y)
		pdf.CellFormat(20, barH, strconv.Itoa(b.Count), "", 1, "L", false, 0, "")
		pdf.SetX(x)
	}
	pdf.Ln(4)
}

func addFindingsSection(pdf *gofpdf.Fpdf, tr func(string) string, findings []lint.Diagnostic) {
	addSectionTitle(pdf, "Findings")

	var shown []lint.Diagnostic
	for _, d := range findings {
		if d.Severity == lint.INFO && !d.FixSuggested {
			continue
		}
		shown = append(shown, d)
	}
	if len(shown) == 0 {
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, "No findings recorded.", "", "L", false)
		return
	}

	for i, d := range shown {
		if i == maxPDFFindings {
			pdf.SetFont("Helvetica", "I", 10)
			pdf.MultiCell(0, 5, fmt.Sprintf("%d more findings omitted; see the JSON report.", len(shown)-i), "", "L", false)
			break
		}
		pdf.SetFont("Helvetica", "B", 10)
		header := fmt.Sprintf("%d. %s (%s)", i+1, d.RuleId, severityLabel(d.Severity))
		if d.FixApplied {
			header += " - fixed"
		}
		pdf.MultiCell(0, 5, header, "", "L", false)

		if msg := strings.TrimSpace(d.Message); msg != "" {
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr(msg), "", "L", false)
		}

		if meta := findingMetadata(d); meta != "" {
			pdf.SetFont("Helvetica", "", 9)
			pdf.MultiCell(0, 4, tr(meta), "", "L", false)
		}

		if len(d.Refs) > 0 {
			pdf.SetFont("Helvetica", "", 9)
			pdf.MultiCell(0, 4, "Refs: "+strings.Join(d.Refs, ", "), "", "L", false)
		}

		pdf.Ln(2)
	}
}

func renderTableRow(pdf *gofpdf.Fpdf, widths []float64, values []string, lineHeight float64) {
	xStart := pdf.GetX()
	yStart := pdf.GetY()
	maxLines := 1
	splitCols := make([][]string, len(values))
	for i, val := range values {
		text := strings.TrimSpace(val)
		if text == "" {
			text = "-"
		}
		lines := pdf.SplitText(text, widths[i]-2)
		if len(lines) == 0 {
			lines = []string{""}
		}
		splitCols[i] = lines
		if len(lines) > maxLines {
			maxLines = len(lines)
		}
	}
	rowHeight := float64(maxLines) * lineHeight
	x := xStart
	for i, lines := range splitCols {
		pdf.SetXY(x, yStart)
		pdf.MultiCell(widths[i], lineHeight, strings.Join(lines, "\n"), "1", "L", false)
		x += widths[i]
	}
	pdf.SetXY(xStart, yStart+rowHeight)
}

func passLabel(pass bool) string {
	if pass {
		return "PASS"
	}
	return "FAIL"
}

func severityLabel(sev lint.Severity) string {
	if s := strings.TrimSpace(string(sev)); s != "" {
		return s
	}
	return "UNKNOWN"
}

func emptyFallback(val, fallback string) string {
	if strings.TrimSpace(val) == "" {
		return fallback
	}
	return val
}

func findingMetadata(d lint.Diagnostic) string {
	parts := make([]string, 0, 6)
	if !d.Ts.IsZero() {
		parts = append(parts, d.Ts.Format(time.RFC3339))
	}
	if d.File != "" {
		parts = append(parts, d.File)
	}
	if d.PDUIndex != nil {
		parts = append(parts, fmt.Sprintf("PDU %d", *d.PDUIndex))
	}
	if d.PDUType != "" {
		parts = append(parts, d.PDUType)
	}
	if d.Offset != "" {
		parts = append(parts, "Offset "+d.Offset)
	}
	if d.TimestampRaw != nil {
		parts = append(parts, formatTimestamp(*d.TimestampRaw))
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, " · ")
}

// formatTimestamp renders a DIS timestamp. The upper 31 bits count units of
// 3600/2^31 seconds past the hour; the low bit marks absolute time.
func formatTimestamp(ts uint32) string {
	secs := float64(ts>>1) * 3600 / float64(1<<31)
	kind := "relative"
	if ts&1 == 1 {
		kind = "absolute"
	}
	return fmt.Sprintf("Timestamp %.6fs past hour (%s)", secs, kind)
}
