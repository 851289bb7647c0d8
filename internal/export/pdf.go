package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf/v2"

	"github.com/christopherklint97/pontaj/internal/format"
	"github.com/christopherklint97/pontaj/internal/records"
	"github.com/christopherklint97/pontaj/internal/report"
)

const (
	pdfTitle      = "Raport pontaj"
	pdfNoActivity = "Nicio activitate pentru perioada selectată."
)

// writePDF lays the text rendering out in Courier, one report line per PDF
// line. Core fonts only cover cp1252, so diacritics are folded first.
func writePDF(w io.Writer, rep report.Report, opts Options) error {
	text := format.Text(rep, opts.Text)
	if text == "" {
		text = pdfNoActivity
	}

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(40, 40, 40)
	pdf.SetAutoPageBreak(true, 40)
	pdf.SetTitle(pdfTitle, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Courier", "", 16)
	pdf.CellFormat(0, 24, pdfTitle, "", 1, "L", false, 0, "")

	pdf.SetFont("Courier", "", 11)
	for _, line := range strings.Split(text, "\n") {
		pdf.CellFormat(0, 15, tr(records.Fold(line)), "", 1, "L", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to generate PDF: %w", err)
	}
	return nil
}
