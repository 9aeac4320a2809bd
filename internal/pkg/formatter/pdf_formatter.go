package formatter

import (
	"bytes"
	"os"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfContentType   = "application/pdf"
	pdfFileExtension = ".pdf"

	// pdfFontName is the internal name used by gofpdf for the UTF-8
	// capable font covering Japanese glyphs.
	pdfFontName = "NotoSansJP"

	// Relative paths where the TTF font may live. In Docker runtime the
	// fonts are copied to /app/ttf, so for the compiled binary the path
	// is ./ttf/NotoSansJP-Regular.ttf.
	pdfFontRuntimePath = "ttf/NotoSansJP-Regular.ttf"

	// Source-relative path (useful when running from repo root with `go run`).
	pdfFontSourcePath = "internal/pkg/formatter/ttf/NotoSansJP-Regular.ttf"
)

type PDFFormatter struct{}

func NewPDFFormatter() *PDFFormatter {
	return &PDFFormatter{}
}

// resolveFontPath tries to find the Japanese-capable font in runtime
// layout (next to the binary) or source layout.
func resolveFontPath() string {
	if _, err := os.Stat(pdfFontRuntimePath); err == nil {
		return pdfFontRuntimePath
	}
	if _, err := os.Stat(pdfFontSourcePath); err == nil {
		return pdfFontSourcePath
	}
	return ""
}

func (mf *PDFFormatter) Format(t Transcript) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Without the bundled font Japanese text will not render; fall back
	// to Arial so exports of ASCII content still work.
	fontName := "Arial"
	if fontPath := resolveFontPath(); fontPath != "" {
		pdf.AddUTF8Font(pdfFontName, "", fontPath)
		pdf.AddUTF8Font(pdfFontName, "B", fontPath)
		fontName = pdfFontName
	}

	pdf.SetFont(fontName, "B", 20)
	pdf.Cell(0, 10, baseTitle)
	pdf.Ln(12)

	_, lineHeight := pdf.GetFontSize()

	if t.Question != "" {
		pdf.SetFont(fontName, "B", 14)
		pdf.Cell(0, 8, "質問")
		pdf.Ln(10)
		pdf.SetFont(fontName, "", 12)
		pdf.MultiCell(0, lineHeight*1.5, t.Question, "", "", false)
		pdf.Ln(6)
	}

	pdf.SetFont(fontName, "B", 14)
	pdf.Cell(0, 8, "回答")
	pdf.Ln(10)
	pdf.SetFont(fontName, "", 12)
	pdf.MultiCell(0, lineHeight*1.5, t.Answer, "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (mf *PDFFormatter) ContentType() string {
	return pdfContentType
}

func (mf *PDFFormatter) FileExtension() string {
	return pdfFileExtension
}
