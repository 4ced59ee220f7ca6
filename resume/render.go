package resume

import (
	"io"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// fontFamily is the embedded Go font family. It covers Latin, Greek and Cyrillic (WGL4);
// CJK glyphs are not part of it.
const fontFamily = "Go"

var fontFaces = map[string][]byte{
	"":   goregular.TTF,
	"B":  gobold.TTF,
	"I":  goitalic.TTF,
	"BI": gobolditalic.TTF,
}

func (s Style) fontStyle() string {
	out := ""
	if s.Bold {
		out += "B"
	}
	if s.Italic {
		out += "I"
	}
	return out
}

// registerFonts embeds every Go font face as a UTF-8 font.
func registerFonts(pdf *fpdf.Fpdf) {
	for style, ttf := range fontFaces {
		pdf.AddUTF8FontFromBytes(fontFamily, style, ttf)
	}
}

// PDFMeasurer measures text with the same embedded fonts used by Render.
// It is not safe for concurrent use; create one per export.
type PDFMeasurer struct {
	pdf *fpdf.Fpdf
}

// NewPDFMeasurer creates a measurer backed by an unused fpdf instance.
func NewPDFMeasurer() *PDFMeasurer {
	pdf := fpdf.New("P", "mm", "A4", "")
	registerFonts(pdf)
	return &PDFMeasurer{pdf: pdf}
}

func (m *PDFMeasurer) TextWidth(text string, style Style) float64 {
	m.pdf.SetFont(fontFamily, style.fontStyle(), style.Size)
	return m.pdf.GetStringWidth(text)
}

// Render serializes a finalized document as PDF. Pages are written in one go from the
// in-memory buffer; footers come from Finalize and are never computed here.
func Render(doc *Document, w io.Writer) error {
	if !doc.Finalized() {
		return ErrNotFinalized
	}

	setup := doc.Setup
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: setup.Width, Ht: setup.Height},
	})
	registerFonts(pdf)
	pdf.SetMargins(setup.Margin, setup.Margin, setup.Margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("folio", true)

	for _, page := range doc.Pages {
		pdf.AddPage()
		for _, el := range page.Elements {
			switch el.Kind {
			case RuleElement:
				pdf.SetDrawColor(120, 120, 120)
				pdf.SetLineWidth(0.3)
				pdf.Line(el.X, el.Y, el.X+el.W, el.Y)
			case TextElement:
				pdf.SetFont(fontFamily, el.Style.fontStyle(), el.Style.Size)
				pdf.SetTextColor(30, 30, 30)
				pdf.SetXY(el.X, el.Y)
				pdf.CellFormat(el.W, el.H, el.Text, "", 0, el.Align, false, 0, "")
			}
		}

		pdf.SetFont(fontFamily, footerStyle.fontStyle(), footerStyle.Size)
		pdf.SetTextColor(110, 110, 110)
		pdf.SetXY(setup.Margin, setup.FooterY())
		pdf.CellFormat(setup.contentWidth(), footerStyle.LineHeight(), page.Footer, "", 0, "C", false, 0, "")
	}

	return pdf.Output(w)
}
