package resume

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFinalized is returned when a document is serialized before its pages are stamped.
var ErrNotFinalized = errors.New("resume: document not finalized")

const ptToMM = 25.4 / 72

// Style selects font weight, slant and size in points.
type Style struct {
	Bold   bool
	Italic bool
	Size   float64
}

// LineHeight is the vertical advance of one line of text in millimetres.
func (s Style) LineHeight() float64 {
	return s.Size * ptToMM * 1.35
}

var (
	nameStyle     = Style{Bold: true, Size: 20}
	taglineStyle  = Style{Size: 12}
	contactStyle  = Style{Size: 9}
	sectionStyle  = Style{Bold: true, Size: 13}
	titleStyle    = Style{Bold: true, Size: 11}
	subtitleStyle = Style{Italic: true, Size: 10}
	bodyStyle     = Style{Size: 10}
	footerStyle   = Style{Size: 8}
)

// Vertical spacing in millimetres.
const (
	headerGap  = 6.0
	sectionGap = 6.0
	entryGap   = 3.5
	ruleGap    = 2.5
)

// Measurer reports rendered text width in millimetres.
type Measurer interface {
	TextWidth(text string, style Style) float64
}

// PageSetup is the physical page geometry in millimetres.
type PageSetup struct {
	Width  float64
	Height float64
	Margin float64
}

// A4 is the default page.
var A4 = PageSetup{Width: 210, Height: 297, Margin: 18}

func (p PageSetup) contentWidth() float64 { return p.Width - 2*p.Margin }

func (p PageSetup) contentBottom() float64 { return p.Height - p.Margin }

// FooterY is the top of the page-number line, inside the bottom margin.
func (p PageSetup) FooterY() float64 { return p.Height - p.Margin/2 - footerStyle.LineHeight()/2 }

// ElementKind distinguishes drawn primitives.
type ElementKind int

const (
	TextElement ElementKind = iota
	RuleElement
)

// Element is one positioned primitive. For text, Y is the top of the line box; for rules, the line itself.
type Element struct {
	Kind  ElementKind
	X, Y  float64
	W, H  float64
	Text  string
	Style Style
	Align string // "L", "C" or "R"
}

// Page is one buffered page.
type Page struct {
	Number   int
	Elements []Element
	Footer   string
}

// Document holds every laid-out page in memory until it is finalized and serialized.
type Document struct {
	Title     string
	Setup     PageSetup
	Pages     []*Page
	finalized bool
}

// Finalize stamps every page with "Page i of n". It must run after all content is laid out.
func (d *Document) Finalize() {
	n := len(d.Pages)
	for i, p := range d.Pages {
		p.Number = i + 1
		p.Footer = fmt.Sprintf("Page %d of %d", i+1, n)
	}
	d.finalized = true
}

// Finalized reports whether page numbers have been stamped.
func (d *Document) Finalized() bool { return d.finalized }

// Texts returns the text of every element on every page in drawing order.
func (d *Document) Texts() []string {
	var out []string
	for _, p := range d.Pages {
		for _, el := range p.Elements {
			if el.Kind == TextElement {
				out = append(out, el.Text)
			}
		}
	}
	return out
}

// Layout flows the resume content top to bottom, starting a new page whenever the
// vertical budget is exhausted. The result is not yet page-numbered.
func Layout(rd ResumeDocument, m Measurer, setup PageSetup) *Document {
	b := &builder{
		doc: &Document{Title: strings.TrimSpace(rd.Header.Name + " Resume"), Setup: setup},
		m:   m,
	}
	b.newPage()

	b.text(rd.Header.Name, nameStyle, "L")
	b.text(rd.Header.Tagline, taglineStyle, "L")
	b.text(rd.Header.Contact, contactStyle, "L")

	for i, s := range rd.Sections {
		if i == 0 {
			b.gap(headerGap)
		} else {
			b.gap(sectionGap)
		}
		b.section(s)
	}

	if rd.Footer != "" {
		b.gap(sectionGap)
		b.keep(ruleGap + footerStyle.LineHeight())
		b.rule()
		b.text(rd.Footer, footerStyle, "C")
	}
	return b.doc
}

type builder struct {
	doc  *Document
	m    Measurer
	page *Page
	y    float64
}

func (b *builder) newPage() {
	b.page = &Page{Number: len(b.doc.Pages) + 1}
	b.doc.Pages = append(b.doc.Pages, b.page)
	b.y = b.doc.Setup.Margin
}

func (b *builder) atTop() bool {
	return b.y == b.doc.Setup.Margin
}

// keep starts a new page unless h more millimetres fit on the current one.
func (b *builder) keep(h float64) {
	if b.y+h > b.doc.Setup.contentBottom() && !b.atTop() {
		b.newPage()
	}
}

// gap adds vertical space, swallowed at the top of a page.
func (b *builder) gap(h float64) {
	if b.atTop() {
		return
	}
	if b.y+h > b.doc.Setup.contentBottom() {
		b.newPage()
		return
	}
	b.y += h
}

func (b *builder) rule() {
	b.page.Elements = append(b.page.Elements, Element{
		Kind: RuleElement,
		X:    b.doc.Setup.Margin,
		Y:    b.y + ruleGap/2,
		W:    b.doc.Setup.contentWidth(),
	})
	b.y += ruleGap
}

// text wraps s to the content width and emits one element per line.
func (b *builder) text(s string, st Style, align string) {
	if strings.TrimSpace(s) == "" {
		return
	}
	h := st.LineHeight()
	for _, line := range wrap(b.m, s, st, b.doc.Setup.contentWidth()) {
		b.keep(h)
		b.page.Elements = append(b.page.Elements, Element{
			Kind:  TextElement,
			X:     b.doc.Setup.Margin,
			Y:     b.y,
			W:     b.doc.Setup.contentWidth(),
			H:     h,
			Text:  line,
			Style: st,
			Align: align,
		})
		b.y += h
	}
}

func (b *builder) section(s Section) {
	// Title, rule and the first line of the first item stay together.
	first := bodyStyle.LineHeight()
	if len(s.Items) > 0 && s.Items[0].Title != "" {
		first = titleStyle.LineHeight()
	}
	b.keep(sectionStyle.LineHeight() + ruleGap + first)
	b.text(s.Title, sectionStyle, "L")
	b.rule()

	for i, it := range s.Items {
		if i > 0 {
			b.gap(entryGap)
		}
		head := 0.0
		if it.Title != "" {
			head += titleStyle.LineHeight()
		}
		if it.Subtitle != "" {
			head += subtitleStyle.LineHeight()
		}
		b.keep(head)
		b.text(it.Title, titleStyle, "L")
		b.text(it.Subtitle, subtitleStyle, "L")
		b.text(it.Body, bodyStyle, "L")
	}
}

// wrap breaks text into lines no wider than width, honouring explicit newlines.
// Words wider than a whole line are split by rune.
func wrap(m Measurer, text string, st Style, width float64) []string {
	var lines []string
	for _, para := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			continue
		}
		line := ""
		for _, w := range words {
			candidate := w
			if line != "" {
				candidate = line + " " + w
			}
			if m.TextWidth(candidate, st) <= width {
				line = candidate
				continue
			}
			if line != "" {
				lines = append(lines, line)
			}
			line = w
			for m.TextWidth(line, st) > width {
				head, rest := splitRunes(m, line, st, width)
				lines = append(lines, head)
				line = rest
			}
		}
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// splitRunes returns the longest prefix of s that fits width (at least one rune) and the rest.
func splitRunes(m Measurer, s string, st Style, width float64) (string, string) {
	runes := []rune(s)
	n := 1
	for n < len(runes) && m.TextWidth(string(runes[:n+1]), st) <= width {
		n++
	}
	return string(runes[:n]), string(runes[n:])
}
