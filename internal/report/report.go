// Package report renders a worldview analysis into a PDF.
package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/abhisek/atelier/internal/analysis"
	"github.com/abhisek/atelier/internal/metrics"
	"github.com/abhisek/atelier/internal/quiz"
)

// Filename is the download name of the report.
const Filename = "future_roadmap_report.pdf"

// Title is the document title printed on page one.
const Title = "Future Roadmap Report"

// DefaultWrapWidth is the roadmap line length in runes.
const DefaultWrapWidth = 40

// Config controls report rendering.
type Config struct {
	// FontPath is an optional UTF-8 TrueType font used for all text.
	// Without it the core Helvetica font renders cp1252 text only.
	FontPath string `mapstructure:"font_path"`

	// WrapWidth is the roadmap line length in runes.
	WrapWidth int `mapstructure:"wrap_width"`

	// OutputDir, when set, receives a copy of every report.
	OutputDir string `mapstructure:"output_dir"`
}

// Document is everything printed in a report.
type Document struct {
	Date        time.Time
	Result      quiz.Result
	Analysis    *analysis.Analysis
	Past        []analysis.Image
	Future      []analysis.Image
	Placeholder bool
}

// Renderer draws Documents with fpdf.
type Renderer struct {
	wrapWidth int
	font      []byte
}

// NewRenderer loads the configured font, if any.
func NewRenderer(cfg Config) (*Renderer, error) {
	r := &Renderer{wrapWidth: cfg.WrapWidth}
	if r.wrapWidth <= 0 {
		r.wrapWidth = DefaultWrapWidth
	}
	if cfg.FontPath != "" {
		font, err := os.ReadFile(cfg.FontPath)
		if err != nil {
			return nil, fmt.Errorf("load report font: %w", err)
		}
		r.font = font
	}
	return r, nil
}

// coreFontReplacer swaps CJK punctuation that cp1252 cannot encode.
var coreFontReplacer = strings.NewReplacer("・", "- ", "「", "\"", "」", "\"", "、", ", ", "。", ". ")

// Page geometry in millimetres.
const (
	margin     = 20.0
	lineHeight = 6.0
	barWidth   = 100.0
	barHeight  = 5.0
	thumbWidth = 52.0
	thumbMaxH  = 60.0
	thumbGap   = 7.0
)

// page wraps fpdf with the font family and text translator in use.
type page struct {
	pdf    *fpdf.Fpdf
	family string
	tr     func(string) string
}

func (p *page) font(style string, size float64) {
	p.pdf.SetFont(p.family, style, size)
}

func (p *page) ensureSpace(h float64) {
	_, pageH := p.pdf.GetPageSize()
	if p.pdf.GetY()+h > pageH-margin {
		p.pdf.AddPage()
	}
}

func (p *page) heading(text string) {
	p.ensureSpace(3 * lineHeight)
	p.pdf.Ln(4)
	p.font("B", 14)
	p.pdf.SetTextColor(40, 40, 90)
	p.pdf.CellFormat(0, 8, p.tr(text), "B", 1, "L", false, 0, "")
	p.pdf.SetTextColor(0, 0, 0)
	p.pdf.Ln(2)
}

// Render writes doc as a PDF to w.
func (r *Renderer) Render(w io.Writer, doc Document) error {
	if doc.Analysis == nil {
		return fmt.Errorf("render report: no analysis")
	}
	start := time.Now()
	defer func() { metrics.PDFRenderDuration.Observe(time.Since(start).Seconds()) }()

	date := doc.Date
	if date.IsZero() {
		date = time.Now()
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetTitle(Title, false)
	pdf.SetCreator("atelier", false)
	pdf.SetCreationDate(date)
	pdf.SetModificationDate(date)
	if doc.Placeholder {
		pdf.SetSubject("Sample analysis", false)
	} else {
		pdf.SetSubject("Worldview analysis", false)
	}

	cp1252 := pdf.UnicodeTranslatorFromDescriptor("")
	p := &page{pdf: pdf, family: "Helvetica", tr: func(s string) string {
		return cp1252(coreFontReplacer.Replace(s))
	}}
	if r.font != nil {
		pdf.AddUTF8FontFromBytes("body", "", r.font)
		pdf.AddUTF8FontFromBytes("body", "B", r.font)
		p.family = "body"
		p.tr = func(s string) string { return s }
	}

	pdf.SetHeaderFunc(func() {
		if doc.Placeholder {
			stamp(p)
		}
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		p.font("", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	r.summaryPage(p, doc, date)
	r.roadmapPage(p, doc.Analysis)
	if len(doc.Past)+len(doc.Future) > 0 {
		r.galleryPage(p, doc)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

// RenderBytes renders doc into memory.
func (r *Renderer) RenderBytes(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func stamp(p *page) {
	pageW, pageH := p.pdf.GetPageSize()
	p.pdf.TransformBegin()
	p.pdf.TransformRotate(45, pageW/2, pageH/2)
	p.font("B", 96)
	p.pdf.SetTextColor(235, 220, 220)
	text := "SAMPLE"
	p.pdf.Text(pageW/2-p.pdf.GetStringWidth(text)/2, pageH/2, text)
	p.pdf.TransformEnd()
	p.pdf.SetTextColor(0, 0, 0)
}

func (r *Renderer) summaryPage(p *page, doc Document, date time.Time) {
	pdf := p.pdf
	a := doc.Analysis
	pdf.AddPage()

	p.font("B", 20)
	pdf.CellFormat(0, 12, p.tr(Title), "", 1, "L", false, 0, "")
	p.font("", 10)
	pdf.CellFormat(0, 6, date.Format("2006-01-02"), "", 1, "R", false, 0, "")
	pdf.Ln(4)

	// Keywords box.
	p.font("B", 12)
	pdf.SetFillColor(245, 240, 230)
	pdf.CellFormat(0, 8, p.tr("Your five keywords"), "LTR", 1, "C", true, 0, "")
	p.font("", 13)
	pdf.CellFormat(0, 10, p.tr(strings.Join(a.Keywords, "  /  ")), "LBR", 1, "C", true, 0, "")
	pdf.Ln(4)

	p.font("", 11)
	pdf.CellFormat(0, lineHeight, p.tr("Personality type: "+doc.Result.Label), "", 1, "L", false, 0, "")

	p.heading("Scores")
	for _, e := range a.Scores.Entries() {
		scoreBar(p, e)
	}

	p.heading("Current worldview")
	worldview(p, a.Current)
	p.heading("Ideal worldview")
	worldview(p, a.Ideal)
}

func scoreBar(p *page, e analysis.ScoreEntry) {
	pdf := p.pdf
	p.font("", 10)
	x, y := pdf.GetX(), pdf.GetY()
	pdf.CellFormat(35, lineHeight, p.tr(e.Label), "", 0, "L", false, 0, "")

	barX, barY := x+35, y+(lineHeight-barHeight)/2
	pdf.SetFillColor(225, 225, 225)
	pdf.Rect(barX, barY, barWidth, barHeight, "F")
	pdf.SetFillColor(90, 110, 200)
	if e.Value > 0 {
		pdf.Rect(barX, barY, barWidth*float64(e.Value)/100, barHeight, "F")
	}

	pdf.SetXY(barX+barWidth+4, y)
	pdf.CellFormat(0, lineHeight, fmt.Sprintf("%d / 100", e.Value), "", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func worldview(p *page, w analysis.Worldview) {
	p.font("B", 12)
	p.pdf.MultiCell(0, 7, p.tr(w.Catchphrase), "", "L", false)
	p.font("", 10)
	p.pdf.MultiCell(0, 5.5, p.tr(w.Features), "", "L", false)
}

func (r *Renderer) roadmapPage(p *page, a *analysis.Analysis) {
	pdf := p.pdf
	pdf.AddPage()
	p.heading("Roadmap to your ideal")

	p.font("", 11)
	for _, line := range Wrap(a.RoadmapAdvice, r.wrapWidth) {
		p.ensureSpace(lineHeight)
		pdf.CellFormat(0, lineHeight, p.tr(line), "", 1, "L", false, 0, "")
	}

	if len(a.RoadmapSteps) == 0 {
		return
	}
	p.heading("Next steps")
	p.font("", 11)
	for i, step := range a.RoadmapSteps {
		lines := Wrap(step, r.wrapWidth)
		for j, line := range lines {
			p.ensureSpace(lineHeight)
			prefix := "    "
			if j == 0 {
				prefix = fmt.Sprintf("%d. ", i+1)
			}
			pdf.CellFormat(0, lineHeight, p.tr(prefix+line), "", 1, "L", false, 0, "")
		}
	}
}

func (r *Renderer) galleryPage(p *page, doc Document) {
	p.pdf.AddPage()
	gallery(p, "Current work", "past", doc.Past)
	gallery(p, "Ideal vision", "future", doc.Future)
}

func gallery(p *page, title, prefix string, images []analysis.Image) {
	if len(images) == 0 {
		return
	}
	pdf := p.pdf
	p.heading(title)

	// Size every thumbnail first so the row height is known.
	type thumb struct {
		name string
		opts fpdf.ImageOptions
		w, h float64
	}
	thumbs := make([]thumb, 0, len(images))
	rowH := 0.0
	for i, img := range images {
		opts := fpdf.ImageOptions{ImageType: imageType(img.MIMEType)}
		name := fmt.Sprintf("%s-%d", prefix, i)
		info := pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.Data))
		if info == nil || info.Width() == 0 {
			continue
		}
		w := thumbWidth
		h := w * info.Height() / info.Width()
		if h > thumbMaxH {
			h = thumbMaxH
			w = h * info.Width() / info.Height()
		}
		thumbs = append(thumbs, thumb{name: name, opts: opts, w: w, h: h})
		rowH = max(rowH, h)
	}

	p.ensureSpace(rowH + lineHeight)
	x, y := margin, pdf.GetY()
	for _, t := range thumbs {
		pdf.ImageOptions(t.name, x, y, t.w, t.h, false, t.opts, 0, "")
		x += thumbWidth + thumbGap
	}
	pdf.SetY(y + rowH + lineHeight)
}

func imageType(mime string) string {
	if mime == "image/png" {
		return "PNG"
	}
	return "JPG"
}
