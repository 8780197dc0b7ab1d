package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"InkStore/internal/state"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageW  = 210.0 // A4, mm
	pageH  = 297.0
	margin = 10.0
	// device-independent pixels per mm
	pxPerMM = 96.0 / 25.4

	minLineWidth = 0.1
)

func render(strokes []state.Stroke) *gofpdf.Fpdf {
	p := gofpdf.New("P", "mm", "A4", "")
	p.SetCreator("InkStore", true)
	p.AddPage()
	p.SetLineCapStyle("round")
	p.SetLineJoinStyle("round")

	bounds := state.Bounds(strokes)
	scale := 1 / pxPerMM
	if !bounds.Empty() {
		fit := math.Min((pageW-2*margin)/bounds.Width, (pageH-2*margin)/bounds.Height)
		scale = math.Min(scale, fit)
	}
	tx := func(x float64) float64 { return margin + (x-bounds.X)*scale }
	ty := func(y float64) float64 { return margin + (y-bounds.Y)*scale }

	for _, st := range strokes {
		a := st.Attributes
		p.SetDrawColor(int(a.Color.R), int(a.Color.G), int(a.Color.B))
		p.SetFillColor(int(a.Color.R), int(a.Color.G), int(a.Color.B))
		p.SetAlpha(float64(a.Color.A)/255, "Normal")

		if len(st.Points) == 1 {
			pt := st.Points[0]
			p.Circle(tx(pt.X), ty(pt.Y), segmentWidth(a, pt, pt, scale)/2, "F")
			continue
		}
		for i := 1; i < len(st.Points); i++ {
			p0, p1 := st.Points[i-1], st.Points[i]
			p.SetLineWidth(segmentWidth(a, p0, p1, scale))
			p.Line(tx(p0.X), ty(p0.Y), tx(p1.X), ty(p1.Y))
		}
	}
	return p
}

// segmentWidth is the line width in mm between two samples, using their mean
// pressure.
func segmentWidth(a state.DrawingAttributes, p0, p1 state.Point, scale float64) float64 {
	return math.Max(a.Width((p0.Pressure+p1.Pressure)/2)*scale, minLineWidth)
}

// WritePDF renders strokes onto a single A4 page, scaled down to fit.
func WritePDF(w io.Writer, strokes []state.Stroke) error {
	p := render(strokes)
	if err := p.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func WritePDFFile(path string, strokes []state.Stroke) error {
	p := render(strokes)
	if err := p.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf %s: %w", path, err)
	}
	return nil
}

// PDFSidecar writes a PDF preview next to a saved JSON snapshot.
func PDFSidecar(jsonPath string, strokes []state.Stroke) error {
	return WritePDFFile(strings.TrimSuffix(jsonPath, ".json")+".pdf", strokes)
}
