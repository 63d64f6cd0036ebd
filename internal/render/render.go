// Package render is a reference software compositor for the canvas. It
// exists to fix the placement pipeline the coordinate transform must
// match: translate to the image center, rotate, scale, translate back by
// the local half extents, then draw. The production rasterizer is an
// external collaborator; this one keeps the contract testable.
package render

import (
	"image"

	"github.com/fogleman/gg"

	"canvas-annotator/internal/annotation"
	"canvas-annotator/internal/canvas"
	"canvas-annotator/pkg/geometry"
)

// applyPlacement pushes the image's placement onto the context matrix.
// Any change here must be mirrored in CanvasImage.Transform; the
// integration tests compare the two point by point.
func applyPlacement(dc *gg.Context, img *canvas.CanvasImage) {
	c := img.Center()
	dc.Translate(c.X, c.Y)
	dc.Rotate(gg.Radians(img.Rotation))
	dc.Scale(img.Scale, img.Scale)
	dc.Translate(-img.Width/2, -img.Height/2)
}

// ProjectLocalPoint maps an image-local point to global coordinates using
// the renderer's own matrix stack rather than the geometry package. The
// result must agree with CanvasImage.ToGlobal.
func ProjectLocalPoint(img *canvas.CanvasImage, p geometry.Point2D) geometry.Point2D {
	dc := gg.NewContext(1, 1)
	applyPlacement(dc, img)
	x, y := dc.TransformPoint(p.X, p.Y)
	return geometry.Point2D{X: x, Y: y}
}

// Document rasterizes the document bottom-to-top onto a white canvas.
// bitmaps maps image ids to decoded pixels; images without one get only
// their annotations drawn. Canvas annotations draw last, above every
// image.
func Document(doc *canvas.Document, bitmaps map[string]image.Image, width, height int) image.Image {
	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	for _, img := range doc.Images {
		if !img.Visible {
			continue
		}
		dc.Push()
		applyPlacement(dc, img)
		if bmp, ok := bitmaps[img.ID]; ok {
			dc.DrawImage(bmp, 0, 0)
		}
		for _, a := range img.Annotations {
			Annotation(dc, a)
		}
		dc.Pop()
	}

	for _, a := range doc.CanvasAnnotations {
		Annotation(dc, a)
	}

	return dc.Image()
}

// Annotation paints one annotation at its own coordinates onto the
// current context. The caller is responsible for having the owning
// space's transform on the matrix stack.
func Annotation(dc *gg.Context, a *annotation.Annotation) {
	dc.SetHexColor(strokeColor(a))
	width := a.StrokeWidth
	if width <= 0 {
		width = 2
	}
	dc.SetLineWidth(width)

	switch a.Kind {
	case annotation.KindRect:
		if a.FillColor != "" {
			dc.SetHexColor(a.FillColor)
			dc.DrawRectangle(a.X, a.Y, a.Width, a.Height)
			dc.Fill()
			dc.SetHexColor(strokeColor(a))
		}
		dc.DrawRectangle(a.X, a.Y, a.Width, a.Height)
		dc.Stroke()
	case annotation.KindCircle:
		dc.DrawCircle(a.X, a.Y, a.Radius)
		dc.Stroke()
	case annotation.KindText:
		dc.DrawString(a.Text, a.X, a.Y)
	case annotation.KindFreehand:
		if len(a.Points) < 2 {
			return
		}
		dc.MoveTo(a.Points[0].X, a.Points[0].Y)
		for _, p := range a.Points[1:] {
			dc.LineTo(p.X, p.Y)
		}
		dc.Stroke()
	case annotation.KindLine:
		dc.DrawLine(a.Start.X, a.Start.Y, a.End.X, a.End.Y)
		dc.Stroke()
	case annotation.KindArrow:
		dc.DrawLine(a.Start.X, a.Start.Y, a.End.X, a.End.Y)
		dc.Stroke()
		drawArrowHead(dc, a, width)
	}
}

// drawArrowHead fills the triangular head at the arrow's end point.
func drawArrowHead(dc *gg.Context, a *annotation.Annotation, width float64) {
	dir := a.End.Sub(a.Start)
	length := dir.Distance(geometry.Point2D{})
	if length == 0 {
		return
	}
	ux, uy := dir.X/length, dir.Y/length
	size := width * 4

	baseX := a.End.X - ux*size
	baseY := a.End.Y - uy*size
	// Perpendicular to the shaft.
	px, py := -uy, ux

	dc.MoveTo(a.End.X, a.End.Y)
	dc.LineTo(baseX+px*size/2, baseY+py*size/2)
	dc.LineTo(baseX-px*size/2, baseY-py*size/2)
	dc.ClosePath()
	dc.Fill()
}

func strokeColor(a *annotation.Annotation) string {
	if a.StrokeColor != "" {
		return a.StrokeColor
	}
	if a.Color != "" {
		return a.Color
	}
	return "#000000"
}
