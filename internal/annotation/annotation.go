// Package annotation defines the annotation model shared by images and the
// canvas: a tagged union over six shape kinds with uniform access to the
// transformable geometry of each kind.
package annotation

import (
	"fmt"

	"canvas-annotator/pkg/geometry"
)

// Kind discriminates the annotation variants. Every geometric operation
// switches exhaustively on this field; there is no structural sniffing.
type Kind string

const (
	KindRect     Kind = "rect"
	KindCircle   Kind = "circle"
	KindText     Kind = "text"
	KindFreehand Kind = "freehand"
	KindLine     Kind = "line"
	KindArrow    Kind = "arrow"
)

// Valid reports whether k is one of the six known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindRect, KindCircle, KindText, KindFreehand, KindLine, KindArrow:
		return true
	}
	return false
}

// Annotation is a single annotation. Coordinates are local to the owning
// image, or global when the annotation belongs to the canvas itself; an
// annotation never belongs to both.
type Annotation struct {
	ID   string `json:"id"`
	Kind Kind   `json:"kind"`

	// Anchor geometry (rect, circle, text).
	X float64 `json:"x,omitempty"`
	Y float64 `json:"y,omitempty"`

	// Rect extents.
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// Circle.
	Radius float64 `json:"radius,omitempty"`

	// Text.
	Text     string  `json:"text,omitempty"`
	FontSize float64 `json:"fontSize,omitempty"`

	// Freehand stroke.
	Points []geometry.Point2D `json:"points,omitempty"`

	// Line and arrow endpoints.
	Start geometry.Point2D `json:"start"`
	End   geometry.Point2D `json:"end"`

	// Style, orthogonal to geometry.
	Color        string  `json:"color,omitempty"`
	StrokeColor  string  `json:"strokeColor,omitempty"`
	FillColor    string  `json:"fillColor,omitempty"`
	OutlineColor string  `json:"outlineColor,omitempty"`
	StrokeWidth  float64 `json:"strokeWidth,omitempty"`
	Opacity      float64 `json:"opacity,omitempty"`

	// Own transform, composed with the owning space's transform.
	Scale    float64 `json:"scale,omitempty"`
	Rotation float64 `json:"rotation,omitempty"`
}

// TransformPoints returns the transformable points of the annotation: the
// single anchor for rect/circle/text, the full stroke for freehand, and
// both endpoints for line/arrow. The returned slice is a copy.
func (a *Annotation) TransformPoints() []geometry.Point2D {
	switch a.Kind {
	case KindRect, KindCircle, KindText:
		return []geometry.Point2D{{X: a.X, Y: a.Y}}
	case KindFreehand:
		pts := make([]geometry.Point2D, len(a.Points))
		copy(pts, a.Points)
		return pts
	case KindLine, KindArrow:
		return []geometry.Point2D{a.Start, a.End}
	}
	return nil
}

// SetTransformPoints writes points produced by TransformPoints back into
// the annotation. The count must match what TransformPoints returned.
// Non-geometric fields are untouched.
func (a *Annotation) SetTransformPoints(pts []geometry.Point2D) error {
	switch a.Kind {
	case KindRect, KindCircle, KindText:
		if len(pts) != 1 {
			return fmt.Errorf("%s annotation takes 1 point, got %d", a.Kind, len(pts))
		}
		a.X = pts[0].X
		a.Y = pts[0].Y
	case KindFreehand:
		if len(pts) != len(a.Points) {
			return fmt.Errorf("freehand annotation takes %d points, got %d", len(a.Points), len(pts))
		}
		copy(a.Points, pts)
	case KindLine, KindArrow:
		if len(pts) != 2 {
			return fmt.Errorf("%s annotation takes 2 points, got %d", a.Kind, len(pts))
		}
		a.Start = pts[0]
		a.End = pts[1]
	default:
		return fmt.Errorf("unknown annotation kind %q", a.Kind)
	}
	return nil
}

// ScaleScalars multiplies the kind-specific scalar fields that are
// expressed in local units: rect extents, circle radius, text font size,
// and the stroke width shared by all kinds. Moving an annotation between
// spaces of different scale applies the scale ratio here.
func (a *Annotation) ScaleScalars(factor float64) {
	a.StrokeWidth *= factor
	switch a.Kind {
	case KindRect:
		a.Width *= factor
		a.Height *= factor
	case KindCircle:
		a.Radius *= factor
	case KindText:
		a.FontSize *= factor
	case KindFreehand, KindLine, KindArrow:
		// Geometry is fully carried by the transform points.
	}
}

// Clone returns a deep copy of the annotation.
func (a *Annotation) Clone() *Annotation {
	dup := *a
	if a.Points != nil {
		dup.Points = make([]geometry.Point2D, len(a.Points))
		copy(dup.Points, a.Points)
	}
	return &dup
}

// Bounds returns the axis-aligned bounding box of the annotation in its
// own coordinate space, ignoring the annotation's rotation.
func (a *Annotation) Bounds() geometry.Rect {
	switch a.Kind {
	case KindRect:
		return geometry.NewRect(a.X, a.Y, a.Width, a.Height)
	case KindCircle:
		return geometry.NewRect(a.X-a.Radius, a.Y-a.Radius, a.Radius*2, a.Radius*2)
	case KindText:
		// Text extent depends on the rasterizer; anchor only.
		return geometry.NewRect(a.X, a.Y, 0, 0)
	case KindFreehand:
		return geometry.BoundingBox(a.Points)
	case KindLine, KindArrow:
		return geometry.BoundingBox([]geometry.Point2D{a.Start, a.End})
	}
	return geometry.Rect{}
}

// HitTest reports whether the point lies on the annotation, within the
// given tolerance. The point must be in the annotation's own space.
func (a *Annotation) HitTest(p geometry.Point2D, tolerance float64) bool {
	switch a.Kind {
	case KindRect:
		outer := geometry.NewRect(a.X-tolerance, a.Y-tolerance, a.Width+2*tolerance, a.Height+2*tolerance)
		return outer.Contains(p)
	case KindCircle:
		return p.Distance(geometry.Point2D{X: a.X, Y: a.Y}) <= a.Radius+tolerance
	case KindText:
		return p.Distance(geometry.Point2D{X: a.X, Y: a.Y}) <= tolerance+a.FontSize
	case KindFreehand:
		if len(a.Points) >= 3 {
			if geometry.PointInPolygon(p, geometry.ConvexHull(a.Points)) {
				return true
			}
		}
		for _, sp := range a.Points {
			if p.Distance(sp) <= tolerance {
				return true
			}
		}
		return false
	case KindLine, KindArrow:
		return pointToSegment(p, a.Start, a.End) <= tolerance
	}
	return false
}

// pointToSegment returns the distance from p to the segment [s, e].
func pointToSegment(p, s, e geometry.Point2D) float64 {
	dx := e.X - s.X
	dy := e.Y - s.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return p.Distance(s)
	}
	t := ((p.X-s.X)*dx + (p.Y-s.Y)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p.Distance(geometry.Point2D{X: s.X + t*dx, Y: s.Y + t*dy})
}
