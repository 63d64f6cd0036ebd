package annotation

import (
	"math"
	"testing"

	"canvas-annotator/pkg/geometry"
)

func TestKindValid(t *testing.T) {
	for _, k := range []Kind{KindRect, KindCircle, KindText, KindFreehand, KindLine, KindArrow} {
		if !k.Valid() {
			t.Errorf("%q reported invalid", k)
		}
	}
	for _, k := range []Kind{"", "sticker", "Rect"} {
		if k.Valid() {
			t.Errorf("%q reported valid", k)
		}
	}
}

func TestTransformPointsRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		a    *Annotation
		want int
	}{
		{"rect", &Annotation{Kind: KindRect, X: 1, Y: 2}, 1},
		{"circle", &Annotation{Kind: KindCircle, X: 3, Y: 4}, 1},
		{"text", &Annotation{Kind: KindText, X: 5, Y: 6}, 1},
		{"freehand", &Annotation{Kind: KindFreehand, Points: []geometry.Point2D{
			{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0},
		}}, 3},
		{"line", &Annotation{Kind: KindLine,
			Start: geometry.Point2D{X: 0, Y: 0}, End: geometry.Point2D{X: 9, Y: 9}}, 2},
		{"arrow", &Annotation{Kind: KindArrow,
			Start: geometry.Point2D{X: 1, Y: 1}, End: geometry.Point2D{X: 2, Y: 2}}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pts := tt.a.TransformPoints()
			if len(pts) != tt.want {
				t.Fatalf("got %d points, want %d", len(pts), tt.want)
			}
			for i := range pts {
				pts[i] = pts[i].Add(geometry.Point2D{X: 10, Y: 20})
			}
			if err := tt.a.SetTransformPoints(pts); err != nil {
				t.Fatalf("SetTransformPoints: %v", err)
			}
			back := tt.a.TransformPoints()
			for i := range back {
				if back[i] != pts[i] {
					t.Errorf("point %d = %+v, want %+v", i, back[i], pts[i])
				}
			}
		})
	}
}

func TestTransformPointsReturnsCopy(t *testing.T) {
	a := &Annotation{Kind: KindFreehand, Points: []geometry.Point2D{{X: 1, Y: 1}}}
	pts := a.TransformPoints()
	pts[0].X = 99
	if a.Points[0].X != 1 {
		t.Error("TransformPoints aliases the stroke")
	}
}

func TestSetTransformPointsRejectsWrongCount(t *testing.T) {
	a := &Annotation{Kind: KindRect}
	if err := a.SetTransformPoints([]geometry.Point2D{{}, {}}); err == nil {
		t.Error("rect accepted 2 points")
	}
	b := &Annotation{Kind: KindLine}
	if err := b.SetTransformPoints([]geometry.Point2D{{}}); err == nil {
		t.Error("line accepted 1 point")
	}
	c := &Annotation{Kind: "sticker"}
	if err := c.SetTransformPoints(nil); err == nil {
		t.Error("unknown kind accepted")
	}
}

func TestScaleScalars(t *testing.T) {
	tests := []struct {
		name  string
		a     *Annotation
		check func(t *testing.T, a *Annotation)
	}{
		{
			"rect extents scale",
			&Annotation{Kind: KindRect, Width: 10, Height: 4, StrokeWidth: 2},
			func(t *testing.T, a *Annotation) {
				if a.Width != 5 || a.Height != 2 || a.StrokeWidth != 1 {
					t.Errorf("got w=%g h=%g sw=%g", a.Width, a.Height, a.StrokeWidth)
				}
			},
		},
		{
			"circle radius scales",
			&Annotation{Kind: KindCircle, Radius: 8, StrokeWidth: 2},
			func(t *testing.T, a *Annotation) {
				if a.Radius != 4 {
					t.Errorf("radius = %g", a.Radius)
				}
			},
		},
		{
			"text font scales",
			&Annotation{Kind: KindText, FontSize: 14},
			func(t *testing.T, a *Annotation) {
				if a.FontSize != 7 {
					t.Errorf("fontSize = %g", a.FontSize)
				}
			},
		},
		{
			"line geometry untouched",
			&Annotation{Kind: KindLine, StrokeWidth: 2,
				Start: geometry.Point2D{X: 1, Y: 1}, End: geometry.Point2D{X: 10, Y: 10}},
			func(t *testing.T, a *Annotation) {
				if a.StrokeWidth != 1 {
					t.Errorf("strokeWidth = %g", a.StrokeWidth)
				}
				if a.End.X != 10 {
					t.Error("endpoints must not scale, the transform points carry them")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.a.ScaleScalars(0.5)
			tt.check(t, tt.a)
		})
	}
}

func TestBounds(t *testing.T) {
	tests := []struct {
		name string
		a    *Annotation
		want geometry.Rect
	}{
		{"rect", &Annotation{Kind: KindRect, X: 1, Y: 2, Width: 3, Height: 4},
			geometry.NewRect(1, 2, 3, 4)},
		{"circle", &Annotation{Kind: KindCircle, X: 10, Y: 10, Radius: 5},
			geometry.NewRect(5, 5, 10, 10)},
		{"line", &Annotation{Kind: KindLine,
			Start: geometry.Point2D{X: 8, Y: 1}, End: geometry.Point2D{X: 2, Y: 9}},
			geometry.NewRect(2, 1, 6, 8)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Bounds(); got != tt.want {
				t.Errorf("Bounds = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestHitTest(t *testing.T) {
	tests := []struct {
		name string
		a    *Annotation
		p    geometry.Point2D
		tol  float64
		want bool
	}{
		{"inside rect", &Annotation{Kind: KindRect, X: 0, Y: 0, Width: 10, Height: 10},
			geometry.Point2D{X: 5, Y: 5}, 0, true},
		{"near rect edge within tolerance", &Annotation{Kind: KindRect, X: 0, Y: 0, Width: 10, Height: 10},
			geometry.Point2D{X: 12, Y: 5}, 3, true},
		{"outside rect", &Annotation{Kind: KindRect, X: 0, Y: 0, Width: 10, Height: 10},
			geometry.Point2D{X: 20, Y: 5}, 3, false},
		{"on circle edge", &Annotation{Kind: KindCircle, X: 0, Y: 0, Radius: 10},
			geometry.Point2D{X: 10, Y: 0}, 0, true},
		{"off circle", &Annotation{Kind: KindCircle, X: 0, Y: 0, Radius: 10},
			geometry.Point2D{X: 13, Y: 0}, 1, false},
		{"on line", &Annotation{Kind: KindLine,
			Start: geometry.Point2D{X: 0, Y: 0}, End: geometry.Point2D{X: 10, Y: 0}},
			geometry.Point2D{X: 5, Y: 1}, 2, true},
		{"off line", &Annotation{Kind: KindLine,
			Start: geometry.Point2D{X: 0, Y: 0}, End: geometry.Point2D{X: 10, Y: 0}},
			geometry.Point2D{X: 5, Y: 5}, 2, false},
		{"beyond line end", &Annotation{Kind: KindLine,
			Start: geometry.Point2D{X: 0, Y: 0}, End: geometry.Point2D{X: 10, Y: 0}},
			geometry.Point2D{X: 15, Y: 0}, 2, false},
		{"inside freehand hull", &Annotation{Kind: KindFreehand, Points: []geometry.Point2D{
			{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10},
		}}, geometry.Point2D{X: 5, Y: 5}, 1, true},
		{"near freehand vertex", &Annotation{Kind: KindFreehand, Points: []geometry.Point2D{
			{X: 0, Y: 0}, {X: 10, Y: 0},
		}}, geometry.Point2D{X: 10.5, Y: 0}, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.HitTest(tt.p, tt.tol); got != tt.want {
				t.Errorf("HitTest(%+v, %g) = %v, want %v", tt.p, tt.tol, got, tt.want)
			}
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	a := &Annotation{Kind: KindFreehand, Points: []geometry.Point2D{{X: 1, Y: 1}}}
	dup := a.Clone()
	dup.Points[0].X = 99
	if a.Points[0].X != 1 {
		t.Error("clone shares the stroke slice")
	}
}

func TestBoundsFreehandMatchesBoundingBox(t *testing.T) {
	pts := []geometry.Point2D{{X: -3, Y: 2}, {X: 7, Y: -1}, {X: 4, Y: 9}}
	a := &Annotation{Kind: KindFreehand, Points: pts}
	got := a.Bounds()
	if math.Abs(got.X+3) > 1e-12 || math.Abs(got.Width-10) > 1e-12 {
		t.Errorf("Bounds = %+v", got)
	}
}
