package geometry

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func approxPoint(a, b Point2D) bool {
	return math.Abs(a.X-b.X) < epsilon && math.Abs(a.Y-b.Y) < epsilon
}

func TestRotationIsClockwiseOnScreen(t *testing.T) {
	// In y-down screen coordinates a positive 90 degree rotation takes the
	// +x axis onto the +y axis (pointing down the screen).
	got := RotationDegrees(90).Apply(Point2D{X: 1, Y: 0})
	want := Point2D{X: 0, Y: 1}
	if !approxPoint(got, want) {
		t.Errorf("Rotate90(1,0) = %+v, want %+v", got, want)
	}
}

func TestComposeAppliesRightToLeft(t *testing.T) {
	// Scale then translate: the translation must not be scaled.
	tr := Translation(10, 0).Compose(Scaling(2))
	got := tr.Apply(Point2D{X: 3, Y: 4})
	want := Point2D{X: 16, Y: 8}
	if !approxPoint(got, want) {
		t.Errorf("translate(10,0)*scale(2) applied to (3,4) = %+v, want %+v", got, want)
	}

	// The opposite order scales the translation too.
	tr = Scaling(2).Compose(Translation(10, 0))
	got = tr.Apply(Point2D{X: 3, Y: 4})
	want = Point2D{X: 26, Y: 8}
	if !approxPoint(got, want) {
		t.Errorf("scale(2)*translate(10,0) applied to (3,4) = %+v, want %+v", got, want)
	}
}

func TestInverseRoundTrip(t *testing.T) {
	transforms := []AffineTransform{
		Identity(),
		Translation(12.5, -7),
		RotationDegrees(37),
		Scaling(0.25),
		Translation(100, 50).Compose(RotationDegrees(215)).Compose(Scaling(3)),
	}
	points := []Point2D{
		{X: 0, Y: 0},
		{X: 1, Y: 0},
		{X: -3.5, Y: 42},
		{X: 1000, Y: -1000},
	}

	for i, tr := range transforms {
		inv, ok := tr.Inverse()
		if !ok {
			t.Fatalf("transform %d: no inverse", i)
		}
		for _, p := range points {
			back := inv.Apply(tr.Apply(p))
			if !approxPoint(back, p) {
				t.Errorf("transform %d: round trip of %+v gave %+v", i, p, back)
			}
		}
	}
}

func TestInverseSingular(t *testing.T) {
	if _, ok := (AffineTransform{}).Inverse(); ok {
		t.Error("zero transform should have no inverse")
	}
	if _, ok := Scaling(0).Inverse(); ok {
		t.Error("zero scaling should have no inverse")
	}
}

func TestRectIntersect(t *testing.T) {
	tests := []struct {
		name  string
		a, b  Rect
		want  Rect
		empty bool
	}{
		{
			name: "overlap",
			a:    NewRect(0, 0, 10, 10),
			b:    NewRect(5, 5, 10, 10),
			want: NewRect(5, 5, 5, 5),
		},
		{
			name: "contained",
			a:    NewRect(0, 0, 10, 10),
			b:    NewRect(2, 3, 4, 5),
			want: NewRect(2, 3, 4, 5),
		},
		{
			name:  "disjoint",
			a:     NewRect(0, 0, 10, 10),
			b:     NewRect(20, 20, 5, 5),
			empty: true,
		},
		{
			name:  "touching edges",
			a:     NewRect(0, 0, 10, 10),
			b:     NewRect(10, 0, 5, 5),
			empty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.Intersect(tt.b)
			if got.IsEmpty() != tt.empty {
				t.Fatalf("IsEmpty = %v, want %v (got %+v)", got.IsEmpty(), tt.empty, got)
			}
			if !tt.empty && got != tt.want {
				t.Errorf("Intersect = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRectCorners(t *testing.T) {
	r := NewRect(1, 2, 3, 4)
	corners := r.Corners()
	want := [4]Point2D{{1, 2}, {4, 2}, {4, 6}, {1, 6}}
	if corners != want {
		t.Errorf("Corners = %v, want %v", corners, want)
	}
}

func TestBoundingBox(t *testing.T) {
	pts := []Point2D{{5, 1}, {-2, 7}, {3, 3}}
	got := BoundingBox(pts)
	want := NewRect(-2, 1, 7, 6)
	if got != want {
		t.Errorf("BoundingBox = %+v, want %+v", got, want)
	}

	if got := BoundingBox(nil); got != (Rect{}) {
		t.Errorf("BoundingBox(nil) = %+v, want zero rect", got)
	}
}

func TestPointInPolygon(t *testing.T) {
	square := []Point2D{{0, 0}, {10, 0}, {10, 10}, {0, 10}}

	tests := []struct {
		p    Point2D
		want bool
	}{
		{Point2D{5, 5}, true},
		{Point2D{1, 9}, true},
		{Point2D{-1, 5}, false},
		{Point2D{11, 5}, false},
		{Point2D{5, -1}, false},
	}
	for _, tt := range tests {
		if got := PointInPolygon(tt.p, square); got != tt.want {
			t.Errorf("PointInPolygon(%+v) = %v, want %v", tt.p, got, tt.want)
		}
	}

	if PointInPolygon(Point2D{0, 0}, square[:2]) {
		t.Error("degenerate polygon should contain nothing")
	}
}

func TestConvexHull(t *testing.T) {
	// Square with an interior point; the hull must drop it.
	pts := []Point2D{{0, 0}, {10, 0}, {5, 5}, {10, 10}, {0, 10}}
	hull := ConvexHull(pts)
	if len(hull) != 4 {
		t.Fatalf("hull has %d vertices, want 4: %v", len(hull), hull)
	}
	for _, v := range hull {
		if v == (Point2D{5, 5}) {
			t.Error("interior point kept on hull")
		}
	}
}
