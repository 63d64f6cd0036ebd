package geometry

import (
	"math"
	"testing"
)

func TestFitAffineRecoversKnownTransform(t *testing.T) {
	want := Translation(40, -12).
		Compose(RotationDegrees(30)).
		Compose(Scaling(1.5))

	src := []Point2D{{0, 0}, {100, 0}, {100, 80}, {0, 80}, {37, 21}}
	dst := make([]Point2D, len(src))
	for i, p := range src {
		dst[i] = want.Apply(p)
	}

	got, err := FitAffine(src, dst)
	if err != nil {
		t.Fatalf("FitAffine: %v", err)
	}

	fields := []struct {
		name      string
		got, want float64
	}{
		{"A", got.A, want.A},
		{"B", got.B, want.B},
		{"TX", got.TX, want.TX},
		{"C", got.C, want.C},
		{"D", got.D, want.D},
		{"TY", got.TY, want.TY},
	}
	for _, f := range fields {
		if math.Abs(f.got-f.want) > 1e-6 {
			t.Errorf("%s = %g, want %g", f.name, f.got, f.want)
		}
	}

	if e := FitError(src, dst, got); e > 1e-6 {
		t.Errorf("residual fit error %g", e)
	}
}

func TestFitAffineRejectsBadInput(t *testing.T) {
	if _, err := FitAffine([]Point2D{{0, 0}}, []Point2D{{0, 0}, {1, 1}}); err == nil {
		t.Error("mismatched point counts accepted")
	}
	if _, err := FitAffine([]Point2D{{0, 0}, {1, 1}}, []Point2D{{0, 0}, {1, 1}}); err == nil {
		t.Error("two correspondences accepted, need three")
	}
}
