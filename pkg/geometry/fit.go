package geometry

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// FitAffine computes the affine transform best mapping src points onto dst
// points in the least-squares sense using QR decomposition. At least three
// non-collinear correspondences are required. It is used to recover an
// image placement matrix from corner correspondences when validating that
// a renderer and the coordinate transform agree.
func FitAffine(src, dst []Point2D) (AffineTransform, error) {
	if len(src) != len(dst) {
		return AffineTransform{}, fmt.Errorf("point count mismatch: %d vs %d", len(src), len(dst))
	}
	n := len(src)
	if n < 3 {
		return AffineTransform{}, fmt.Errorf("need at least 3 points, got %d", n)
	}

	// Overdetermined system: [x', y'] = [a b tx; c d ty] * [x y 1]
	A := mat.NewDense(n*2, 6, nil)
	B := mat.NewVecDense(n*2, nil)

	for i := 0; i < n; i++ {
		x, y := src[i].X, src[i].Y
		xp, yp := dst[i].X, dst[i].Y

		A.Set(i*2, 0, x)
		A.Set(i*2, 1, y)
		A.Set(i*2, 2, 1)
		B.SetVec(i*2, xp)

		A.Set(i*2+1, 3, x)
		A.Set(i*2+1, 4, y)
		A.Set(i*2+1, 5, 1)
		B.SetVec(i*2+1, yp)
	}

	var qr mat.QR
	qr.Factorize(A)

	var params mat.VecDense
	if err := qr.SolveVecTo(&params, false, B); err != nil {
		return AffineTransform{}, fmt.Errorf("solving affine system: %w", err)
	}

	return AffineTransform{
		A:  params.AtVec(0),
		B:  params.AtVec(1),
		TX: params.AtVec(2),
		C:  params.AtVec(3),
		D:  params.AtVec(4),
		TY: params.AtVec(5),
	}, nil
}

// FitError returns the mean distance between transformed src points and
// their dst correspondences.
func FitError(src, dst []Point2D, t AffineTransform) float64 {
	if len(src) != len(dst) || len(src) == 0 {
		return 0
	}
	var total float64
	for i := range src {
		total += t.Apply(src[i]).Distance(dst[i])
	}
	return total / float64(len(src))
}
