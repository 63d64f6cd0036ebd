package canvas

import (
	"canvas-annotator/internal/annotation"
	"canvas-annotator/pkg/geometry"
)

// Reparent produces copies of the given annotations rebased from the
// source space into the target space so that every transformable point
// renders at the same global position as before the move. A nil image
// stands for the canvas itself (identity transform, implicit scale 1,
// rotation 0).
//
// Point geometry goes through toGlobal then toLocal; scalar fields carried
// in local units are multiplied by sourceScale/targetScale; the
// annotation's own rotation and scale absorb the difference between the
// two spaces. Reparenting is its own inverse: A->B then B->A restores the
// original values within floating-point tolerance.
func Reparent(annos []*annotation.Annotation, src, dst *CanvasImage) ([]*annotation.Annotation, error) {
	t := geometry.Identity()
	srcScale, srcRotation := 1.0, 0.0
	dstScale, dstRotation := 1.0, 0.0

	if src != nil {
		fwd, err := src.Transform()
		if err != nil {
			return nil, err
		}
		t = fwd
		srcScale, srcRotation = src.Scale, src.Rotation
	}
	if dst != nil {
		inv, err := dst.InverseTransform()
		if err != nil {
			return nil, err
		}
		t = inv.Compose(t)
		dstScale, dstRotation = dst.Scale, dst.Rotation
	}

	ratio := srcScale / dstScale

	out := make([]*annotation.Annotation, len(annos))
	for i, a := range annos {
		dup := a.Clone()

		pts := dup.TransformPoints()
		for j := range pts {
			pts[j] = t.Apply(pts[j])
		}
		if err := dup.SetTransformPoints(pts); err != nil {
			return nil, err
		}

		dup.ScaleScalars(ratio)
		dup.Rotation = dup.Rotation + srcRotation - dstRotation
		dup.Scale = dup.Scale * ratio

		out[i] = dup
	}
	return out, nil
}

// ReparentOne rebases a single annotation. See Reparent.
func ReparentOne(a *annotation.Annotation, src, dst *CanvasImage) (*annotation.Annotation, error) {
	out, err := Reparent([]*annotation.Annotation{a}, src, dst)
	if err != nil {
		return nil, err
	}
	return out[0], nil
}
