package canvas

import (
	"canvas-annotator/pkg/geometry"
)

// HitTestImage returns the topmost visible image under the global point,
// or nil. The z-order is the Images slice, so the scan runs top-down.
func (d *Document) HitTestImage(p geometry.Point2D) *CanvasImage {
	for i := len(d.Images) - 1; i >= 0; i-- {
		if d.Images[i].HitTest(p) {
			return d.Images[i]
		}
	}
	return nil
}

// HitTestAnnotation returns a selection for the topmost annotation under
// the global point: canvas annotations first (they draw above images),
// then each image's local annotations top-down. The zero selection means
// no hit.
func (d *Document) HitTestAnnotation(p geometry.Point2D, tolerance float64) AnnotationSelection {
	for i := len(d.CanvasAnnotations) - 1; i >= 0; i-- {
		if d.CanvasAnnotations[i].HitTest(p, tolerance) {
			return AnnotationSelection{AnnotationID: d.CanvasAnnotations[i].ID}
		}
	}
	for i := len(d.Images) - 1; i >= 0; i-- {
		img := d.Images[i]
		if !img.Visible {
			continue
		}
		local, err := img.ToLocal(p)
		if err != nil {
			continue
		}
		// Tolerance is given in global units; annotations live in local
		// units.
		localTol := tolerance / img.Scale
		for j := len(img.Annotations) - 1; j >= 0; j-- {
			if img.Annotations[j].HitTest(local, localTol) {
				return AnnotationSelection{ImageID: img.ID, AnnotationID: img.Annotations[j].ID}
			}
		}
	}
	return AnnotationSelection{}
}
