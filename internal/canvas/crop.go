package canvas

import (
	"canvas-annotator/pkg/geometry"
)

// Archive maps an image id to its pre-crop original. An entry is written
// the first time that id is cropped and never overwritten or deleted, so
// chained re-crops and repeated restores always reach the true original.
type Archive map[string]*CanvasImage

// Store archives a snapshot of the image under the given id unless an
// entry already exists.
func (ar Archive) Store(id string, img *CanvasImage) {
	if _, ok := ar[id]; !ok {
		ar[id] = img.Clone()
	}
}

// ApplyCrop crops every eligible image against a crop rectangle given in
// global coordinates and returns the ids of the images that changed.
// Locked and hidden images are skipped, as is any image whose local
// intersection with the crop rectangle is empty. When nothing is eligible
// the document is unchanged and an EmptyCropError is returned.
//
// Cropping is non-destructive: the pre-crop image is archived before the
// first crop, the new geometry keeps the intersection's visual center
// anchored, local annotations shift into the new origin, and CropRect
// accumulates the offset within the original bitmap.
func ApplyCrop(doc *Document, archive Archive, cropGlobal geometry.Rect) ([]string, error) {
	// Resolve every transform up front so a degenerate image aborts the
	// whole operation before anything is cropped or archived.
	type target struct {
		img   *CanvasImage
		fwd   geometry.AffineTransform
		inter geometry.Rect
	}
	var targets []target

	for _, img := range doc.Images {
		if img.Locked || !img.Visible {
			continue
		}

		fwd, err := img.Transform()
		if err != nil {
			return nil, err
		}
		inv, ok := fwd.Inverse()
		if !ok {
			return nil, &GeometryError{ImageID: img.ID, Reason: "transform is singular"}
		}

		// Local AABB of the crop rectangle's four mapped corners. Under
		// rotation the mapped quad is not axis-aligned; its bounding box is
		// the croppable region.
		corners := cropGlobal.Corners()
		local := make([]geometry.Point2D, 4)
		for i, c := range corners {
			local[i] = inv.Apply(c)
		}
		inter := geometry.BoundingBox(local).Intersect(img.LocalBounds())
		if inter.IsEmpty() {
			continue
		}
		targets = append(targets, target{img: img, fwd: fwd, inter: inter})
	}

	if len(targets) == 0 {
		return nil, &EmptyCropError{}
	}

	cropped := make([]string, 0, len(targets))
	for _, tg := range targets {
		img, inter := tg.img, tg.inter

		origID := img.UncroppedFromID
		if origID == "" {
			origID = img.ID
		}
		archive.Store(origID, img)

		// Anchor the intersection's visual center before the geometry
		// changes: its global position must be computed with the pre-crop
		// transform.
		globalCenter := tg.fwd.Apply(inter.Center())

		if img.CropRect != nil {
			img.CropRect = &geometry.Rect{
				X:      img.CropRect.X + inter.X,
				Y:      img.CropRect.Y + inter.Y,
				Width:  inter.Width,
				Height: inter.Height,
			}
		} else {
			r := inter
			img.CropRect = &r
		}

		img.Width = inter.Width
		img.Height = inter.Height
		img.X = globalCenter.X - img.Width*img.Scale/2
		img.Y = globalCenter.Y - img.Height*img.Scale/2
		img.UncroppedFromID = origID

		for _, a := range img.Annotations {
			pts := a.TransformPoints()
			for i := range pts {
				pts[i] = pts[i].Sub(geometry.Point2D{X: inter.X, Y: inter.Y})
			}
			// Point count is unchanged, so this cannot fail.
			_ = a.SetTransformPoints(pts)
		}

		cropped = append(cropped, img.ID)
	}
	return cropped, nil
}

// Restore replaces each cropped image with its archived original,
// re-centered so the original's visual center lands on the cropped
// image's current center. Images without an archived original are
// reported via NotFoundError; archive entries survive so restore is
// repeatable.
func Restore(doc *Document, archive Archive, imageIDs []string) error {
	for _, id := range imageIDs {
		idx := doc.ImageIndex(id)
		if idx < 0 {
			return &NotFoundError{Kind: "image", ID: id}
		}
		img := doc.Images[idx]
		if img.UncroppedFromID == "" {
			continue
		}
		orig, ok := archive[img.UncroppedFromID]
		if !ok {
			return &NotFoundError{Kind: "archived image", ID: img.UncroppedFromID}
		}

		restored := orig.Clone()
		center := img.Center()
		restored.X = center.X - restored.Width*restored.Scale/2
		restored.Y = center.Y - restored.Height*restored.Scale/2

		doc.Images[idx] = restored
	}
	return nil
}
