// Package canvas implements the geometric and structural core of the
// annotation editor: placed images with local annotation overlays,
// coordinate conversion between image-local and canvas space, appearance
// preserving annotation reparenting, non-destructive cropping, and the
// grouped layer ordering model.
package canvas

import (
	"time"

	"canvas-annotator/internal/annotation"
	"canvas-annotator/pkg/geometry"
)

// CanvasImage is a raster image placed on the canvas. X and Y position the
// image's local origin (its unrotated, unscaled top-left corner) in global
// coordinates; rotation and scale apply about the image's visual center.
type CanvasImage struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`

	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// Uniform scale, always > 0.
	Scale float64 `json:"scale"`
	// Rotation in degrees, clockwise on screen, about the image center.
	Rotation float64 `json:"rotation"`

	// CropRect records the sub-rectangle of the original bitmap currently
	// displayed, cumulative across repeated crops. Nil when uncropped.
	CropRect *geometry.Rect `json:"cropRect,omitempty"`
	// UncroppedFromID is the archive key of the pre-crop original. It
	// survives repeated crops so restore always reaches the true original.
	UncroppedFromID string `json:"uncroppedFromId,omitempty"`

	// Annotations in this image's local space, bottom-to-top.
	Annotations []*annotation.Annotation `json:"annotations,omitempty"`

	Visible bool     `json:"visible"`
	Locked  bool     `json:"locked"`
	Tags    []string `json:"tags,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitempty"`
	// DataURL embeds the bitmap for self-contained project files. The core
	// treats it as opaque; decoding belongs to the image loader.
	DataURL string `json:"dataUrl,omitempty"`
}

// NewImage creates a visible, unlocked image with scale 1.
func NewImage(id string, width, height float64) *CanvasImage {
	return &CanvasImage{
		ID:        id,
		Width:     width,
		Height:    height,
		Scale:     1,
		Visible:   true,
		CreatedAt: time.Now(),
	}
}

// Center returns the image's visual center in global coordinates. Scale
// and rotation pivot about this point, so it is stable under rotation.
func (img *CanvasImage) Center() geometry.Point2D {
	return geometry.Point2D{
		X: img.X + img.Width*img.Scale/2,
		Y: img.Y + img.Height*img.Scale/2,
	}
}

// Transform returns the local-to-global affine transform: translate to the
// global center, rotate, scale, translate back by the local half extents.
// This must match the renderer's compositing pipeline exactly; the render
// package carries the integration test that pins the two together.
func (img *CanvasImage) Transform() (geometry.AffineTransform, error) {
	if img.Scale <= 0 {
		return geometry.AffineTransform{}, &GeometryError{ImageID: img.ID, Reason: "scale must be > 0"}
	}
	c := img.Center()
	t := geometry.Translation(c.X, c.Y).
		Compose(geometry.RotationDegrees(img.Rotation)).
		Compose(geometry.Scaling(img.Scale)).
		Compose(geometry.Translation(-img.Width/2, -img.Height/2))
	return t, nil
}

// InverseTransform returns the global-to-local transform.
func (img *CanvasImage) InverseTransform() (geometry.AffineTransform, error) {
	t, err := img.Transform()
	if err != nil {
		return geometry.AffineTransform{}, err
	}
	inv, ok := t.Inverse()
	if !ok {
		return geometry.AffineTransform{}, &GeometryError{ImageID: img.ID, Reason: "transform is singular"}
	}
	return inv, nil
}

// ToGlobal maps a point from the image's local space to canvas space.
func (img *CanvasImage) ToGlobal(p geometry.Point2D) (geometry.Point2D, error) {
	t, err := img.Transform()
	if err != nil {
		return geometry.Point2D{}, err
	}
	return t.Apply(p), nil
}

// ToLocal maps a point from canvas space to the image's local space. It is
// the exact inverse of ToGlobal for any image with positive scale.
func (img *CanvasImage) ToLocal(p geometry.Point2D) (geometry.Point2D, error) {
	inv, err := img.InverseTransform()
	if err != nil {
		return geometry.Point2D{}, err
	}
	return inv.Apply(p), nil
}

// LocalBounds returns the image's local rectangle [0,w] x [0,h].
func (img *CanvasImage) LocalBounds() geometry.Rect {
	return geometry.NewRect(0, 0, img.Width, img.Height)
}

// Footprint returns the image's four corners in global coordinates,
// clockwise from the local top-left. This is the hit-test polygon for a
// rotated image.
func (img *CanvasImage) Footprint() ([]geometry.Point2D, error) {
	t, err := img.Transform()
	if err != nil {
		return nil, err
	}
	corners := img.LocalBounds().Corners()
	out := make([]geometry.Point2D, 4)
	for i, c := range corners {
		out[i] = t.Apply(c)
	}
	return out, nil
}

// HitTest reports whether the global point falls inside the image's
// (possibly rotated) footprint. Hidden images are never hit.
func (img *CanvasImage) HitTest(p geometry.Point2D) bool {
	if !img.Visible {
		return false
	}
	poly, err := img.Footprint()
	if err != nil {
		return false
	}
	return geometry.PointInPolygon(p, poly)
}

// Clone returns a deep copy of the image, annotations included.
func (img *CanvasImage) Clone() *CanvasImage {
	dup := *img
	if img.CropRect != nil {
		r := *img.CropRect
		dup.CropRect = &r
	}
	if img.Annotations != nil {
		dup.Annotations = make([]*annotation.Annotation, len(img.Annotations))
		for i, a := range img.Annotations {
			dup.Annotations[i] = a.Clone()
		}
	}
	if img.Tags != nil {
		dup.Tags = make([]string, len(img.Tags))
		copy(dup.Tags, img.Tags)
	}
	return &dup
}

// FindAnnotation returns the annotation with the given id, or nil.
func (img *CanvasImage) FindAnnotation(id string) *annotation.Annotation {
	for _, a := range img.Annotations {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// RemoveAnnotation removes the annotation with the given id, reporting
// whether it was present.
func (img *CanvasImage) RemoveAnnotation(id string) bool {
	for i, a := range img.Annotations {
		if a.ID == id {
			img.Annotations = append(img.Annotations[:i], img.Annotations[i+1:]...)
			return true
		}
	}
	return false
}
