package canvas

import (
	"canvas-annotator/internal/annotation"
)

// Document is the complete editable state: placed images (slice order is
// the z-order, index 0 at the bottom), the group hierarchy over them, and
// the free-floating canvas annotations in global coordinates.
type Document struct {
	Images            []*CanvasImage           `json:"images"`
	Groups            []*Group                 `json:"groups,omitempty"`
	CanvasAnnotations []*annotation.Annotation `json:"canvasAnnotations,omitempty"`
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{}
}

// Clone returns a deep copy of the document. History snapshots and the
// live overlay are always clones, never aliases.
func (d *Document) Clone() *Document {
	dup := &Document{}
	if d.Images != nil {
		dup.Images = make([]*CanvasImage, len(d.Images))
		for i, img := range d.Images {
			dup.Images[i] = img.Clone()
		}
	}
	if d.Groups != nil {
		dup.Groups = make([]*Group, len(d.Groups))
		for i, g := range d.Groups {
			dup.Groups[i] = g.Clone()
		}
	}
	if d.CanvasAnnotations != nil {
		dup.CanvasAnnotations = make([]*annotation.Annotation, len(d.CanvasAnnotations))
		for i, a := range d.CanvasAnnotations {
			dup.CanvasAnnotations[i] = a.Clone()
		}
	}
	return dup
}

// FindImage returns the image with the given id, or nil.
func (d *Document) FindImage(id string) *CanvasImage {
	for _, img := range d.Images {
		if img.ID == id {
			return img
		}
	}
	return nil
}

// ImageIndex returns the z-order index of the image, or -1.
func (d *Document) ImageIndex(id string) int {
	for i, img := range d.Images {
		if img.ID == id {
			return i
		}
	}
	return -1
}

// FindGroup returns the group with the given id, or nil.
func (d *Document) FindGroup(id string) *Group {
	for _, g := range d.Groups {
		if g.ID == id {
			return g
		}
	}
	return nil
}

// FindCanvasAnnotation returns the floating annotation with the given id,
// or nil.
func (d *Document) FindCanvasAnnotation(id string) *annotation.Annotation {
	for _, a := range d.CanvasAnnotations {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// RemoveCanvasAnnotation removes the floating annotation with the given
// id, reporting whether it was present.
func (d *Document) RemoveCanvasAnnotation(id string) bool {
	for i, a := range d.CanvasAnnotations {
		if a.ID == id {
			d.CanvasAnnotations = append(d.CanvasAnnotations[:i], d.CanvasAnnotations[i+1:]...)
			return true
		}
	}
	return false
}

// GroupOf returns the group directly containing the image, or nil when the
// image is top-level.
func (d *Document) GroupOf(imageID string) *Group {
	for _, g := range d.Groups {
		for _, id := range g.ImageIDs {
			if id == imageID {
				return g
			}
		}
	}
	return nil
}

// AnnotationSelection identifies one annotation by owner: ImageID is empty
// for a canvas annotation. Selections are UI state, not document state;
// they are not recorded in history.
type AnnotationSelection struct {
	ImageID      string
	AnnotationID string
}

// Resolve returns the selected annotation within the document, or nil when
// the selection no longer references anything (after undo, for example).
func (s AnnotationSelection) Resolve(d *Document) *annotation.Annotation {
	if s.AnnotationID == "" {
		return nil
	}
	if s.ImageID == "" {
		return d.FindCanvasAnnotation(s.AnnotationID)
	}
	img := d.FindImage(s.ImageID)
	if img == nil {
		return nil
	}
	return img.FindAnnotation(s.AnnotationID)
}
