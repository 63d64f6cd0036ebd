package canvas

import "fmt"

// GeometryError reports a degenerate transform input, such as a
// non-positive image scale. The invariants of the document model make it
// unreachable in normal operation, but transform entry points guard for
// it so a corrupted value surfaces as an error instead of NaN geometry.
type GeometryError struct {
	ImageID string
	Reason  string
}

func (e *GeometryError) Error() string {
	if e.ImageID == "" {
		return fmt.Sprintf("degenerate geometry: %s", e.Reason)
	}
	return fmt.Sprintf("degenerate geometry on image %s: %s", e.ImageID, e.Reason)
}

// CycleError reports a group reparenting that would create a cycle in the
// group hierarchy. The operation is rejected and the document unchanged.
type CycleError struct {
	ChildID  string
	ParentID string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("moving group %s under %s would create a cycle", e.ChildID, e.ParentID)
}

// EmptyCropError reports a crop rectangle that intersects no eligible
// image. The crop is a no-op.
type EmptyCropError struct{}

func (e *EmptyCropError) Error() string {
	return "crop rectangle does not intersect any croppable image"
}

// NotFoundError reports an id that does not resolve to an image, group or
// annotation in the document.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}
