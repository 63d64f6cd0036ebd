// Package project provides project file persistence: a versioned,
// self-contained JSON document carrying the canvas state with bitmaps
// embedded as data URLs. Loading validates and sanitizes at this boundary
// so the rest of the core can trust the document invariants.
package project

import (
	"encoding/json"
	"fmt"
	"os"

	"canvas-annotator/internal/annotation"
	"canvas-annotator/internal/canvas"
	"canvas-annotator/pkg/geometry"
)

// Version is the project file format version this package reads and
// writes.
const Version = "1.0"

// LoadError reports a malformed or unsupported project file. The caller's
// current document is never touched when loading fails.
type LoadError struct {
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("loading project: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("loading project: %s", e.Reason)
}

func (e *LoadError) Unwrap() error { return e.Err }

// File is the on-disk project document.
type File struct {
	Version string `json:"version"`
	State   State  `json:"state"`
}

// State is the persisted canvas state.
type State struct {
	Images            []*canvas.CanvasImage          `json:"images"`
	ArchivedImages    map[string]*canvas.CanvasImage `json:"archivedImages,omitempty"`
	Groups            []*canvas.Group                `json:"groups,omitempty"`
	CanvasAnnotations []*annotation.Annotation       `json:"canvasAnnotations,omitempty"`
	ViewTransform     ViewTransform                  `json:"viewTransform"`
	CropArea          *geometry.Rect                 `json:"cropArea,omitempty"`
}

// ViewTransform is the persisted viewport: zoom factor and pan offset.
type ViewTransform struct {
	Scale  float64          `json:"scale"`
	Offset geometry.Point2D `json:"offset"`
}

// New builds a project file from the live state. Image DataURL fields are
// expected to already carry the embedded bitmaps, making the file
// portable.
func New(doc *canvas.Document, archive canvas.Archive, view ViewTransform, cropArea *geometry.Rect) *File {
	state := State{
		Images:            doc.Images,
		Groups:            doc.Groups,
		CanvasAnnotations: doc.CanvasAnnotations,
		ViewTransform:     view,
		CropArea:          cropArea,
	}
	if len(archive) > 0 {
		state.ArchivedImages = make(map[string]*canvas.CanvasImage, len(archive))
		for id, img := range archive {
			state.ArchivedImages[id] = img
		}
	}
	return &File{Version: Version, State: state}
}

// Encode serializes the project file as indented JSON.
func (f *File) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding project: %w", err)
	}
	return data, nil
}

// Save writes the project file to disk.
func (f *File) Save(path string) error {
	data, err := f.Encode()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Decode parses, validates and sanitizes a project document. Validation
// happens once here; downstream code relies on the invariants (positive
// scales, known annotation kinds, resolvable group references, an acyclic
// group graph) without re-checking.
func Decode(data []byte) (*File, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, &LoadError{Reason: "malformed JSON", Err: err}
	}
	if f.Version != Version {
		return nil, &LoadError{Reason: fmt.Sprintf("unsupported version %q", f.Version)}
	}
	if err := validate(&f.State); err != nil {
		return nil, err
	}
	sanitize(&f.State)
	if err := checkGroups(&f.State); err != nil {
		return nil, err
	}
	return &f, nil
}

// Load reads and decodes a project file from disk.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Document extracts the editable state from a decoded file.
func (f *File) Document() *canvas.Document {
	return &canvas.Document{
		Images:            f.State.Images,
		Groups:            f.State.Groups,
		CanvasAnnotations: f.State.CanvasAnnotations,
	}
}

// Archive extracts the crop archive from a decoded file.
func (f *File) Archive() canvas.Archive {
	ar := make(canvas.Archive, len(f.State.ArchivedImages))
	for id, img := range f.State.ArchivedImages {
		ar[id] = img
	}
	return ar
}

// validate rejects shapes the core cannot safely hold.
func validate(s *State) error {
	seen := make(map[string]bool, len(s.Images))
	for _, img := range s.Images {
		if img == nil || img.ID == "" {
			return &LoadError{Reason: "image without id"}
		}
		if seen[img.ID] {
			return &LoadError{Reason: fmt.Sprintf("duplicate image id %q", img.ID)}
		}
		seen[img.ID] = true
		if img.Scale <= 0 {
			return &LoadError{Reason: fmt.Sprintf("image %s has non-positive scale", img.ID)}
		}
		if img.Width < 0 || img.Height < 0 {
			return &LoadError{Reason: fmt.Sprintf("image %s has negative size", img.ID)}
		}
		for _, a := range img.Annotations {
			if !a.Kind.Valid() {
				return &LoadError{Reason: fmt.Sprintf("image %s has annotation of unknown kind %q", img.ID, a.Kind)}
			}
		}
	}
	for _, a := range s.CanvasAnnotations {
		if !a.Kind.Valid() {
			return &LoadError{Reason: fmt.Sprintf("canvas annotation of unknown kind %q", a.Kind)}
		}
	}
	for _, g := range s.Groups {
		if g == nil || g.ID == "" {
			return &LoadError{Reason: "group without id"}
		}
	}
	return nil
}

// sanitize drops group references to ids that do not exist, then drops
// groups left with no children. Dropping a group can empty its parent, so
// the pass repeats until stable.
func sanitize(s *State) {
	images := make(map[string]bool, len(s.Images))
	for _, img := range s.Images {
		images[img.ID] = true
	}

	for {
		groups := make(map[string]bool, len(s.Groups))
		for _, g := range s.Groups {
			groups[g.ID] = true
		}

		for _, g := range s.Groups {
			g.ImageIDs = filterIDs(g.ImageIDs, images)
			g.GroupIDs = filterIDs(g.GroupIDs, groups)
			if g.ParentID != "" && !groups[g.ParentID] {
				g.ParentID = ""
			}
		}

		kept := s.Groups[:0]
		dropped := false
		for _, g := range s.Groups {
			if len(g.ImageIDs) == 0 && len(g.GroupIDs) == 0 {
				dropped = true
				continue
			}
			kept = append(kept, g)
		}
		s.Groups = kept
		if !dropped {
			return
		}
	}
}

// checkGroups enforces the structural invariants of the group graph
// after sanitization: unique ids, at most one parent per item, parent
// pointers agreeing with child lists, and an acyclic hierarchy. The
// recursive group walks downstream rely on these holding.
func checkGroups(s *State) error {
	groups := make(map[string]*canvas.Group, len(s.Groups))
	for _, g := range s.Groups {
		if groups[g.ID] != nil {
			return &LoadError{Reason: fmt.Sprintf("duplicate group id %q", g.ID)}
		}
		groups[g.ID] = g
	}

	imageParent := make(map[string]string)
	groupParent := make(map[string]string)
	for _, g := range s.Groups {
		for _, id := range g.ImageIDs {
			if other, ok := imageParent[id]; ok {
				return &LoadError{Reason: fmt.Sprintf("image %s is a child of groups %s and %s", id, other, g.ID)}
			}
			imageParent[id] = g.ID
		}
		for _, cid := range g.GroupIDs {
			if other, ok := groupParent[cid]; ok {
				return &LoadError{Reason: fmt.Sprintf("group %s is a child of groups %s and %s", cid, other, g.ID)}
			}
			groupParent[cid] = g.ID
			if child := groups[cid]; child != nil && child.ParentID != g.ID {
				return &LoadError{Reason: fmt.Sprintf("group %s is listed under %s but has parent %q", cid, g.ID, child.ParentID)}
			}
		}
	}
	for _, g := range s.Groups {
		if g.ParentID != "" && groupParent[g.ID] != g.ParentID {
			return &LoadError{Reason: fmt.Sprintf("group %s names parent %s which does not list it", g.ID, g.ParentID)}
		}
	}

	// With single parents and agreeing pointers, any remaining cycle shows
	// up as a parent chain that never reaches the top level.
	for _, g := range s.Groups {
		steps := 0
		for id := g.ParentID; id != ""; id = groups[id].ParentID {
			steps++
			if steps > len(s.Groups) {
				return &LoadError{Reason: fmt.Sprintf("group %s is part of a cycle", g.ID)}
			}
		}
	}
	return nil
}

func filterIDs(ids []string, valid map[string]bool) []string {
	kept := ids[:0]
	for _, id := range ids {
		if valid[id] {
			kept = append(kept, id)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}
