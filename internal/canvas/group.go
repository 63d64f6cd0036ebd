package canvas

// Group is a named, nestable collection of images and child groups in the
// layer hierarchy. A group has no z-slot of its own; its visual position
// is implied by its image descendants. The parent graph is acyclic and an
// item has at most one direct parent.
type Group struct {
	ID         string   `json:"id"`
	Name       string   `json:"name,omitempty"`
	ImageIDs   []string `json:"imageIds,omitempty"`
	GroupIDs   []string `json:"groupIds,omitempty"`
	ParentID   string   `json:"parentId,omitempty"`
	IsExpanded bool     `json:"isExpanded"`
}

// Clone returns a deep copy of the group.
func (g *Group) Clone() *Group {
	dup := *g
	if g.ImageIDs != nil {
		dup.ImageIDs = make([]string, len(g.ImageIDs))
		copy(dup.ImageIDs, g.ImageIDs)
	}
	if g.GroupIDs != nil {
		dup.GroupIDs = make([]string, len(g.GroupIDs))
		copy(dup.GroupIDs, g.GroupIDs)
	}
	return &dup
}

// ContainsImage reports whether the image is a direct child.
func (g *Group) ContainsImage(imageID string) bool {
	for _, id := range g.ImageIDs {
		if id == imageID {
			return true
		}
	}
	return false
}

// RemoveImage removes a direct image child, reporting whether present.
func (g *Group) RemoveImage(imageID string) bool {
	for i, id := range g.ImageIDs {
		if id == imageID {
			g.ImageIDs = append(g.ImageIDs[:i], g.ImageIDs[i+1:]...)
			return true
		}
	}
	return false
}

// removeChildGroup removes a direct group child, reporting whether present.
func (g *Group) removeChildGroup(groupID string) bool {
	for i, id := range g.GroupIDs {
		if id == groupID {
			g.GroupIDs = append(g.GroupIDs[:i], g.GroupIDs[i+1:]...)
			return true
		}
	}
	return false
}

// isAncestor walks the parent chain of groupID and reports whether
// ancestorID appears in it (or is groupID itself). Used to reject cyclic
// reparenting before any mutation. The seen set bounds the walk even if
// the chain is already corrupted into a loop.
func (d *Document) isAncestor(ancestorID, groupID string) bool {
	seen := make(map[string]bool)
	for id := groupID; id != "" && !seen[id]; {
		if id == ancestorID {
			return true
		}
		seen[id] = true
		g := d.FindGroup(id)
		if g == nil {
			return false
		}
		id = g.ParentID
	}
	return false
}

// descendantImages returns the image ids under a group in layer order:
// direct images first, then each child group's descendants, recursively.
// Unresolvable child ids are skipped; a group is visited at most once, so
// a corrupted cyclic graph yields a bounded walk instead of unbounded
// recursion.
func (d *Document) descendantImages(g *Group) []string {
	return d.appendDescendantImages(nil, g, make(map[string]bool))
}

func (d *Document) appendDescendantImages(out []string, g *Group, seen map[string]bool) []string {
	if seen[g.ID] {
		return out
	}
	seen[g.ID] = true
	for _, id := range g.ImageIDs {
		if d.FindImage(id) != nil {
			out = append(out, id)
		}
	}
	for _, cid := range g.GroupIDs {
		if child := d.FindGroup(cid); child != nil {
			out = d.appendDescendantImages(out, child, seen)
		}
	}
	return out
}

// ReparentGroup moves a group under a new parent group, or to the top
// level when newParentID is empty. The move is rejected with a CycleError
// when the child appears in the new parent's ancestor chain; the document
// is left unchanged in that case.
func (d *Document) ReparentGroup(childID, newParentID string) error {
	child := d.FindGroup(childID)
	if child == nil {
		return &NotFoundError{Kind: "group", ID: childID}
	}
	var newParent *Group
	if newParentID != "" {
		newParent = d.FindGroup(newParentID)
		if newParent == nil {
			return &NotFoundError{Kind: "group", ID: newParentID}
		}
		if d.isAncestor(childID, newParentID) {
			return &CycleError{ChildID: childID, ParentID: newParentID}
		}
	}

	if child.ParentID != "" {
		if old := d.FindGroup(child.ParentID); old != nil {
			old.removeChildGroup(childID)
		}
	}
	child.ParentID = newParentID
	if newParent != nil {
		newParent.GroupIDs = append(newParent.GroupIDs, childID)
	}
	return nil
}

// AssignImageToGroup moves an image into a group, or to the top level when
// groupID is empty. The image keeps its z-position; only membership moves.
func (d *Document) AssignImageToGroup(imageID, groupID string) error {
	if d.FindImage(imageID) == nil {
		return &NotFoundError{Kind: "image", ID: imageID}
	}
	var target *Group
	if groupID != "" {
		target = d.FindGroup(groupID)
		if target == nil {
			return &NotFoundError{Kind: "group", ID: groupID}
		}
	}
	if old := d.GroupOf(imageID); old != nil {
		old.RemoveImage(imageID)
	}
	if target != nil {
		target.ImageIDs = append(target.ImageIDs, imageID)
	}
	return nil
}
