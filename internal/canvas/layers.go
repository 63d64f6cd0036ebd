package canvas

// Move names the layer reorder operations.
type Move int

const (
	MoveUp Move = iota
	MoveDown
	MoveTop
	MoveBottom
	MoveToIndex
)

// LayerItemKind discriminates entries in the flattened layer list.
type LayerItemKind int

const (
	LayerImage LayerItemKind = iota
	LayerGroup
)

// LayerItem is one row of the flattened layer hierarchy.
type LayerItem struct {
	Kind  LayerItemKind
	ID    string
	Depth int
}

// Flatten walks the group hierarchy and returns the layer rows in
// bottom-to-top z-order (index 0 renders first), the same direction as
// the Images slice. Collapsed groups contribute a single row; expanded
// groups are followed by their children, indented one depth level.
func (d *Document) Flatten() []LayerItem {
	var items []LayerItem
	seen := make(map[string]bool)
	for _, it := range d.topLevelItems() {
		if it.group == nil {
			items = append(items, LayerItem{Kind: LayerImage, ID: it.imageID})
			continue
		}
		items = append(items, d.flattenGroup(it.group, 0, seen)...)
	}
	return items
}

// flattenGroup emits one group's rows. Each group appears at most once;
// the seen set keeps a corrupted cyclic graph from recursing forever.
func (d *Document) flattenGroup(g *Group, depth int, seen map[string]bool) []LayerItem {
	if seen[g.ID] {
		return nil
	}
	seen[g.ID] = true
	items := []LayerItem{{Kind: LayerGroup, ID: g.ID, Depth: depth}}
	if !g.IsExpanded {
		return items
	}
	for _, id := range g.ImageIDs {
		if d.FindImage(id) != nil {
			items = append(items, LayerItem{Kind: LayerImage, ID: id, Depth: depth + 1})
		}
	}
	for _, cid := range g.GroupIDs {
		if child := d.FindGroup(cid); child != nil {
			items = append(items, d.flattenGroup(child, depth+1, seen)...)
		}
	}
	return items
}

// topItem is a top-level layer entry: an ungrouped image or a parentless
// group, positioned by its effective z.
type topItem struct {
	imageID string
	group   *Group
	z       int
}

// topLevelItems returns the top-level entries sorted by effective z: an
// image's own index, or the lowest index among a group's image
// descendants. Groups with no resolvable descendants sort last.
func (d *Document) topLevelItems() []topItem {
	var items []topItem
	for i, img := range d.Images {
		if d.GroupOf(img.ID) == nil {
			items = append(items, topItem{imageID: img.ID, z: i})
		}
	}
	for _, g := range d.Groups {
		if g.ParentID != "" {
			continue
		}
		z := len(d.Images)
		for _, id := range d.descendantImages(g) {
			if idx := d.ImageIndex(id); idx >= 0 && idx < z {
				z = idx
			}
		}
		items = append(items, topItem{group: g, z: z})
	}
	// Insertion sort; top-level lists are short.
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && items[j].z < items[j-1].z; j-- {
			items[j], items[j-1] = items[j-1], items[j]
		}
	}
	return items
}

// Reorder repositions an image or group among its siblings only: either
// the children of its containing group, or the top-level items. toIndex is
// used with MoveToIndex and is clamped to the sibling range. Reordering
// never moves an item across scopes.
func (d *Document) Reorder(itemID string, move Move, toIndex int) error {
	if d.FindImage(itemID) != nil {
		if g := d.GroupOf(itemID); g != nil {
			return d.reorderInGroup(g, itemID, move, toIndex)
		}
		return d.reorderTopLevel(itemID, move, toIndex)
	}
	if g := d.FindGroup(itemID); g != nil {
		if g.ParentID != "" {
			parent := d.FindGroup(g.ParentID)
			if parent == nil {
				return &NotFoundError{Kind: "group", ID: g.ParentID}
			}
			return d.reorderChildGroup(parent, itemID, move, toIndex)
		}
		return d.reorderTopLevel(itemID, move, toIndex)
	}
	return &NotFoundError{Kind: "layer item", ID: itemID}
}

// reorderInGroup splices an image within its group's ImageIDs and rewrites
// the group's slice of the master z-order.
func (d *Document) reorderInGroup(g *Group, imageID string, move Move, toIndex int) error {
	cur := -1
	for i, id := range g.ImageIDs {
		if id == imageID {
			cur = i
			break
		}
	}
	if cur < 0 {
		return &NotFoundError{Kind: "image", ID: imageID}
	}
	next, changed := targetIndex(cur, len(g.ImageIDs), move, toIndex)
	if !changed {
		return nil
	}
	g.ImageIDs = spliceIDs(g.ImageIDs, cur, next)
	d.rewriteScope(d.descendantImages(g))
	return nil
}

// reorderChildGroup splices a group within its parent's GroupIDs and
// rewrites the parent's slice of the master z-order.
func (d *Document) reorderChildGroup(parent *Group, groupID string, move Move, toIndex int) error {
	cur := -1
	for i, id := range parent.GroupIDs {
		if id == groupID {
			cur = i
			break
		}
	}
	if cur < 0 {
		return &NotFoundError{Kind: "group", ID: groupID}
	}
	next, changed := targetIndex(cur, len(parent.GroupIDs), move, toIndex)
	if !changed {
		return nil
	}
	parent.GroupIDs = spliceIDs(parent.GroupIDs, cur, next)
	d.rewriteScope(d.descendantImages(parent))
	return nil
}

// reorderTopLevel splices an ungrouped image or parentless group within
// the top-level item list, then rewrites the master z-order from the new
// top-level ordering. Members of untouched groups keep their relative
// order.
func (d *Document) reorderTopLevel(itemID string, move Move, toIndex int) error {
	items := d.topLevelItems()
	cur := -1
	for i, it := range items {
		id := it.imageID
		if it.group != nil {
			id = it.group.ID
		}
		if id == itemID {
			cur = i
			break
		}
	}
	if cur < 0 {
		return &NotFoundError{Kind: "layer item", ID: itemID}
	}
	next, changed := targetIndex(cur, len(items), move, toIndex)
	if !changed {
		return nil
	}
	moved := items[cur]
	items = append(items[:cur], items[cur+1:]...)
	rest := make([]topItem, 0, len(items)+1)
	rest = append(rest, items[:next]...)
	rest = append(rest, moved)
	rest = append(rest, items[next:]...)

	var order []string
	for _, it := range rest {
		if it.group != nil {
			order = append(order, d.descendantImages(it.group)...)
			continue
		}
		order = append(order, it.imageID)
	}
	d.rewriteScope(order)
	return nil
}

// rewriteScope reassigns the z-slots currently occupied by the scope's
// images so they follow the new ordering, leaving every image outside the
// scope at its exact index.
func (d *Document) rewriteScope(order []string) {
	inScope := make(map[string]bool, len(order))
	for _, id := range order {
		inScope[id] = true
	}
	var slots []int
	for i, img := range d.Images {
		if inScope[img.ID] {
			slots = append(slots, i)
		}
	}
	if len(slots) != len(order) {
		return
	}
	imgs := make([]*CanvasImage, len(order))
	for i, id := range order {
		imgs[i] = d.FindImage(id)
	}
	for i, slot := range slots {
		d.Images[slot] = imgs[i]
	}
}

// targetIndex resolves a Move against the current index and sibling
// count, reporting whether the position actually changes.
func targetIndex(cur, n int, move Move, toIndex int) (int, bool) {
	next := cur
	switch move {
	case MoveUp:
		next = cur + 1
	case MoveDown:
		next = cur - 1
	case MoveTop:
		next = n - 1
	case MoveBottom:
		next = 0
	case MoveToIndex:
		next = toIndex
	}
	if next < 0 {
		next = 0
	}
	if next > n-1 {
		next = n - 1
	}
	return next, next != cur
}

// spliceIDs moves ids[from] to position to, shifting the rest.
func spliceIDs(ids []string, from, to int) []string {
	id := ids[from]
	ids = append(ids[:from], ids[from+1:]...)
	out := make([]string, 0, len(ids)+1)
	out = append(out, ids[:to]...)
	out = append(out, id)
	out = append(out, ids[to:]...)
	return out
}
