// Package history records committed document snapshots for undo/redo and
// holds the live overlay used by continuous interactions, so a drag
// produces one history entry instead of one per pointer move.
package history

import (
	"sync"

	"canvas-annotator/internal/canvas"
)

// MaxEntries bounds the history length; the oldest entries are evicted
// once the cap is reached.
const MaxEntries = 50

// EventType identifies store notifications.
type EventType int

const (
	EventCommitted EventType = iota
	EventUndone
	EventRedone
	EventStaged
	EventDiscarded
	EventSelectionChanged
)

// Listener is called with the current document after an event.
type Listener func(doc *canvas.Document)

// Store is the append-only snapshot history plus the live overlay. It has
// two states: Idle (no overlay, reads resolve to the committed entry at
// index) and Staging (overlay present, diverging from that entry). Undo
// and redo only move the index; they never inspect the overlay beyond
// clearing it.
type Store struct {
	mu      sync.RWMutex
	entries []*canvas.Document
	index   int
	live    *canvas.Document
	archive canvas.Archive

	selection     canvas.AnnotationSelection
	selectedImage string

	listeners map[EventType][]Listener
}

// NewStore creates a store seeded with a single empty document snapshot.
func NewStore() *Store {
	return &Store{
		entries:   []*canvas.Document{canvas.NewDocument()},
		archive:   make(canvas.Archive),
		listeners: make(map[EventType][]Listener),
	}
}

// On registers a listener for the given event type.
func (s *Store) On(event EventType, fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], fn)
}

func (s *Store) emit(event EventType, doc *canvas.Document) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(doc)
	}
}

// Current returns the document all reads resolve to: the live overlay
// when staging, otherwise the committed entry at the index. Callers must
// treat it as read-only; mutations go through Working and Stage/Commit.
func (s *Store) Current() *canvas.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentLocked()
}

func (s *Store) currentLocked() *canvas.Document {
	if s.live != nil {
		return s.live
	}
	return s.entries[s.index]
}

// Working returns a mutable clone of the current document for building
// the next staged or committed state.
func (s *Store) Working() *canvas.Document {
	return s.Current().Clone()
}

// Archive returns the crop archive. Entries are append-only, so it is
// shared across history navigation rather than snapshotted.
func (s *Store) Archive() canvas.Archive {
	return s.archive
}

// Staging reports whether a live overlay is present.
func (s *Store) Staging() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.live != nil
}

// Stage installs doc as the live overlay without touching the entries.
// Interactive handlers call this once per input frame during a drag.
func (s *Store) Stage(doc *canvas.Document) {
	s.mu.Lock()
	s.live = doc
	s.mu.Unlock()
	s.emit(EventStaged, doc)
}

// Discard drops the live overlay without committing, returning to the
// last committed entry. Used when an interaction is cancelled.
func (s *Store) Discard() {
	s.mu.Lock()
	if s.live == nil {
		s.mu.Unlock()
		return
	}
	s.live = nil
	doc := s.entries[s.index]
	s.mu.Unlock()
	s.emit(EventDiscarded, doc)
}

// Commit appends doc as a new history entry after the current index,
// truncating any redo tail, enforcing the length cap, and clearing the
// live overlay. The stored entry is a clone, so later mutation of doc
// cannot corrupt history.
func (s *Store) Commit(doc *canvas.Document) {
	s.mu.Lock()
	snap := doc.Clone()
	s.entries = append(s.entries[:s.index+1], snap)
	s.index++
	if len(s.entries) > MaxEntries {
		over := len(s.entries) - MaxEntries
		s.entries = s.entries[over:]
		s.index -= over
	}
	s.live = nil
	s.mu.Unlock()
	s.emit(EventCommitted, snap)
}

// CommitStaged commits the live overlay, reporting whether one existed.
func (s *Store) CommitStaged() bool {
	s.mu.RLock()
	doc := s.live
	s.mu.RUnlock()
	if doc == nil {
		return false
	}
	s.Commit(doc)
	return true
}

// CanUndo reports whether an earlier entry exists.
func (s *Store) CanUndo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index > 0
}

// CanRedo reports whether a later entry exists.
func (s *Store) CanRedo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index < len(s.entries)-1
}

// Undo steps back one entry. It is a guarded no-op at the beginning of
// history. Any stray overlay is cleared and the selection reset, since it
// may reference ids that no longer exist in the target entry.
func (s *Store) Undo() bool {
	s.mu.Lock()
	if s.index <= 0 {
		s.mu.Unlock()
		return false
	}
	s.live = nil
	s.index--
	s.selection = canvas.AnnotationSelection{}
	s.selectedImage = ""
	doc := s.entries[s.index]
	s.mu.Unlock()
	s.emit(EventUndone, doc)
	return true
}

// Redo steps forward one entry, with the same overlay and selection
// handling as Undo.
func (s *Store) Redo() bool {
	s.mu.Lock()
	if s.index >= len(s.entries)-1 {
		s.mu.Unlock()
		return false
	}
	s.live = nil
	s.index++
	s.selection = canvas.AnnotationSelection{}
	s.selectedImage = ""
	doc := s.entries[s.index]
	s.mu.Unlock()
	s.emit(EventRedone, doc)
	return true
}

// Len returns the number of committed entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Index returns the current entry index.
func (s *Store) Index() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// SetSelection records the active annotation selection.
func (s *Store) SetSelection(sel canvas.AnnotationSelection) {
	s.mu.Lock()
	s.selection = sel
	doc := s.currentLocked()
	s.mu.Unlock()
	s.emit(EventSelectionChanged, doc)
}

// Selection returns the active annotation selection; it is zero after
// undo/redo navigation.
func (s *Store) Selection() canvas.AnnotationSelection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection
}

// SetSelectedImage records the active image selection.
func (s *Store) SetSelectedImage(id string) {
	s.mu.Lock()
	s.selectedImage = id
	doc := s.currentLocked()
	s.mu.Unlock()
	s.emit(EventSelectionChanged, doc)
}

// SelectedImage returns the active image selection id, empty when none.
func (s *Store) SelectedImage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedImage
}
