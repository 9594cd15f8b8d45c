package editor

import (
	"slidecore/pkg/deck"
)

// SaveHistory snapshots the document. Callers invoke it before continuous
// edits such as typing or dragging, which do not snapshot themselves.
func (e *Editor) SaveHistory() {
	e.history.Save(e.doc.Snapshot())
}

// Undo restores the previous snapshot.
func (e *Editor) Undo() bool {
	snap, err := e.history.Undo(e.doc.Snapshot())
	if err != nil {
		return false
	}
	e.restore(snap)
	return true
}

// Redo restores the next snapshot.
func (e *Editor) Redo() bool {
	snap, err := e.history.Redo()
	if err != nil {
		return false
	}
	e.restore(snap)
	return true
}

// JumpToHistory restores snapshot i.
func (e *Editor) JumpToHistory(i int) bool {
	snap, err := e.history.Jump(i, e.doc.Snapshot())
	if err != nil {
		return false
	}
	e.restore(snap)
	return true
}

// RestoreSnapshot replaces the document with a copy of s. The result counts
// as an edit for undo purposes.
func (e *Editor) RestoreSnapshot(s deck.Snapshot) {
	e.doc.Restore(s.Clone())
	e.history.MarkDirty()
	e.unsaved = true
	e.Notify()
}

func (e *Editor) restore(s deck.Snapshot) {
	e.doc.Restore(s)
	e.unsaved = true
	e.Notify()
}
