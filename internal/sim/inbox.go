package sim

import "sync/atomic"

// Pointer is the latest pointer sample. Hover is set when the pointer is
// over an interactive element.
type Pointer struct {
	Pos   Vec
	Hover bool
}

// Input is what a tick consumes from the Inbox.
type Input struct {
	Pointer *Pointer // nil when the pointer is off the surface
	Size    *Size    // nil when the surface size has not changed
}

// Inbox is a single-slot mailbox between event producers and the tick.
// Producers overwrite the latest pointer and size; the tick takes both
// once per frame. Safe for concurrent use.
type Inbox struct {
	pointer atomic.Pointer[Pointer]
	size    atomic.Pointer[Size]
}

// PostPointer records the latest pointer position.
func (b *Inbox) PostPointer(x, y float64, hover bool) {
	b.pointer.Store(&Pointer{Pos: Vec{x, y}, Hover: hover})
}

// ClearPointer records that the pointer left the surface.
func (b *Inbox) ClearPointer() {
	b.pointer.Store(nil)
}

// PostSize records the latest surface size.
func (b *Inbox) PostSize(w, h float64) {
	b.size.Store(&Size{W: w, H: h})
}

// Take returns the latest pointer (which stays current until replaced) and
// any size posted since the previous Take.
func (b *Inbox) Take() Input {
	in := Input{Pointer: b.pointer.Load()}
	in.Size = b.size.Swap(nil)
	return in
}
