// Package overlay describes the externally owned page elements the canvas
// writes to: index link boxes and case highlight strips.
package overlay

import "sync"

// Box is a pixel rectangle positioned by its top-left corner.
type Box struct {
	X      float32
	Y      float32
	Width  float32
	Height float32
}

// Sink receives style and state writes. Implementations must not call back
// into the canvas.
type Sink interface {
	SetLinkBox(index int, box Box)
	SetLinkActive(index int, active bool)
	SetStripOffset(strip int, x float32)
	SetStripButton(strip, button int, x float32)
}

// Discard ignores every write.
type Discard struct{}

func (Discard) SetLinkBox(int, Box) {}
func (Discard) SetLinkActive(int, bool) {}
func (Discard) SetStripOffset(int, float32) {}
func (Discard) SetStripButton(int, int, float32) {}

type stripButton struct {
	strip  int
	button int
}

// Recorder keeps the latest value of every write and counts them.
type Recorder struct {
	mu      sync.Mutex
	boxes   map[int]Box
	active  map[int]bool
	strips  map[int]float32
	buttons map[stripButton]float32
	writes  int
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		boxes:   make(map[int]Box),
		active:  make(map[int]bool),
		strips:  make(map[int]float32),
		buttons: make(map[stripButton]float32),
	}
}

func (r *Recorder) SetLinkBox(index int, box Box) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.boxes[index] = box
	r.writes++
}

func (r *Recorder) SetLinkActive(index int, active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active[index] = active
	r.writes++
}

func (r *Recorder) SetStripOffset(strip int, x float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strips[strip] = x
	r.writes++
}

func (r *Recorder) SetStripButton(strip, button int, x float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buttons[stripButton{strip, button}] = x
	r.writes++
}

// LinkBox returns the last box written for index.
func (r *Recorder) LinkBox(index int) (Box, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	box, ok := r.boxes[index]
	return box, ok
}

// LinkActive returns the last active state written for index.
func (r *Recorder) LinkActive(index int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active[index]
}

// StripOffset returns the last translation written for strip.
func (r *Recorder) StripOffset(strip int) float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.strips[strip]
}

// StripButton returns the last translation written for a strip button.
func (r *Recorder) StripButton(strip, button int) float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buttons[stripButton{strip, button}]
}

// Writes counts every write so far.
func (r *Recorder) Writes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}

// Reset forgets every write.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.boxes)
	clear(r.active)
	clear(r.strips)
	clear(r.buttons)
	r.writes = 0
}
