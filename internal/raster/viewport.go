// Package raster converts rendered documents into pixel images.
package raster

import "sync"

// Viewport is the layout constraint of the on-screen preview: content taller
// than the clip height is cut off unless the viewport is relaxed.
type Viewport struct {
	scope sync.Mutex // held from Relax until restore

	mu         sync.Mutex
	clipHeight int
	relaxed    bool
}

// NewViewport creates a viewport clipping at clipHeight pixels (unscaled).
// A clip height of zero or less never clips.
func NewViewport(clipHeight int) *Viewport {
	return &Viewport{clipHeight: clipHeight}
}

// Relax lifts the clip so the full height is captured. The returned restore
// func reinstates the previous constraints and must run on every path;
// calling it more than once is harmless. A second Relax blocks until the
// first scope is restored.
func (v *Viewport) Relax() (restore func()) {
	v.scope.Lock()

	v.mu.Lock()
	prev := v.relaxed
	v.relaxed = true
	v.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			v.relaxed = prev
			v.mu.Unlock()
			v.scope.Unlock()
		})
	}
}

// Clip returns the clip height and whether clipping is in effect
func (v *Viewport) Clip() (int, bool) {
	if v == nil {
		return 0, false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.relaxed || v.clipHeight <= 0 {
		return 0, false
	}
	return v.clipHeight, true
}

// Relaxed reports whether a relax scope is active
func (v *Viewport) Relaxed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.relaxed
}
