// Package dicetest provides scripted dice sources for deterministic tests.
package dicetest

import "sync"

// Faces is a Source that yields the queued die faces in order. Once the queue
// is exhausted every die shows 1. A face larger than the die is wrapped.
type Faces struct {
	mu    sync.Mutex
	faces []int
}

// NewFaces returns a Source that will roll faces in order.
func NewFaces(faces ...int) *Faces {
	return &Faces{faces: append([]int(nil), faces...)}
}

// Intn implements dice.Source.
func (f *Faces) Intn(n int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.faces) == 0 {
		return 0
	}
	v := f.faces[0]
	f.faces = f.faces[1:]
	if v < 1 {
		v = 1
	}
	return (v - 1) % n
}

// Remaining returns how many scripted faces have not been consumed.
func (f *Faces) Remaining() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.faces)
}
