//go:build !js || !wasm
// +build !js !wasm

// Package dom binds the viewport controller to a browser host element
// (stub for non-WASM builds).
package dom

import (
	"fmt"
	"time"
)

// Surface is the browser host surface (stub for non-WASM builds).
type Surface struct{}

// ByID looks up host and content elements by their DOM ids (stub).
func ByID(hostID, contentID string) (*Surface, error) {
	return nil, fmt.Errorf("dom surface is only available in WASM builds")
}

// RAF is the requestAnimationFrame scheduler (stub for non-WASM builds).
type RAF struct{}

// NewRAF creates a requestAnimationFrame scheduler (stub).
func NewRAF() *RAF {
	return &RAF{}
}

// Request schedules fn for the next animation frame (stub; fn never runs).
func (r *RAF) Request(fn func(now time.Time)) (cancel func()) {
	return func() {}
}
