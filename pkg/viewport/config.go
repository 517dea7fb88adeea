package viewport

import (
	"time"

	"github.com/recera/vantage/pkg/frame"
)

// Defaults applied by Config.withDefaults for unset or malformed fields.
const (
	DefaultMinZoom           = 0.1
	DefaultMaxZoom           = 5.0
	DefaultZoomStep          = 0.1
	DefaultAnimationDuration = 300 * time.Millisecond
)

// arrowPanStep is the pan distance of a single arrow-key press, in pixels.
const arrowPanStep = 50.0

// Config tunes a Controller. The zero value selects every default.
// Config is read once at construction; later changes have no effect on a
// running controller.
type Config struct {
	// MinZoom and MaxZoom bound the scale factor. MinZoom must be
	// positive; a controller never produces a non-positive scale.
	MinZoom float64
	MaxZoom float64

	// ZoomStep is the fractional increment of a discrete zoom action
	// (wheel notch, keyboard +/-): one step multiplies the scale by
	// 1+ZoomStep or 1-ZoomStep.
	ZoomStep float64

	// PanEnabled and ZoomEnabled gate drag/touch panning and wheel/pinch
	// zooming. Nil means enabled.
	PanEnabled  *bool
	ZoomEnabled *bool

	// AnimationDuration is the length of animated transitions.
	AnimationDuration time.Duration

	// Scheduler drives animated transitions. Nil selects the shared
	// ticker-backed scheduler.
	Scheduler frame.Scheduler

	// Scope, when set, supplies pointer-move and pointer-up events in
	// place of the surface so drags survive leaving the surface bounds.
	Scope PointerScope
}

// Bool returns a pointer to b, for filling the *bool config fields.
func Bool(b bool) *bool {
	return &b
}

// settings is a Config with every default resolved.
type settings struct {
	minZoom     float64
	maxZoom     float64
	zoomStep    float64
	panEnabled  bool
	zoomEnabled bool
	animDur     time.Duration
	scheduler   frame.Scheduler
	scope       PointerScope
}

// withDefaults resolves the configuration. Malformed numeric values fall
// back to defaults rather than failing construction: an out-of-range
// request is normal input here, not an error.
func (c Config) withDefaults() settings {
	s := settings{
		minZoom:     c.MinZoom,
		maxZoom:     c.MaxZoom,
		zoomStep:    c.ZoomStep,
		panEnabled:  c.PanEnabled == nil || *c.PanEnabled,
		zoomEnabled: c.ZoomEnabled == nil || *c.ZoomEnabled,
		animDur:     c.AnimationDuration,
		scheduler:   c.Scheduler,
		scope:       c.Scope,
	}
	if s.minZoom <= 0 {
		s.minZoom = DefaultMinZoom
	}
	if s.maxZoom < s.minZoom {
		s.maxZoom = DefaultMaxZoom
	}
	if s.maxZoom < s.minZoom {
		// DefaultMaxZoom can still sit below a custom MinZoom.
		s.maxZoom = s.minZoom
	}
	if s.zoomStep <= 0 {
		s.zoomStep = DefaultZoomStep
	}
	if s.animDur <= 0 {
		s.animDur = DefaultAnimationDuration
	}
	if s.scheduler == nil {
		s.scheduler = frame.Default()
	}
	return s
}
