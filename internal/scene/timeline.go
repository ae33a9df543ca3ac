package scene

import (
	"errors"
	"fmt"
)

// ErrNoCallback indicates stepping a timeline nobody subscribed to.
var ErrNoCallback = errors.New("scene: no frame callback registered")

// Timeline is a host with a 1-based frame counter over [Start, End]. It
// forwards publications to the wrapped Recorder.
type Timeline struct {
	*Recorder
	Start, End int

	current  int
	callback func(frame int) error
}

func NewTimeline(frames int) *Timeline {
	return &Timeline{Recorder: NewRecorder(), Start: 1, End: frames, current: 1}
}

func (t *Timeline) RegisterFrameCallback(fn func(frame int) error) {
	t.callback = fn
}

func (t *Timeline) Current() int { return t.current }

// Seek jumps to frame, clamped to the timeline range, and fires the callback.
func (t *Timeline) Seek(frame int) error {
	if t.callback == nil {
		return ErrNoCallback
	}
	if frame < t.Start {
		frame = t.Start
	}
	if frame > t.End {
		frame = t.End
	}
	if err := t.callback(frame); err != nil {
		return fmt.Errorf("frame %d: %w", frame, err)
	}
	t.current = frame
	return nil
}

// Step moves by delta frames, wrapping around the range.
func (t *Timeline) Step(delta int) error {
	span := t.End - t.Start + 1
	if span <= 0 {
		return nil
	}
	next := ((t.current-t.Start+delta)%span+span)%span + t.Start
	return t.Seek(next)
}

// Play fires every frame from Start to End once.
func (t *Timeline) Play() error {
	for f := t.Start; f <= t.End; f++ {
		if err := t.Seek(f); err != nil {
			return err
		}
	}
	return nil
}
