package animator

import (
	"errors"
	"fmt"

	"github.com/san-kum/springpend/internal/kinematics"
	"github.com/san-kum/springpend/internal/logger"
	"github.com/san-kum/springpend/internal/series"
	"github.com/san-kum/springpend/internal/spring"
	"go.uber.org/zap"
)

// ErrNotReady indicates Advance was called before Setup.
var ErrNotReady = errors.New("animator: setup has not run")

type state int

const (
	uninitialized state = iota
	ready
)

// Output is everything computed for one frame.
type Output struct {
	Index   int
	Bodies  []kinematics.BodyPose
	Springs map[spring.ID]*spring.Mesh
}

type Animator struct {
	engine    *kinematics.Engine
	gen       *spring.Generator
	scene     Scene
	mode      SpringMode
	observers []FrameObserver

	state  state
	cached map[spring.ID]*spring.Mesh
}

func New(engine *kinematics.Engine, gen *spring.Generator, scene Scene, opts ...Option) *Animator {
	a := &Animator{
		engine: engine,
		gen:    gen,
		scene:  scene,
		mode:   Regenerate,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Animator) Mode() SpringMode { return a.mode }
func (a *Animator) Len() int         { return a.engine.Series().Len() }
func (a *Animator) Ready() bool      { return a.state == ready }

// Setup publishes the static bodies. Calling it again republishes them.
func (a *Animator) Setup() error {
	for _, b := range a.engine.Static() {
		if err := a.scene.UpsertBody(b.ID, b.Pose); err != nil {
			return fmt.Errorf("setup %s: %w", b.ID, err)
		}
	}
	a.state = ready
	logger.Debug("animator ready",
		zap.Int("frames", a.Len()),
		zap.Float64("ground", a.engine.GroundHeight()),
		zap.String("springs", string(a.mode)))
	return nil
}

// Compute builds the output for sample n without touching the scene. With
// Reuse or Omit it produces no springs.
func (a *Animator) Compute(n int) (*Output, error) {
	return a.compute(n, a.mode == Regenerate)
}

func (a *Animator) compute(n int, springs bool) (*Output, error) {
	f, err := a.engine.Dynamic(n)
	if err != nil {
		return nil, err
	}
	out := &Output{Index: n, Bodies: f.Bodies}
	if springs {
		coil, torsion, err := a.gen.Both(n)
		if err != nil {
			return nil, err
		}
		out.Springs = map[spring.ID]*spring.Mesh{spring.Coil: coil, spring.Torsion: torsion}
	}
	return out, nil
}

// Advance computes and publishes sample n.
func (a *Animator) Advance(n int) error {
	if a.state != ready {
		return ErrNotReady
	}

	out, err := a.compute(n, a.mode == Regenerate || (a.mode == Reuse && a.cached == nil))
	if err != nil {
		return err
	}
	if a.mode == Reuse {
		if a.cached == nil {
			a.cached = out.Springs
		}
		out.Springs = a.cached
	}
	return a.publish(out)
}

func (a *Animator) publish(out *Output) error {
	for _, b := range out.Bodies {
		if err := a.scene.UpsertBody(b.ID, b.Pose); err != nil {
			return fmt.Errorf("frame %d, %s: %w", out.Index, b.ID, err)
		}
	}
	for _, id := range spring.IDs {
		m, ok := out.Springs[id]
		if !ok {
			continue
		}
		if err := a.scene.ReplaceSurface(id, m); err != nil {
			return fmt.Errorf("frame %d, %s spring: %w", out.Index, id, err)
		}
	}
	for _, o := range a.observers {
		o.OnFrame(out)
	}
	return nil
}

// Handler adapts Advance to a 1-based host frame callback.
func (a *Animator) Handler() func(frame int) error {
	return func(frame int) error {
		return a.Advance(series.IndexForFrame(frame))
	}
}

// Attach runs Setup against the host, shows the first frame and registers the
// frame callback.
func (a *Animator) Attach(h Host) error {
	a.scene = h
	if err := a.Setup(); err != nil {
		return err
	}
	if err := a.Advance(0); err != nil {
		return err
	}
	h.RegisterFrameCallback(a.Handler())
	return nil
}
