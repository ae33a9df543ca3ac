package animator

import "fmt"

// SpringMode controls how springs are produced each frame.
type SpringMode string

const (
	// Regenerate rebuilds both meshes from scratch on every frame.
	Regenerate SpringMode = "regenerate"
	// Reuse builds the meshes once and republishes them.
	Reuse SpringMode = "reuse"
	// Omit never builds or publishes springs.
	Omit SpringMode = "omit"
)

func ParseSpringMode(s string) (SpringMode, error) {
	switch m := SpringMode(s); m {
	case Regenerate, Reuse, Omit:
		return m, nil
	case "":
		return Regenerate, nil
	}
	return "", fmt.Errorf("unknown spring mode %q (want regenerate, reuse or omit)", s)
}

type Option func(*Animator)

func WithSpringMode(m SpringMode) Option {
	return func(a *Animator) { a.mode = m }
}

func WithObserver(o FrameObserver) Option {
	return func(a *Animator) { a.observers = append(a.observers, o) }
}
