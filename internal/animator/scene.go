package animator

import (
	"github.com/san-kum/springpend/internal/kinematics"
	"github.com/san-kum/springpend/internal/spring"
)

// Scene receives published state. Each call replaces whatever was previously
// published under the same id.
type Scene interface {
	UpsertBody(id kinematics.BodyID, pose kinematics.Pose) error
	ReplaceSurface(id spring.ID, mesh *spring.Mesh) error
}

// Host is a scene that owns its own frame loop.
type Host interface {
	Scene
	RegisterFrameCallback(fn func(frame int) error)
}

// FrameObserver is notified after a frame has been fully published.
type FrameObserver interface {
	OnFrame(out *Output)
}
