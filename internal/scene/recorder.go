// Package scene provides in-process host scenes for the animator.
package scene

import (
	"sync"

	"github.com/san-kum/springpend/internal/kinematics"
	"github.com/san-kum/springpend/internal/spring"
)

// Recorder keeps the latest published state of every body and surface.
type Recorder struct {
	mu       sync.RWMutex
	bodies   map[kinematics.BodyID]kinematics.Pose
	surfaces map[spring.ID]*spring.Mesh
	upserts  int
	replaces int
}

func NewRecorder() *Recorder {
	return &Recorder{
		bodies:   make(map[kinematics.BodyID]kinematics.Pose),
		surfaces: make(map[spring.ID]*spring.Mesh),
	}
}

func (r *Recorder) UpsertBody(id kinematics.BodyID, pose kinematics.Pose) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bodies[id] = pose
	r.upserts++
	return nil
}

// ReplaceSurface drops the previous mesh for id. A nil mesh removes it.
func (r *Recorder) ReplaceSurface(id spring.ID, mesh *spring.Mesh) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if mesh == nil {
		delete(r.surfaces, id)
	} else {
		r.surfaces[id] = mesh
	}
	r.replaces++
	return nil
}

func (r *Recorder) Body(id kinematics.BodyID) (kinematics.Pose, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.bodies[id]
	return p, ok
}

func (r *Recorder) Surface(id spring.ID) (*spring.Mesh, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.surfaces[id]
	return m, ok
}

// Bodies returns a snapshot of every published pose.
func (r *Recorder) Bodies() map[kinematics.BodyID]kinematics.Pose {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[kinematics.BodyID]kinematics.Pose, len(r.bodies))
	for k, v := range r.bodies {
		out[k] = v
	}
	return out
}

// Counts returns how many body and surface publications have been seen.
func (r *Recorder) Counts() (upserts, replaces int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.upserts, r.replaces
}
