// Package animator drives the per-frame update of the pendulum scene.
//
// An [Animator] is created Uninitialized. [Animator.Setup] publishes the
// static bodies and moves it to Ready; from then on every [Animator.Advance]
// recomputes the seven moving bodies and both springs for one sample index
// and publishes them to the [Scene], replacing the previous frame.
//
// # Example
//
//	engine := kinematics.New(s, kinematics.DefaultConstants())
//	gen, _ := spring.NewGenerator(engine, spring.DefaultResolution())
//	anim := animator.New(engine, gen, rec)
//	_ = anim.Setup()
//	_ = anim.Advance(0)
//
// # Thread Safety
//
// Advance is synchronous and must not be called concurrently. [Animator.Compute]
// is pure and may run on many goroutines; [Animator.Prerender] uses that to
// compute frames in parallel while publishing them in order.
package animator
