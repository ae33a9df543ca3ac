package animator_test

import (
	"context"
	"errors"
	"math"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/springpend/internal/animator"
	"github.com/san-kum/springpend/internal/kinematics"
	"github.com/san-kum/springpend/internal/scene"
	"github.com/san-kum/springpend/internal/series"
	"github.com/san-kum/springpend/internal/spring"
)

var res = spring.Resolution{U: 24, V: 6}

func buildSeries(n int) *series.Series {
	samples := make([]series.Sample, n)
	for i := range samples {
		t := float64(i) * 0.05
		samples[i] = series.Sample{
			T:      t,
			Theta1: math.Sin(2 * t),
			Theta2: 0.5 * math.Cos(3*t),
			Ext2:   0.2 * math.Sin(t),
			Ext1:   0.1 * math.Cos(t),
		}
	}
	s, err := series.New(samples)
	Expect(err).NotTo(HaveOccurred())
	return s
}

func build(s *series.Series, sc animator.Scene, opts ...animator.Option) *animator.Animator {
	engine := kinematics.New(s, kinematics.DefaultConstants())
	gen, err := spring.NewGenerator(engine, res)
	Expect(err).NotTo(HaveOccurred())
	return animator.New(engine, gen, sc, opts...)
}

// orderScene records the index of each published bob pose.
type orderScene struct {
	mu     sync.Mutex
	ys     []float64
	meshes []*spring.Mesh
}

func (o *orderScene) UpsertBody(id kinematics.BodyID, p kinematics.Pose) error {
	if id == kinematics.Bob {
		o.mu.Lock()
		o.ys = append(o.ys, p.Position.Y())
		o.mu.Unlock()
	}
	return nil
}

func (o *orderScene) ReplaceSurface(id spring.ID, m *spring.Mesh) error {
	o.mu.Lock()
	o.meshes = append(o.meshes, m)
	o.mu.Unlock()
	return nil
}

type failScene struct{ *scene.Recorder }

func (f *failScene) ReplaceSurface(spring.ID, *spring.Mesh) error { return errors.New("gpu lost") }

type countObserver struct{ frames []int }

func (c *countObserver) OnFrame(out *animator.Output) { c.frames = append(c.frames, out.Index) }

var _ = Describe("Animator", func() {
	var (
		s   *series.Series
		rec *scene.Recorder
	)

	BeforeEach(func() {
		s = buildSeries(30)
		rec = scene.NewRecorder()
	})

	Describe("state machine", func() {
		It("rejects Advance before Setup", func() {
			a := build(s, rec)
			Expect(a.Ready()).To(BeFalse())
			Expect(a.Advance(0)).To(MatchError(animator.ErrNotReady))
		})

		It("publishes the static bodies on Setup", func() {
			a := build(s, rec)
			Expect(a.Setup()).To(Succeed())
			Expect(a.Ready()).To(BeTrue())
			for _, id := range kinematics.StaticIDs {
				_, ok := rec.Body(id)
				Expect(ok).To(BeTrue(), id.String())
			}
			_, ok := rec.Body(kinematics.Bob)
			Expect(ok).To(BeFalse())
		})
	})

	Describe("Advance", func() {
		var a *animator.Animator

		BeforeEach(func() {
			a = build(s, rec)
			Expect(a.Setup()).To(Succeed())
		})

		It("publishes seven bodies and two springs", func() {
			Expect(a.Advance(4)).To(Succeed())
			for _, id := range kinematics.DynamicIDs {
				_, ok := rec.Body(id)
				Expect(ok).To(BeTrue(), id.String())
			}
			for _, id := range spring.IDs {
				m, ok := rec.Surface(id)
				Expect(ok).To(BeTrue())
				Expect(m.Points).To(HaveLen((res.U + 1) * (res.V + 1)))
			}
			up, rep := rec.Counts()
			Expect(up).To(Equal(len(kinematics.StaticIDs) + len(kinematics.DynamicIDs)))
			Expect(rep).To(Equal(2))
		})

		It("is idempotent for the same index", func() {
			Expect(a.Advance(7)).To(Succeed())
			bodies := rec.Bodies()
			coil, _ := rec.Surface(spring.Coil)
			torsion, _ := rec.Surface(spring.Torsion)

			Expect(a.Advance(12)).To(Succeed())
			Expect(a.Advance(7)).To(Succeed())

			Expect(rec.Bodies()).To(Equal(bodies))
			coil2, _ := rec.Surface(spring.Coil)
			torsion2, _ := rec.Surface(spring.Torsion)
			Expect(coil2.Equal(coil)).To(BeTrue())
			Expect(torsion2.Equal(torsion)).To(BeTrue())
		})

		It("fails on out-of-range indices", func() {
			Expect(errors.Is(a.Advance(-1), kinematics.ErrIndexOutOfRange)).To(BeTrue())
			Expect(errors.Is(a.Advance(s.Len()), kinematics.ErrIndexOutOfRange)).To(BeTrue())
		})

		It("leaves the scene untouched on out-of-range indices", func() {
			obs := &countObserver{}
			b := build(s, rec, animator.WithObserver(obs))
			Expect(b.Setup()).To(Succeed())
			Expect(b.Advance(1)).To(Succeed())
			up, rep := rec.Counts()
			bodies := rec.Bodies()

			Expect(b.Advance(s.Len())).To(MatchError(kinematics.ErrIndexOutOfRange))
			Expect(b.Advance(-1)).To(MatchError(kinematics.ErrIndexOutOfRange))

			up2, rep2 := rec.Counts()
			Expect(up2).To(Equal(up))
			Expect(rep2).To(Equal(rep))
			Expect(rec.Bodies()).To(Equal(bodies))
			Expect(obs.frames).To(Equal([]int{1}))
		})

		It("surfaces scene errors", func() {
			fs := &failScene{Recorder: scene.NewRecorder()}
			b := build(s, fs)
			Expect(b.Setup()).To(Succeed())
			Expect(b.Advance(0)).To(MatchError(ContainSubstring("gpu lost")))
		})

		It("notifies observers", func() {
			obs := &countObserver{}
			b := build(s, rec, animator.WithObserver(obs))
			Expect(b.Setup()).To(Succeed())
			Expect(b.Advance(2)).To(Succeed())
			Expect(b.Advance(3)).To(Succeed())
			Expect(obs.frames).To(Equal([]int{2, 3}))
		})
	})

	Describe("three-sample file", func() {
		It("accepts indices 0..2 and rejects 3", func() {
			small, err := series.New([]series.Sample{{T: 0}, {T: 1}, {T: 2}})
			Expect(err).NotTo(HaveOccurred())
			a := build(small, rec)
			Expect(a.Setup()).To(Succeed())
			for n := 0; n < 3; n++ {
				Expect(a.Advance(n)).To(Succeed())
			}
			Expect(errors.Is(a.Advance(3), kinematics.ErrIndexOutOfRange)).To(BeTrue())
		})
	})

	Describe("spring modes", func() {
		It("reuses the first mesh", func() {
			sc := &orderScene{}
			a := build(s, sc, animator.WithSpringMode(animator.Reuse))
			Expect(a.Setup()).To(Succeed())
			Expect(a.Advance(0)).To(Succeed())
			Expect(a.Advance(10)).To(Succeed())
			Expect(sc.meshes).To(HaveLen(4))
			Expect(sc.meshes[0]).To(BeIdenticalTo(sc.meshes[2]))
			Expect(sc.meshes[1]).To(BeIdenticalTo(sc.meshes[3]))
		})

		It("omits springs entirely", func() {
			a := build(s, rec, animator.WithSpringMode(animator.Omit))
			Expect(a.Setup()).To(Succeed())
			Expect(a.Advance(5)).To(Succeed())
			_, rep := rec.Counts()
			Expect(rep).To(BeZero())
			out, err := a.Compute(5)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Springs).To(BeEmpty())
		})

		It("parses mode names", func() {
			m, err := animator.ParseSpringMode("")
			Expect(err).NotTo(HaveOccurred())
			Expect(m).To(Equal(animator.Regenerate))
			_, err = animator.ParseSpringMode("sometimes")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("host attachment", func() {
		It("maps 1-based frames to sample indices", func() {
			tl := scene.NewTimeline(s.Len())
			a := build(s, nil)
			Expect(a.Attach(tl)).To(Succeed())

			Expect(tl.Seek(1)).To(Succeed())
			first, _ := tl.Body(kinematics.Bob)
			Expect(tl.Seek(s.Len())).To(Succeed())

			want, err := a.Compute(s.Len() - 1)
			Expect(err).NotTo(HaveOccurred())
			last, _ := tl.Body(kinematics.Bob)
			for _, b := range want.Bodies {
				if b.ID == kinematics.Bob {
					Expect(last).To(Equal(b.Pose))
				}
			}
			Expect(first).NotTo(Equal(last))
		})
	})

	Describe("Prerender", func() {
		It("publishes frames in order regardless of workers", func() {
			serial := &orderScene{}
			a := build(s, serial)
			Expect(a.Setup()).To(Succeed())
			for n := 0; n < s.Len(); n++ {
				Expect(a.Advance(n)).To(Succeed())
			}

			parallel := &orderScene{}
			b := build(s, parallel)
			Expect(b.Setup()).To(Succeed())
			Expect(b.Prerender(context.Background(), 0, s.Len(), 6)).To(Succeed())

			Expect(parallel.ys).To(Equal(serial.ys))
			Expect(parallel.meshes).To(HaveLen(len(serial.meshes)))
			for i := range serial.meshes {
				Expect(parallel.meshes[i].Equal(serial.meshes[i])).To(BeTrue())
			}
		})

		It("honours Reuse", func() {
			sc := &orderScene{}
			a := build(s, sc, animator.WithSpringMode(animator.Reuse))
			Expect(a.Setup()).To(Succeed())
			Expect(a.Prerender(context.Background(), 3, 9, 3)).To(Succeed())
			Expect(sc.ys).To(HaveLen(6))
			for _, m := range sc.meshes {
				Expect(m).To(SatisfyAny(BeIdenticalTo(sc.meshes[0]), BeIdenticalTo(sc.meshes[1])))
			}
		})

		It("rejects bad ranges and unready animators", func() {
			a := build(s, rec)
			Expect(a.Prerender(context.Background(), 0, 1, 1)).To(MatchError(animator.ErrNotReady))
			Expect(a.Setup()).To(Succeed())
			err := a.Prerender(context.Background(), 0, s.Len()+1, 2)
			Expect(errors.Is(err, kinematics.ErrIndexOutOfRange)).To(BeTrue())
		})

		It("stops on cancellation", func() {
			a := build(s, &orderScene{})
			Expect(a.Setup()).To(Succeed())
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			Expect(errors.Is(a.Prerender(ctx, 0, s.Len(), 2), context.Canceled)).To(BeTrue())
		})
	})
})
