package export

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/springpend/internal/kinematics"
	"github.com/san-kum/springpend/internal/series"
	"github.com/san-kum/springpend/internal/spring"
)

func frame(t *testing.T) Frame {
	t.Helper()
	s, err := series.New([]series.Sample{{Theta1: 0.4, Theta2: 0.3, Ext2: 0.2}})
	if err != nil {
		t.Fatal(err)
	}
	e := kinematics.New(s, kinematics.DefaultConstants())
	g, err := spring.NewGenerator(e, spring.Resolution{U: 30, V: 4})
	if err != nil {
		t.Fatal(err)
	}
	f, _ := e.Dynamic(0)
	coil, torsion, err := g.Both(0)
	if err != nil {
		t.Fatal(err)
	}
	return Frame{
		Bodies:  append(e.Static(), f.Bodies...),
		Springs: map[spring.ID]*spring.Mesh{spring.Coil: coil, spring.Torsion: torsion},
		Ground:  e.GroundHeight(),
		Trail:   []mgl64.Vec3{{0, 1, -9}, {0, 2, -10}},
	}
}

func TestFrameSVG(t *testing.T) {
	svg := FrameSVG(frame(t), 400, 300)

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("expected a complete svg document")
	}
	for _, want := range []string{`class="ground"`, `class="trail"`, `class="chain"`, `class="bob"`, `class="spring coil"`, `class="spring torsion"`} {
		if !strings.Contains(svg, want) {
			t.Errorf("expected %s in output", want)
		}
	}
	if !strings.Contains(svg, `width="400" height="300"`) {
		t.Error("expected requested size")
	}
}

func TestFrameSVGEmpty(t *testing.T) {
	svg := FrameSVG(Frame{}, 100, 100)
	if !strings.Contains(svg, `class="ground"`) {
		t.Error("empty frame should still draw the ground")
	}
	if strings.Contains(svg, "NaN") || strings.Contains(svg, "Inf") {
		t.Error("empty frame produced non-finite coordinates")
	}
}
