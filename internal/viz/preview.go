// Package viz is the interactive terminal preview of an animation.
package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/springpend/internal/animator"
	"github.com/san-kum/springpend/internal/kinematics"
	"github.com/san-kum/springpend/internal/scene"
	"github.com/san-kum/springpend/internal/series"
	"github.com/san-kum/springpend/internal/spring"
)

const (
	canvasW = 60
	canvasH = 20
)

type tickMsg time.Time

// Model steps a Timeline-hosted animator. The animator is built per spring
// mode so the mode can be toggled without touching the series.
type Model struct {
	engine  *kinematics.Engine
	gen     *spring.Generator
	tl      *scene.Timeline
	anim    *animator.Animator
	mode    SpringModeCycle
	playing bool
	fps     int
	window  Window
	canvas  *Canvas
	err     error
}

// SpringModeCycle is the order the 's' key walks through.
type SpringModeCycle []animator.SpringMode

var defaultCycle = SpringModeCycle{animator.Omit, animator.Reuse, animator.Regenerate}

func NewModel(engine *kinematics.Engine, gen *spring.Generator, start animator.SpringMode, fps int) (*Model, error) {
	if fps <= 0 {
		fps = 30
	}
	cycle := defaultCycle
	for i, m := range cycle {
		if m == start {
			cycle = append(append(SpringModeCycle{}, cycle[i:]...), cycle[:i]...)
			break
		}
	}

	m := &Model{
		engine: engine,
		gen:    gen,
		tl:     scene.NewTimeline(engine.Series().Len()),
		mode:   cycle,
		fps:    fps,
		canvas: NewCanvas(canvasW, canvasH),
	}
	var err error
	if m.window, err = fitWindow(engine); err != nil {
		return nil, err
	}
	if err := m.rebuild(); err != nil {
		return nil, err
	}
	return m, nil
}

// fitWindow frames the whole motion plus the ground.
func fitWindow(e *kinematics.Engine) (Window, error) {
	w := Window{MinX: math.Inf(1), MaxX: math.Inf(-1), MinY: e.GroundHeight(), MaxY: math.Inf(-1)}
	for n := 0; n < e.Series().Len(); n++ {
		f, err := e.Dynamic(n)
		if err != nil {
			return Window{}, err
		}
		for _, b := range f.Bodies {
			y, z := b.Pose.Position.Y(), b.Pose.Position.Z()
			w.MinX, w.MaxX = math.Min(w.MinX, y), math.Max(w.MaxX, y)
			w.MaxY = math.Max(w.MaxY, z)
		}
	}
	w.MaxY = math.Max(w.MaxY, 0) + 1
	w.MinY -= 0.5
	// The canvas dots are about square; widen x to match the aspect.
	span := (w.MaxY - w.MinY) * float64(canvasW*2) / float64(canvasH*4)
	mid := (w.MinX + w.MaxX) / 2
	half := math.Max(span, w.MaxX-w.MinX+1) / 2
	w.MinX, w.MaxX = mid-half, mid+half
	return w, nil
}

func (m *Model) rebuild() error {
	frame := m.tl.Current()
	m.anim = animator.New(m.engine, m.gen, m.tl, animator.WithSpringMode(m.mode[0]))
	for _, id := range spring.IDs {
		_ = m.tl.ReplaceSurface(id, nil)
	}
	if err := m.anim.Attach(m.tl); err != nil {
		return err
	}
	return m.tl.Seek(frame)
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tickMsg:
		if !m.playing {
			return m, nil
		}
		m.setErr(m.tl.Step(1))
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case " ":
		m.playing = !m.playing
		if m.playing {
			return m, m.tick()
		}
	case "right", "l":
		m.setErr(m.tl.Step(1))
	case "left", "h":
		m.setErr(m.tl.Step(-1))
	case "up", "k":
		m.setErr(m.tl.Step(10))
	case "down", "j":
		m.setErr(m.tl.Step(-10))
	case "home", "g":
		m.setErr(m.tl.Seek(m.tl.Start))
	case "end", "G":
		m.setErr(m.tl.Seek(m.tl.End))
	case "s":
		m.mode = append(m.mode[1:], m.mode[0])
		m.setErr(m.rebuild())
	}
	return m, nil
}

func (m *Model) setErr(err error) {
	m.err = err
	if err != nil {
		m.playing = false
	}
}

func (m *Model) draw() {
	c, w := m.canvas, m.window
	c.Clear()

	w.Line(c, w.MinX, m.engine.GroundHeight(), w.MaxX, m.engine.GroundHeight())

	for _, id := range spring.IDs {
		mesh, ok := m.tl.Surface(id)
		if !ok {
			continue
		}
		step := max(1, mesh.U/120)
		prev := mesh.At(0, 0)
		for i := step; i <= mesh.U; i += step {
			p := mesh.At(i, 0)
			w.Line(c, prev.Y(), prev.Z(), p.Y(), p.Z())
			prev = p
		}
	}

	chain := []kinematics.BodyID{kinematics.Slider, kinematics.ElbowHub, kinematics.Bob}
	var prevOK bool
	var py, pz float64
	for _, id := range chain {
		p, ok := m.tl.Body(id)
		if !ok {
			continue
		}
		y, z := p.Position.Y(), p.Position.Z()
		if prevOK {
			w.Line(c, py, pz, y, z)
		}
		py, pz, prevOK = y, z, true
	}
	if bob, ok := m.tl.Body(kinematics.Bob); ok {
		x, y := w.Dot(c, bob.Position.Y(), bob.Position.Z())
		c.DrawDisc(x, y, 2)
	}
}

func (m *Model) View() string {
	m.draw()

	frame := m.tl.Current()
	q := m.engine.Series().At(series.IndexForFrame(frame))

	status := paused.Render("PAUSED")
	if m.playing {
		status = running.Render("PLAYING")
	}
	if m.err != nil {
		status = failed.Render(m.err.Error())
	}

	var sb strings.Builder
	sb.WriteString(Title("springpend preview") + "  " + status + "\n")
	sb.WriteString(panel.Render(m.canvas.String()) + "\n")
	sb.WriteString(strings.Join([]string{
		Field("frame", fmt.Sprintf("%d/%d", frame, m.tl.End)),
		Field("t", fmt.Sprintf("%.3f", q.T)),
		Field("θ1", fmt.Sprintf("%+.3f", q.Theta1)),
		Field("θ2", fmt.Sprintf("%+.3f", q.Theta2)),
		Field("ext1", fmt.Sprintf("%+.3f", q.Ext1)),
		Field("ext2", fmt.Sprintf("%+.3f", q.Ext2)),
		Field("springs", string(m.mode[0])),
	}, "  ") + "\n")
	sb.WriteString(keyHint.Render("space play/pause  ←/→ step  ↑/↓ ±10  g/G ends  s springs  q quit"))
	return sb.String()
}

// Run starts the preview full screen.
func Run(engine *kinematics.Engine, gen *spring.Generator, mode animator.SpringMode, fps int) error {
	m, err := NewModel(engine, gen, mode, fps)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
