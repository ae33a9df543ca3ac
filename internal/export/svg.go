// Package export renders frames as standalone SVG documents.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/springpend/internal/kinematics"
	"github.com/san-kum/springpend/internal/spring"
)

// Side view: scene y to the right, scene z up. Depth (x) is dropped.
func project(p mgl64.Vec3) (float64, float64) { return p.Y(), p.Z() }

type bounds struct{ minX, maxX, minY, maxY float64 }

func newBounds() bounds {
	return bounds{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
}

func (b *bounds) add(x, y float64) {
	b.minX = math.Min(b.minX, x)
	b.maxX = math.Max(b.maxX, x)
	b.minY = math.Min(b.minY, y)
	b.maxY = math.Max(b.maxY, y)
}

// pad widens the box by 10% and keeps degenerate ranges usable.
func (b *bounds) pad() {
	rx, ry := b.maxX-b.minX, b.maxY-b.minY
	if rx == 0 {
		rx = 1
	}
	if ry == 0 {
		ry = 1
	}
	b.minX -= rx * 0.1
	b.maxX += rx * 0.1
	b.minY -= ry * 0.1
	b.maxY += ry * 0.1
}

type viewport struct {
	b             bounds
	width, height int
	scale         float64
}

// fit keeps the aspect ratio so springs are not distorted.
func fit(b bounds, width, height int) viewport {
	sx := float64(width) / (b.maxX - b.minX)
	sy := float64(height) / (b.maxY - b.minY)
	return viewport{b: b, width: width, height: height, scale: math.Min(sx, sy)}
}

func (v viewport) px(x, y float64) (float64, float64) {
	return (x - v.b.minX) * v.scale, float64(v.height) - (y-v.b.minY)*v.scale
}

// Frame is what one SVG shows.
type Frame struct {
	Bodies  []kinematics.BodyPose
	Springs map[spring.ID]*spring.Mesh
	Ground  float64
	Trail   []mgl64.Vec3
}

var bodyColor = map[kinematics.BodyID]string{
	kinematics.Slider:   "#888899",
	kinematics.Bob:      "#ff00ff",
	kinematics.PivotHub: "#00ccff",
	kinematics.ElbowHub: "#00ccff",
	kinematics.UpperArm: "#666688",
}

// FrameSVG draws the chain, body markers, spring centre lines and the ground.
func FrameSVG(f Frame, width, height int) string {
	b := newBounds()
	pos := make(map[kinematics.BodyID]mgl64.Vec3, len(f.Bodies))
	for _, bp := range f.Bodies {
		if bp.ID == kinematics.Ground || bp.ID == kinematics.Backdrop {
			continue
		}
		pos[bp.ID] = bp.Pose.Position
		b.add(project(bp.Pose.Position))
	}
	for _, p := range f.Trail {
		b.add(project(p))
	}
	for _, m := range f.Springs {
		lo, hi := m.Bounds()
		b.add(project(lo))
		b.add(project(hi))
	}
	if math.IsInf(b.minX, 0) {
		b = bounds{-1, 1, -1, 1}
	}
	b.add(b.minX, f.Ground)
	b.pad()
	v := fit(b, width, height)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	_, gy := v.px(0, f.Ground)
	sb.WriteString(fmt.Sprintf(`<line class="ground" x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#444466" stroke-width="2"/>
`, gy, width, gy))

	if len(f.Trail) > 1 {
		sb.WriteString(`<path class="trail" fill="none" stroke="#00ff88" stroke-width="1" d="`)
		writePath(&sb, v, f.Trail)
		sb.WriteString("\"/>\n")
	}

	for _, id := range spring.IDs {
		m, ok := f.Springs[id]
		if !ok {
			continue
		}
		line := make([]mgl64.Vec3, m.Rows())
		for i := range line {
			line[i] = m.At(i, 0)
		}
		sb.WriteString(fmt.Sprintf(`<path class="spring %s" fill="none" stroke="#ffcc00" stroke-width="1" d="`, id))
		writePath(&sb, v, line)
		sb.WriteString("\"/>\n")
	}

	chain := []kinematics.BodyID{kinematics.PivotHub, kinematics.ElbowHub, kinematics.Bob}
	pts := make([]mgl64.Vec3, 0, len(chain))
	for _, id := range chain {
		if p, ok := pos[id]; ok {
			pts = append(pts, p)
		}
	}
	if len(pts) > 1 {
		sb.WriteString(`<path class="chain" fill="none" stroke="#ffffff" stroke-width="3" d="`)
		writePath(&sb, v, pts)
		sb.WriteString("\"/>\n")
	}

	for _, bp := range f.Bodies {
		color, ok := bodyColor[bp.ID]
		if !ok {
			continue
		}
		cx, cy := v.px(project(bp.Pose.Position))
		r := 3.0
		if bp.ID == kinematics.Bob {
			r = math.Max(4, 0.5*bp.Pose.Scale.X()*v.scale)
		}
		sb.WriteString(fmt.Sprintf(`<circle class="%s" cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, bp.ID, cx, cy, r, color))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func writePath(sb *strings.Builder, v viewport, pts []mgl64.Vec3) {
	for i, p := range pts {
		x, y := v.px(project(p))
		if i == 0 {
			sb.WriteString(fmt.Sprintf("M%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
}
