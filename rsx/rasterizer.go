// rasterizer.go - Barycentric triangle and DDA line rasterization into VRAM space

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package rsx

import "math"

// rasterTarget clips fragments to the draw area and to VRAM
type rasterTarget struct {
	offsetX, offsetY float32
	minX, minY       int
	maxX, maxY       int // Exclusive
}

func newRasterTarget(state *DrawState) rasterTarget {
	t := rasterTarget{
		offsetX: float32(state.OffsetX),
		offsetY: float32(state.OffsetY),
		minX:    int(state.Area.X),
		minY:    int(state.Area.Y),
		maxX:    int(state.Area.X) + int(state.Area.Width),
		maxY:    int(state.Area.Y) + int(state.Area.Height),
	}
	if t.maxX > VRAM_WIDTH_PIXELS {
		t.maxX = VRAM_WIDTH_PIXELS
	}
	if t.maxY > VRAM_HEIGHT_PIXELS {
		t.maxY = VRAM_HEIGHT_PIXELS
	}
	return t
}

func (t *rasterTarget) inside(x, y int) bool {
	return x >= t.minX && y >= t.minY && x < t.maxX && y < t.maxY
}

type rasterVertex struct {
	x, y    float32
	r, g, b float32
	u, v    float32
}

func (t *rasterTarget) project(v *Vertex) rasterVertex {
	return rasterVertex{
		x: float32(v.Position[0]) + t.offsetX,
		y: float32(v.Position[1]) + t.offsetY,
		r: float32(v.Color[0]) / 255,
		g: float32(v.Color[1]) / 255,
		b: float32(v.Color[2]) / 255,
		u: float32(v.TexCoord[0]),
		v: float32(v.TexCoord[1]),
	}
}

// rasterizeTriangle emits every covered pixel center of a triangle in
// row-major order. Edges follow a top-left rule so the two halves of a quad
// never both cover their shared diagonal.
func rasterizeTriangle(t *rasterTarget, vertices *[3]Vertex, emit func(*Fragment)) {
	pv0 := t.project(&vertices[0])
	pv1 := t.project(&vertices[1])
	pv2 := t.project(&vertices[2])
	v0, v1, v2 := &pv0, &pv1, &pv2

	// Compute bounding box
	minX := int(math.Floor(float64(min3f(v0.x, v1.x, v2.x))))
	maxX := int(math.Ceil(float64(max3f(v0.x, v1.x, v2.x))))
	minY := int(math.Floor(float64(min3f(v0.y, v1.y, v2.y))))
	maxY := int(math.Ceil(float64(max3f(v0.y, v1.y, v2.y))))

	// Clip to draw area
	minX = max(minX, t.minX)
	minY = max(minY, t.minY)
	maxX = min(maxX, t.maxX)
	maxY = min(maxY, t.maxY)
	if minX >= maxX || minY >= maxY {
		return
	}

	area := edgeFunction(v0.x, v0.y, v1.x, v1.y, v2.x, v2.y)
	if area == 0 {
		return // Degenerate triangle
	}
	if area < 0 {
		v0, v2 = v2, v0
		area = -area
	}
	invArea := 1.0 / area

	tl0 := isTopLeft(v1.x, v1.y, v2.x, v2.y)
	tl1 := isTopLeft(v2.x, v2.y, v0.x, v0.y)
	tl2 := isTopLeft(v0.x, v0.y, v1.x, v1.y)

	var frag Fragment
	for y := minY; y < maxY; y++ {
		py := float32(y) + 0.5

		for x := minX; x < maxX; x++ {
			px := float32(x) + 0.5

			w0 := edgeFunction(v1.x, v1.y, v2.x, v2.y, px, py)
			w1 := edgeFunction(v2.x, v2.y, v0.x, v0.y, px, py)
			w2 := edgeFunction(v0.x, v0.y, v1.x, v1.y, px, py)

			if !covers(w0, tl0) || !covers(w1, tl1) || !covers(w2, tl2) {
				continue
			}

			w0 *= invArea
			w1 *= invArea
			w2 *= invArea

			frag.X = x
			frag.Y = y
			frag.Shade[0] = w0*v0.r + w1*v1.r + w2*v2.r
			frag.Shade[1] = w0*v0.g + w1*v1.g + w2*v2.g
			frag.Shade[2] = w0*v0.b + w1*v1.b + w2*v2.b
			frag.U = w0*v0.u + w1*v1.u + w2*v2.u
			frag.V = w0*v0.v + w1*v1.v + w2*v2.v
			emit(&frag)
		}
	}
}

// rasterizeLine walks a line with a DDA, both endpoints inclusive
func rasterizeLine(t *rasterTarget, a, b *Vertex, emit func(*Fragment)) {
	p0 := t.project(a)
	p1 := t.project(b)

	dx := p1.x - p0.x
	dy := p1.y - p0.y
	steps := int(math.Max(math.Abs(float64(dx)), math.Abs(float64(dy))))

	var frag Fragment
	for i := 0; i <= steps; i++ {
		var s float32
		if steps > 0 {
			s = float32(i) / float32(steps)
		}
		x := roundHalfUp(p0.x + dx*s)
		y := roundHalfUp(p0.y + dy*s)
		if !t.inside(x, y) {
			continue
		}

		frag.X = x
		frag.Y = y
		frag.Shade[0] = lerp(p0.r, p1.r, s)
		frag.Shade[1] = lerp(p0.g, p1.g, s)
		frag.Shade[2] = lerp(p0.b, p1.b, s)
		frag.U = lerp(p0.u, p1.u, s)
		frag.V = lerp(p0.v, p1.v, s)
		emit(&frag)
	}
}

// rasterizeWireframe draws the three edges of a triangle
func rasterizeWireframe(t *rasterTarget, vertices *[3]Vertex, emit func(*Fragment)) {
	rasterizeLine(t, &vertices[0], &vertices[1], emit)
	rasterizeLine(t, &vertices[1], &vertices[2], emit)
	rasterizeLine(t, &vertices[2], &vertices[0], emit)
}

// covers applies the fill rule to one edge value
func covers(w float32, topLeft bool) bool {
	return w > 0 || (w == 0 && topLeft)
}

// isTopLeft reports whether pixels exactly on edge a->b belong to the triangle
func isTopLeft(ax, ay, bx, by float32) bool {
	dy := by - ay
	dx := bx - ax
	return dy > 0 || (dy == 0 && dx < 0)
}

// edgeFunction computes the signed area of a parallelogram
func edgeFunction(ax, ay, bx, by, cx, cy float32) float32 {
	return (cx-ax)*(by-ay) - (cy-ay)*(bx-ax)
}

func lerp(a, b, s float32) float32 {
	return a + (b-a)*s
}

func min3f(a, b, c float32) float32 {
	return min(a, b, c)
}

func max3f(a, b, c float32) float32 {
	return max(a, b, c)
}
