// renderer.go - Draw state protocol, primitive batching and ordered flushing

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

/*
renderer.go - Primitive Submission

Primitives are queued in submission order and executed in that order when
the batch is flushed. A flush happens before any draw state change, before
any direct VRAM access, when the batch is full, when a textured primitive
samples a region the pending batch may have written, and when the frame is
finalized.

Each primitive runs the opaque pass then the semi-transparent pass. A
fragment survives exactly one of them.
*/

package rsx

import "sync"

// FrameStats counts renderer work since the last reset
type FrameStats struct {
	Primitives       uint64 // Triangles and lines executed
	Flushes          uint64 // Non-empty batch flushes
	FragmentsShaded  uint64 // Shader invocations, both passes
	FragmentsWritten uint64 // Fragments that reached VRAM
}

// Renderer owns VRAM and the draw state. The driving emulator reaches VRAM
// only through its methods.
type Renderer struct {
	mutex sync.RWMutex

	vram    *VRAM
	state   DrawState
	options Options
	shader  FragmentShader

	// Pending primitives and the VRAM region they may write
	batch []queuedPrimitive
	dirty rect

	stats  FrameStats
	closed bool
}

// NewRenderer creates a renderer with zeroed VRAM and power-on draw state
func NewRenderer(shader FragmentShader, opts Options) *Renderer {
	return &Renderer{
		vram:    NewVRAM(),
		state:   NewDrawState(),
		options: opts,
		shader:  shader,
		batch:   make([]queuedPrimitive, 0, RSX_MAX_BATCH_PRIMITIVES),
	}
}

// =============================================================================
// Draw state
// =============================================================================

// SetDrawOffset sets the translation applied to every vertex
func (r *Renderer) SetDrawOffset(x, y int16) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.closed {
		return
	}
	r.flushLocked()
	r.state.OffsetX = x
	r.state.OffsetY = y
}

// SetDrawArea sets the scissor rectangle
func (r *Renderer) SetDrawArea(topLeft, dimensions [2]uint16) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.closed {
		return
	}
	r.flushLocked()
	r.state.Area = DrawArea{
		X:      topLeft[0],
		Y:      topLeft[1],
		Width:  dimensions[0],
		Height: dimensions[1],
	}
}

// SetTextureWindow sets the texel coordinate mask and or values
func (r *Renderer) SetTextureWindow(maskX, maskY, orX, orY uint8) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.closed {
		return
	}
	r.flushLocked()
	r.state.Window = TextureWindow{MaskX: maskX, MaskY: maskY, OrX: orX, OrY: orY}
}

// SetDisplayMode sets the VRAM rectangle scanned out by presentation
func (r *Renderer) SetDisplayMode(topLeft, resolution [2]uint16, depth24 bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.closed {
		return
	}
	r.flushLocked()
	r.state.Display = DisplayMode{
		X:       topLeft[0],
		Y:       topLeft[1],
		Width:   resolution[0],
		Height:  resolution[1],
		Depth24: depth24,
	}
}

// State returns a copy of the current draw state
func (r *Renderer) State() DrawState {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return r.state
}

// SetOptions replaces the tunable options, flushing first
func (r *Renderer) SetOptions(opts Options) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.flushLocked()
	r.options = opts
}

// SetShader swaps the fragment shading strategy, flushing first
func (r *Renderer) SetShader(shader FragmentShader) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.flushLocked()
	r.shader = shader
}

// Shader returns the active fragment shading strategy
func (r *Renderer) Shader() FragmentShader {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return r.shader
}

// =============================================================================
// Primitive submission
// =============================================================================

// PushTriangle queues one triangle
func (r *Renderer) PushTriangle(attr PrimitiveAttributes, vertices [3]Vertex) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.queueLocked(queuedPrimitive{kind: kindTriangle, attr: attr, vertices: vertices})
}

// PushQuad queues a quad as the triangles 0-1-2 and 1-2-3
func (r *Renderer) PushQuad(attr PrimitiveAttributes, vertices [4]Vertex) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.queueLocked(queuedPrimitive{
		kind:     kindTriangle,
		attr:     attr,
		vertices: [3]Vertex{vertices[0], vertices[1], vertices[2]},
	})
	r.queueLocked(queuedPrimitive{
		kind:     kindTriangle,
		attr:     attr,
		vertices: [3]Vertex{vertices[1], vertices[2], vertices[3]},
	})
}

// PushLine queues a line, both endpoints inclusive
func (r *Renderer) PushLine(attr PrimitiveAttributes, vertices [2]Vertex) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.queueLocked(queuedPrimitive{
		kind:     kindLine,
		attr:     attr,
		vertices: [3]Vertex{vertices[0], vertices[1]},
	})
}

// PendingPrimitives returns the number of queued primitives
func (r *Renderer) PendingPrimitives() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.batch)
}

// close flushes the pending batch and makes every later command that would
// change VRAM or the draw state a no-op. Reads keep returning the final VRAM.
func (r *Renderer) close() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.flushLocked()
	r.closed = true
}

// Flush executes every queued primitive in submission order
func (r *Renderer) Flush() {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.flushLocked()
}

func (r *Renderer) queueLocked(p queuedPrimitive) {
	if r.closed {
		return
	}
	if len(r.batch) >= RSX_MAX_BATCH_PRIMITIVES {
		r.flushLocked()
	}
	if len(r.batch) > 0 && p.attr.Textured() && r.samplesDirtyLocked(p.attr) {
		r.flushLocked()
	}
	r.batch = append(r.batch, p)
	r.dirty = r.dirty.union(r.writeBoundsLocked(&p))
}

// samplesDirtyLocked reports whether a textured primitive may read cells
// the pending batch writes. Pages that wrap around VRAM always flush.
func (r *Renderer) samplesDirtyLocked(attr PrimitiveAttributes) bool {
	if r.dirty.empty() {
		return false
	}
	page := rect{
		x0: int(attr.TexturePage[0]),
		y0: int(attr.TexturePage[1]),
	}
	page.x1 = page.x0 + TEXTURE_PAGE_SIZE>>attr.Depth.Shift()
	page.y1 = page.y0 + TEXTURE_PAGE_SIZE
	if page.x1 > VRAM_WIDTH_PIXELS || page.y1 > VRAM_HEIGHT_PIXELS {
		return true
	}
	if page.intersects(r.dirty) {
		return true
	}
	if !attr.Depth.Paletted() {
		return false
	}
	clut := rect{
		x0: int(attr.CLUT[0]),
		y0: int(attr.CLUT[1]),
		y1: int(attr.CLUT[1]) + 1,
	}
	clut.x1 = clut.x0 + 1<<(16>>attr.Depth.Shift())
	if clut.x1 > VRAM_WIDTH_PIXELS || clut.y1 > VRAM_HEIGHT_PIXELS {
		return true
	}
	return clut.intersects(r.dirty)
}

// writeBoundsLocked is a conservative bounding box of the cells a primitive
// can write
func (r *Renderer) writeBoundsLocked(p *queuedPrimitive) rect {
	t := newRasterTarget(&r.state)
	n := 3
	if p.kind == kindLine {
		n = 2
	}
	b := rect{x0: t.maxX, y0: t.maxY, x1: t.minX, y1: t.minY}
	for i := 0; i < n; i++ {
		x := int(p.vertices[i].Position[0]) + int(r.state.OffsetX)
		y := int(p.vertices[i].Position[1]) + int(r.state.OffsetY)
		b.x0 = min(b.x0, x)
		b.y0 = min(b.y0, y)
		b.x1 = max(b.x1, x+1)
		b.y1 = max(b.y1, y+1)
	}
	return b.clip(rect{x0: t.minX, y0: t.minY, x1: t.maxX, y1: t.maxY})
}

func (r *Renderer) flushLocked() {
	if len(r.batch) == 0 {
		return
	}

	r.vram.mutex.Lock()
	defer r.vram.mutex.Unlock()

	target := newRasterTarget(&r.state)
	for i := range r.batch {
		r.executeLocked(&r.batch[i], &target)
	}

	r.stats.Flushes++
	r.batch = r.batch[:0]
	r.dirty = rect{}
}

// executeLocked rasterizes and shades one primitive. Caller holds both the
// renderer and the VRAM mutex.
func (r *Renderer) executeLocked(p *queuedPrimitive, target *rasterTarget) {
	ctx := ShadingContext{
		VRAM:        r.vram,
		Attr:        p.attr,
		Window:      r.state.Window,
		Dither:      p.attr.Dither && r.options.DitherEnabled(),
		Upscale:     max(r.options.Upscale, 1),
		DitherScale: r.options.ditherScale(),
	}

	for _, pass := range [...]Pass{PassOpaque, PassSemiTransparent} {
		emit := func(f *Fragment) {
			r.stats.FragmentsShaded++
			c, ok := r.shader.Shade(&ctx, f, pass)
			if !ok {
				return
			}
			if pass == PassSemiTransparent {
				c = blendSemiTransparent(r.vram.at(f.X, f.Y), c, p.attr.SemiTransparencyMode)
			}
			r.vram.set(f.X, f.Y, c)
			r.stats.FragmentsWritten++
		}

		switch {
		case p.kind == kindLine:
			rasterizeLine(target, &p.vertices[0], &p.vertices[1], emit)
		case r.options.Wireframe:
			rasterizeWireframe(target, &p.vertices, emit)
		default:
			rasterizeTriangle(target, &p.vertices, emit)
		}
	}
	r.stats.Primitives++
}

// =============================================================================
// Direct VRAM access
// =============================================================================

// FillRect fills a rectangle with a 24-bit color. The draw area and draw
// offset do not apply, no dithering happens and the mask bit is cleared.
func (r *Renderer) FillRect(color [3]uint8, topLeft, dimensions [2]uint16) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.closed {
		return
	}
	r.flushLocked()
	r.vram.Fill(int(topLeft[0]), int(topLeft[1]), int(dimensions[0]), int(dimensions[1]), RGB888ToCell(color))
}

// LoadImage copies CPU cells into VRAM verbatim, bypassing shading
func (r *Renderer) LoadImage(topLeft, dimensions [2]uint16, pixels []uint16) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.closed {
		return &RenderError{Operation: "load image", Details: "renderer closed", Err: ErrClosed}
	}
	r.flushLocked()
	return r.vram.LoadImage(int(topLeft[0]), int(topLeft[1]), int(dimensions[0]), int(dimensions[1]), pixels)
}

// StoreImage reads a rectangle of cells back for the CPU
func (r *Renderer) StoreImage(topLeft, dimensions [2]uint16) []uint16 {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.flushLocked()
	return r.vram.StoreImage(int(topLeft[0]), int(topLeft[1]), int(dimensions[0]), int(dimensions[1]))
}

// CopyRect copies a rectangle of cells within VRAM
func (r *Renderer) CopyRect(src, dst, dimensions [2]uint16) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.closed {
		return
	}
	r.flushLocked()
	r.vram.CopyRect(int(src[0]), int(src[1]), int(dst[0]), int(dst[1]), int(dimensions[0]), int(dimensions[1]))
}

// ReadCell returns one VRAM cell after flushing pending primitives
func (r *Renderer) ReadCell(x, y int) uint16 {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.flushLocked()
	return r.vram.Read(x, y)
}

// WriteCell stores one VRAM cell after flushing pending primitives
func (r *Renderer) WriteCell(x, y int, c uint16) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.closed {
		return
	}
	r.flushLocked()
	r.vram.Write(x, y, c)
}

// ResetVRAM clears VRAM and drops pending primitives
func (r *Renderer) ResetVRAM() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.closed {
		return
	}
	r.batch = r.batch[:0]
	r.dirty = rect{}
	r.vram.Reset()
}

// Stats returns the counters accumulated since the last ResetStats
func (r *Renderer) Stats() FrameStats {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return r.stats
}

// ResetStats zeroes the frame counters
func (r *Renderer) ResetStats() {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.stats = FrameStats{}
}

// =============================================================================
// Rectangles
// =============================================================================

// rect is a half-open cell rectangle
type rect struct {
	x0, y0, x1, y1 int
}

func (a rect) empty() bool {
	return a.x0 >= a.x1 || a.y0 >= a.y1
}

func (a rect) intersects(b rect) bool {
	if a.empty() || b.empty() {
		return false
	}
	return a.x0 < b.x1 && b.x0 < a.x1 && a.y0 < b.y1 && b.y0 < a.y1
}

func (a rect) union(b rect) rect {
	if a.empty() {
		return b
	}
	if b.empty() {
		return a
	}
	return rect{min(a.x0, b.x0), min(a.y0, b.y0), max(a.x1, b.x1), max(a.y1, b.y1)}
}

func (a rect) clip(b rect) rect {
	return rect{max(a.x0, b.x0), max(a.y0, b.y0), min(a.x1, b.x1), min(a.y1, b.y1)}
}
