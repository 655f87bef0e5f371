package main

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/faiface/mainthread"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/humboldt-xie/blockworld/render"
	"github.com/humboldt-xie/blockworld/world"
)

const (
	eyeHeight = float32(1.7)
	reach     = float32(8)
)

type Game struct {
	win *glfw.Window

	world    *world.World
	reg      *world.Registry
	dev      *render.GLDevice
	renderer *render.Renderer
	model    *render.PlayerModel
	client   *world.Client
	edits    *world.EditSender
	metrics  *Metrics

	player *world.Player
	others map[int32]world.PlayerState
	ang    mgl32.Vec3 // camera pitch, yaw, roll
	item   world.BlockID

	lx, ly   float64
	prevtime float64
	budget   int
	fov      float32
	fps      FPS
	build    render.BuildStat

	exclusiveMouse bool
	closed         bool
}

type GameOptions struct {
	Width, Height int
	Budget        int
	Fov           float32
	Render        render.Options
	Metrics       *Metrics
}

// NewGame opens the window and uploads nothing yet; chunks are built by the
// frame loop within the budget.
func NewGame(w *world.World, reg *world.Registry, atlas *render.Atlas, client *world.Client, opts GameOptions) (*Game, error) {
	var err error
	game := &Game{
		world:   w,
		reg:     reg,
		client:  client,
		metrics: opts.Metrics,
		player:  world.NewPlayer(0, w.Spawn),
		others:  make(map[int32]world.PlayerState),
		item:    world.Brick,
		budget:  opts.Budget,
		fov:     opts.Fov,
	}
	if client != nil {
		game.player.ID = client.ClientID
	}

	mainthread.Call(func() {
		win := initGL(opts.Width, opts.Height)
		win.SetMouseButtonCallback(game.onMouseButtonCallback)
		win.SetCursorPosCallback(game.onCursorPosCallback)
		win.SetFramebufferSizeCallback(game.onFrameBufferSizeCallback)
		win.SetKeyCallback(game.onKeyCallback)
		game.win = win

		game.dev = render.NewGLDevice(atlas.Image())
		game.renderer = render.NewRenderer(w, reg, game.dev, opts.Render)
		if err = game.renderer.LoadShaders(); err != nil {
			return
		}
		game.model, err = render.NewPlayerModel(game.dev, render.DefaultSkin)
		if err != nil {
			return
		}
		width, height := win.GetFramebufferSize()
		game.renderer.SetViewport(width, height)
		game.renderer.SetPerspective(game.fov, 0.01, float32(opts.Render.LoadDistance)*2)
	})
	if err != nil {
		return nil, err
	}
	if client != nil {
		game.edits = world.NewEditSender(client, 64)
		go game.syncPlayerLoop()
	}
	return game, nil
}

func (g *Game) setExclusiveMouse(exclusive bool) {
	if exclusive {
		g.win.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	} else {
		g.win.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}
	g.exclusiveMouse = exclusive
}

func (g *Game) eye() mgl32.Vec3 {
	return g.player.Pos.Add(mgl32.Vec3{0, 0, eyeHeight})
}

// front is the look direction of the camera angles.
func (g *Game) front() mgl32.Vec3 {
	pitch, yaw := float64(g.ang[0]), float64(g.ang[1])
	return mgl32.Vec3{
		float32(math.Sin(yaw) * math.Cos(pitch)),
		float32(math.Cos(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
	}
}

func (g *Game) UpdateBlock(id world.Vec3, tp world.BlockID) {
	if !g.world.InRange(id.X, id.Y, id.Z) {
		return
	}
	g.world.SetBlock(id.X, id.Y, id.Z, tp)
	if g.edits != nil {
		g.edits.Send(id, tp)
	}
}

func (g *Game) PutBlock() {
	_, prev, ok := g.world.HitTest(g.eye(), g.front(), reach)
	if !ok {
		return
	}
	foot := world.BlockOf(g.player.Pos)
	head := foot.Up()
	if prev != foot && prev != head {
		g.UpdateBlock(prev, g.item)
	}
}

func (g *Game) BreakBlock() {
	hit, _, ok := g.world.HitTest(g.eye(), g.front(), reach)
	if ok {
		g.UpdateBlock(hit, world.Air)
	}
}

func (g *Game) onMouseButtonCallback(win *glfw.Window, button glfw.MouseButton, action glfw.Action, mod glfw.ModifierKey) {
	if !g.exclusiveMouse {
		g.setExclusiveMouse(true)
		return
	}
	if button == glfw.MouseButton2 && action == glfw.Press {
		g.PutBlock()
	}
	if button == glfw.MouseButton1 && action == glfw.Press {
		g.BreakBlock()
	}
}

func (g *Game) onFrameBufferSizeCallback(window *glfw.Window, width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	g.renderer.SetViewport(width, height)
}

func (g *Game) onCursorPosCallback(win *glfw.Window, xpos float64, ypos float64) {
	if !g.exclusiveMouse {
		return
	}
	if g.lx == 0 && g.ly == 0 {
		g.lx, g.ly = xpos, ypos
		return
	}
	dx, dy := xpos-g.lx, g.ly-ypos
	g.lx, g.ly = xpos, ypos
	if math.Abs(dx) > 200 || math.Abs(dy) > 200 {
		return
	}
	const sens = 0.0025
	g.ang[1] += float32(dx * sens)
	g.ang[0] += float32(dy * sens)
	limit := float32(math.Pi/2 - 0.01)
	if g.ang[0] > limit {
		g.ang[0] = limit
	}
	if g.ang[0] < -limit {
		g.ang[0] = -limit
	}
	g.player.Pitch, g.player.Yaw = g.ang[0], g.ang[1]
}

func (g *Game) onKeyCallback(win *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}
	switch key {
	case glfw.KeyE:
		g.cycleItem(1)
	case glfw.KeyR:
		g.cycleItem(-1)
	case glfw.KeyF5:
		g.renderer.Invalidate()
	}
}

func (g *Game) cycleItem(d int) {
	n := int(world.MaxBlockID) + 1
	id := int(g.item)
	for i := 0; i < n; i++ {
		id = ((id+d)%n + n) % n
		if id != int(world.Air) && g.reg.Has(world.BlockID(id)) {
			g.item = world.BlockID(id)
			log.Printf("item %s", g.reg.Type(g.item).Name)
			return
		}
	}
}

func (g *Game) handleKeyInput(dt float64) {
	speed := float32(dt * 8)
	if g.win.GetKey(glfw.KeyEscape) == glfw.Press {
		g.setExclusiveMouse(false)
	}
	yaw := float64(g.ang[1])
	forward := mgl32.Vec3{float32(math.Sin(yaw)), float32(math.Cos(yaw)), 0}
	right := mgl32.Vec3{forward.Y(), -forward.X(), 0}
	var move mgl32.Vec3
	if g.win.GetKey(glfw.KeyW) == glfw.Press {
		move = move.Add(forward)
	}
	if g.win.GetKey(glfw.KeyS) == glfw.Press {
		move = move.Sub(forward)
	}
	if g.win.GetKey(glfw.KeyA) == glfw.Press {
		move = move.Sub(right)
	}
	if g.win.GetKey(glfw.KeyD) == glfw.Press {
		move = move.Add(right)
	}
	if g.win.GetKey(glfw.KeySpace) == glfw.Press {
		move = move.Add(mgl32.Vec3{0, 0, 1})
	}
	if g.win.GetKey(glfw.KeyLeftShift) == glfw.Press {
		move = move.Sub(mgl32.Vec3{0, 0, 1})
	}
	if move.Len() > 0 {
		g.player.Pos = g.player.Pos.Add(move.Normalize().Mul(speed))
	}
}

func (g *Game) ShouldClose() bool {
	return g.closed
}

func (g *Game) renderStat() {
	g.fps.Update()
	p := g.player.Pos
	stat := g.renderer.Stat()
	title := fmt.Sprintf("[%.2f %.2f %.2f] [%d/%d %d] dirty %d built %d fps %d %s", p.X(), p.Y(), p.Z(),
		stat.RendingChunks, stat.Chunks, stat.Faces, stat.DirtyChunks, g.build.Rebuilt, g.fps.Fps(),
		g.reg.Type(g.item).Name)
	g.win.SetTitle(title)
}

func (g *Game) syncPlayerLoop() {
	tick := time.NewTicker(time.Second / 10)
	defer tick.Stop()
	for range tick.C {
		var p world.Player
		mainthread.Call(func() {
			p = *g.player
		})
		others, err := g.client.UpdatePlayer(&p)
		if err != nil {
			log.Printf("sync player: %v", err)
			return
		}
		mainthread.Call(func() {
			g.others = others
		})
	}
}

func (g *Game) Update() {
	mainthread.Call(func() {
		start := time.Now()
		now := glfw.GetTime()
		dt := now - g.prevtime
		g.prevtime = now
		if dt > 0.02 {
			dt = 0.02
		}

		g.handleKeyInput(dt)

		eye := g.eye()
		g.build = g.renderer.BuildChunks(g.budget, eye)
		g.renderer.SetCamera(eye, g.ang)

		g.dev.Clear(0.57, 0.71, 0.77)
		g.renderer.Draw()
		for _, s := range g.others {
			g.renderer.RenderPlayer(g.model, mgl32.Vec3(s.Pos), mgl32.Vec3{})
		}
		g.renderStat()
		if g.metrics != nil {
			g.metrics.Frame(g.build, g.renderer.Stat(), time.Since(start))
		}

		g.win.SwapBuffers()
		glfw.PollEvents()
		g.closed = g.win.ShouldClose()
	})
}

// Close releases the GL resources. Call after the loop ends.
func (g *Game) Close() {
	if g.edits != nil {
		g.edits.Close()
	}
	mainthread.Call(func() {
		g.model.Release()
		g.renderer.Close()
		g.win.Destroy()
		glfw.Terminate()
	})
}
