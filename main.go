package main

import (
	"flag"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"strconv"
	"strings"
	"time"

	_ "image/png"

	"github.com/faiface/mainthread"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/humboldt-xie/blockworld/render"
	"github.com/humboldt-xie/blockworld/seed"
	"github.com/humboldt-xie/blockworld/world"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	pprofPort  = flag.String("pprof", "", "http pprof and /metrics address")
	dbPath     = flag.String("db", "blockworld.db", "world database")
	configPath = flag.String("config", "", "block config yaml, built in blocks when empty")
	worldSize  = flag.String("size", "128x128x64", "new world size XxYxZ")
	seedPath   = flag.String("seed", "", "seed file to build the world from")
	loadDist   = flag.Int("r", 32, "load distance in blocks")
	budget     = flag.Int("budget", 8, "chunk rebuilds per frame")
	extent     = flag.Int("extent", 16, "chunk edge in blocks")
	fov        = flag.Float64("fov", 70, "vertical field of view in degrees")
	listenAddr = flag.String("l", "", "share the world on this address")
	serverAddr = flag.String("s", "", "join the world served at this address")
	genSeeds   = flag.String("genseeds", "", "write seed files into this directory and exit")
	genCount   = flag.Int("genseeds-count", 4, "number of seed files to write")
	genSize    = flag.Int("genseeds-size", 128, "edge of generated seeds")
)

func initGL(w, h int) *glfw.Window {
	err := glfw.Init()
	if err != nil {
		log.Fatal(err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, gl.TRUE)

	win, err := glfw.CreateWindow(w, h, "blockworld", nil, nil)
	if err != nil {
		log.Fatal(err)
	}
	win.MakeContextCurrent()
	err = gl.Init()
	if err != nil {
		log.Fatal(err)
	}
	glfw.SwapInterval(1) // enable vsync
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Enable(gl.BLEND)
	return win
}

type FPS struct {
	lastUpdate time.Time
	cnt        int
	fps        int
}

func (f *FPS) Update() {
	f.cnt++
	now := time.Now()
	p := now.Sub(f.lastUpdate)
	if p >= time.Second {
		f.fps = int(float64(f.cnt) / p.Seconds())
		f.cnt = 0
		f.lastUpdate = now
	}
}

func (f *FPS) Fps() int {
	return f.fps
}

// parseSize reads XxYxZ.
func parseSize(s string) (sx, sy, sz int, err error) {
	parts := strings.Split(s, "x")
	if len(parts) != 3 {
		return 0, 0, 0, errors.Errorf("bad size %q", s)
	}
	var dims [3]int
	for i, p := range parts {
		dims[i], err = strconv.Atoi(p)
		if err != nil {
			return 0, 0, 0, errors.Wrapf(err, "bad size %q", s)
		}
		if dims[i] <= 0 {
			return 0, 0, 0, errors.Errorf("bad size %q", s)
		}
	}
	return dims[0], dims[1], dims[2], nil
}

// loadWorld picks the world source: a peer, a seed file, the store or a new
// flat world.
func loadWorld(store world.Store, reg *world.Registry, opts *render.Options) (*world.World, *world.Client, error) {
	if *serverAddr != "" {
		client, err := world.Dial(*serverAddr)
		if err != nil {
			return nil, nil, err
		}
		w, err := client.FetchWorld()
		if err != nil {
			client.Close()
			return nil, nil, err
		}
		log.Printf("joined %s as %d", *serverAddr, client.ClientID)
		return w, client, nil
	}

	sx, sy, sz, err := parseSize(*worldSize)
	if err != nil {
		return nil, nil, err
	}
	if *seedPath != "" {
		f, err := os.Open(*seedPath)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		s, err := world.ParseSeed(f)
		if err != nil {
			return nil, nil, errors.Wrap(err, *seedPath)
		}
		if e, ok := s.ChunkExtent(); ok {
			opts.ChunkExtent = e
		}
		w, err := world.CreateDefaultWorld(s, sz, reg)
		return w, nil, err
	}

	w, err := store.LoadWorld()
	if errors.Cause(err) == world.ErrNoWorld {
		log.Printf("no saved world, creating %dx%dx%d", sx, sy, sz)
		w = world.NewWorld(sx, sy, sz)
		w.CreateFlatWorld(sz / 2)
		return w, nil, nil
	}
	return w, nil, err
}

func run() {
	reg, atlas, err := InitConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	if *genSeeds != "" {
		_, err := seed.Generate(*genSeeds, *genCount, *genSize, seed.Options{Seed: time.Now().UnixNano()})
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	store, err := world.NewBoltStore(*dbPath)
	if err != nil {
		log.Panic(err)
	}
	defer store.Close()

	opts := render.Options{
		ChunkExtent:  render.Vec3{X: *extent, Y: *extent, Z: *extent},
		LoadDistance: *loadDist,
	}
	w, client, err := loadWorld(store, reg, &opts)
	if err != nil {
		log.Fatal(err)
	}
	if client != nil {
		defer client.Close()
	}

	if *listenAddr != "" {
		l, server, err := world.Listen(*listenAddr, w, mainthread.Call)
		if err != nil {
			log.Fatal(err)
		}
		defer server.CloseSessions()
		defer l.Close()
	}

	metrics := NewMetrics(prometheus.DefaultRegisterer)
	metrics.Handle()

	game, err := NewGame(w, reg, atlas, client, GameOptions{
		Width:   800,
		Height:  600,
		Budget:  *budget,
		Fov:     float32(*fov),
		Render:  opts,
		Metrics: metrics,
	})
	if err != nil {
		log.Panic(err)
	}

	md := time.Second / 120
	d := md
	timer := time.NewTimer(d)
	for !game.ShouldClose() {
		<-timer.C
		start := time.Now()
		game.Update()
		d = md - time.Since(start)
		if d < 0 {
			d = 1
		}
		timer.Reset(d)
	}
	game.Close()

	if client == nil {
		mainthread.Call(func() {
			err = store.SaveWorld(w)
		})
		if err != nil {
			log.Print(err)
		}
	}
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	flag.Parse()
	go func() {
		if *pprofPort != "" {
			log.Fatal(http.ListenAndServe(*pprofPort, nil))
		}
	}()
	mainthread.Run(run)
}
