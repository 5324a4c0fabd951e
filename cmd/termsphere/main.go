// Command termsphere runs the particle sphere in a terminal.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/platonic/camera"
	"github.com/pthm-cable/platonic/config"
	"github.com/pthm-cable/platonic/game"
)

// Approximate pixel size of a terminal cell, so drags rotate about as fast
// as they do with a mouse in the window.
const (
	cellPixelsX = 8.0
	cellPixelsY = 16.0
)

// host ties a headless game to a tcell screen.
type host struct {
	screen tcell.Screen
	game   *game.Game

	width, height int

	dragging     bool
	lastX, lastY int
	wire         []r3.Vec // wireframe sample points in the sphere frame
	positions    []r3.Vec
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = particles.seed from config)")
	fps := flag.Int("fps", 30, "Frames per second")
	logPath := flag.String("log", "", "Write JSON logs to this file (empty = discard)")
	flag.Parse()

	var logOut io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "creating log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, nil)))

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	h, err := newHost(config.Cfg(), *seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start terminal: %v\n", err)
		os.Exit(1)
	}
	defer h.game.Unload()
	defer h.screen.Fini()

	h.run(*fps)
}

func newHost(cfg *config.Config, seed int64) (*host, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()

	h := &host{
		screen: screen,
		game:   game.NewGameWithOptions(game.Options{Config: cfg, Seed: seed, Headless: true}),
		wire:   wireSamples(cfg.Derived.WireRadius, cfg.Sphere.Rings, cfg.Sphere.Slices),
	}
	h.handleResize()
	return h, nil
}

// wireSamples returns points along the latitude and longitude lines of a
// UV sphere.
func wireSamples(radius float64, rings, slices int) []r3.Vec {
	const perLine = 48
	var pts []r3.Vec
	for i := 1; i < rings; i++ {
		lat := math.Pi*float64(i)/float64(rings) - math.Pi/2
		for k := 0; k < perLine; k++ {
			lon := 2 * math.Pi * float64(k) / perLine
			pts = append(pts, spherical(radius, lat, lon))
		}
	}
	for j := 0; j < slices; j++ {
		lon := 2 * math.Pi * float64(j) / float64(slices)
		for k := 1; k < perLine/2; k++ {
			lat := math.Pi*float64(k)/(perLine/2) - math.Pi/2
			pts = append(pts, spherical(radius, lat, lon))
		}
	}
	return pts
}

func spherical(r, lat, lon float64) r3.Vec {
	return r3.Vec{
		X: r * math.Cos(lat) * math.Sin(lon),
		Y: r * math.Sin(lat),
		Z: r * math.Cos(lat) * math.Cos(lon),
	}
}

// pumpEvents forwards polled events to out until poll returns nil or done
// is closed.
func pumpEvents(poll func() tcell.Event, out chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := poll()
		if ev == nil {
			return
		}
		select {
		case out <- ev:
		case <-done:
			return
		}
	}
}

func (h *host) run(fps int) {
	if fps < 1 {
		fps = 30
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go pumpEvents(h.screen.PollEvent, eventChan, done)

	for {
		select {
		case ev := <-eventChan:
			if !h.handleEvent(ev) {
				return
			}
		case <-ticker.C:
			h.game.Tick()
			h.draw()
		}
	}
}

// handleEvent applies one terminal event. Returns false to quit.
func (h *host) handleEvent(ev tcell.Event) bool {
	g := h.game
	cfg := g.Config()

	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		switch ev.Rune() {
		case 'q':
			return false
		case '+', '=':
			g.SetActiveCount(g.ActiveCount() + 1)
		case '-', '_':
			g.SetActiveCount(g.ActiveCount() - 1)
		case ']':
			g.SetIntensity(g.Intensity() + intensityStep(cfg))
		case '[':
			g.SetIntensity(g.Intensity() - intensityStep(cfg))
		case '2':
			g.ToggleSphere()
		}

	case *tcell.EventMouse:
		x, y := ev.Position()
		if ev.Buttons()&tcell.Button1 != 0 {
			if !h.dragging {
				h.dragging = true
				g.BeginDrag()
			} else {
				g.Accumulate(float64(x-h.lastX)*cellPixelsX, float64(y-h.lastY)*cellPixelsY)
			}
			h.lastX, h.lastY = x, y
		} else if h.dragging {
			h.dragging = false
			g.EndDrag()
		}

	case *tcell.EventResize:
		h.screen.Sync()
		h.handleResize()
	}

	return true
}

func intensityStep(cfg *config.Config) float64 {
	return math.Max(1, (cfg.Force.MaxIntensity-cfg.Force.MinIntensity)/60)
}

// handleResize matches the camera viewport to the terminal. Cells are about
// twice as tall as wide, so the viewport uses half-cell rows.
func (h *host) handleResize() {
	w, ht := h.screen.Size()
	if w == h.width && ht == h.height {
		return
	}
	h.width, h.height = w, ht
	h.game.Resize(float32(w), float32(ht*2))
}

func (h *host) draw() {
	h.screen.Clear()
	g := h.game
	cam := g.Camera()
	sc := g.Scene()

	if sc.Visible(sc.Sphere()) {
		wf := sc.Wireframe()
		rot := sc.WorldRotation(sc.Sphere())
		style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(wf.RGB[0]), int32(wf.RGB[1]), int32(wf.RGB[2])))
		for _, p := range h.wire {
			// Points on the far hemisphere are drawn fainter
			wp := rot.Rotate(p)
			ch := '·'
			if r3.Dot(wp, r3.Sub(cam.Eye, wp)) < 0 {
				ch = '.'
			}
			h.plot(cam, wp, ch, style)
		}
	}

	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	h.positions = g.WorldPositions(h.positions[:0])
	for _, p := range h.positions {
		h.plot(cam, p, '●', style)
	}

	h.drawStatus(fmt.Sprintf(" particles %d  intensity %.0f  tick %d  step %dus | drag rotate  +/- count  [/] intensity  2 sphere  q quit",
		g.ActiveCount(), g.Intensity(), g.TickCount(), g.PerfStats().AvgTickDuration.Microseconds()))

	h.screen.Show()
}

func (h *host) plot(cam *camera.Camera, p r3.Vec, ch rune, style tcell.Style) {
	sx, sy, _, ok := cam.Project(p)
	if !ok {
		return
	}
	x, y := int(sx), int(sy/2)
	if x < 0 || x >= h.width || y < 0 || y >= h.height-1 {
		return
	}
	h.screen.SetContent(x, y, ch, nil, style)
}

func (h *host) drawStatus(text string) {
	style := tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorGray)
	y := h.height - 1
	for x := 0; x < h.width; x++ {
		h.screen.SetContent(x, y, ' ', nil, style)
	}
	for i, r := range []rune(text) {
		if i >= h.width {
			break
		}
		h.screen.SetContent(i, y, r, nil, style)
	}
}
