// Snapshot tool - runs the simulation for a number of ticks and renders
// the sphere to a PNG file.
//
// Usage: go run ./cmd/snapshot -ticks 600 -count 12 -out sphere.png
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/platonic/config"
	"github.com/pthm-cable/platonic/game"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outPath := flag.String("out", "snapshot.png", "Output PNG path")
	width := flag.Int("width", 512, "Render width")
	height := flag.Int("height", 512, "Render height")
	ticks := flag.Int("ticks", 600, "Ticks to run before rendering")
	count := flag.Int("count", -1, "Active particles (-1 = particles.initial from config)")
	intensity := flag.Float64("intensity", -1, "Repulsion intensity (-1 = force.intensity from config)")
	dragX := flag.Float64("drag-x", 0, "Horizontal drag in pixels applied before rendering")
	dragY := flag.Float64("drag-y", 0, "Vertical drag in pixels applied before rendering")
	light := flag.Bool("light", false, "Render on the light background")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	g := game.NewGameWithOptions(game.Options{Config: cfg, Headless: true})
	defer g.Unload()

	if *count >= 0 {
		g.SetActiveCount(*count)
	}
	if *intensity >= 0 {
		g.SetIntensity(*intensity)
	}
	if *light {
		g.ToggleBackground()
	}
	g.Resize(float32(*width), float32(*height))

	for int(g.TickCount()) < *ticks {
		g.Tick()
	}
	if *dragX != 0 || *dragY != 0 {
		g.BeginDrag()
		g.Accumulate(*dragX, *dragY)
		g.Tick()
		g.EndDrag()
	}

	// Initialize raylib with hidden window
	rl.SetConfigFlags(rl.FlagWindowHidden | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(*width), int32(*height), "Snapshot")
	defer rl.CloseWindow()

	target := rl.LoadRenderTexture(int32(*width), int32(*height))
	defer rl.UnloadRenderTexture(target)

	rl.BeginTextureMode(target)
	g.DrawScene()
	rl.EndTextureMode()

	// Get image from texture and flip it (OpenGL convention)
	img := rl.LoadImageFromTexture(target.Texture)
	rl.ImageFlipVertical(img)

	success := rl.ExportImage(*img, *outPath)
	rl.UnloadImage(img)

	if !success {
		fmt.Fprintf(os.Stderr, "Failed to export image\n")
		os.Exit(1)
	}
	fmt.Printf("Rendered %d particles after %d ticks to: %s (%dx%d)\n",
		g.ActiveCount(), g.TickCount(), *outPath, *width, *height)
}
