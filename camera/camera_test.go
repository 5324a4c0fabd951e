package camera

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func newTestCamera() *Camera {
	// Same setup as the app: eye at z = -250 looking at the origin
	return New(60, 1, 10000, r3.Vec{Z: -250}, r3.Vec{}, 1280, 720)
}

func TestNew(t *testing.T) {
	cam := newTestCamera()

	forward := cam.forward
	if r3.Norm(r3.Sub(forward, r3.Vec{Z: 1})) > 1e-12 {
		t.Errorf("expected forward +Z, got %v", forward)
	}
	if math.Abs(cam.Aspect()-1280.0/720.0) > 1e-12 {
		t.Errorf("expected aspect %f, got %f", 1280.0/720.0, cam.Aspect())
	}
}

func TestProjectTargetAtCenter(t *testing.T) {
	cam := newTestCamera()

	sx, sy, depth, ok := cam.Project(r3.Vec{})
	if !ok {
		t.Fatal("expected target to be visible")
	}
	if math.Abs(sx-640) > 0.01 || math.Abs(sy-360) > 0.01 {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}
	if math.Abs(depth-250) > 1e-9 {
		t.Errorf("expected depth 250, got %f", depth)
	}
}

func TestProjectUpIsScreenUp(t *testing.T) {
	cam := newTestCamera()

	_, sy, _, ok := cam.Project(r3.Vec{Y: 50})
	if !ok {
		t.Fatal("expected point to be visible")
	}
	if sy >= 360 {
		t.Errorf("expected +Y above screen center, got y=%f", sy)
	}
}

func TestProjectFrustumEdge(t *testing.T) {
	cam := newTestCamera()

	// At depth 250 with 60 degree fov, the top edge is at y = 250*tan(30deg)
	top := 250 * math.Tan(math.Pi/6)
	_, sy, _, ok := cam.Project(r3.Vec{Y: top})
	if !ok || math.Abs(sy) > 1e-6 {
		t.Errorf("expected point on top edge (y=0), got y=%f ok=%v", sy, ok)
	}
}

func TestProjectClipping(t *testing.T) {
	cam := newTestCamera()

	tests := []struct {
		name string
		p    r3.Vec
		want bool
	}{
		{"sphere front", r3.Vec{Z: -100}, true},
		{"sphere back", r3.Vec{Z: 100}, true},
		{"behind camera", r3.Vec{Z: -2000}, false},
		{"beyond far plane", r3.Vec{Z: 20000}, false},
		{"inside near plane", r3.Vec{Z: -249.5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, _, ok := cam.Project(tt.p); ok != tt.want {
				t.Errorf("expected ok=%v for %v", tt.want, tt.p)
			}
		})
	}
}

func TestIsVisible(t *testing.T) {
	cam := newTestCamera()

	if !cam.IsVisible(r3.Vec{X: 100}) {
		t.Error("sphere edge should be visible")
	}
	if cam.IsVisible(r3.Vec{X: 5000}) {
		t.Error("far off-axis point should not be visible")
	}
}

func TestResize(t *testing.T) {
	cam := newTestCamera()
	cam.Resize(800, 800)

	if cam.Aspect() != 1 {
		t.Errorf("expected aspect 1, got %f", cam.Aspect())
	}

	sx, sy, _, _ := cam.Project(r3.Vec{})
	if math.Abs(sx-400) > 0.01 || math.Abs(sy-400) > 0.01 {
		t.Errorf("expected new screen center (400, 400), got (%f, %f)", sx, sy)
	}

	// Degenerate sizes are ignored
	cam.Resize(0, 600)
	if cam.ViewportW != 800 {
		t.Errorf("expected width unchanged, got %f", cam.ViewportW)
	}
}
