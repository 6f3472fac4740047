package tool

import (
	"image"
	"math"
	"math/rand"
	"sync"
	"time"

	"pixelpaint/internal/editor"
	"pixelpaint/internal/raster"
	"pixelpaint/pkg/geometry"
)

const (
	sprayInterval = 50 * time.Millisecond
	sprayDensity  = 5 // random dots per queued position per tick
)

// AirbrushTool sprays random dots around the pointer while the button
// is held. Paint accumulates over time: a timer fires every 50ms and
// stamps dots at every position the pointer visited since the last
// tick, so lingering in one spot keeps depositing paint. The whole
// spray becomes a single history entry.
type AirbrushTool struct {
	ed *editor.Editor

	mu         sync.Mutex
	drawing    bool
	background bool
	firstBatch bool
	positions  []geometry.Point2D
	stop       chan struct{}

	interval time.Duration
	rng      *rand.Rand
}

// NewAirbrushTool creates an airbrush tool.
func NewAirbrushTool(ed *editor.Editor) *AirbrushTool {
	return &AirbrushTool{
		ed:       ed,
		interval: sprayInterval,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (t *AirbrushTool) Name() string { return "airbrush" }

func (t *AirbrushTool) PointerDown(ev PointerEvent) {
	if ev.Button == ButtonNone {
		return
	}
	t.mu.Lock()
	if t.drawing {
		t.mu.Unlock()
		return
	}
	t.drawing = true
	t.background = ev.Button == ButtonRight
	t.firstBatch = true
	t.positions = []geometry.Point2D{ev.Pos}
	stop := make(chan struct{})
	t.stop = stop
	t.mu.Unlock()

	go t.run(stop)
}

func (t *AirbrushTool) PointerMove(ev PointerEvent) {
	t.mu.Lock()
	if t.drawing {
		t.positions = append(t.positions, ev.Pos)
	}
	t.mu.Unlock()
}

func (t *AirbrushTool) PointerUp(ev PointerEvent) {
	t.stopSpray()
}

func (t *AirbrushTool) KeyDown(key string) bool { return false }

func (t *AirbrushTool) Deactivate() { t.stopSpray() }

func (t *AirbrushTool) ExternalOperation(name string) { t.stopSpray() }

func (t *AirbrushTool) stopSpray() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.drawing {
		return
	}
	t.drawing = false
	close(t.stop)
	t.stop = nil
	t.positions = nil
}

func (t *AirbrushTool) run(stop chan struct{}) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			t.spray()
		}
	}
}

// spray deposits one tick's worth of dots at the queued positions. The
// history snapshot rides on the first tick of the press so the whole
// spray undoes as one step.
func (t *AirbrushTool) spray() {
	t.mu.Lock()
	if !t.drawing || len(t.positions) == 0 {
		t.mu.Unlock()
		return
	}
	positions := t.positions
	t.positions = []geometry.Point2D{positions[len(positions)-1]}
	saveHistory := t.firstBatch
	t.firstBatch = false
	background := t.background
	t.mu.Unlock()

	col := t.ed.Foreground()
	if background {
		col = t.ed.Background()
	}
	col.A = uint8(t.ed.Opacity() * 255)
	radius := float64(t.ed.BrushSize()) / 2
	if radius < 1 {
		radius = 1
	}

	err := t.ed.DrawOnActiveLayer(func(img *image.RGBA) error {
		for _, pos := range positions {
			for i := 0; i < sprayDensity; i++ {
				angle := t.rng.Float64() * 2 * math.Pi
				dist := t.rng.Float64() * radius
				x := int(pos.X + dist*math.Cos(angle))
				y := int(pos.Y + dist*math.Sin(angle))
				if (image.Point{X: x, Y: y}).In(img.Bounds()) {
					raster.BlendPixel(img, x, y, col)
				}
			}
		}
		return nil
	}, saveHistory)
	if err != nil {
		t.ed.NotifyStatus(err.Error())
		t.stopSpray()
	}
}
