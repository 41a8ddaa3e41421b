package main

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/rs/zerolog"
	"golang.design/x/clipboard"

	"github.com/milk9111/sheetmap/config"
	"github.com/milk9111/sheetmap/feed"
	"github.com/milk9111/sheetmap/input"
	"github.com/milk9111/sheetmap/loader"
	"github.com/milk9111/sheetmap/render"
	"github.com/milk9111/sheetmap/scene"
	"github.com/milk9111/sheetmap/viewport"
	"github.com/milk9111/sheetmap/watch"
	"github.com/milk9111/sheetmap/world"
)

const messageTTL = 2 * time.Second

type Game struct {
	cfg   config.Config
	log   zerolog.Logger
	debug bool

	// owned by the game goroutine
	view        *viewport.Viewport
	initialized bool
	input       input.Adapter
	renderer    *render.Renderer
	hud         *HUD
	stats       render.Stats
	drawn       *scene.Scene
	clipboardOK bool
	message     string
	messageAt   time.Time
	lastLoad    time.Time

	loader   *loader.Loader
	watcher  *watch.Watcher
	reloadCh chan string

	mu         sync.Mutex
	scene      *scene.Scene
	result     *loader.Result
	loading    bool
	generation int
	cancel     context.CancelFunc
}

func NewGame(cfg config.Config, log zerolog.Logger, debug bool) (*Game, error) {
	renderer, err := render.New()
	if err != nil {
		return nil, err
	}

	g := &Game{
		cfg:   cfg,
		log:   log,
		debug: debug,
		view: viewport.New(
			viewport.WithZoomFactor(cfg.View.ZoomFactor),
			viewport.WithScaleBounds(cfg.View.MinScale, cfg.View.MaxScale),
		),
		renderer: renderer,
		hud:      NewHUD(),
		loader: loader.New(feed.NewFetcher(cfg.Feeds.Timeout), loader.Config{
			Rects:            cfg.Feeds.Rects,
			Images:           cfg.Feeds.Images,
			ImageConcurrency: cfg.Feeds.ImageConcurrency,
		}, log),
		reloadCh: make(chan string, 1),
	}

	if err := clipboard.Init(); err != nil {
		log.Warn().Err(err).Msg("clipboard unavailable, copy disabled")
	} else {
		g.clipboardOK = true
	}

	if cfg.Feeds.Watch {
		g.startWatcher()
	}

	g.reload("startup")
	return g, nil
}

func (g *Game) startWatcher() {
	var files []string
	for _, src := range []string{g.cfg.Feeds.Rects, g.cfg.Feeds.Images} {
		if path, ok := feed.LocalPath(src); ok {
			files = append(files, path)
		}
	}
	if len(files) == 0 {
		return
	}
	w, err := watch.New(g.log, files...)
	if err != nil {
		g.log.Warn().Err(err).Msg("live reload disabled")
		return
	}
	g.watcher = w
	g.log.Info().Strs("files", files).Msg("watching feed files")

	go func() {
		for {
			select {
			case name, ok := <-w.Events:
				if !ok {
					return
				}
				g.requestReload("changed " + name)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				g.log.Warn().Err(err).Msg("watch error")
			}
		}
	}()
}

// requestReload may be called from any goroutine. Requests arriving while
// one is pending are merged.
func (g *Game) requestReload(reason string) {
	select {
	case g.reloadCh <- reason:
	default:
	}
}

// reload starts a fresh scene and cancels whatever load was still running.
func (g *Game) reload(reason string) {
	ctx, cancel := context.WithCancel(context.Background())
	sc := scene.NewWithStatic()

	g.mu.Lock()
	if g.cancel != nil {
		g.cancel()
	}
	g.cancel = cancel
	g.scene = sc
	g.loading = true
	g.generation++
	gen := g.generation
	g.mu.Unlock()

	g.lastLoad = time.Now()
	g.log.Info().Str("reason", reason).Int("generation", gen).Msg("loading feeds")

	go func() {
		res := g.loader.Load(ctx, sc)
		g.mu.Lock()
		defer g.mu.Unlock()
		if gen != g.generation {
			return
		}
		g.result = &res
		g.loading = false
	}()
}

func (g *Game) snapshot() (*scene.Scene, *loader.Result, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.scene, g.result, g.loading
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	_, wy := ebiten.Wheel()
	cx, cy := ebiten.CursorPosition()
	g.input.Apply(g.view, input.Frame{
		CursorX: cx,
		CursorY: cy,
		WheelY:  wy,
		Drag: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) ||
			ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle),
	})
	cursor := g.view.ScreenToWorld(world.Point{X: float64(cx), Y: float64(cy)})

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.requestReload("key")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyCursor(cursor)
	}

	_, result, loading := g.snapshot()
	if refresh := g.cfg.Feeds.Refresh; refresh > 0 && !loading && time.Since(g.lastLoad) >= refresh {
		g.requestReload("refresh")
	}
	select {
	case reason := <-g.reloadCh:
		g.reload(reason)
	default:
	}

	msg := g.message
	if time.Since(g.messageAt) > messageTTL {
		msg = ""
	}
	g.hud.Update(hudStatus{
		Scale:   g.view.Scale(),
		Cursor:  cursor,
		Loading: loading,
		Result:  result,
		Message: msg,
	})
	return nil
}

func (g *Game) copyCursor(p world.Point) {
	if !g.clipboardOK {
		g.flash("clipboard unavailable")
		return
	}
	s := fmt.Sprintf("%d,%d", int(math.Round(p.X)), int(math.Round(p.Y)))
	clipboard.Write(clipboard.FmtText, []byte(s))
	g.log.Debug().Str("coords", s).Msg("copied cursor position")
	g.flash("copied " + s)
}

func (g *Game) flash(msg string) {
	g.message = msg
	g.messageAt = time.Now()
}

func (g *Game) Draw(screen *ebiten.Image) {
	sc, _, _ := g.snapshot()
	if sc != g.drawn {
		g.renderer.Reset()
		g.drawn = sc
	}
	g.stats = g.renderer.Draw(screen, sc.Items(), g.view)
	g.hud.Draw(screen)

	if g.debug {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.2f  drawn: %d  culled: %d  textures: %d",
			ebiten.ActualFPS(), g.stats.Drawn, g.stats.Culled, g.renderer.CachedImages()))
	}
}

// Layout centers the board on the first call and afterwards only records
// the new size, so resizing never moves the content.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	outsideWidth = max(outsideWidth, 1)
	outsideHeight = max(outsideHeight, 1)
	if !g.initialized {
		g.view.Initialize(outsideWidth, outsideHeight, world.Center())
		g.initialized = true
	} else {
		g.view.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Close stops background work.
func (g *Game) Close() {
	g.mu.Lock()
	if g.cancel != nil {
		g.cancel()
	}
	g.mu.Unlock()
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}
