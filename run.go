package tabletop

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tanema/gween/ease"
)

// focusDuration is how long the F key takes to fly to the selection.
const focusDuration = 0.6

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title   string
	Width   int
	Height  int
	ShowFPS bool
	// OnUpdate, if set, is called once per tick after the table updates.
	// Returning a non-nil error stops the game loop.
	OnUpdate func() error
}

// game adapts a Table to ebiten.Game.
type game struct {
	table *Table
	cfg   RunConfig
	stats *statsOverlay
}

func (g *game) Update() error {
	t := g.table
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		t.FocusSelection(focusDuration)
	case inpututil.IsKeyJustPressed(ebiten.KeyHome):
		c := t.cfg.Camera
		t.camera.FlyTo(c.Position, c.Target, focusDuration, ease.InOutQuad)
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		t.selection.DeselectAll()
	case inpututil.IsKeyJustPressed(ebiten.KeyDelete), inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		for _, id := range t.selection.Selected() {
			_ = t.RemovePiece(id)
		}
	}
	t.Update()
	if g.stats != nil {
		g.stats.update(t, 1/float64(ebiten.TPS()))
	}
	if g.cfg.OnUpdate != nil {
		return g.cfg.OnUpdate()
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.table.Draw(screen)
	if g.stats != nil {
		g.stats.draw(screen)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.table.camera.SetViewport(Rect{Width: float64(outsideWidth), Height: float64(outsideHeight)})
	return outsideWidth, outsideHeight
}

// Run opens a window and drives the table until the window closes.
// Zero Width or Height fall back to the table's configured window size.
func Run(t *Table, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = t.cfg.Window.Width, t.cfg.Window.Height
	}
	if cfg.Title == "" {
		cfg.Title = t.cfg.Window.Title
	}
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	g := &game{table: t, cfg: cfg}
	if cfg.ShowFPS {
		g.stats = newStatsOverlay()
	}
	return ebiten.RunGame(g)
}
