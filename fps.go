package tabletop

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// statsRefresh is how often the stats overlay redraws, in seconds.
const statsRefresh = 0.5

// statsOverlay shows FPS, TPS and table counters in the top-left corner.
// The text is redrawn into its own image every statsRefresh seconds.
type statsOverlay struct {
	img     *ebiten.Image
	elapsed float64
	text    string
}

func newStatsOverlay() *statsOverlay {
	return &statsOverlay{elapsed: statsRefresh}
}

// tick advances the refresh timer and reports whether the text is due.
func (o *statsOverlay) tick(dt float64) bool {
	o.elapsed += dt
	if o.elapsed < statsRefresh {
		return false
	}
	o.elapsed = 0
	return true
}

func statsText(fps, tps float64, pieces, selected int) string {
	return fmt.Sprintf("FPS: %.1f\nTPS: %.1f\npieces: %d\nselected: %d", fps, tps, pieces, selected)
}

func (o *statsOverlay) update(t *Table, dt float64) {
	if !o.tick(dt) {
		return
	}
	o.text = statsText(ebiten.ActualFPS(), ebiten.ActualTPS(), t.registry.Len(), t.selection.Len())
	if o.img == nil {
		// 160x64 fits four lines of the debug font.
		o.img = ebiten.NewImage(160, 64)
	}
	o.img.Clear()
	// Semi-transparent background for readability
	o.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(o.img, o.text)
}

func (o *statsOverlay) draw(screen *ebiten.Image) {
	if o.img == nil {
		return
	}
	screen.DrawImage(o.img, nil)
}
