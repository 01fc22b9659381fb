//go:build ebiten

package ui

import (
	"fmt"
	"strings"

	"github.com/alanazinkin/CellularAutomata-sub000/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Overlay draws the iteration counter and per-state population readout on top
// of the simulation view.
type Overlay struct {
	sim     *core.Simulation
	visible bool
}

// NewOverlay constructs an overlay for the provided simulation, visible by
// default.
func NewOverlay(sim *core.Simulation) *Overlay {
	return &Overlay{sim: sim, visible: true}
}

// Update toggles visibility on Tab.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		o.visible = !o.visible
	}
}

// Draw renders the readout in the top-left corner.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if !o.visible {
		return
	}
	counts := o.sim.Populations()
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s  iter %d", o.sim.Name(), o.sim.Iteration())
	for _, st := range o.sim.Model().States() {
		fmt.Fprintf(&sb, "\n%s %d", o.sim.DisplayKey(st), counts[st])
	}
	ebitenutil.DebugPrint(screen, sb.String())
}
