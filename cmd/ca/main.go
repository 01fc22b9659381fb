//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"

	"github.com/alanazinkin/CellularAutomata-sub000/internal/app"
	"github.com/alanazinkin/CellularAutomata-sub000/internal/core"
	_ "github.com/alanazinkin/CellularAutomata-sub000/internal/sims/fire"
	_ "github.com/alanazinkin/CellularAutomata-sub000/internal/sims/life"
	_ "github.com/alanazinkin/CellularAutomata-sub000/internal/sims/loop"
	_ "github.com/alanazinkin/CellularAutomata-sub000/internal/sims/segregation"
	_ "github.com/alanazinkin/CellularAutomata-sub000/internal/sims/sugarscape"
	_ "github.com/alanazinkin/CellularAutomata-sub000/internal/sims/wator"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	factory, ok := core.Sims()[cfg.Sim]
	if !ok {
		log.Fatalf("unknown sim %q", cfg.Sim)
	}

	sim, err := factory(cfg.FactoryConfig())
	if err != nil {
		log.Fatalf("building %q: %v", cfg.Sim, err)
	}

	game := app.New(sim, cfg.Scale)
	size := sim.Size()

	ebiten.SetWindowTitle("ca — " + sim.Name())
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(size.W*cfg.Scale, size.H*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
