package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/alanazinkin/CellularAutomata-sub000/internal/core"
	_ "github.com/alanazinkin/CellularAutomata-sub000/internal/sims/fire"
	_ "github.com/alanazinkin/CellularAutomata-sub000/internal/sims/life"
	_ "github.com/alanazinkin/CellularAutomata-sub000/internal/sims/loop"
	_ "github.com/alanazinkin/CellularAutomata-sub000/internal/sims/segregation"
	_ "github.com/alanazinkin/CellularAutomata-sub000/internal/sims/sugarscape"
	_ "github.com/alanazinkin/CellularAutomata-sub000/internal/sims/wator"
	"github.com/alanazinkin/CellularAutomata-sub000/internal/telemetry"
)

func main() {
	var (
		simName = flag.String("sim", "life", "simulation to run")
		steps   = flag.Int("steps", 1000, "ticks to run (0 runs until interrupted)")
		tps     = flag.Int("tps", 0, "ticks per second (0 runs flat out)")
		seed    = flag.Int64("seed", 42, "seed for random initial states")
		width   = flag.Int("w", 0, "grid width (0 uses the simulation default)")
		height  = flag.Int("h", 0, "grid height (0 uses the simulation default)")
		listen  = flag.String("listen", "", "address for the telemetry WebSocket endpoint (empty disables)")
		report  = flag.Int("report", 100, "log populations every N ticks (0 disables)")
	)
	flag.Parse()

	factory, ok := core.Sims()[*simName]
	if !ok {
		log.Fatalf("unknown sim %q", *simName)
	}

	cfg := map[string]string{"seed": strconv.FormatInt(*seed, 10)}
	if *width > 0 {
		cfg["w"] = strconv.Itoa(*width)
	}
	if *height > 0 {
		cfg["h"] = strconv.Itoa(*height)
	}
	sim, err := factory(cfg)
	if err != nil {
		log.Fatalf("building %q: %v", *simName, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var bcast *telemetry.Broadcaster
	if *listen != "" {
		bcast = telemetry.NewBroadcaster()
		defer bcast.Close()

		mux := http.NewServeMux()
		mux.Handle("/ws", bcast.Handler())
		srv := &http.Server{Addr: *listen, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("telemetry server: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("telemetry on ws://%s/ws", *listen)
	}

	var timer *core.FixedStep
	if *tps > 0 {
		timer = core.NewFixedStep(*tps)
	}

	size := sim.Size()
	log.Printf("running %s on a %dx%d grid", sim.Name(), size.W, size.H)

	for *steps == 0 || sim.Iteration() < *steps {
		if ctx.Err() != nil {
			log.Printf("interrupted at iteration %d", sim.Iteration())
			break
		}
		if timer != nil && !timer.ShouldStep() {
			time.Sleep(time.Millisecond)
			continue
		}
		sim.Step()
		if bcast != nil {
			bcast.Publish(telemetry.Capture(sim))
		}
		if *report > 0 && sim.Iteration()%*report == 0 {
			log.Printf("iter %d  %s", sim.Iteration(), summarize(sim))
		}
	}

	log.Printf("done after %d iterations  %s", sim.Iteration(), summarize(sim))
}

func summarize(sim *core.Simulation) string {
	counts := sim.Populations()
	parts := make([]string, 0, len(counts))
	for _, st := range sim.Model().States() {
		parts = append(parts, fmt.Sprintf("%s=%d", sim.DisplayKey(st), counts[st]))
	}
	return strings.Join(parts, " ")
}
