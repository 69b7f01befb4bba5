// cmd/sandbox/run.go
package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/opd-ai/go-physbox/pkg/engine"
	"github.com/opd-ai/go-physbox/pkg/event"
	"github.com/opd-ai/go-physbox/pkg/logging"
)

// progressInterval is how often headless runs log progress, in steps
const progressInterval = 100

type summary struct {
	Steps         uint64
	Collisions    int
	KineticEnergy float64
}

// stepObserver is called after every successful step
type stepObserver func(w *engine.World)

// runHeadless advances world by steps fixed time steps
func runHeadless(ctx context.Context, world *engine.World, steps int, dt float64, logger *logging.Logger, observers ...stepObserver) (summary, error) {
	var sum summary
	sub := world.EventBus().Subscribe(event.BodyCollision, func(event.Event) {
		sum.Collisions++
	})
	defer sub.Cancel()

	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		if err := world.Update(dt); err != nil {
			return sum, logging.WrapError(err, "step %d", world.Step())
		}
		for _, observe := range observers {
			observe(world)
		}
		if world.Step()%progressInterval == 0 {
			stats := world.LastStats()
			logger.Debug(ctx, "Simulation progress",
				"step", world.Step(),
				"contacts", stats.Overlapping,
				"collisions", sum.Collisions,
				"kinetic_energy", world.KineticEnergy(),
			)
		}
	}

	sum.Steps = world.Step()
	sum.KineticEnergy = world.KineticEnergy()
	return sum, nil
}

// writeSnapshot stores the world's structural snapshot as indented JSON
func writeSnapshot(world *engine.World, path string) error {
	data, err := json.MarshalIndent(world.Snapshot(), "", "  ")
	if err != nil {
		return logging.WrapError(err, "encoding snapshot")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return logging.WrapError(err, "writing snapshot to %s", path)
	}
	return nil
}

// readSnapshot loads a snapshot written by writeSnapshot
func readSnapshot(path string) (*engine.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, logging.WrapError(err, "reading snapshot %s", path)
	}
	var s engine.Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, logging.WrapError(err, "decoding snapshot %s", path)
	}
	return &s, nil
}
