package system

import (
	"time"

	"github.com/wrongway/engine/internal/core/event"
	coresys "github.com/wrongway/engine/internal/core/system"
	"github.com/wrongway/engine/internal/data"
	"github.com/wrongway/engine/internal/world"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

const frame = 100 * time.Millisecond

// rig drives a Playing state through a hand-picked set of systems.
type rig struct {
	ws     *world.State
	runner *coresys.Runner
}

func newRig(tune func(*data.Tuning)) *rig {
	t := data.DefaultTuning()
	if tune != nil {
		tune(t)
	}
	ws := world.NewState(t, event.NewBus(0), 7, nil)
	ws.Begin(epoch)
	ws.Bus.Flush()
	ws.Bus.Drain()
	return &rig{ws: ws, runner: coresys.NewRunner()}
}

func (r *rig) add(systems ...coresys.System) *rig {
	for _, s := range systems {
		r.runner.Register(s)
	}
	return r
}

func (r *rig) step(dt time.Duration) {
	r.ws.Now = r.ws.Now.Add(dt)
	r.runner.Tick(dt)
}

// runTo steps in frames until survival reaches d.
func (r *rig) runTo(d time.Duration) {
	for r.ws.Survival < d {
		r.step(frame)
	}
}

func (r *rig) events() []any {
	r.ws.Bus.Flush()
	var out []any
	for _, env := range r.ws.Bus.Drain() {
		out = append(out, env.Payload)
	}
	return out
}

func eventNames(evs []any) []string {
	out := make([]string, len(evs))
	for i, ev := range evs {
		out[i] = event.Name(ev)
	}
	return out
}
