package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recSystem struct {
	name  string
	phase Phase
	log   *[]string
	sleep time.Duration
}

func (s *recSystem) Phase() Phase { return s.phase }

func (s *recSystem) Update(time.Duration) {
	*s.log = append(*s.log, s.name)
	time.Sleep(s.sleep)
}

func TestRunnerOrdersByPhase(t *testing.T) {
	var log []string
	r := NewRunner(0, zap.NewNop())
	r.Register(&recSystem{name: "persist", phase: PhasePersist, log: &log})
	r.Register(&recSystem{name: "output", phase: PhaseOutput, log: &log})
	r.Register(&recSystem{name: "input", phase: PhaseInput, log: &log})
	r.Register(&recSystem{name: "update-a", phase: PhaseUpdate, log: &log})
	r.Register(&recSystem{name: "update-b", phase: PhaseUpdate, log: &log})
	r.Register(&recSystem{name: "events", phase: PhaseEvents, log: &log})
	r.Register(&recSystem{name: "stray", phase: Phase(42), log: &log})

	r.Tick(50 * time.Millisecond)
	assert.Equal(t, []string{"input", "events", "update-a", "update-b", "output", "persist", "stray"}, log)

	log = nil
	r.TickPhase(PhaseUpdate, 0)
	assert.Equal(t, []string{"update-a", "update-b"}, log)

	log = nil
	r.TickPhase(Phase(-1), 0)
	assert.Empty(t, log)
}

func TestRunnerWarnsOnSlowTick(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	var log []string
	r := NewRunner(time.Millisecond, zap.New(core))
	r.Register(&recSystem{name: "slow", phase: PhaseUpdate, log: &log, sleep: 5 * time.Millisecond})

	took := r.Tick(0)
	assert.GreaterOrEqual(t, took, 5*time.Millisecond)
	assert.GreaterOrEqual(t, r.LastTick(PhaseUpdate), 5*time.Millisecond)
	assert.Zero(t, r.LastTick(Phase(9)))

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Contains(t, entries[0].ContextMap(), "Update")
	}
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "Output", PhaseOutput.String())
	assert.Equal(t, "Phase(9)", Phase(9).String())
}
