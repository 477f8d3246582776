package system

import (
	"time"

	"go.uber.org/zap"
)

// Runner executes systems phase by phase each tick. Systems of the same
// phase run in registration order. A tick that runs longer than the
// budget is logged with its per-phase breakdown.
type Runner struct {
	phases [phaseCount][]System
	budget time.Duration
	log    *zap.Logger

	last [phaseCount]time.Duration // per-phase time of the last Tick
}

// NewRunner creates a runner; budget 0 disables the slow tick warning.
func NewRunner(budget time.Duration, log *zap.Logger) *Runner {
	return &Runner{budget: budget, log: log}
}

// Register adds a system to its phase. Systems with an unknown phase run
// in the last phase.
func (r *Runner) Register(s System) {
	p := s.Phase()
	if p < 0 || p >= phaseCount {
		p = phaseCount - 1
	}
	r.phases[p] = append(r.phases[p], s)
}

// Tick runs every phase once and returns the time spent.
func (r *Runner) Tick(dt time.Duration) time.Duration {
	var total time.Duration
	for p := range r.phases {
		start := time.Now()
		r.runPhase(Phase(p), dt)
		r.last[p] = time.Since(start)
		total += r.last[p]
	}
	if r.budget > 0 && total > r.budget {
		fields := make([]zap.Field, 0, phaseCount+2)
		fields = append(fields, zap.Duration("took", total), zap.Duration("budget", r.budget))
		for p, d := range r.last {
			fields = append(fields, zap.Duration(Phase(p).String(), d))
		}
		r.log.Warn("遊戲迴圈 tick 超時", fields...)
	}
	return total
}

// TickPhase runs only the systems of one phase.
func (r *Runner) TickPhase(phase Phase, dt time.Duration) {
	if phase < 0 || phase >= phaseCount {
		return
	}
	r.runPhase(phase, dt)
}

// LastTick returns the time each phase took in the last Tick.
func (r *Runner) LastTick(phase Phase) time.Duration {
	if phase < 0 || phase >= phaseCount {
		return 0
	}
	return r.last[phase]
}

func (r *Runner) runPhase(p Phase, dt time.Duration) {
	for _, s := range r.phases[p] {
		s.Update(dt)
	}
}
