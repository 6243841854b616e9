package sim

import (
	"context"
	"sync"
	"time"

	"deadwave/core/internal/telemetry"
	"deadwave/core/logging"
	lifecyclelog "deadwave/core/logging/lifecycle"
)

// CommandRejectQueueLimit indicates a command was dropped due to per-actor
// queue throttling; CommandRejectQueueFull means the shared buffer is
// saturated.
const (
	CommandRejectQueueLimit = "queue_limit"
	CommandRejectQueueFull  = "queue_full"
)

// LoopConfig tunes the command buffer and tick orchestration.
type LoopConfig struct {
	TickRate        int
	CatchupMaxTicks int
	CommandCapacity int
	PerActorLimit   int
}

// LoopHooks let the embedding server observe the loop without the core
// knowing about transports.
type LoopHooks struct {
	AfterStep func(StepResult)
	OnDrop    func(reason string, cmd Command)
}

// StepResult summarizes one advanced tick.
type StepResult struct {
	Tick         uint64
	Now          time.Time
	Delta        float64
	Duration     time.Duration
	Budget       time.Duration
	ClampedDelta bool
	Snapshot     Snapshot
}

// Loop serializes command ingestion and the fixed-timestep runner around one
// World. The simulation itself is single-threaded and cooperative; the loop
// is the only goroutine that touches the world.
type Loop struct {
	world   *World
	buffer  *CommandBuffer
	hooks   LoopHooks
	config  LoopConfig
	logger  telemetry.Logger
	metrics telemetry.Metrics
	clock   logging.Clock

	queueMu       sync.Mutex
	perActorCount map[string]int
	dropCounts    map[string]uint64
}

// NewLoop wraps the provided world with a ring-buffer queue and tick driver.
func NewLoop(world *World, cfg LoopConfig, hooks LoopHooks, logger telemetry.Logger, metrics telemetry.Metrics, clock logging.Clock) *Loop {
	if world == nil {
		return nil
	}
	if clock == nil {
		clock = logging.SystemClock{}
	}
	return &Loop{
		world:         world,
		buffer:        NewCommandBuffer(cfg.CommandCapacity, metrics),
		hooks:         hooks,
		config:        cfg,
		logger:        logger,
		metrics:       metrics,
		clock:         clock,
		perActorCount: make(map[string]int),
		dropCounts:    make(map[string]uint64),
	}
}

// World exposes the wrapped world for setup (spawning, renaming the player).
// Callers must not touch it once Run has started.
func (l *Loop) World() *World {
	if l == nil {
		return nil
	}
	return l.world
}

// Pending reports the number of staged commands.
func (l *Loop) Pending() int {
	if l == nil {
		return 0
	}
	return l.buffer.Len()
}

// Enqueue stages a command, enforcing per-actor throttling and capacity.
func (l *Loop) Enqueue(cmd Command) (bool, string) {
	if l == nil {
		return false, CommandRejectQueueFull
	}
	reason := ""
	var dropCount uint64
	l.queueMu.Lock()
	if l.config.PerActorLimit > 0 && cmd.ActorID != "" {
		count := l.perActorCount[cmd.ActorID]
		if count >= l.config.PerActorLimit {
			reason = CommandRejectQueueLimit
			dropCount = l.incrementDropLocked(cmd.ActorID)
		} else {
			l.perActorCount[cmd.ActorID] = count + 1
		}
	}
	if reason == "" && !l.buffer.Push(cmd) {
		reason = CommandRejectQueueFull
		dropCount = l.incrementDropLocked(cmd.ActorID)
	}
	l.queueMu.Unlock()
	if reason != "" {
		l.reportDrop(reason, cmd, dropCount)
		return false, reason
	}
	return true, ""
}

// Advance executes a single simulation step using the staged commands. The
// world owns the tick counter and increments it inside Step.
func (l *Loop) Advance(now time.Time, dt float64) StepResult {
	if l == nil {
		return StepResult{}
	}
	commands := l.drainCommands()
	_ = l.world.Apply(commands)
	l.world.Step(dt)
	return StepResult{
		Tick:     l.world.Tick(),
		Now:      now,
		Delta:    dt,
		Snapshot: l.world.Snapshot(),
	}
}

// Run drives the fixed-timestep loop until the stop channel closes.
func (l *Loop) Run(stop <-chan struct{}) {
	if l == nil {
		return
	}
	tickRate := l.config.TickRate
	if tickRate <= 0 {
		tickRate = 15
	}
	ticker := time.NewTicker(time.Second / time.Duration(tickRate))
	defer ticker.Stop()

	last := l.clock.Now()
	budgetSeconds := 1.0 / float64(tickRate)
	maxDt := budgetSeconds
	if l.config.CatchupMaxTicks > 1 {
		maxDt = budgetSeconds * float64(l.config.CatchupMaxTicks)
	}
	budgetDuration := time.Second / time.Duration(tickRate)

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			now := l.clock.Now()
			dt := now.Sub(last).Seconds()
			clamped := false
			if dt <= 0 {
				dt = budgetSeconds
			} else if dt > maxDt {
				dt = maxDt
				clamped = true
			}
			last = now

			start := l.clock.Now()
			result := l.Advance(now, dt)
			result.Duration = l.clock.Now().Sub(start)
			result.Budget = budgetDuration
			result.ClampedDelta = clamped

			if result.Duration > budgetDuration {
				lifecyclelog.TickBudgetOverrun(context.Background(), l.world.publisher, result.Tick, lifecyclelog.TickBudgetOverrunPayload{
					DurationMillis: result.Duration.Milliseconds(),
					BudgetMillis:   budgetDuration.Milliseconds(),
					Ratio:          float64(result.Duration) / float64(budgetDuration),
				})
			}

			if l.hooks.AfterStep != nil {
				l.hooks.AfterStep(result)
			}
		}
	}
}

func (l *Loop) drainCommands() []Command {
	l.queueMu.Lock()
	defer l.queueMu.Unlock()
	commands := l.buffer.Drain()
	if len(l.perActorCount) > 0 {
		l.perActorCount = make(map[string]int)
	}
	return commands
}

func (l *Loop) incrementDropLocked(actorID string) uint64 {
	if actorID == "" {
		return 0
	}
	count := l.dropCounts[actorID] + 1
	l.dropCounts[actorID] = count
	return count
}

func (l *Loop) reportDrop(reason string, cmd Command, count uint64) {
	if l.hooks.OnDrop != nil {
		l.hooks.OnDrop(reason, cmd)
	}
	if count > 0 && count&(count-1) == 0 && l.logger != nil {
		l.logger.Printf(
			"[backpressure] dropping command actor=%s type=%s count=%d limit=%d",
			cmd.ActorID,
			cmd.Type,
			count,
			l.config.PerActorLimit,
		)
	}
}
