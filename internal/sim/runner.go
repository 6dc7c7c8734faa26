package sim

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/annel0/sandbox2d/internal/logging"
	"github.com/annel0/sandbox2d/internal/world"
)

// TickObserver получает длительность тика и состояние после него
type TickObserver interface {
	ObserveTick(d time.Duration, player PlayerSnapshot, hostilesAlive int)
}

// Frame - согласованный снимок симуляции для чтения из других горутин
type Frame struct {
	Snapshot Snapshot
	Grid     world.View
	Report   *world.GenerationReport
}

// Command изменяет симуляцию в горутине тиков
type Command func(s *Simulation)

// Runner крутит симуляцию с фиксированной частотой в одной горутине
// и публикует снимки под мьютексом.
type Runner struct {
	sim           *Simulation
	rate          int
	snapshotEvery int
	observer      TickObserver
	tracer        trace.Tracer
	commands      chan Command
	log           *logging.Logger

	mu    sync.RWMutex
	frame Frame
}

// NewRunner создаёт цикл тиков. snapshotEvery - через сколько тиков
// обновлять снимок; observer может быть nil.
func NewRunner(s *Simulation, tickRate, snapshotEvery int, observer TickObserver) *Runner {
	if tickRate <= 0 {
		tickRate = 60
	}
	if snapshotEvery <= 0 {
		snapshotEvery = 1
	}
	r := &Runner{
		sim:           s,
		rate:          tickRate,
		snapshotEvery: snapshotEvery,
		observer:      observer,
		tracer:        otel.Tracer("sandbox2d/sim"),
		commands:      make(chan Command, 64),
		log:           logging.GetGameLogger(),
	}
	r.publish()
	return r
}

// Latest возвращает последний опубликованный снимок
func (r *Runner) Latest() Frame {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frame
}

// Submit ставит команду в очередь; false, если очередь переполнена
func (r *Runner) Submit(cmd Command) bool {
	select {
	case r.commands <- cmd:
		return true
	default:
		return false
	}
}

// Run выполняет тики до отмены контекста
func (r *Runner) Run(ctx context.Context) error {
	period := time.Second / time.Duration(r.rate)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	r.log.Info("▶ Цикл симуляции запущен: %d тиков/с", r.rate)
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			r.publish()
			r.log.Info("⏹ Цикл симуляции остановлен на тике %d", r.sim.TickCount())
			return ctx.Err()
		case now := <-ticker.C:
			r.Tick(ctx, now.Sub(last).Seconds())
			last = now
		}
	}
}

// Tick применяет команды и выполняет один шаг симуляции
func (r *Runner) Tick(ctx context.Context, dt float64) {
	_, span := r.tracer.Start(ctx, "sim.tick")
	defer span.End()

	r.drainCommands()

	start := time.Now()
	r.sim.Step(dt)
	took := time.Since(start)

	if r.observer != nil {
		r.observer.ObserveTick(took, r.sim.Player(), len(r.sim.Hostiles()))
	}
	if r.sim.TickCount()%uint64(r.snapshotEvery) == 0 {
		r.publish()
	}
	span.SetAttributes(
		attribute.Int64("sim.tick", int64(r.sim.TickCount())),
		attribute.Float64("sim.dt", dt),
	)
}

func (r *Runner) drainCommands() {
	for {
		select {
		case cmd := <-r.commands:
			cmd(r.sim)
		default:
			return
		}
	}
}

func (r *Runner) publish() {
	frame := Frame{
		Snapshot: r.sim.Snapshot(),
		Grid:     r.sim.CloneGrid(),
		Report:   r.sim.Report(),
	}
	r.mu.Lock()
	r.frame = frame
	r.mu.Unlock()
}
