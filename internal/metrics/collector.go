package metrics

import (
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/annel0/sandbox2d/internal/sim"
)

const namespace = "sandbox"

// Collector считает события симуляции и длительность тиков в Prometheus.
// Реализует sim.EventSink.
type Collector struct {
	events       *prometheus.CounterVec
	ticks        prometheus.Counter
	tickDuration prometheus.Histogram
	health       prometheus.Gauge
	hostiles     prometheus.Gauge
	cpu          prometheus.Gauge
	rss          prometheus.Gauge
	goroutines   prometheus.Gauge

	startTime time.Time

	procOnce sync.Once
	proc     *process.Process
}

// NewCollector создаёт метрики и регистрирует их в reg
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "События симуляции по типам.",
		}, []string{"type"}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Выполненные тики симуляции.",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Время выполнения одного тика.",
			Buckets:   []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025},
		}),
		health: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "player_health",
			Help:      "Текущее здоровье игрока.",
		}),
		hostiles: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "hostiles_alive",
			Help:      "Количество живых врагов.",
		}),
		cpu: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "process_cpu_percent",
			Help:      "Загрузка CPU процессом.",
		}),
		rss: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "process_rss_bytes",
			Help:      "Резидентная память процесса.",
		}),
		goroutines: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "goroutines",
			Help:      "Количество горутин.",
		}),
		startTime: time.Now(),
	}

	collectors := []prometheus.Collector{
		c.events, c.ticks, c.tickDuration, c.health, c.hostiles, c.cpu, c.rss, c.goroutines,
	}
	for _, col := range collectors {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}

	// Все типы видны в /metrics сразу, даже с нулём
	for _, t := range sim.EventTypes() {
		c.events.WithLabelValues(t.String())
	}
	return c, nil
}

// HandleEvent реализует sim.EventSink
func (c *Collector) HandleEvent(ev sim.Event) {
	c.events.WithLabelValues(ev.Type.String()).Inc()
}

// ObserveTick записывает длительность тика и состояние после него
func (c *Collector) ObserveTick(d time.Duration, player sim.PlayerSnapshot, hostilesAlive int) {
	c.ticks.Inc()
	c.tickDuration.Observe(d.Seconds())
	c.health.Set(float64(player.Health))
	c.hostiles.Set(float64(hostilesAlive))
}

// Uptime возвращает время с создания коллектора
func (c *Collector) Uptime() time.Duration {
	return time.Since(c.startTime)
}

// UpdateProcess обновляет метрики процесса через gopsutil
func (c *Collector) UpdateProcess() error {
	c.goroutines.Set(float64(runtime.NumGoroutine()))

	var err error
	c.procOnce.Do(func() {
		c.proc, err = process.NewProcess(int32(os.Getpid()))
	})
	if err != nil {
		return err
	}
	if c.proc == nil {
		return nil
	}

	if pct, err := c.proc.CPUPercent(); err == nil {
		c.cpu.Set(pct)
	}
	mem, err := c.proc.MemoryInfo()
	if err != nil {
		return err
	}
	c.rss.Set(float64(mem.RSS))
	return nil
}
