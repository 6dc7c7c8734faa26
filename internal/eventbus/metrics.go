package eventbus

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsExporter периодически переносит Stats шины в Prometheus.
// Экспортер не делает предположений о конкретной реализации шины.
type MetricsExporter struct {
	bus      EventBus
	interval time.Duration
	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	started  atomic.Bool

	mu   sync.Mutex
	prev Stats

	published prometheus.Counter
	consumed  prometheus.Counter
	dropped   prometheus.Counter
	inflight  prometheus.Gauge
}

// NewMetricsExporter создаёт экспортер и регистрирует метрики в reg.
func NewMetricsExporter(bus EventBus, reg prometheus.Registerer, interval time.Duration) (*MetricsExporter, error) {
	if interval <= 0 {
		interval = time.Second
	}
	me := &MetricsExporter{
		bus:      bus,
		interval: interval,
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		published: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eventbus",
			Name:      "messages_published_total",
			Help:      "Общее число опубликованных сообщений.",
		}),
		consumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eventbus",
			Name:      "messages_consumed_total",
			Help:      "Общее число доставленных сообщений подписчикам.",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eventbus",
			Name:      "messages_dropped_total",
			Help:      "Сообщений, отброшенных из-за ошибок или ограничения back-pressure.",
		}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "eventbus",
			Name:      "messages_inflight",
			Help:      "Количество сообщений, находящихся в очереди (не доставленных).",
		}),
	}

	for _, c := range []prometheus.Collector{me.published, me.consumed, me.dropped, me.inflight} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return me, nil
}

// Start запускает периодическое обновление. Метод неблокирующий.
func (m *MetricsExporter) Start() {
	if m.started.Swap(true) {
		return
	}
	go m.loop()
}

// Stop останавливает обновление метрик.
func (m *MetricsExporter) Stop() {
	if !m.started.Load() {
		return
	}
	m.stopOnce.Do(func() {
		close(m.quit)
		<-m.done
	})
}

// Update переносит приращения Stats в метрики
func (m *MetricsExporter) Update() {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := m.bus.Metrics()

	// Counter только растёт, поэтому прибавляем дельту к прошлому значению
	if d := stats.Published - m.prev.Published; stats.Published > m.prev.Published {
		m.published.Add(float64(d))
	}
	if d := stats.Consumed - m.prev.Consumed; stats.Consumed > m.prev.Consumed {
		m.consumed.Add(float64(d))
	}
	if d := stats.Dropped - m.prev.Dropped; stats.Dropped > m.prev.Dropped {
		m.dropped.Add(float64(d))
	}
	m.inflight.Set(float64(stats.InFlight))
	m.prev = stats
}

func (m *MetricsExporter) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	defer close(m.done)

	for {
		select {
		case <-ticker.C:
			m.Update()
		case <-m.quit:
			m.Update()
			return
		}
	}
}
