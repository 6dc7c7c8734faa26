package eventbus

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Priority - важность события симуляции при переполнении очереди шины
type Priority int

const (
	// PriorityTerrain - изменения блоков, их можно потерять
	PriorityTerrain Priority = 1
	// PriorityHostile - жизнь врагов и горящие фитили
	PriorityHostile Priority = 2
	// PriorityPlayer - урон, взрывы и возрождение игрока
	PriorityPlayer Priority = 3
)

// keepAtLeast - события с приоритетом ниже отбрасываются при полной очереди,
// остальные ждут места до отмены контекста
const keepAtLeast = PriorityPlayer

func (p Priority) String() string {
	switch {
	case p >= PriorityPlayer:
		return "player"
	case p == PriorityHostile:
		return "hostile"
	}
	return "terrain"
}

// Envelope - событие симуляции в виде, пригодном для шины.
// Tick и Payload.tick совпадают; Tick вынесен наверх для фильтрации
// без разбора полезной нагрузки.
type Envelope struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	EventType string    `json:"event_type"` // block_broken, explosion, ...
	Version   int       `json:"version"`
	Tick      uint64    `json:"tick"`
	Priority  Priority  `json:"priority"`
	Payload   []byte    `json:"payload"` // JSON EventPayload
}

// Filter ограничивает подписку по типу и источнику. Пустой список - без ограничения.
type Filter struct {
	Types   []string
	Sources []string
}

// Subscription позволяет отписаться
type Subscription interface {
	Unsubscribe()
}

// Handler потребляет события
type Handler func(ctx context.Context, ev *Envelope)

// Stats - счётчики шины
type Stats struct {
	Published uint64
	Consumed  uint64
	Dropped   uint64
	InFlight  int
}

// EventBus - шина событий симуляции
type EventBus interface {
	Publish(ctx context.Context, ev *Envelope) error
	Subscribe(ctx context.Context, f Filter, h Handler) (Subscription, error)
	Metrics() Stats
	Close() error
}

// memoryBus - шина в памяти процесса. Одна горутина рассылки вызывает
// обработчики по очереди, поэтому подписчик видит события в порядке тиков.
type memoryBus struct {
	mu     sync.RWMutex
	subs   map[int]*memSub
	nextID int

	queue chan *Envelope
	done  chan struct{}
	once  sync.Once

	published atomic.Uint64
	consumed  atomic.Uint64
	dropped   atomic.Uint64
}

// NewMemoryBus создаёт шину в памяти с очередью capacity
func NewMemoryBus(capacity int) EventBus {
	mb := newMemoryBus(capacity)
	go mb.dispatch()
	return mb
}

func newMemoryBus(capacity int) *memoryBus {
	if capacity <= 0 {
		capacity = 1
	}
	return &memoryBus{
		subs:  make(map[int]*memSub),
		queue: make(chan *Envelope, capacity),
		done:  make(chan struct{}),
	}
}

// Publish ставит событие в очередь. Если очередь полна, события ниже
// keepAtLeast считаются отброшенными без ошибки.
func (mb *memoryBus) Publish(ctx context.Context, ev *Envelope) error {
	select {
	case mb.queue <- ev:
		mb.published.Add(1)
		return nil
	default:
	}

	if ev.Priority < keepAtLeast {
		mb.dropped.Add(1)
		return nil
	}
	select {
	case mb.queue <- ev:
		mb.published.Add(1)
		return nil
	case <-ctx.Done():
		mb.dropped.Add(1)
		return ctx.Err()
	}
}

func (mb *memoryBus) Subscribe(ctx context.Context, f Filter, h Handler) (Subscription, error) {
	cctx, cancel := context.WithCancel(ctx)

	mb.mu.Lock()
	defer mb.mu.Unlock()
	sub := &memSub{bus: mb, id: mb.nextID, filter: f, handler: h, ctx: cctx, cancel: cancel}
	mb.subs[sub.id] = sub
	mb.nextID++
	return sub, nil
}

func (mb *memoryBus) Metrics() Stats {
	return Stats{
		Published: mb.published.Load(),
		Consumed:  mb.consumed.Load(),
		Dropped:   mb.dropped.Load(),
		InFlight:  len(mb.queue),
	}
}

// Close дожидается рассылки очереди. Publish после Close недопустим.
func (mb *memoryBus) Close() error {
	mb.once.Do(func() {
		close(mb.queue)
		<-mb.done
	})
	return nil
}

func (mb *memoryBus) dispatch() {
	defer close(mb.done)
	for ev := range mb.queue {
		for _, sub := range mb.snapshot() {
			if sub.ctx.Err() != nil || !matchFilter(ev, sub.filter) {
				continue
			}
			sub.handler(sub.ctx, ev)
			mb.consumed.Add(1)
		}
	}
}

// snapshot возвращает подписчиков в порядке подписки
func (mb *memoryBus) snapshot() []*memSub {
	mb.mu.RLock()
	defer mb.mu.RUnlock()
	out := make([]*memSub, 0, len(mb.subs))
	for id := 0; id < mb.nextID; id++ {
		if sub, ok := mb.subs[id]; ok {
			out = append(out, sub)
		}
	}
	return out
}

func matchFilter(ev *Envelope, f Filter) bool {
	return contains(f.Types, ev.EventType) && contains(f.Sources, ev.Source)
}

// contains считает пустой список совпадением
func contains(list []string, v string) bool {
	if len(list) == 0 {
		return true
	}
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

type memSub struct {
	bus     *memoryBus
	id      int
	filter  Filter
	handler Handler
	ctx     context.Context
	cancel  context.CancelFunc
}

func (s *memSub) Unsubscribe() {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	s.cancel()
	delete(s.bus.subs, s.id)
}
