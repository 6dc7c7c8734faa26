package eventbus

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/annel0/sandbox2d/internal/logging"
	"github.com/annel0/sandbox2d/internal/sim"
	"github.com/annel0/sandbox2d/internal/vec"
)

// SourceName - источник событий симуляции в Envelope
const SourceName = "sandbox2d"

// EventPayload - JSON полезная нагрузка события симуляции
type EventPayload struct {
	Tick     uint64        `json:"tick"`
	Tile     vec.Vec2      `json:"tile"`
	Position vec.Vec2Float `json:"position"`
	Block    string        `json:"block,omitempty"`
	Hostile  *int          `json:"hostile,omitempty"`
	Species  string        `json:"species,omitempty"`
	Amount   int           `json:"amount,omitempty"`
	Health   *int          `json:"health,omitempty"`
	Cause    string        `json:"cause,omitempty"`
}

// NewPayload собирает полезную нагрузку, оставляя только поля типа события
func NewPayload(ev sim.Event) EventPayload {
	p := EventPayload{
		Tick:     ev.Tick,
		Tile:     ev.Tile,
		Position: ev.Position,
		Amount:   ev.Amount,
		Cause:    string(ev.Cause),
	}
	switch ev.Type {
	case sim.EventBlockBroken, sim.EventBlockPlaced:
		p.Block = ev.Block.String()
	case sim.EventExplosion, sim.EventHostileKilled, sim.EventHostileRespawned, sim.EventFuseLit:
		id := ev.Hostile
		p.Hostile = &id
		p.Species = ev.Species.String()
	case sim.EventPlayerDamaged, sim.EventPlayerRespawned:
		health := ev.Health
		p.Health = &health
	}
	return p
}

// priority - урон и взрывы важнее изменений блоков
func priority(t sim.EventType) Priority {
	switch t {
	case sim.EventExplosion, sim.EventPlayerDamaged, sim.EventPlayerRespawned:
		return PriorityPlayer
	case sim.EventHostileKilled, sim.EventHostileRespawned, sim.EventFuseLit:
		return PriorityHostile
	}
	return PriorityTerrain
}

// SimSink принимает события симуляции и публикует их в шину из отдельной
// горутины. HandleEvent не блокирует тик: при переполнении очереди
// событие отбрасывается.
type SimSink struct {
	bus     EventBus
	queue   chan *Envelope
	dropped atomic.Uint64
	wg      sync.WaitGroup
	once    sync.Once
	log     *logging.Logger
}

// NewSimSink создаёт приёмник с очередью размера buffer и запускает публикацию
func NewSimSink(bus EventBus, buffer int) *SimSink {
	if buffer <= 0 {
		buffer = 1
	}
	s := &SimSink{
		bus:   bus,
		queue: make(chan *Envelope, buffer),
		log:   logging.GetEventBusLogger(),
	}
	s.wg.Add(1)
	go s.run()
	return s
}

// Encode упаковывает событие в Envelope с новым UUID
func Encode(ev sim.Event) (*Envelope, error) {
	payload, err := json.Marshal(NewPayload(ev))
	if err != nil {
		return nil, err
	}
	return &Envelope{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Source:    SourceName,
		EventType: ev.Type.String(),
		Version:   1,
		Tick:      ev.Tick,
		Priority:  priority(ev.Type),
		Payload:   payload,
	}, nil
}

// HandleEvent реализует sim.EventSink
func (s *SimSink) HandleEvent(ev sim.Event) {
	env, err := Encode(ev)
	if err != nil {
		s.dropped.Add(1)
		return
	}
	select {
	case s.queue <- env:
	default:
		s.dropped.Add(1)
	}
}

// Dropped - число событий, не попавших в очередь
func (s *SimSink) Dropped() uint64 {
	return s.dropped.Load()
}

// Close дожидается публикации очереди
func (s *SimSink) Close() {
	s.once.Do(func() {
		close(s.queue)
		s.wg.Wait()
	})
}

func (s *SimSink) run() {
	defer s.wg.Done()
	for env := range s.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := s.bus.Publish(ctx, env); err != nil {
			s.log.Warn("публикация %s: %v", env.EventType, err)
		}
		cancel()
	}
}
