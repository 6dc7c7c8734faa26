package sim

import (
	"github.com/annel0/sandbox2d/internal/vec"
	"github.com/annel0/sandbox2d/internal/world/block"
	"github.com/annel0/sandbox2d/internal/world/entity"
)

// EventType определяет тип события симуляции
type EventType uint8

const (
	EventBlockBroken      EventType = iota // Блок добыт
	EventBlockPlaced                       // Блок установлен
	EventExplosion                         // Взрыв подрывника
	EventPlayerDamaged                     // Игрок получил урон
	EventPlayerRespawned                   // Игрок возродился
	EventHostileKilled                     // Враг убит
	EventHostileRespawned                  // Враг возродился
	EventFuseLit                           // Подрывник поджёг фитиль

	eventTypeCount
)

var eventNames = [eventTypeCount]string{
	"block_broken",
	"block_placed",
	"explosion",
	"player_damaged",
	"player_respawned",
	"hostile_killed",
	"hostile_respawned",
	"fuse_lit",
}

func (t EventType) String() string {
	if t < eventTypeCount {
		return eventNames[t]
	}
	return "unknown"
}

// EventTypes возвращает все типы событий
func EventTypes() []EventType {
	types := make([]EventType, 0, eventTypeCount)
	for t := EventType(0); t < eventTypeCount; t++ {
		types = append(types, t)
	}
	return types
}

// DamageCause - источник урона игроку
type DamageCause string

const (
	CauseFall      DamageCause = "fall"
	CauseContact   DamageCause = "contact"
	CauseExplosion DamageCause = "explosion"
)

// Event - событие симуляции. Заполнены только поля, относящиеся к типу.
type Event struct {
	Type     EventType
	Tick     uint64
	Tile     vec.Vec2
	Position vec.Vec2Float
	Block    block.BlockID
	Hostile  int
	Species  entity.Species
	Amount   int
	Health   int
	Cause    DamageCause
}

// EventSink получает события симуляции. Реализации не должны блокировать.
type EventSink interface {
	HandleEvent(ev Event)
}

// SinkFunc - адаптер функции к EventSink
type SinkFunc func(ev Event)

func (f SinkFunc) HandleEvent(ev Event) { f(ev) }

// MultiSink рассылает событие всем получателям по порядку
type MultiSink []EventSink

func (m MultiSink) HandleEvent(ev Event) {
	for _, s := range m {
		if s != nil {
			s.HandleEvent(ev)
		}
	}
}

type discardSink struct{}

func (discardSink) HandleEvent(Event) {}
