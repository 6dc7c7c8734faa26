package entity

import (
	"github.com/annel0/sandbox2d/internal/vec"
)

// Species - вид враждебного актёра
type Species uint8

const (
	SpeciesShambler Species = iota
	SpeciesArcher
	SpeciesClimber
	SpeciesBomber

	SpeciesCount
)

var speciesNames = [SpeciesCount]string{"shambler", "archer", "climber", "bomber"}

func (s Species) String() string {
	if s < SpeciesCount {
		return speciesNames[s]
	}
	return "unknown"
}

// SpeciesByName ищет вид по имени
func SpeciesByName(name string) (Species, bool) {
	for i, n := range speciesNames {
		if n == name {
			return Species(i), true
		}
	}
	return SpeciesCount, false
}

// LifeState - состояние врага
type LifeState uint8

const (
	StateAlive LifeState = iota
	StateDead            // ждёт возрождения
)

// Hostile - автономный враждебный актёр
type Hostile struct {
	Actor

	ID      int
	Species Species
	Tuning  SpeciesTuning

	HP    int
	MaxHP int
	State LifeState

	PauseTimer float64 // пауза после разворота
	WanderDir  int
	FuseLit    bool
	Fuse       float64 // оставшееся время фитиля
	BlockedX   bool    // упёрся в стену на прошлом шаге

	RespawnTimer float64
	SpawnTile    vec.Vec2
	LastSwing    uint64 // последний замах, который попал по врагу
}

// NewHostile создаёт живого врага, стоящего в тайле spawn
func NewHostile(id int, species Species, tuning SpeciesTuning, spawn vec.Vec2, size, tileSize float64) *Hostile {
	h := &Hostile{
		Actor:     NewActor(vec.Vec2Float{}, size),
		ID:        id,
		Species:   species,
		Tuning:    tuning,
		HP:        tuning.MaxHP,
		MaxHP:     tuning.MaxHP,
		State:     StateAlive,
		WanderDir: 1,
		SpawnTile: spawn,
	}
	h.PlaceOnTile(spawn, tileSize)
	return h
}

// Alive сообщает, участвует ли враг в симуляции
func (h *Hostile) Alive() bool {
	return h.State == StateAlive
}

// TakeDamage уменьшает здоровье. Возвращает true, если враг погиб.
func (h *Hostile) TakeDamage(amount int) bool {
	if !h.Alive() || amount <= 0 {
		return false
	}
	h.HP -= amount
	if h.HP > 0 {
		return false
	}
	h.HP = 0
	h.State = StateDead
	return true
}

// Kill переводит врага в ожидание возрождения
func (h *Hostile) Kill(respawnDelay float64) {
	h.HP = 0
	h.State = StateDead
	h.RespawnTimer = respawnDelay
	h.Vel = vec.Vec2Float{}
	h.FuseLit = false
	h.Fuse = 0
	h.PauseTimer = 0
}

// Revive возрождает врага с полным здоровьем в тайле t
func (h *Hostile) Revive(t vec.Vec2, tileSize float64) {
	h.PlaceOnTile(t, tileSize)
	h.HP = h.MaxHP
	h.State = StateAlive
	h.RespawnTimer = 0
	h.FuseLit = false
	h.Fuse = 0
	h.PauseTimer = 0
	h.BlockedX = false
}
