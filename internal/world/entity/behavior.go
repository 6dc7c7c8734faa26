package entity

import (
	"math"
	"math/rand"

	"github.com/annel0/sandbox2d/internal/physics"
	"github.com/annel0/sandbox2d/internal/world"
)

// Context - то, что поведению врага доступно из симуляции
type Context interface {
	Grid() *world.Grid
	Player() *Player
	Rand() *rand.Rand
	// Detonate взрывает врага в его текущей позиции
	Detonate(h *Hostile)
}

// Behavior задаёт скорость врага на тик. Физику и контактный урон
// применяет симуляция.
type Behavior interface {
	Step(ctx Context, h *Hostile, dt float64)
}

// BehaviorFunc - адаптер функции к Behavior
type BehaviorFunc func(ctx Context, h *Hostile, dt float64)

func (f BehaviorFunc) Step(ctx Context, h *Hostile, dt float64) { f(ctx, h, dt) }

// Registry - таблица поведения по видам
type Registry struct {
	behaviors [SpeciesCount]Behavior
}

// NewRegistry создаёт пустую таблицу
func NewRegistry() *Registry {
	return &Registry{}
}

// DefaultRegistry возвращает таблицу со стандартным поведением всех видов
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(SpeciesShambler, ChaserBehavior{})
	r.Register(SpeciesArcher, ChaserBehavior{})
	r.Register(SpeciesClimber, ClimberBehavior{})
	r.Register(SpeciesBomber, BomberBehavior{})
	return r
}

// Register задаёт поведение для вида
func (r *Registry) Register(s Species, b Behavior) {
	if s < SpeciesCount {
		r.behaviors[s] = b
	}
}

// Get возвращает поведение вида
func (r *Registry) Get(s Species) (Behavior, bool) {
	if s >= SpeciesCount || r.behaviors[s] == nil {
		return nil, false
	}
	return r.behaviors[s], true
}

// Step вызывает поведение для живого врага
func (r *Registry) Step(ctx Context, h *Hostile, dt float64) {
	if !h.Alive() {
		return
	}
	if b, ok := r.Get(h.Species); ok {
		b.Step(ctx, h, dt)
	}
}

// ChaserBehavior преследует игрока по горизонтали в радиусе агрессии,
// а вне его бродит, изредка разворачиваясь с короткой паузой.
type ChaserBehavior struct{}

func (ChaserBehavior) Step(ctx Context, h *Hostile, dt float64) {
	chase(ctx, h, dt)
}

// chase возвращает true, если игрок в радиусе агрессии
func chase(ctx Context, h *Hostile, dt float64) bool {
	dx := ctx.Player().Center().X - h.Center().X
	inAggro := math.Abs(dx) < h.Tuning.AggroRadius

	if h.PauseTimer > 0 {
		h.PauseTimer = decay(h.PauseTimer, dt)
		h.Vel.X = 0
		return inAggro
	}

	if inAggro {
		dir := 0.0
		if dx > 0 {
			dir = 1
		} else if dx < 0 {
			dir = -1
		}
		h.Vel.X = dir * h.Tuning.Speed
		h.FaceTowards(dx)
		return true
	}

	if h.WanderDir == 0 {
		h.WanderDir = 1
	}
	if h.BlockedX || ctx.Rand().Float64() < h.Tuning.ReverseChance {
		h.WanderDir = -h.WanderDir
		h.PauseTimer = h.Tuning.Pause
		h.BlockedX = false
		h.Vel.X = 0
		return false
	}
	h.Vel.X = float64(h.WanderDir) * h.Tuning.Speed
	h.FaceTowards(h.Vel.X)
	return false
}

// ClimberBehavior - преследователь, который подпрыгивает рядом с игроком
type ClimberBehavior struct{}

func (ClimberBehavior) Step(ctx Context, h *Hostile, dt float64) {
	if !chase(ctx, h, dt) {
		return
	}
	if !physics.OnGround(ctx.Grid(), &h.Body) || h.Vel.Y < 0 {
		return
	}
	if ctx.Rand().Float64() < h.Tuning.JumpChance {
		h.Vel.Y = -h.Tuning.JumpImpulse
	}
}

// BomberBehavior подходит к игроку и поджигает фитиль. Зажжённый фитиль
// не гаснет: по его окончании враг взрывается.
type BomberBehavior struct{}

func (BomberBehavior) Step(ctx Context, h *Hostile, dt float64) {
	if !h.FuseLit {
		dist := ctx.Player().Center().DistanceTo(h.Center())
		if dist <= h.Tuning.TriggerRadius {
			h.FuseLit = true
			h.Fuse = h.Tuning.Fuse
		}
	}

	if h.FuseLit {
		h.Vel.X = 0
		h.Fuse -= dt
		if h.Fuse <= 0 {
			h.Fuse = 0
			ctx.Detonate(h)
		}
		return
	}

	chase(ctx, h, dt)
}
