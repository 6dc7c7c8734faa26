package sim

import (
	"github.com/annel0/sandbox2d/internal/physics"
	"github.com/annel0/sandbox2d/internal/vec"
	"github.com/annel0/sandbox2d/internal/world"
	"github.com/annel0/sandbox2d/internal/world/block"
	"github.com/annel0/sandbox2d/internal/world/entity"
)

// MiningSnapshot - состояние добычи
type MiningSnapshot struct {
	Target   vec.Vec2
	Block    block.BlockID
	Progress float64 // доля в [0,1]
}

// PlayerSnapshot - копия состояния игрока только для чтения
type PlayerSnapshot struct {
	Position      vec.Vec2Float
	Velocity      vec.Vec2Float
	Width         float64
	Height        float64
	FacingX       int
	FacingY       int
	Grounded      bool
	Health        int
	MaxHealth     int
	Invulnerable  bool
	Inventory     entity.Inventory
	Tools         entity.ToolSet
	SelectedBlock block.BlockID
	SelectedTool  block.Tool
	Mining        *MiningSnapshot
	Attacking     bool
	Deaths        int
}

// HostileSnapshot - копия состояния живого врага
type HostileSnapshot struct {
	ID       int
	Species  entity.Species
	Position vec.Vec2Float
	Width    float64
	Height   float64
	FacingX  int
	HP       int
	MaxHP    int
	FuseLit  bool
	Fuse     float64
}

// Snapshot - полное состояние симуляции на момент тика
type Snapshot struct {
	Tick     uint64
	Elapsed  float64
	Seed     int64
	Player   PlayerSnapshot
	Hostiles []HostileSnapshot
}

// Grid возвращает сетку только для чтения
func (s *Simulation) Grid() world.View {
	return s.grid
}

// CloneGrid возвращает копию сетки для чтения из других горутин
func (s *Simulation) CloneGrid() *world.Grid {
	return s.grid.Clone()
}

// Report возвращает отчёт генерации; nil, если сетка передана готовой
func (s *Simulation) Report() *world.GenerationReport {
	return s.report
}

// TickCount - количество выполненных тиков
func (s *Simulation) TickCount() uint64 {
	return s.tick
}

// Elapsed - симулированное время в секундах
func (s *Simulation) Elapsed() float64 {
	return s.elapsed
}

// Seed возвращает сид мира
func (s *Simulation) Seed() int64 {
	return s.opts.Seed
}

// Player возвращает снимок игрока
func (s *Simulation) Player() PlayerSnapshot {
	p := s.player
	snap := PlayerSnapshot{
		Position:      p.Pos,
		Velocity:      p.Vel,
		Width:         p.Collider.Width,
		Height:        p.Collider.Height,
		FacingX:       p.FacingX,
		FacingY:       p.FacingY,
		Grounded:      physics.OnGround(s.grid, &p.Body),
		Health:        p.Health,
		MaxHealth:     p.Tuning.MaxHealth,
		Invulnerable:  p.Invulnerable > 0,
		Inventory:     p.Inventory,
		Tools:         p.Tools,
		SelectedBlock: p.SelectedBlock,
		SelectedTool:  p.SelectedTool,
		Attacking:     p.Attacking(),
		Deaths:        p.Deaths,
	}
	if m, ok := p.Mining.Session(); ok {
		snap.Mining = &MiningSnapshot{
			Target:   m.Target,
			Block:    m.Block,
			Progress: p.MiningProgress(),
		}
	}
	return snap
}

// Hostiles возвращает снимки живых врагов
func (s *Simulation) Hostiles() []HostileSnapshot {
	out := make([]HostileSnapshot, 0, len(s.hostiles))
	for _, h := range s.hostiles {
		if !h.Alive() {
			continue
		}
		out = append(out, HostileSnapshot{
			ID:       h.ID,
			Species:  h.Species,
			Position: h.Pos,
			Width:    h.Collider.Width,
			Height:   h.Collider.Height,
			FacingX:  h.FacingX,
			HP:       h.HP,
			MaxHP:    h.MaxHP,
			FuseLit:  h.FuseLit,
			Fuse:     h.Fuse,
		})
	}
	return out
}

// Snapshot собирает полный снимок
func (s *Simulation) Snapshot() Snapshot {
	return Snapshot{
		Tick:     s.tick,
		Elapsed:  s.elapsed,
		Seed:     s.opts.Seed,
		Player:   s.Player(),
		Hostiles: s.Hostiles(),
	}
}
