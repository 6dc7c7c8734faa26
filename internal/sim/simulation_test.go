package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/sandbox2d/internal/physics"
	"github.com/annel0/sandbox2d/internal/vec"
	"github.com/annel0/sandbox2d/internal/world"
	"github.com/annel0/sandbox2d/internal/world/block"
	"github.com/annel0/sandbox2d/internal/world/entity"
)

const frame = 1.0 / 60

type recorder struct {
	events []Event
}

func (r *recorder) HandleEvent(ev Event) { r.events = append(r.events, ev) }

func (r *recorder) count(t EventType) int {
	n := 0
	for _, ev := range r.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

// flatGrid - мир 40×24, каменный пол в строках 20..22, бедрок в 23.
// Игрок появляется в тайле (20,19).
func flatGrid() *world.Grid {
	g := world.NewGrid(40, 24, 32)
	for y := 20; y < 23; y++ {
		g.FillRow(y, block.StoneBlockID)
	}
	return g
}

func newFlatSim(roster ...SpawnSpec) (*Simulation, *recorder) {
	rec := &recorder{}
	opts := DefaultOptions()
	opts.Roster = roster
	opts.Sink = rec
	return New(flatGrid(), opts), rec
}

func steps(s *Simulation, n int, dt float64) {
	for i := 0; i < n; i++ {
		s.Step(dt)
	}
}

func TestNew_Spawns(t *testing.T) {
	s, _ := newFlatSim(DefaultRoster()...)

	p := s.Player()
	assert.Equal(t, vec.Vec2Float{X: 20*32 + 3, Y: 20*32 - 26}, p.Position)
	assert.Equal(t, 10, p.Health)
	assert.Equal(t, 10, p.Inventory[block.GrassBlockID])
	assert.Nil(t, p.Mining)

	hostiles := s.Hostiles()
	require.Len(t, hostiles, 4)
	cols := map[entity.Species]int{}
	for _, h := range hostiles {
		cols[h.Species] = vec.Vec2Float{X: h.Position.X + h.Width/2, Y: h.Position.Y}.ToTile(32).X
	}
	assert.Equal(t, 26, cols[entity.SpeciesShambler])
	assert.Equal(t, 8, cols[entity.SpeciesArcher])
	assert.Equal(t, 38, cols[entity.SpeciesClimber])
	assert.Equal(t, 1, cols[entity.SpeciesBomber], "колонка прижата к краю мира")
}

func TestStep_DeltaClamp(t *testing.T) {
	s, _ := newFlatSim()

	s.Step(-1)
	assert.Equal(t, 0.0, s.Elapsed())
	s.Step(10)
	assert.Equal(t, 0.25, s.Elapsed())
	assert.Equal(t, uint64(2), s.TickCount())
}

func TestStep_StandsOnGround(t *testing.T) {
	s, _ := newFlatSim()
	before := s.Player().Position

	steps(s, 120, frame)

	p := s.Player()
	assert.Equal(t, before, p.Position)
	assert.True(t, p.Grounded)
	assert.Equal(t, 10, p.Health)
}

func TestStep_MoveAndJump(t *testing.T) {
	s, _ := newFlatSim()

	s.SetMoveIntent(-1)
	steps(s, 60, frame)
	p := s.Player()
	assert.InDelta(t, 643-150, p.Position.X, 1e-6)
	assert.Equal(t, -1, p.FacingX)

	s.SetMoveIntent(0)
	s.RequestJump()
	s.Step(frame)
	p = s.Player()
	assert.Less(t, p.Velocity.Y, 0.0)
	assert.False(t, p.Grounded)
	assert.Equal(t, -1, p.FacingY, "взгляд вверх по вертикальной скорости")

	t.Run("в воздухе прыжок не работает", func(t *testing.T) {
		vy := s.Player().Velocity.Y
		s.RequestJump()
		s.Step(frame)
		assert.Greater(t, s.Player().Velocity.Y, vy)
	})

	steps(s, 120, frame)
	assert.True(t, s.Player().Grounded)
}

func TestStep_StoneBreak(t *testing.T) {
	target := vec.Vec2{X: 21, Y: 19}

	t.Run("без инструмента 1.6 с", func(t *testing.T) {
		s, rec := newFlatSim()
		s.grid.SetAt(target, block.StoneBlockID)
		stone := s.Player().Inventory[block.StoneBlockID]

		s.MineFacing()
		steps(s, 15, 0.1)
		assert.Equal(t, block.StoneBlockID, s.Grid().Get(target.X, target.Y))
		require.NotNil(t, s.Player().Mining)
		assert.InDelta(t, 1.5/1.6, s.Player().Mining.Progress, 1e-6)

		steps(s, 2, 0.1)
		assert.Equal(t, block.AirBlockID, s.Grid().Get(target.X, target.Y))
		assert.Equal(t, stone+1, s.Player().Inventory[block.StoneBlockID])
		require.Equal(t, 1, rec.count(EventBlockBroken))
		assert.Equal(t, target, rec.events[0].Tile)
	})

	t.Run("с киркой 0.8 с", func(t *testing.T) {
		s, _ := newFlatSim()
		s.grid.SetAt(target, block.StoneBlockID)
		require.True(t, s.SelectTool(block.ToolPickaxe))

		s.MineFacing()
		steps(s, 7, 0.1)
		assert.Equal(t, block.StoneBlockID, s.Grid().Get(target.X, target.Y))
		steps(s, 2, 0.1)
		assert.Equal(t, block.AirBlockID, s.Grid().Get(target.X, target.Y))
	})
}

func TestStep_MiningInterruption(t *testing.T) {
	s, _ := newFlatSim()
	a := vec.Vec2{X: 21, Y: 20}
	b := vec.Vec2{X: 22, Y: 20}

	s.MineTile(a)
	steps(s, 10, 0.1)
	s.MineTile(b)
	s.Step(0.1)

	m := s.Player().Mining
	require.NotNil(t, m)
	assert.Equal(t, b, m.Target)
	assert.InDelta(t, 0.1/1.6, m.Progress, 1e-6)
	assert.Equal(t, block.StoneBlockID, s.Grid().Get(a.X, a.Y))

	s.StopMining()
	s.Step(0.1)
	assert.Nil(t, s.Player().Mining)

	t.Run("цель стала воздухом", func(t *testing.T) {
		s.MineTile(b)
		s.Step(0.1)
		s.grid.SetAt(b, block.AirBlockID)
		s.Step(0.1)
		assert.Nil(t, s.Player().Mining)
	})

	t.Run("бедрок не добывается", func(t *testing.T) {
		s.MineTile(vec.Vec2{X: 5, Y: 23})
		steps(s, 100, 0.1)
		assert.Equal(t, block.BedrockBlockID, s.Grid().Get(5, 23))
		assert.Nil(t, s.Player().Mining)
	})
}

func TestStep_Placement(t *testing.T) {
	s, rec := newFlatSim(SpawnSpec{Species: entity.SpeciesShambler, ColumnOffset: 5})
	free := vec.Vec2{X: 21, Y: 18}

	s.RequestPlace(free)
	s.Step(frame)
	assert.Equal(t, block.DirtBlockID, s.Grid().Get(free.X, free.Y))
	assert.Equal(t, 7, s.Player().Inventory[block.DirtBlockID])
	assert.Equal(t, 1, rec.count(EventBlockPlaced))

	refused := []struct {
		name string
		tile vec.Vec2
	}{
		{"занятый тайл", free},
		{"тайл игрока", vec.Vec2{X: 20, Y: 19}},
		{"за пределами мира", vec.Vec2{X: -1, Y: 5}},
		{"бедрок", vec.Vec2{X: 3, Y: 23}},
	}
	for _, tc := range refused {
		t.Run(tc.name, func(t *testing.T) {
			s.RequestPlace(tc.tile)
			s.Step(frame)
			assert.Equal(t, 7, s.Player().Inventory[block.DirtBlockID])
		})
	}

	t.Run("тайл врага", func(t *testing.T) {
		h := s.hostiles[0]
		tile := h.Center().ToTile(32)
		s.RequestPlace(tile)
		s.Step(frame)
		assert.Equal(t, block.AirBlockID, s.Grid().Get(tile.X, tile.Y))
	})

	t.Run("нет запаса", func(t *testing.T) {
		require.True(t, s.SelectBlock(block.CoalOreBlockID))
		s.RequestPlace(vec.Vec2{X: 10, Y: 10})
		s.Step(frame)
		assert.Equal(t, block.AirBlockID, s.Grid().Get(10, 10))
	})

	t.Run("перед игроком", func(t *testing.T) {
		require.True(t, s.SelectBlock(block.StoneBlockID))
		s.player.FacingX = -1
		s.RequestPlaceFacing()
		s.Step(frame)
		assert.Equal(t, block.StoneBlockID, s.Grid().Get(19, 19))
		assert.Equal(t, 5, s.Player().Inventory[block.StoneBlockID])
	})

	assert.False(t, s.SelectBlock(block.AirBlockID))
	assert.False(t, s.SelectBlock(block.BedrockBlockID))
}

// totalBlocks - блоки в инвентаре плюс твёрдые тайлы, кроме бедрока
func totalBlocks(s *Simulation) int {
	total := 0
	for _, n := range s.player.Inventory {
		total += n
	}
	g := s.Grid()
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			id := g.Get(x, y)
			if id != block.AirBlockID && id != block.BedrockBlockID {
				total++
			}
		}
	}
	return total
}

func TestStep_InventoryConservation(t *testing.T) {
	s, _ := newFlatSim()
	rng := rand.New(rand.NewSource(5))
	want := totalBlocks(s)
	choices := []block.BlockID{block.DirtBlockID, block.StoneBlockID, block.GrassBlockID}

	for i := 0; i < 400; i++ {
		tile := vec.Vec2{X: 17 + rng.Intn(7), Y: 17 + rng.Intn(5)}
		switch rng.Intn(4) {
		case 0:
			s.MineTile(tile)
		case 1:
			s.RequestPlace(tile)
		case 2:
			s.SelectBlock(choices[rng.Intn(len(choices))])
		case 3:
			s.StopMining()
		}
		s.Step(0.1)
		require.Equal(t, want, totalBlocks(s), "шаг %d", i)
	}
}

// pillarSim - игрок стоит на столбе высотой height тайлов
func pillarSim(height int) (*Simulation, *recorder) {
	g := flatGrid()
	for y := 20 - height; y < 20; y++ {
		g.Set(20, y, block.StoneBlockID)
	}
	rec := &recorder{}
	opts := DefaultOptions()
	opts.Roster = nil
	opts.Sink = rec
	return New(g, opts), rec
}

func TestStep_FallDamage(t *testing.T) {
	cases := []struct {
		height int
		damage int
	}{
		{height: 4, damage: 0},
		{height: 5, damage: 1},
		{height: 10, damage: 1},
	}
	for _, tc := range cases {
		s, rec := pillarSim(tc.height)
		for y := 20 - tc.height; y < 20; y++ {
			s.grid.Set(20, y, block.AirBlockID)
		}

		steps(s, 180, frame)

		p := s.Player()
		assert.True(t, p.Grounded)
		assert.Equal(t, 10-tc.damage, p.Health, "падение с %d тайлов", tc.height)
		assert.Equal(t, tc.damage, rec.count(EventPlayerDamaged))
		if tc.damage > 0 {
			assert.Equal(t, CauseFall, rec.events[0].Cause)
		}
	}
}

func TestStep_BomberExplosion(t *testing.T) {
	s, rec := newFlatSim(SpawnSpec{Species: entity.SpeciesBomber, ColumnOffset: 3})

	exploded := false
	for i := 0; i < 300 && !exploded; i++ {
		s.Step(frame)
		exploded = rec.count(EventExplosion) > 0
	}
	require.True(t, exploded)
	assert.Equal(t, 1, rec.count(EventFuseLit))
	assert.Equal(t, 1, rec.count(EventHostileKilled))

	var ex Event
	for _, ev := range rec.events {
		if ev.Type == EventExplosion {
			ex = ev
		}
	}
	assert.Greater(t, ex.Amount, 0, "взрыв разрушил блоки")
	assert.Equal(t, block.AirBlockID, s.Grid().Get(ex.Tile.X, ex.Tile.Y+1))

	p := s.Player()
	assert.Equal(t, 9, p.Health, "игрок в радиусе получил 1 урон")
	assert.Empty(t, s.Hostiles())
	for x := 0; x < s.Grid().Width(); x++ {
		assert.Equal(t, block.BedrockBlockID, s.Grid().Get(x, 23))
	}
}

func TestStep_ContactDamage(t *testing.T) {
	s, rec := newFlatSim(SpawnSpec{Species: entity.SpeciesShambler, ColumnOffset: 2})

	steps(s, 60, frame)

	assert.Equal(t, 9, s.Player().Health, "неуязвимость не даёт получить урон дважды")
	require.Equal(t, 1, rec.count(EventPlayerDamaged))
	assert.Equal(t, CauseContact, rec.events[0].Cause)

	steps(s, 60, frame)
	assert.Equal(t, 8, s.Player().Health)
}

func TestStep_Melee(t *testing.T) {
	s, rec := newFlatSim(SpawnSpec{Species: entity.SpeciesShambler, ColumnOffset: 1})
	s.opts.RespawnMin, s.opts.RespawnMax = 100, 100
	s.hostiles[0].Tuning.Speed = 0

	s.RequestAttack()
	s.Step(frame)
	assert.Equal(t, 6, s.hostiles[0].HP, "без меча удара нет")

	require.True(t, s.SelectTool(block.ToolSword))
	s.RequestAttack()
	steps(s, 6, frame)
	assert.Equal(t, 4, s.hostiles[0].HP, "один замах - одно попадание")

	s.RequestAttack()
	s.Step(frame)
	assert.Equal(t, 4, s.hostiles[0].HP, "перезарядка")

	for i := 0; i < 2; i++ {
		steps(s, 30, frame)
		s.RequestAttack()
		s.Step(frame)
	}
	assert.False(t, s.hostiles[0].Alive())
	assert.Equal(t, 1, rec.count(EventHostileKilled))
	assert.Empty(t, s.Hostiles())
}

func TestStep_PlayerDeathRespawnsOnce(t *testing.T) {
	s, rec := newFlatSim()
	spawn := s.player.Spawn

	s.player.Pos.X += 100
	s.player.Health = 1
	s.damagePlayer(5, CauseContact)
	assert.Equal(t, 0, s.player.Health, "здоровье не уходит ниже нуля")

	s.Step(frame)
	p := s.Player()
	assert.Equal(t, 10, p.Health)
	assert.True(t, p.Invulnerable)
	assert.Equal(t, 1, p.Deaths)
	assert.InDelta(t, spawn.X, p.Position.X, 1e-9)

	steps(s, 60, frame)
	assert.Equal(t, 1, rec.count(EventPlayerRespawned))
}

func TestStep_Regeneration(t *testing.T) {
	s, _ := newFlatSim()
	s.player.Health = 5

	steps(s, 24, 0.25)
	assert.Equal(t, 5, s.Player().Health)
	steps(s, 4, 0.25)
	assert.Equal(t, 6, s.Player().Health)
	steps(s, 100, 0.25)
	assert.Equal(t, 10, s.Player().Health)
}

func TestStep_HostileRespawn(t *testing.T) {
	s, rec := newFlatSim(SpawnSpec{Species: entity.SpeciesShambler, ColumnOffset: 10})
	s.opts.RespawnMin, s.opts.RespawnMax = 1, 1
	h := s.hostiles[0]

	s.killHostile(h)
	steps(s, 30, frame)
	assert.False(t, h.Alive())

	t.Run("игрок рядом откладывает возрождение", func(t *testing.T) {
		s.player.Pos.X = float64(h.SpawnTile.X)*32 + 3
		steps(s, 60, frame)
		assert.False(t, h.Alive())
	})

	s.player.Pos.X = 20*32 + 3
	steps(s, 150, frame)
	require.True(t, h.Alive())
	assert.Equal(t, 6, h.HP)
	assert.Equal(t, 1, rec.count(EventHostileRespawned))
}

func TestFindRespawnTile(t *testing.T) {
	g := flatGrid()
	spawn := vec.Vec2{X: 10, Y: 19}

	assert.Equal(t, spawn, FindRespawnTile(g, spawn, 8))

	g.Set(10, 19, block.StoneBlockID)
	got := FindRespawnTile(g, spawn, 8)
	assert.True(t, Walkable(g, got.X, got.Y))
	assert.LessOrEqual(t, abs(got.X-spawn.X), 1)
	assert.LessOrEqual(t, abs(got.Y-spawn.Y), 1)

	t.Run("запасной вариант", func(t *testing.T) {
		full := world.NewGrid(30, 30, 32)
		for y := 0; y < 29; y++ {
			full.FillRow(y, block.StoneBlockID)
		}
		assert.Equal(t, spawn, FindRespawnTile(full, spawn, 8))
	})
}

func TestInitialize_Deterministic(t *testing.T) {
	a := Initialize(42)
	b := Initialize(42)
	require.NotNil(t, a.Report())

	for i := 0; i < 240; i++ {
		a.SetMoveIntent(1)
		b.SetMoveIntent(1)
		a.Step(frame)
		b.Step(frame)
	}
	assert.Equal(t, a.Snapshot(), b.Snapshot())
	assert.Equal(t, world.Region(a.Grid(), 0, 0, 159, 79), world.Region(b.Grid(), 0, 0, 159, 79))
}

func TestInitialize_Invariants(t *testing.T) {
	s := Initialize(7)
	rng := rand.New(rand.NewSource(7))
	g := s.Grid()

	for i := 0; i < 1200; i++ {
		switch rng.Intn(8) {
		case 0:
			s.SetMoveIntent(rng.Intn(3) - 1)
		case 1:
			s.RequestJump()
		case 2:
			s.MineFacing()
		case 3:
			s.SetAim(rng.Intn(3) - 1)
		case 4:
			s.RequestPlaceFacing()
		case 5:
			s.SelectTool(block.Tool(rng.Intn(int(block.ToolCount))))
			s.RequestAttack()
		}
		s.Step(frame)

		require.False(t, physics.OverlapsSolid(g, &s.player.Body), "шаг %d: игрок внутри блока", i)
		p := s.Player()
		require.GreaterOrEqual(t, p.Health, 0)
		require.LessOrEqual(t, p.Health, p.MaxHealth)
		for x := 0; x < g.Width(); x++ {
			require.Equal(t, block.BedrockBlockID, g.Get(x, g.Height()-1))
		}
	}
}
