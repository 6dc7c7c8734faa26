package sim

import (
	"math"
	"math/rand"

	"github.com/annel0/sandbox2d/internal/combat"
	"github.com/annel0/sandbox2d/internal/physics"
	"github.com/annel0/sandbox2d/internal/vec"
	"github.com/annel0/sandbox2d/internal/world"
	"github.com/annel0/sandbox2d/internal/world/block"
	"github.com/annel0/sandbox2d/internal/world/entity"
)

// Simulation - контекст симуляции: мир, игрок, враги и их таймеры.
// Не потокобезопасен: все вызовы из одной горутины.
type Simulation struct {
	opts      Options
	grid      *world.Grid
	report    *world.GenerationReport
	player    *entity.Player
	hostiles  []*entity.Hostile
	behaviors *entity.Registry
	rng       *rand.Rand
	sink      EventSink
	in        input

	tick    uint64
	elapsed float64
	swings  uint64
}

// Initialize генерирует мир по сиду с параметрами по умолчанию
func Initialize(seed int64) *Simulation {
	opts := DefaultOptions()
	opts.Seed = seed
	return InitializeWithOptions(opts)
}

// InitializeWithOptions генерирует мир и расставляет актёров
func InitializeWithOptions(opts Options) *Simulation {
	gen := world.NewWorldGenerator(opts.Seed)
	grid, report := gen.Generate(opts.Width, opts.Height, opts.TileSize)
	s := New(grid, opts)
	s.report = report
	return s
}

// New создаёт симуляцию поверх готовой сетки
func New(grid *world.Grid, opts Options) *Simulation {
	if opts.Substep <= 0 {
		opts.Substep = 1.0 / 120
	}
	if opts.MaxFrameDelta <= 0 {
		opts.MaxFrameDelta = 0.25
	}
	opts.TileSize = grid.TileSize()

	s := &Simulation{
		opts:      opts,
		grid:      grid,
		behaviors: entity.DefaultRegistry(),
		rng:       rand.New(rand.NewSource(opts.Seed)),
		sink:      opts.Sink,
	}
	if s.sink == nil {
		s.sink = discardSink{}
	}

	spawnCol := grid.Width() / 2
	s.player = entity.NewPlayer(s.surfaceSpawn(spawnCol, opts.Player.Size), opts.Player)
	s.player.Inventory = opts.Inventory
	s.player.Tools = opts.Tools
	s.player.LastGroundRow = physics.FootTile(grid, &s.player.Body)

	for i, spec := range opts.Roster {
		if spec.Species >= entity.SpeciesCount {
			continue
		}
		col := clamp(spawnCol+spec.ColumnOffset, 1, grid.Width()-2)
		t := surfaceTile(grid, col)
		h := entity.NewHostile(i, spec.Species, opts.Species[spec.Species], t, opts.Player.Size, grid.TileSize())
		s.hostiles = append(s.hostiles, h)
	}
	return s
}

// surfaceTile - пустой тайл над первым твёрдым сверху
func surfaceTile(v world.View, col int) vec.Vec2 {
	y := world.SurfaceY(v, col) - 1
	if y < 0 {
		y = 0
	}
	return vec.Vec2{X: col, Y: y}
}

func (s *Simulation) surfaceSpawn(col int, size float64) vec.Vec2Float {
	return entity.SpawnPosition(surfaceTile(s.grid, col), s.grid.TileSize(), physics.NewBoxCollider(size, size))
}

// SetSink заменяет получателя событий
func (s *Simulation) SetSink(sink EventSink) {
	if sink == nil {
		sink = discardSink{}
	}
	s.sink = sink
}

// RegisterBehavior заменяет поведение вида
func (s *Simulation) RegisterBehavior(species entity.Species, b entity.Behavior) {
	s.behaviors.Register(species, b)
}

// Step продвигает симуляцию на dt секунд
func (s *Simulation) Step(dt float64) {
	dt = s.clampDelta(dt)

	s.consumeIntents()
	s.stepPlayer(dt)
	s.stepMining(dt)
	s.stepHostiles(dt)
	s.stepMelee()
	s.stepTimers(dt)
	s.checkPlayerDeath()

	s.tick++
	s.elapsed += dt
}

func (s *Simulation) clampDelta(dt float64) float64 {
	if dt < 0 || math.IsNaN(dt) {
		return 0
	}
	if dt > s.opts.MaxFrameDelta {
		return s.opts.MaxFrameDelta
	}
	return dt
}

// substeps делит dt на равные шаги не длиннее Substep
func (s *Simulation) substeps(dt float64) (int, float64) {
	if dt <= 0 {
		return 0, 0
	}
	n := int(math.Ceil(dt / s.opts.Substep))
	return n, dt / float64(n)
}

func (s *Simulation) consumeIntents() {
	p := s.player
	if s.in.move != 0 {
		p.FacingX = s.in.move
	}
	s.updateFacingY()

	if s.in.jump && physics.OnGround(s.grid, &p.Body) {
		p.Vel.Y = -p.Tuning.JumpImpulse
	}
	s.in.jump = false

	if s.in.attack && p.CanAttack() {
		s.swings++
		p.StartSwing(s.swings)
	}
	s.in.attack = false

	for _, req := range s.in.place {
		t := req.tile
		if req.facing {
			t = s.facingTile()
		}
		s.place(t)
	}
	s.in.place = s.in.place[:0]
}

func (s *Simulation) updateFacingY() {
	p := s.player
	if s.in.aimY != 0 {
		p.FacingY = s.in.aimY
		return
	}
	switch {
	case p.Vel.Y > 0:
		p.FacingY = 1
	case p.Vel.Y < 0:
		p.FacingY = -1
	default:
		p.FacingY = 0
	}
}

// facingTile - тайл, в котором лежит точка center + facing·tile
func (s *Simulation) facingTile() vec.Vec2 {
	p := s.player
	tile := s.grid.TileSize()
	c := p.Center()
	target := vec.Vec2Float{
		X: c.X + float64(p.FacingX)*tile,
		Y: c.Y + float64(p.FacingY)*tile,
	}
	return target.ToTile(tile)
}

// place ставит выбранный блок. Нужны воздух в тайле, запас блока и
// отсутствие пересечения с игроком и живыми врагами.
func (s *Simulation) place(t vec.Vec2) bool {
	p := s.player
	id := p.SelectedBlock
	if !s.grid.InBounds(t.X, t.Y) || s.grid.GetAt(t) != block.AirBlockID {
		return false
	}
	if !block.IsBreakable(id) || p.Count(id) <= 0 {
		return false
	}

	r := vec.TileRect(t, s.grid.TileSize())
	if r.Overlaps(p.Rect()) {
		return false
	}
	for _, h := range s.hostiles {
		if h.Alive() && r.Overlaps(h.Rect()) {
			return false
		}
	}

	p.TakeItem(id)
	s.grid.SetAt(t, id)
	s.emit(Event{Type: EventBlockPlaced, Tile: t, Block: id})
	return true
}

func (s *Simulation) stepPlayer(dt float64) {
	p := s.player
	p.Vel.X = float64(s.in.move) * p.Tuning.MoveSpeed

	n, h := s.substeps(dt)
	for i := 0; i < n; i++ {
		p.ApplyGravity(p.Tuning.Gravity, p.Tuning.TerminalSpeed, h)
		physics.Move(s.grid, &p.Body, h)

		grounded := physics.OnGround(s.grid, &p.Body)
		drop := p.TrackFall(grounded, physics.FootTile(s.grid, &p.Body))
		if drop >= p.Tuning.FallDamageTiles {
			s.damagePlayer(1, CauseFall)
		}
	}
	s.updateFacingY()
}

func (s *Simulation) stepMining(dt float64) {
	p := s.player
	var target vec.Vec2
	switch s.in.mining {
	case MiningFacing:
		target = s.facingTile()
	case MiningTile:
		target = s.in.miningTile
	default:
		p.StopMining()
		return
	}

	if id, broke := p.Mine(s.grid, target, dt); broke {
		s.emit(Event{Type: EventBlockBroken, Tile: target, Block: id})
	}
}

func (s *Simulation) stepHostiles(dt float64) {
	ctx := behaviorContext{s: s}
	p := s.player
	n, step := s.substeps(dt)

	for _, h := range s.hostiles {
		if !h.Alive() {
			continue
		}

		lit := h.FuseLit
		s.behaviors.Step(ctx, h, dt)
		if !h.Alive() {
			continue
		}
		if !lit && h.FuseLit {
			s.emit(Event{Type: EventFuseLit, Position: h.Pos, Hostile: h.ID, Species: h.Species})
		}

		blocked := false
		for i := 0; i < n; i++ {
			h.ApplyGravity(p.Tuning.Gravity, p.Tuning.TerminalSpeed, step)
			if physics.Move(s.grid, &h.Body, step).HitX {
				blocked = true
			}
		}
		h.BlockedX = blocked

		if h.Tuning.ContactDamage && h.Rect().Overlaps(p.Rect()) {
			s.damagePlayer(1, CauseContact)
		}
	}
}

func (s *Simulation) stepMelee() {
	p := s.player
	if !p.Attacking() {
		return
	}
	hitbox := combat.MeleeHitbox(p, p.Tuning.AttackReach)
	for _, hit := range combat.ResolveMelee(hitbox, s.hostiles, p.SwingID, p.Tuning.AttackDamage) {
		if hit.Killed {
			s.killHostile(hit.Hostile)
		}
	}
}

func (s *Simulation) stepTimers(dt float64) {
	s.player.Tick(dt)

	for _, h := range s.hostiles {
		if h.Alive() {
			continue
		}
		h.RespawnTimer -= dt
		if h.RespawnTimer > 0 {
			continue
		}
		spawnCenter := vec.TileRect(h.SpawnTile, s.grid.TileSize()).Center()
		if spawnCenter.DistanceTo(s.player.Center()) < s.opts.RespawnProximity {
			h.RespawnTimer = s.opts.RespawnExtraDelay
			continue
		}
		t := FindRespawnTile(s.grid, h.SpawnTile, s.opts.RespawnSearch)
		h.Revive(t, s.grid.TileSize())
		s.emit(Event{Type: EventHostileRespawned, Tile: t, Position: h.Pos, Hostile: h.ID, Species: h.Species})
	}
}

func (s *Simulation) checkPlayerDeath() {
	p := s.player
	if !p.Dead() {
		return
	}
	p.Respawn()
	if physics.OverlapsSolid(s.grid, &p.Body) {
		spawn := p.Center().ToTile(s.grid.TileSize())
		p.PlaceOnTile(FindRespawnTile(s.grid, spawn, s.opts.RespawnSearch), s.grid.TileSize())
	}
	p.LastGroundRow = physics.FootTile(s.grid, &p.Body)
	s.emit(Event{Type: EventPlayerRespawned, Position: p.Pos, Health: p.Health, Amount: p.Deaths})
}

func (s *Simulation) damagePlayer(amount int, cause DamageCause) {
	if !s.player.Damage(amount) {
		return
	}
	s.emit(Event{
		Type:     EventPlayerDamaged,
		Position: s.player.Pos,
		Amount:   amount,
		Health:   s.player.Health,
		Cause:    cause,
	})
}

func (s *Simulation) killHostile(h *entity.Hostile) {
	h.Kill(s.respawnDelay())
	s.emit(Event{Type: EventHostileKilled, Position: h.Pos, Hostile: h.ID, Species: h.Species})
}

func (s *Simulation) detonate(h *entity.Hostile) {
	center := h.Center()
	ex := combat.Explode(s.grid, center, s.opts.ExplosionRadius, s.opts.ExplosionMargin, s.player.Center())
	s.emit(Event{
		Type:     EventExplosion,
		Tile:     ex.Origin,
		Position: center,
		Hostile:  h.ID,
		Species:  h.Species,
		Amount:   len(ex.Cleared),
	})
	if ex.PlayerInRange {
		s.damagePlayer(1, CauseExplosion)
	}
	s.killHostile(h)
}

func (s *Simulation) respawnDelay() float64 {
	span := s.opts.RespawnMax - s.opts.RespawnMin
	if span <= 0 {
		return s.opts.RespawnMin
	}
	return s.opts.RespawnMin + s.rng.Float64()*span
}

func (s *Simulation) emit(ev Event) {
	ev.Tick = s.tick
	s.sink.HandleEvent(ev)
}

// behaviorContext открывает поведению врагов нужную часть симуляции
type behaviorContext struct {
	s *Simulation
}

func (c behaviorContext) Grid() *world.Grid          { return c.s.grid }
func (c behaviorContext) Player() *entity.Player     { return c.s.player }
func (c behaviorContext) Rand() *rand.Rand           { return c.s.rng }
func (c behaviorContext) Detonate(h *entity.Hostile) { c.s.detonate(h) }

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
