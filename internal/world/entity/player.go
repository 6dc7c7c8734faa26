package entity

import (
	"github.com/annel0/sandbox2d/internal/vec"
	"github.com/annel0/sandbox2d/internal/world/block"
)

// Inventory - запас блоков, индексированный BlockID
type Inventory [block.BlockCount]int

// ToolSet - количество инструментов каждого типа
type ToolSet [block.ToolCount]int

// DefaultInventory возвращает стартовый инвентарь
func DefaultInventory() Inventory {
	var inv Inventory
	inv[block.GrassBlockID] = 10
	inv[block.DirtBlockID] = 8
	inv[block.StoneBlockID] = 6
	inv[block.WoodBlockID] = 3
	return inv
}

// AllTools возвращает набор, в котором есть по одному инструменту каждого типа
func AllTools() ToolSet {
	var t ToolSet
	for i := block.ToolPickaxe; i < block.ToolCount; i++ {
		t[i] = 1
	}
	return t
}

// Player - управляемый актёр
type Player struct {
	Actor

	Tuning PlayerTuning

	Inventory     Inventory
	Tools         ToolSet
	SelectedBlock block.BlockID
	SelectedTool  block.Tool

	Health       int
	Invulnerable float64 // оставшееся время неуязвимости
	SinceDamage  float64 // время с последнего урона
	RegenTimer   float64

	// Отслеживание падения
	Airborne      bool
	LastGroundRow int
	FallStartRow  int

	Mining MiningState

	AttackTimer    float64 // оставшееся окно удара
	AttackCooldown float64
	SwingID        uint64 // номер текущего замаха, 0 если не было

	Spawn  vec.Vec2Float
	Deaths int
}

// NewPlayer создаёт игрока в точке spawn с полным здоровьем
func NewPlayer(spawn vec.Vec2Float, tuning PlayerTuning) *Player {
	p := &Player{
		Actor:         NewActor(spawn, tuning.Size),
		Tuning:        tuning,
		Inventory:     DefaultInventory(),
		Tools:         AllTools(),
		SelectedBlock: block.DirtBlockID,
		SelectedTool:  block.ToolNone,
		Health:        tuning.MaxHealth,
		Spawn:         spawn,
	}
	return p
}

// Count возвращает количество блоков id в инвентаре
func (p *Player) Count(id block.BlockID) int {
	if !block.IsValidBlockID(id) {
		return 0
	}
	return p.Inventory[id]
}

// AddItem добавляет n блоков в инвентарь
func (p *Player) AddItem(id block.BlockID, n int) {
	if !block.IsValidBlockID(id) || n <= 0 {
		return
	}
	p.Inventory[id] += n
}

// TakeItem списывает один блок; false, если запаса нет
func (p *Player) TakeItem(id block.BlockID) bool {
	if !block.IsValidBlockID(id) || p.Inventory[id] <= 0 {
		return false
	}
	p.Inventory[id]--
	return true
}

// HasTool сообщает, владеет ли игрок инструментом
func (p *Player) HasTool(t block.Tool) bool {
	if t == block.ToolNone || t >= block.ToolCount {
		return false
	}
	return p.Tools[t] > 0
}

// SelectBlock выбирает блок для установки. Воздух и неразрушимые блоки
// выбрать нельзя.
func (p *Player) SelectBlock(id block.BlockID) bool {
	if !block.IsBreakable(id) {
		return false
	}
	p.SelectedBlock = id
	return true
}

// SelectTool выбирает инструмент. ToolNone допустим всегда.
func (p *Player) SelectTool(t block.Tool) bool {
	if t >= block.ToolCount {
		return false
	}
	p.SelectedTool = t
	return true
}

// CanAttack - выбран меч, он есть и перезарядка прошла
func (p *Player) CanAttack() bool {
	return p.SelectedTool == block.ToolSword && p.HasTool(block.ToolSword) && p.AttackCooldown <= 0
}

// StartSwing открывает окно удара с номером swing
func (p *Player) StartSwing(swing uint64) {
	p.AttackTimer = p.Tuning.AttackWindow
	p.AttackCooldown = p.Tuning.AttackCooldown
	p.SwingID = swing
}

// Attacking - открыто ли окно удара
func (p *Player) Attacking() bool {
	return p.AttackTimer > 0
}

// Damage наносит урон, если игрок не неуязвим. Здоровье не уходит ниже нуля.
func (p *Player) Damage(amount int) bool {
	if amount <= 0 || p.Invulnerable > 0 || p.Health <= 0 {
		return false
	}
	p.Health -= amount
	if p.Health < 0 {
		p.Health = 0
	}
	p.Invulnerable = p.Tuning.Invulnerability
	p.SinceDamage = 0
	p.RegenTimer = 0
	return true
}

// Dead сообщает, что здоровье закончилось
func (p *Player) Dead() bool {
	return p.Health <= 0
}

// Tick продвигает таймеры неуязвимости, регенерации и удара.
// Возвращает количество восстановленного здоровья.
func (p *Player) Tick(dt float64) int {
	p.Invulnerable = decay(p.Invulnerable, dt)
	p.AttackTimer = decay(p.AttackTimer, dt)
	p.AttackCooldown = decay(p.AttackCooldown, dt)
	p.SinceDamage += dt

	if p.Health >= p.Tuning.MaxHealth || p.SinceDamage < p.Tuning.RegenDelay {
		p.RegenTimer = 0
		return 0
	}

	healed := 0
	p.RegenTimer += dt
	for p.RegenTimer >= p.Tuning.RegenInterval && p.Health < p.Tuning.MaxHealth {
		p.RegenTimer -= p.Tuning.RegenInterval
		p.Health++
		healed++
	}
	return healed
}

// TrackFall обновляет отслеживание падения по результату шага физики.
// Возвращает высоту падения в тайлах при приземлении, иначе 0.
func (p *Player) TrackFall(grounded bool, footRow int) int {
	if !grounded {
		if !p.Airborne {
			p.Airborne = true
			p.FallStartRow = p.LastGroundRow
		}
		return 0
	}

	drop := 0
	if p.Airborne {
		drop = footRow - p.FallStartRow
		p.Airborne = false
	}
	p.LastGroundRow = footRow
	if drop < 0 {
		return 0
	}
	return drop
}

// Respawn возвращает игрока в точку появления с полным здоровьем
// и свежим окном неуязвимости
func (p *Player) Respawn() {
	p.Pos = p.Spawn
	p.Vel = vec.Vec2Float{}
	p.Health = p.Tuning.MaxHealth
	p.Invulnerable = p.Tuning.Invulnerability
	p.SinceDamage = 0
	p.RegenTimer = 0
	p.Airborne = false
	p.Mining.Reset()
	p.AttackTimer = 0
	p.AttackCooldown = 0
	p.Deaths++
}

func decay(v, dt float64) float64 {
	v -= dt
	if v < 0 {
		return 0
	}
	return v
}
