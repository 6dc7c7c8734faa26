package entity

import (
	"github.com/annel0/sandbox2d/internal/vec"
	"github.com/annel0/sandbox2d/internal/world"
	"github.com/annel0/sandbox2d/internal/world/block"
)

// MiningSession - текущая добыча одного тайла
type MiningSession struct {
	Target   vec.Vec2
	Progress float64 // накопленное время, сек
	Block    block.BlockID
}

// MiningState - необязательная сессия добычи игрока.
// Нулевое значение означает, что игрок ничего не добывает.
type MiningState struct {
	session MiningSession
	active  bool
}

// Session возвращает текущую сессию, если она есть
func (m *MiningState) Session() (MiningSession, bool) {
	return m.session, m.active
}

// Active сообщает, идёт ли добыча
func (m *MiningState) Active() bool {
	return m.active
}

// Reset сбрасывает прогресс
func (m *MiningState) Reset() {
	m.session = MiningSession{}
	m.active = false
}

// advance продолжает сессию по тому же тайлу или начинает новую
func (m *MiningState) advance(target vec.Vec2, id block.BlockID, dt float64) float64 {
	if m.active && m.session.Target == target && m.session.Block == id {
		m.session.Progress += dt
	} else {
		m.session = MiningSession{Target: target, Progress: dt, Block: id}
		m.active = true
	}
	return m.session.Progress
}

// BreakTime - время разрушения блока текущим инструментом игрока
func (p *Player) BreakTime(id block.BlockID) float64 {
	return block.BreakTime(id, p.SelectedTool, p.HasTool(p.SelectedTool))
}

// MiningProgress возвращает долю выполнения в [0,1]
func (p *Player) MiningProgress() float64 {
	s, ok := p.Mining.Session()
	if !ok {
		return 0
	}
	need := p.BreakTime(s.Block)
	if need <= 0 || s.Progress >= need {
		return 1
	}
	return s.Progress / need
}

// Mine продвигает добычу тайла target на dt. Если тайл не поддаётся
// добыче, сессия сбрасывается. При завершении блок попадает в инвентарь,
// а тайл становится воздухом.
func (p *Player) Mine(g *world.Grid, target vec.Vec2, dt float64) (block.BlockID, bool) {
	id := g.GetAt(target)
	if !g.InBounds(target.X, target.Y) || !block.IsBreakable(id) {
		p.Mining.Reset()
		return block.AirBlockID, false
	}

	progress := p.Mining.advance(target, id, dt)
	if progress < p.BreakTime(id) {
		return block.AirBlockID, false
	}

	p.AddItem(id, 1)
	g.SetAt(target, block.AirBlockID)
	p.Mining.Reset()
	return id, true
}

// StopMining отменяет добычу
func (p *Player) StopMining() {
	p.Mining.Reset()
}
