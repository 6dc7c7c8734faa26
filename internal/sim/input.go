package sim

import (
	"github.com/annel0/sandbox2d/internal/vec"
	"github.com/annel0/sandbox2d/internal/world/block"
)

// MiningMode - откуда берётся цель добычи
type MiningMode uint8

const (
	MiningOff    MiningMode = iota
	MiningFacing            // тайл перед игроком
	MiningTile              // явно указанный тайл
)

type placeRequest struct {
	facing bool
	tile   vec.Vec2
}

// input - намерения игрока до следующего тика
type input struct {
	move       int
	aimY       int
	jump       bool
	attack     bool
	mining     MiningMode
	miningTile vec.Vec2
	place      []placeRequest
}

// SetMoveIntent задаёт горизонтальное движение: -1, 0 или 1
func (s *Simulation) SetMoveIntent(dir int) {
	s.in.move = sign(dir)
}

// SetAim задаёт вертикальное направление взгляда: -1, 0 или 1.
// 0 - направление по вертикальной скорости.
func (s *Simulation) SetAim(dy int) {
	s.in.aimY = sign(dy)
}

// RequestJump запрашивает прыжок на следующем тике
func (s *Simulation) RequestJump() {
	s.in.jump = true
}

// RequestAttack запрашивает замах мечом
func (s *Simulation) RequestAttack() {
	s.in.attack = true
}

// MineFacing включает добычу тайла перед игроком
func (s *Simulation) MineFacing() {
	s.in.mining = MiningFacing
}

// MineTile включает добычу указанного тайла
func (s *Simulation) MineTile(t vec.Vec2) {
	s.in.mining = MiningTile
	s.in.miningTile = t
}

// StopMining прекращает добычу и сбрасывает прогресс
func (s *Simulation) StopMining() {
	s.in.mining = MiningOff
	s.player.StopMining()
}

// RequestPlace запрашивает установку выбранного блока в тайл t
func (s *Simulation) RequestPlace(t vec.Vec2) {
	s.in.place = append(s.in.place, placeRequest{tile: t})
}

// RequestPlaceFacing запрашивает установку блока перед игроком
func (s *Simulation) RequestPlaceFacing() {
	s.in.place = append(s.in.place, placeRequest{facing: true})
}

// SelectBlock выбирает блок для установки
func (s *Simulation) SelectBlock(id block.BlockID) bool {
	return s.player.SelectBlock(id)
}

// SelectTool выбирает инструмент
func (s *Simulation) SelectTool(t block.Tool) bool {
	return s.player.SelectTool(t)
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
