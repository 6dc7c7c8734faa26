package sim

import (
	"github.com/annel0/sandbox2d/internal/vec"
	"github.com/annel0/sandbox2d/internal/world"
	"github.com/annel0/sandbox2d/internal/world/block"
)

// Walkable - тайл пуст, а под ним твёрдый блок
func Walkable(v world.View, x, y int) bool {
	if x < 0 || y < 0 || x >= v.Width() || y >= v.Height() {
		return false
	}
	return !block.IsSolid(v.Get(x, y)) && block.IsSolid(v.Get(x, y+1))
}

// FindRespawnTile ищет ближайший проходимый тайл вокруг spawn, расширяя
// квадратное кольцо до maxRadius. Если ничего не найдено, возвращает spawn.
func FindRespawnTile(v world.View, spawn vec.Vec2, maxRadius int) vec.Vec2 {
	for r := 0; r <= maxRadius; r++ {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if abs(dx) != r && abs(dy) != r {
					continue
				}
				x, y := spawn.X+dx, spawn.Y+dy
				if Walkable(v, x, y) {
					return vec.Vec2{X: x, Y: y}
				}
			}
		}
	}
	return spawn
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
