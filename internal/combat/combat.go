package combat

import (
	"github.com/annel0/sandbox2d/internal/vec"
	"github.com/annel0/sandbox2d/internal/world"
	"github.com/annel0/sandbox2d/internal/world/block"
	"github.com/annel0/sandbox2d/internal/world/entity"
)

// MeleeHitbox возвращает зону удара: прямоугольник шириной reach
// у переднего края игрока, высотой с игрока.
func MeleeHitbox(p *entity.Player, reach float64) vec.Rect {
	r := p.Rect()
	x := r.X + r.W
	if p.FacingX < 0 {
		x = r.X - reach
	}
	return vec.Rect{X: x, Y: r.Y, W: reach, H: r.H}
}

// MeleeHit - попадание замаха по врагу
type MeleeHit struct {
	Hostile *entity.Hostile
	Killed  bool
}

// ResolveMelee наносит урон живым врагам в зоне удара. Каждый замах
// попадает по одному врагу не больше одного раза.
func ResolveMelee(hitbox vec.Rect, hostiles []*entity.Hostile, swing uint64, damage int) []MeleeHit {
	var hits []MeleeHit
	for _, h := range hostiles {
		if !h.Alive() || h.LastSwing == swing {
			continue
		}
		if !hitbox.Overlaps(h.Rect()) {
			continue
		}
		h.LastSwing = swing
		hits = append(hits, MeleeHit{Hostile: h, Killed: h.TakeDamage(damage)})
	}
	return hits
}

// Explosion - результат взрыва
type Explosion struct {
	Center        vec.Vec2Float
	Origin        vec.Vec2 // тайл центра взрыва
	Cleared       []vec.Vec2
	PlayerInRange bool
}

// Explode очищает все тайлы в круге radius (в тайлах) вокруг center,
// кроме бедрока. PlayerInRange - центр игрока ближе radius·tile+margin.
func Explode(g *world.Grid, center vec.Vec2Float, radius int, margin float64, playerCenter vec.Vec2Float) Explosion {
	tile := g.TileSize()
	origin := center.ToTile(tile)
	ex := Explosion{Center: center, Origin: origin}

	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			t := vec.Vec2{X: origin.X + dx, Y: origin.Y + dy}
			if !g.InBounds(t.X, t.Y) {
				continue
			}
			id := g.GetAt(t)
			if id == block.AirBlockID || !block.IsBreakable(id) {
				continue
			}
			g.SetAt(t, block.AirBlockID)
			ex.Cleared = append(ex.Cleared, t)
		}
	}

	reach := float64(radius)*tile + margin
	ex.PlayerInRange = center.DistanceTo(playerCenter) <= reach
	return ex
}
