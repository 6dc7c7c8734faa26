package util

import (
	"github.com/aquilax/go-perlin"
)

// Noise - сидированный генератор шума Перлина.
// Каждый генератор мира владеет своим экземпляром.
type Noise struct {
	perlin *perlin.Perlin
	seed   int64
}

// NewNoise создаёт генератор шума с указанным сидом
func NewNoise(seed int64) *Noise {
	alpha := 2.0  // Сглаживание шума
	beta := 2.0   // Частота шума
	n := int32(3) // Количество октав
	return &Noise{perlin: perlin.NewPerlin(alpha, beta, n, seed), seed: seed}
}

// Seed возвращает сид генератора
func (n *Noise) Seed() int64 {
	return n.seed
}

// Noise1D возвращает значение шума для координаты (от 0 до 1)
func (n *Noise) Noise1D(x float64) float64 {
	return clamp01((n.perlin.Noise1D(x) + 1.0) / 2.0)
}

// Noise2D возвращает значение шума для координат (от 0 до 1)
func (n *Noise) Noise2D(x, y float64) float64 {
	return clamp01((n.perlin.Noise2D(x, y) + 1.0) / 2.0)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
