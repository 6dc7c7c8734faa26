package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/sandbox2d/internal/eventbus"
	"github.com/annel0/sandbox2d/internal/sim"
)

func TestParseStringList(t *testing.T) {
	assert.Nil(t, parseStringList(""))
	assert.Equal(t, []string{"explosion", "fuse_lit"}, parseStringList(" explosion, ,fuse_lit "))
}

func TestFormatEnvelope(t *testing.T) {
	env, err := eventbus.Encode(sim.Event{
		Type:   sim.EventPlayerDamaged,
		Tick:   42,
		Amount: 1,
		Health: 9,
		Cause:  sim.CauseFall,
	})
	require.NoError(t, err)

	line := formatEnvelope(env)
	assert.Contains(t, line, "player_damaged")
	assert.Contains(t, line, "tick=42")
	assert.Contains(t, line, "health=9")
	assert.Contains(t, line, "cause=fall")
	assert.NotContains(t, line, "block=")
}

func TestTypeStats(t *testing.T) {
	s := newTypeStats()
	s.add("block_broken")
	s.add("explosion")
	s.add("block_broken")

	assert.Equal(t, []string{
		"  block_broken       2",
		"  explosion          1",
		"  total              3",
	}, s.lines())
}
