package voicebridge

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRespondKeywordPriority(t *testing.T) {
	sim := newSimulator(rand.New(rand.NewSource(1)))

	t.Run("health wins over later categories", func(t *testing.T) {
		reply, category := sim.respond("I feel sick and need a loan", "")
		assert.Equal(t, CategoryHealth, category)
		assert.Equal(t, categoryReplies[CategoryHealth], reply)
	})

	t.Run("education wins over finance", func(t *testing.T) {
		_, category := sim.respond("I need money for school fees", "")
		assert.Equal(t, CategoryEducation, category)
	})

	t.Run("finance", func(t *testing.T) {
		reply, category := sim.respond("How do I save money?", "")
		assert.Equal(t, CategoryFinance, category)
		assert.Equal(t, categoryReplies[CategoryFinance], reply)
	})

	t.Run("entertainment", func(t *testing.T) {
		_, category := sim.respond("Tell me a story", "")
		assert.Equal(t, CategoryEntertainment, category)
	})

	t.Run("matching is case-insensitive", func(t *testing.T) {
		_, category := sim.respond("MEDICAL advice please", "")
		assert.Equal(t, CategoryHealth, category)
	})
}

func TestRespondExplicitCategory(t *testing.T) {
	sim := newSimulator(rand.New(rand.NewSource(1)))

	// A supplied category short-circuits the keyword scan entirely.
	reply, category := sim.respond("I feel sick today", CategoryFinance)
	assert.Equal(t, CategoryFinance, category)
	assert.Equal(t, categoryReplies[CategoryFinance], reply)
}

func TestRespondFallback(t *testing.T) {
	sim := newSimulator(rand.New(rand.NewSource(1)))

	reply, category := sim.respond("What is the weather like?", "")
	assert.Equal(t, CategoryGeneral, category)
	assert.Contains(t, reply, `"What is the weather like?"`)

	// An unknown category value falls through to keyword matching.
	_, category = sim.respond("What is the weather like?", "nonsense")
	assert.Equal(t, CategoryGeneral, category)
}

func TestVoiceSamples(t *testing.T) {
	sim := newSimulator(rand.New(rand.NewSource(42)))

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		sample := sim.voice()
		assert.NotEmpty(t, sample.Query)
		assert.NotEmpty(t, sample.Response)
		assert.NotEmpty(t, sample.Category)
		seen[sample.Query] = true
	}
	// Uniform selection over a hundred draws should hit every sample.
	assert.Len(t, seen, len(voiceSamples))
}

func TestVoiceDeterministicWithFixedSeed(t *testing.T) {
	a := newSimulator(rand.New(rand.NewSource(7)))
	b := newSimulator(rand.New(rand.NewSource(7)))
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.voice(), b.voice())
	}
}
