package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	recipedomain "github.com/heritagebakes/bakebook/internal/recipe/domain"
)

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, LevenshteinDistance("rye", "rye"))
	assert.Equal(t, 0, LevenshteinDistance("Rye", "rye"))
	assert.Equal(t, 1, LevenshteinDistance("ryes", "rye"))
	assert.Equal(t, 3, LevenshteinDistance("", "rye"))
	assert.Equal(t, 3, LevenshteinDistance("kitten", "sitting"))
}

func TestMatch(t *testing.T) {
	// Prefix, substring, and typo hits.
	assert.True(t, Match("sour", "Sourdough Loaf", 1))
	assert.True(t, Match("loaf", "Sourdough Loaf", 1))
	assert.True(t, Match("soordough", "Sourdough Loaf", 2))
	assert.False(t, Match("bagel", "Sourdough Loaf", 2))
	assert.True(t, Match("", "anything", 1))
}

func TestMatchRecipe(t *testing.T) {
	recipe := &recipedomain.Recipe{
		Title:       "Grandma's Rye",
		Ingredients: []string{"rye flour", "molasses"},
		Memory:      "Baked every winter in the old stone oven.",
		Tags:        []string{"bread", "family"},
	}

	assert.True(t, MatchRecipe("rye", recipe))
	// Tag with a typo, then an ingredient, then the memory text.
	assert.True(t, MatchRecipe("famly", recipe))
	assert.True(t, MatchRecipe("molasses", recipe))
	assert.True(t, MatchRecipe("winter", recipe))
	assert.False(t, MatchRecipe("chocolate", recipe))
}
