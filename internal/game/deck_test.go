package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b14tz/bluph/internal/models"
)

func TestNewDeckComposition(t *testing.T) {
	d := NewDeck()
	require.Equal(t, models.DeckSize, d.Len())

	counts := make(map[models.Role]int)
	ids := make(map[uuid.UUID]bool)
	for _, c := range d.cards {
		counts[c.Role]++
		require.False(t, ids[c.ID], "card IDs must be unique")
		ids[c.ID] = true
	}
	for _, role := range models.Roles {
		assert.Equal(t, models.CopiesPerRole, counts[role], "role %s", role)
	}
}

func TestDrawReducesDeck(t *testing.T) {
	d := NewDeck()
	for i := models.DeckSize; i > 0; i-- {
		require.Equal(t, i, d.Len())
		_, err := d.Draw()
		require.NoError(t, err)
	}

	_, err := d.Draw()
	require.Error(t, err)
	assert.True(t, IsInvariant(err), "empty draw is an invariant violation")
}

func TestReturnAndReshuffle(t *testing.T) {
	d := NewDeck()
	c1, err := d.Draw()
	require.NoError(t, err)
	c2, err := d.Draw()
	require.NoError(t, err)
	require.Equal(t, models.DeckSize-2, d.Len())

	d.ReturnAndReshuffle(c1, c2)
	assert.Equal(t, models.DeckSize, d.Len())

	found := 0
	for _, c := range d.cards {
		if c.ID == c1.ID || c.ID == c2.ID {
			found++
		}
	}
	assert.Equal(t, 2, found, "both cards are back in the pile")
}
