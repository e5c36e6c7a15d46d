package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b14tz/bluph/internal/models"
)

func TestHandLimit(t *testing.T) {
	p := NewPlayer(uuid.New(), "Alice")
	require.NoError(t, p.AddCard(models.Card{ID: uuid.New(), Role: models.RoleDuke}))
	require.NoError(t, p.AddCard(models.Card{ID: uuid.New(), Role: models.RoleCaptain}))

	err := p.AddCard(models.Card{ID: uuid.New(), Role: models.RoleContessa})
	require.Error(t, err)
	assert.True(t, IsInvariant(err))
}

func TestRemoveCard(t *testing.T) {
	p := NewPlayer(uuid.New(), "Bob")
	c := models.Card{ID: uuid.New(), Role: models.RoleAssassin}
	require.NoError(t, p.AddCard(c))

	got, err := p.RemoveCard(c.ID)
	require.NoError(t, err)
	assert.Equal(t, c, got)
	assert.Empty(t, p.Hand)

	_, err = p.RemoveCard(c.ID)
	require.Error(t, err)
	assert.True(t, IsInvariant(err))
}

func TestRoleLookups(t *testing.T) {
	p := NewPlayer(uuid.New(), "Carol")
	duke := models.Card{ID: uuid.New(), Role: models.RoleDuke}
	require.NoError(t, p.AddCard(duke))

	assert.True(t, p.HasRole(models.RoleDuke))
	assert.False(t, p.HasRole(models.RoleCaptain))

	got, ok := p.CardOfRole(models.RoleDuke)
	require.True(t, ok)
	assert.Equal(t, duke.ID, got.ID)
	_, ok = p.CardOfRole(models.RoleContessa)
	assert.False(t, ok)
}

func TestCoinClampAndThresholds(t *testing.T) {
	p := NewPlayer(uuid.New(), "Dave")
	p.AdjustCoins(-5)
	assert.Equal(t, 0, p.Coins, "balance never goes negative")

	p.AdjustCoins(9)
	assert.False(t, p.MustCoup())
	assert.True(t, p.CanAfford(7))
	p.AdjustCoins(1)
	assert.True(t, p.MustCoup())
}

func TestEliminateSurrendersHand(t *testing.T) {
	p := NewPlayer(uuid.New(), "Erin")
	require.NoError(t, p.AddCard(models.Card{ID: uuid.New(), Role: models.RoleDuke}))
	require.NoError(t, p.AddCard(models.Card{ID: uuid.New(), Role: models.RoleCaptain}))

	surrendered := p.Eliminate()
	assert.Len(t, surrendered, 2)
	assert.Empty(t, p.Hand)
	assert.False(t, p.Alive)
}
