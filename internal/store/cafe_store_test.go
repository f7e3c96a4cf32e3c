package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/cafeapi/internal/db"
	"github.com/vbonduro/cafeapi/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func strPtr(s string) *string { return &s }

func newCafe(name, loc string) *domain.Cafe {
	return &domain.Cafe{
		Name:         name,
		MapURL:       "https://maps.example.com/" + name,
		ImgURL:       "https://img.example.com/" + name + ".jpg",
		Location:     loc,
		Seats:        "20-30",
		HasToilet:    true,
		HasWifi:      false,
		HasSockets:   true,
		CanTakeCalls: false,
		CoffeePrice:  strPtr("£2.40"),
	}
}

func TestCafeStoreCreate(t *testing.T) {
	store := NewCafeStore(openTestDB(t))
	ctx := context.Background()

	cafe, err := store.Create(ctx, newCafe("Science Gallery", "London Bridge"))
	require.NoError(t, err)
	assert.NotZero(t, cafe.ID)
	assert.Equal(t, "Science Gallery", cafe.Name)
	assert.Equal(t, "London Bridge", cafe.Location)
	assert.True(t, cafe.HasToilet)
	assert.False(t, cafe.HasWifi)
	assert.True(t, cafe.HasSockets)
	assert.False(t, cafe.CanTakeCalls)
	require.NotNil(t, cafe.CoffeePrice)
	assert.Equal(t, "£2.40", *cafe.CoffeePrice)
}

func TestCafeStoreCreateNullPrice(t *testing.T) {
	store := NewCafeStore(openTestDB(t))
	ctx := context.Background()

	c := newCafe("Ace Cafe", "Wembley")
	c.CoffeePrice = nil
	cafe, err := store.Create(ctx, c)
	require.NoError(t, err)
	assert.Nil(t, cafe.CoffeePrice)
}

func TestCafeStoreCreateDuplicateName(t *testing.T) {
	store := NewCafeStore(openTestDB(t))
	ctx := context.Background()

	_, err := store.Create(ctx, newCafe("Dup", "Hackney"))
	require.NoError(t, err)

	_, err = store.Create(ctx, newCafe("Dup", "Peckham"))
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestCafeStoreGetByIDMissing(t *testing.T) {
	store := NewCafeStore(openTestDB(t))

	cafe, err := store.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, cafe)
}

func TestCafeStoreList(t *testing.T) {
	store := NewCafeStore(openTestDB(t))
	ctx := context.Background()

	cafes, err := store.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, cafes)
	assert.Empty(t, cafes)

	_, err = store.Create(ctx, newCafe("B", "Shoreditch"))
	require.NoError(t, err)
	_, err = store.Create(ctx, newCafe("A", "Bermondsey"))
	require.NoError(t, err)

	cafes, err = store.List(ctx)
	require.NoError(t, err)
	require.Len(t, cafes, 2)
	assert.Equal(t, "B", cafes[0].Name)
	assert.Equal(t, "A", cafes[1].Name)
}

func TestCafeStoreListByLocationExactMatch(t *testing.T) {
	store := NewCafeStore(openTestDB(t))
	ctx := context.Background()

	for _, c := range []*domain.Cafe{
		newCafe("One", "Peckham"),
		newCafe("Two", "peckham"),
		newCafe("Three", "Peckham Rye"),
		newCafe("Four", "Peckham"),
	} {
		_, err := store.Create(ctx, c)
		require.NoError(t, err)
	}

	cafes, err := store.ListByLocation(ctx, "Peckham")
	require.NoError(t, err)
	require.Len(t, cafes, 2)
	assert.Equal(t, "One", cafes[0].Name)
	assert.Equal(t, "Four", cafes[1].Name)

	cafes, err = store.ListByLocation(ctx, "Nowhere")
	require.NoError(t, err)
	assert.Empty(t, cafes)
}

func TestCafeStoreUpdatePrice(t *testing.T) {
	store := NewCafeStore(openTestDB(t))
	ctx := context.Background()

	created, err := store.Create(ctx, newCafe("Pricey", "Mayfair"))
	require.NoError(t, err)

	require.NoError(t, store.UpdatePrice(ctx, created.ID, "£3.10"))

	got, err := store.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CoffeePrice)
	assert.Equal(t, "£3.10", *got.CoffeePrice)

	assert.ErrorIs(t, store.UpdatePrice(ctx, created.ID+100, "£1"), ErrNotFound)
}

func TestCafeStoreDelete(t *testing.T) {
	store := NewCafeStore(openTestDB(t))
	ctx := context.Background()

	created, err := store.Create(ctx, newCafe("Temp", "Soho"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, created.ID))

	got, err := store.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.ErrorIs(t, store.Delete(ctx, created.ID), ErrNotFound)
}
