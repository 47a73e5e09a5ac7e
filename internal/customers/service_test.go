package customers

import (
	"context"
	"testing"

	"sjwi-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupService(t *testing.T) *Service {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Customer{}))
	return &Service{DB: db}
}

func TestCreate_Success(t *testing.T) {
	s := setupService(t)
	c, err := s.Create(context.Background(), "  Acme Exports  ", " 12 Dock Road ")
	require.NoError(t, err)
	assert.Equal(t, "Acme Exports", c.Name)
	assert.Equal(t, "12 Dock Road", c.Address)
	assert.NotEqual(t, uuid.Nil, c.CustomerID)
}

func TestCreate_MissingFields(t *testing.T) {
	s := setupService(t)
	_, err := s.Create(context.Background(), "", "addr")
	assert.ErrorIs(t, err, ErrNameRequired)
	_, err = s.Create(context.Background(), "name", "  ")
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestCreate_ExistingNameReturnsRecordWithConflict(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()
	first, err := s.Create(ctx, "Acme Exports", "12 Dock Road")
	require.NoError(t, err)

	dup, err := s.Create(ctx, "Acme Exports", "Somewhere else")
	assert.ErrorIs(t, err, ErrCustomerExists)
	require.NotNil(t, dup)
	// The record of record is the original, address untouched
	assert.Equal(t, first.CustomerID, dup.CustomerID)
	assert.Equal(t, "12 Dock Road", dup.Address)
}

func TestFindOrCreate_ReusesExisting(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()

	created, err := s.FindOrCreate(ctx, "Acme Exports", "12 Dock Road")
	require.NoError(t, err)

	again, err := s.FindOrCreate(ctx, "Acme Exports", "A different address")
	require.NoError(t, err)
	assert.Equal(t, created.CustomerID, again.CustomerID)
	assert.Equal(t, "12 Dock Road", again.Address)

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestFindOrCreate_EmptyName(t *testing.T) {
	s := setupService(t)
	_, err := s.FindOrCreate(context.Background(), "   ", "addr")
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestGetAll_SortedByName(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()
	_, err := s.Create(ctx, "Zeta Freight", "z")
	require.NoError(t, err)
	_, err = s.Create(ctx, "Acme Exports", "a")
	require.NoError(t, err)

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Acme Exports", all[0].Name)
	assert.Equal(t, "Zeta Freight", all[1].Name)
}

func TestGetByNameAndByID(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()
	created, err := s.Create(ctx, "Acme Exports", "12 Dock Road")
	require.NoError(t, err)

	byName, err := s.GetByName(ctx, "Acme Exports")
	require.NoError(t, err)
	assert.Equal(t, created.CustomerID, byName.CustomerID)

	byID, err := s.GetByID(ctx, created.CustomerID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Exports", byID.Name)

	_, err = s.GetByName(ctx, "Nobody")
	assert.ErrorIs(t, err, ErrCustomerNotFound)
	_, err = s.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}
