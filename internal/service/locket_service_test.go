package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nudriin/antrian-rest-api/internal/apperr"
	"github.com/nudriin/antrian-rest-api/internal/models"
)

func TestLocketSave(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	l, err := f.locket.Save(ctx, "  test  ")
	require.NoError(t, err)
	assert.Equal(t, "test", l.Name, "name is trimmed")
	assert.NotZero(t, l.ID)
}

func TestLocketSaveRejectsDuplicateName(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.locket.Save(ctx, "test")
	require.NoError(t, err)

	_, err = f.locket.Save(ctx, "test")
	require.Error(t, err)
	assert.Equal(t, "duplicate locket name", err.Error())
	assert.Equal(t, 400, apperr.StatusOf(err))
}

func TestLocketNameValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.locket.Save(ctx, "")
	require.Error(t, err)
	assert.Equal(t, 400, apperr.StatusOf(err))

	_, err = f.locket.Save(ctx, strings.Repeat("x", 226))
	require.Error(t, err)
	assert.Equal(t, 400, apperr.StatusOf(err))

	_, err = f.locket.Save(ctx, strings.Repeat("x", 225))
	assert.NoError(t, err)
}

func TestLocketFindByName(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created := f.mustLocket(t, "front desk")

	l, err := f.locket.FindByName(ctx, "front desk")
	require.NoError(t, err)
	assert.Equal(t, created.ID, l.ID)

	_, err = f.locket.FindByName(ctx, "missing")
	require.Error(t, err)
	assert.Equal(t, "locket not found", err.Error())
	assert.Equal(t, 404, apperr.StatusOf(err))
}

func TestLocketUpdate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	l := f.mustLocket(t, "old name")

	updated, err := f.locket.Update(ctx, l.ID, "new name")
	require.NoError(t, err)
	assert.Equal(t, "new name", updated.Name)

	_, err = f.locket.Update(ctx, 999999, "whatever")
	require.Error(t, err)
	assert.Equal(t, "locket not found", err.Error())
}

func TestLocketDeleteCascadesTickets(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	l := f.mustLocket(t, "doomed")
	u := f.mustUser(t, "u@example.com", models.RoleUser)

	for i := 0; i < 2; i++ {
		_, err := f.queue.Draw(ctx, l.ID, u.ID)
		require.NoError(t, err)
	}

	require.NoError(t, f.locket.Delete(ctx, l.ID))
	assert.Zero(t, f.queues.Size(), "tickets deleted before the locket")

	err := f.locket.Delete(ctx, l.ID)
	require.Error(t, err)
	assert.Equal(t, "locket not found", err.Error())
}

func TestLocketFindAllEmpty(t *testing.T) {
	f := newFixture()
	lockets, err := f.locket.FindAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, lockets)
	assert.Empty(t, lockets)
}
