package memory

import (
	"context"
	"testing"

	"github.com/clinassign/clinassign-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileRepository(t *testing.T) {
	repo := NewProfileRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, user.Profile{ID: "p1", Email: "Tutor@Clinassign.test", FullName: "Tutor", Role: user.RoleTutor})
	require.NoError(t, err)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.GetByEmail(ctx, "tutor@clinassign.test")
	require.NoError(t, err)
	assert.Equal(t, "p1", got.ID)

	_, err = repo.Create(ctx, user.Profile{ID: "p2", Email: "TUTOR@clinassign.test"})
	assert.ErrorIs(t, err, user.ErrProfileEmailExists)

	_, err = repo.GetByID(ctx, "p2")
	assert.ErrorIs(t, err, user.ErrProfileNotFound)
}
