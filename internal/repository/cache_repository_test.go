package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/AijiY/StudentManagement/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, "students:")
	ctx := context.Background()

	var dest map[string]string
	assert.ErrorIs(t, repo.Get(ctx, "detail:s-1", &dest), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "detail:s-1", map[string]string{"id": "s-1"}, time.Minute))
	assert.NoError(t, repo.DeletePrefix(ctx, "detail:"))
	assert.NoError(t, repo.Close())
	assert.Equal(t, "students:detail:s-1", repo.key("detail:s-1"))
}
