package service

import (
	"context"
	"testing"
	"time"

	"streamlearn/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsServiceCaches(t *testing.T) {
	repo := newFakeSettingsRepo()
	svc := NewSettingsService(repo, time.Minute, zerolog.Nop()).(*settingsService)
	now := time.Unix(1000, 0)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := svc.GetSettings(ctx)
	require.NoError(t, err)
	_, err = svc.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.reads)

	now = now.Add(2 * time.Minute)
	_, err = svc.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.reads)
}

func TestSettingsServiceUpdateRefreshesCache(t *testing.T) {
	repo := newFakeSettingsRepo()
	svc := NewSettingsService(repo, time.Hour, zerolog.Nop())
	ctx := context.Background()

	s, err := svc.GetSettings(ctx)
	require.NoError(t, err)
	s.MaintenanceMode = true
	_, err = svc.UpdateSettings(ctx, s)
	require.NoError(t, err)

	got, err := svc.GetSettings(ctx)
	require.NoError(t, err)
	assert.True(t, got.MaintenanceMode)
	assert.True(t, repo.settings.MaintenanceMode)
}

type fakeStatsRepo struct{}

func (fakeStatsRepo) Counts(context.Context) (*model.AdminStats, error) {
	return &model.AdminStats{TotalUsers: 2, ActiveUsers: 2}, nil
}

func TestStatsCompletionRate(t *testing.T) {
	f := newCatalogFixture(member(2))
	ctx := context.Background()
	_, err := f.prog.CompleteLesson(ctx, "m1", 110, 0)
	require.NoError(t, err)
	_, err = f.prog.CompleteLesson(ctx, "m1", 200, 0)
	require.NoError(t, err)

	stats, err := NewStatsService(fakeStatsRepo{}, f.progress).GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalUsers)
	// course 1 at 50, course 2 at 100
	assert.Equal(t, 75, stats.CompletionRate)
}
