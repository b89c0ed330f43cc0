package service

import (
	"context"

	"streamlearn/internal/model"
	"streamlearn/internal/repository"
)

type StatsService interface {
	GetStats(ctx context.Context) (*model.AdminStats, error)
}

type statsService struct {
	repo     repository.StatsRepository
	progress repository.ProgressRepository
}

func NewStatsService(repo repository.StatsRepository, progress repository.ProgressRepository) StatsService {
	return &statsService{repo: repo, progress: progress}
}

// GetStats returns the platform counters. CompletionRate is the rounded mean
// progress over every (user, course) pair with at least one completed lesson.
func (s *statsService) GetStats(ctx context.Context) (*model.AdminStats, error) {
	stats, err := s.repo.Counts(ctx)
	if err != nil {
		return nil, err
	}
	byUser, err := s.progress.StartedCourseCompletions(ctx)
	if err != nil {
		return nil, err
	}
	var values []int
	for _, completions := range byUser {
		for _, p := range model.CourseProgress(completions) {
			values = append(values, p)
		}
	}
	stats.CompletionRate = model.AverageProgress(values)
	return stats, nil
}
