package service

import (
	"context"
	"fmt"
	"time"

	"ozzus/pingdumb/internal/domain"
)

const DefaultResultsLimit = 1000

type ResultQuerier interface {
	RecentResults(ctx context.Context, limit int) ([]domain.Result, error)
	ResultsSince(ctx context.Context, since time.Time, limit int) ([]domain.Result, error)
}

type ResultService struct {
	store ResultQuerier
	limit int
	now   func() time.Time
}

// NewResultService caps every query at maxLimit.
func NewResultService(store ResultQuerier, maxLimit int) *ResultService {
	if maxLimit <= 0 {
		maxLimit = DefaultResultsLimit
	}
	return &ResultService{store: store, limit: maxLimit, now: time.Now}
}

// Recent returns the newest results. hours > 0 restricts them to that window.
func (s *ResultService) Recent(ctx context.Context, limit, hours int) ([]domain.Result, error) {
	if limit <= 0 || limit > s.limit {
		limit = s.limit
	}

	var (
		results []domain.Result
		err     error
	)
	if hours > 0 {
		since := s.now().Add(-time.Duration(hours) * time.Hour)
		results, err = s.store.ResultsSince(ctx, since, limit)
	} else {
		results, err = s.store.RecentResults(ctx, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	return results, nil
}
