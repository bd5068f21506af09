package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ozzus/pingdumb/internal/domain"
	"ozzus/pingdumb/internal/repository/memory"
	"ozzus/pingdumb/internal/repository/mysql"
	"ozzus/pingdumb/internal/repository/postgres"
)

//go:generate mockgen -source=repository.go -destination=mocks/mock_repository.go -package=mocks

// DefinitionRepository stores check definitions. Save is an upsert keyed by ID.
type DefinitionRepository interface {
	ListDefinitions(ctx context.Context) ([]domain.CheckDefinition, error)
	GetDefinition(ctx context.Context, id string) (domain.CheckDefinition, error)
	SaveDefinition(ctx context.Context, def domain.CheckDefinition) error
	DeleteDefinition(ctx context.Context, id string) error
}

// ResultRepository stores results. Queries return newest first.
type ResultRepository interface {
	SaveResult(ctx context.Context, result domain.Result) error
	RecentResults(ctx context.Context, limit int) ([]domain.Result, error)
	ResultsSince(ctx context.Context, since time.Time, limit int) ([]domain.Result, error)
	DeleteResults(ctx context.Context, configID string) error
}

type Store interface {
	DefinitionRepository
	ResultRepository
	Ping(ctx context.Context) error
	Close() error
}

var (
	_ Store = (*memory.Store)(nil)
	_ Store = (*postgres.Store)(nil)
	_ Store = (*mysql.Store)(nil)
)

// New opens the store selected by the URI scheme: memory://, postgres:// or mysql://.
func New(ctx context.Context, uri string) (Store, error) {
	scheme, _, ok := strings.Cut(uri, "://")
	if !ok {
		return nil, fmt.Errorf("invalid storage uri %q: missing scheme", uri)
	}

	switch strings.ToLower(scheme) {
	case "memory", "mem":
		return memory.New(), nil
	case "postgres", "postgresql", "pgsql":
		s, err := postgres.New(ctx, uri)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		return s, nil
	case "mysql", "my", "mariadb":
		s, err := mysql.New(ctx, uri)
		if err != nil {
			return nil, fmt.Errorf("open mysql store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported storage scheme %q", scheme)
	}
}
