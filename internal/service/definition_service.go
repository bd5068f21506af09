package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ozzus/pingdumb/internal/domain"
	"ozzus/pingdumb/internal/lib/logger/sl"
)

type DefinitionStore interface {
	ListDefinitions(ctx context.Context) ([]domain.CheckDefinition, error)
	GetDefinition(ctx context.Context, id string) (domain.CheckDefinition, error)
	SaveDefinition(ctx context.Context, def domain.CheckDefinition) error
	DeleteDefinition(ctx context.Context, id string) error
	DeleteResults(ctx context.Context, configID string) error
}

// ScheduleNotifier is implemented by Scheduler.
type ScheduleNotifier interface {
	NotifyDefinitionChanged(def domain.CheckDefinition)
	NotifyDefinitionDeleted(id string)
}

// DefinitionService is the only writer of definitions. Every mutation is
// reported to the scheduler before the call returns.
type DefinitionService struct {
	store    DefinitionStore
	notifier ScheduleNotifier
	log      *slog.Logger
	now      func() time.Time
}

func NewDefinitionService(store DefinitionStore, notifier ScheduleNotifier, log *slog.Logger) *DefinitionService {
	return &DefinitionService{
		store:    store,
		notifier: notifier,
		log:      log.With(slog.String("component", "definitions")),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *DefinitionService) List(ctx context.Context) ([]domain.CheckDefinition, error) {
	defs, err := s.store.ListDefinitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list definitions: %w", err)
	}
	return defs, nil
}

func (s *DefinitionService) Get(ctx context.Context, id string) (domain.CheckDefinition, error) {
	return s.store.GetDefinition(ctx, id)
}

// Create assigns a new id unless def already carries one.
func (s *DefinitionService) Create(ctx context.Context, def domain.CheckDefinition) (domain.CheckDefinition, error) {
	const op = "DefinitionService.Create"

	if def.ID == "" {
		def.ID = uuid.NewString()
	}
	if def.CreatedAt.IsZero() {
		def.CreatedAt = s.now()
	}
	def.ApplyDefaults()
	if err := def.Validate(); err != nil {
		return domain.CheckDefinition{}, err
	}

	if err := s.store.SaveDefinition(ctx, def); err != nil {
		return domain.CheckDefinition{}, fmt.Errorf("%s: %w", op, err)
	}

	s.notifier.NotifyDefinitionChanged(def)
	s.log.Info("definition created",
		slog.String("id", def.ID),
		slog.String("kind", string(def.Kind)),
		slog.String("target", def.Target),
	)
	return def, nil
}

// Update replaces the stored definition wholesale. ID and CreatedAt are kept.
func (s *DefinitionService) Update(ctx context.Context, id string, def domain.CheckDefinition) (domain.CheckDefinition, error) {
	const op = "DefinitionService.Update"

	existing, err := s.store.GetDefinition(ctx, id)
	if err != nil {
		return domain.CheckDefinition{}, err
	}

	def.ID = existing.ID
	def.CreatedAt = existing.CreatedAt
	def.ApplyDefaults()
	if err := def.Validate(); err != nil {
		return domain.CheckDefinition{}, err
	}

	if err := s.store.SaveDefinition(ctx, def); err != nil {
		return domain.CheckDefinition{}, fmt.Errorf("%s: %w", op, err)
	}

	s.notifier.NotifyDefinitionChanged(def)
	s.log.Info("definition updated", slog.String("id", def.ID), slog.Bool("enabled", def.Enabled))
	return def, nil
}

// Upsert updates def.ID when it exists and creates it otherwise.
func (s *DefinitionService) Upsert(ctx context.Context, def domain.CheckDefinition) (domain.CheckDefinition, error) {
	if def.ID == "" {
		return s.Create(ctx, def)
	}

	_, err := s.store.GetDefinition(ctx, def.ID)
	switch {
	case err == nil:
		return s.Update(ctx, def.ID, def)
	case errors.Is(err, domain.ErrNotFound):
		return s.Create(ctx, def)
	default:
		return domain.CheckDefinition{}, err
	}
}

// Delete removes the definition and its results.
func (s *DefinitionService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteDefinition(ctx, id); err != nil {
		return err
	}

	s.notifier.NotifyDefinitionDeleted(id)

	if err := s.store.DeleteResults(ctx, id); err != nil {
		s.log.Warn("failed to delete results of removed definition", slog.String("id", id), sl.Err(err))
	}

	s.log.Info("definition deleted", slog.String("id", id))
	return nil
}

// SeedDefaults stores the default definitions when the store is empty and
// reports how many were created.
func (s *DefinitionService) SeedDefaults(ctx context.Context) (int, error) {
	defs, err := s.store.ListDefinitions(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed defaults: %w", err)
	}
	if len(defs) > 0 {
		return 0, nil
	}

	created := 0
	for i, def := range domain.DefaultDefinitions() {
		// distinct timestamps keep the seed order stable in listings
		def.CreatedAt = s.now().Add(time.Duration(i) * time.Millisecond)
		if _, err := s.Create(ctx, def); err != nil {
			return created, fmt.Errorf("seed %q: %w", def.Name, err)
		}
		created++
	}
	return created, nil
}
