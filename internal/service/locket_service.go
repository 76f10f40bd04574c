package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nudriin/antrian-rest-api/internal/apperr"
	"github.com/nudriin/antrian-rest-api/internal/models"
	"github.com/nudriin/antrian-rest-api/internal/repository"
)

const maxLocketNameLen = 225

type LocketService struct {
	lockets repository.LocketRepository
	queues  repository.QueueRepository
	log     zerolog.Logger
}

func NewLocketService(lockets repository.LocketRepository, queues repository.QueueRepository, log zerolog.Logger) *LocketService {
	return &LocketService{lockets: lockets, queues: queues, log: log}
}

func validLocketName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxLocketNameLen {
		return "", apperr.BadRequest("locket name must be 1-225 characters")
	}
	return name, nil
}

// Save creates a locket, rejecting duplicate names. The name check is
// check-then-insert; the unique index on lockets.name backstops the race.
func (s *LocketService) Save(ctx context.Context, name string) (*models.Locket, error) {
	name, err := validLocketName(name)
	if err != nil {
		return nil, err
	}

	n, err := s.lockets.CountByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if n != 0 {
		return nil, apperr.BadRequest("duplicate locket name")
	}

	s.log.Info().Str("name", name).Msg("create locket")
	return s.lockets.Create(ctx, name)
}

func (s *LocketService) FindAll(ctx context.Context) ([]models.Locket, error) {
	lockets, err := s.lockets.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if lockets == nil {
		lockets = []models.Locket{}
	}
	return lockets, nil
}

func (s *LocketService) FindByName(ctx context.Context, name string) (*models.Locket, error) {
	name, err := validLocketName(name)
	if err != nil {
		return nil, err
	}
	l, err := s.lockets.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, apperr.NotFound("locket not found")
	}
	return l, nil
}

func (s *LocketService) Update(ctx context.Context, id int64, name string) (*models.Locket, error) {
	if id < 1 {
		return nil, apperr.BadRequest("locket id must be a positive number")
	}
	name, err := validLocketName(name)
	if err != nil {
		return nil, err
	}

	l, err := s.lockets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, apperr.NotFound("locket not found")
	}
	return s.lockets.Update(ctx, id, name)
}

// Delete removes the locket's tickets first; referential integrity is kept at
// the application layer.
func (s *LocketService) Delete(ctx context.Context, id int64) error {
	if id < 1 {
		return apperr.BadRequest("locket id must be a positive number")
	}

	l, err := s.lockets.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if l == nil {
		return apperr.NotFound("locket not found")
	}

	if err := s.queues.DeleteByLocket(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("locket_id", id).Str("name", l.Name).Msg("delete locket")
	return s.lockets.Delete(ctx, id)
}
