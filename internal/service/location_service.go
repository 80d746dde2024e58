package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/billboardhub/billboard-market/internal/domain"
	"github.com/billboardhub/billboard-market/internal/repository"
	apperrors "github.com/billboardhub/billboard-market/pkg/util/errorutil"
)

const (
	stateExists  = "state already exists"
	areaExists   = "area already exists"
	stateMissing = "State doesn't exist."
	areaMissing  = "Area doesn't exist."
)

// LocationService maintains the State → Area directory. Every name is
// trimmed and lower-cased before it is stored or compared.
type LocationService struct {
	locations repository.LocationRepository
	logger    *zap.Logger
}

// NewLocationService constructs the service.
func NewLocationService(locations repository.LocationRepository, logger *zap.Logger) *LocationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocationService{locations: locations, logger: logger}
}

// CreateState adds a state. An existing state with the same normalized name is a Conflict.
func (s *LocationService) CreateState(ctx context.Context, ownerID, name string) (*domain.State, error) {
	normalized := domain.NormalizeName(name)
	if normalized == "" {
		return nil, apperrors.NewBadRequest("Bad Request. Field (state) cannot be empty")
	}

	if _, err := s.locations.GetStateByName(ctx, normalized); err == nil {
		return nil, apperrors.NewConflict(stateExists)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewInternalError(err)
	}

	state := &domain.State{Name: normalized, OwnerID: ownerID}
	if err := s.locations.CreateState(ctx, state); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperrors.NewConflict(stateExists)
		}
		s.logger.Error("create state failed", zap.String("state", normalized), zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}
	s.logger.Info("state created", zap.String("state_id", state.ID), zap.String("state", normalized))
	return state, nil
}

// CreateArea adds an area under an existing state.
func (s *LocationService) CreateArea(ctx context.Context, stateName, areaName string) (*domain.Area, error) {
	normalized := domain.NormalizeName(areaName)
	if normalized == "" || domain.NormalizeName(stateName) == "" {
		return nil, apperrors.NewBadRequest("Bad Request. Fields (state, area) cannot be empty")
	}

	state, err := s.GetState(ctx, stateName)
	if err != nil {
		return nil, err
	}

	if _, err := s.locations.GetArea(ctx, state.ID, normalized); err == nil {
		return nil, apperrors.NewConflict(areaExists)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewInternalError(err)
	}

	area := &domain.Area{Name: normalized, StateID: state.ID}
	if err := s.locations.CreateArea(ctx, area); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return nil, apperrors.NewConflict(areaExists)
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NewNotFound(stateMissing)
		}
		s.logger.Error("create area failed", zap.String("area", normalized), zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}
	s.logger.Info("area created", zap.String("area_id", area.ID), zap.String("state_id", state.ID))
	return area, nil
}

// GetState resolves a state by name.
func (s *LocationService) GetState(ctx context.Context, name string) (*domain.State, error) {
	normalized := domain.NormalizeName(name)
	if normalized == "" {
		return nil, apperrors.NewBadRequest("Bad Request. Field (state) cannot be empty")
	}
	state, err := s.locations.GetStateByName(ctx, normalized)
	if err != nil {
		return nil, notFoundOr(err, stateMissing)
	}
	return state, nil
}

// GetArea resolves an area by name inside the named state only.
func (s *LocationService) GetArea(ctx context.Context, areaName, stateName string) (*domain.Area, error) {
	normalized := domain.NormalizeName(areaName)
	if normalized == "" {
		return nil, apperrors.NewBadRequest("Bad Request. Field (area) cannot be empty")
	}
	state, err := s.GetState(ctx, stateName)
	if err != nil {
		return nil, err
	}
	area, err := s.locations.GetArea(ctx, state.ID, normalized)
	if err != nil {
		return nil, notFoundOr(err, areaMissing)
	}
	return area, nil
}

// ListStates pages through states, newest first. An empty page is not an error.
func (s *LocationService) ListStates(ctx context.Context, page, limit int) (domain.Page[domain.State], error) {
	page, limit = domain.NormalizePaging(page, limit)
	total, err := s.locations.CountStates(ctx)
	if err != nil {
		return domain.Page[domain.State]{}, apperrors.NewInternalError(err)
	}
	if domain.PastEnd(total, page, limit) {
		return domain.NewPage[domain.State](nil, total, page, limit), nil
	}
	items, err := s.locations.ListStates(ctx, domain.Offset(page, limit), limit)
	if err != nil {
		return domain.Page[domain.State]{}, apperrors.NewInternalError(err)
	}
	return domain.NewPage(items, total, page, limit), nil
}

// ListAreasInState pages through the areas of a state, newest first. Only a
// missing state is an error.
func (s *LocationService) ListAreasInState(ctx context.Context, stateName string, page, limit int) (domain.Page[domain.Area], error) {
	state, err := s.GetState(ctx, stateName)
	if err != nil {
		return domain.Page[domain.Area]{}, err
	}
	page, limit = domain.NormalizePaging(page, limit)
	total, err := s.locations.CountAreas(ctx, state.ID)
	if err != nil {
		return domain.Page[domain.Area]{}, apperrors.NewInternalError(err)
	}
	if domain.PastEnd(total, page, limit) {
		return domain.NewPage[domain.Area](nil, total, page, limit), nil
	}
	items, err := s.locations.ListAreas(ctx, state.ID, domain.Offset(page, limit), limit)
	if err != nil {
		return domain.Page[domain.Area]{}, apperrors.NewInternalError(err)
	}
	return domain.NewPage(items, total, page, limit), nil
}
