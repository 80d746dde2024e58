package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/billboardhub/billboard-market/internal/api/dto"
	"github.com/billboardhub/billboard-market/internal/api/validation"
	"github.com/billboardhub/billboard-market/internal/auth"
	"github.com/billboardhub/billboard-market/internal/domain"
	"github.com/billboardhub/billboard-market/internal/service"
)

// LocationsHandler exposes the State → Area directory.
type LocationsHandler struct {
	locations *service.LocationService
	validate  *validation.Validator
}

// NewLocationsHandler constructs handler.
func NewLocationsHandler(locations *service.LocationService, validate *validation.Validator) *LocationsHandler {
	return &LocationsHandler{locations: locations, validate: validate}
}

// CreateState handles POST /location/state/create.
func (h *LocationsHandler) CreateState(c *fiber.Ctx) error {
	principal, err := auth.MustPrincipal(c, domain.PrincipalAdmin)
	if err != nil {
		return err
	}
	var req dto.StateRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return err
	}
	state, err := h.locations.CreateState(c.UserContext(), principal.ID, req.State)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "State created", fiber.Map{"state": state})
}

// CreateArea handles POST /location/area/create.
func (h *LocationsHandler) CreateArea(c *fiber.Ctx) error {
	var req dto.AreaRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return err
	}
	area, err := h.locations.CreateArea(c.UserContext(), req.State, req.Area)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Area created", fiber.Map{"area": area})
}

// GetState handles GET /location/state?state=.
func (h *LocationsHandler) GetState(c *fiber.Ctx) error {
	var q dto.LocationQuery
	if err := bindQuery(c, h.validate, &q); err != nil {
		return err
	}
	state, err := h.locations.GetState(c.UserContext(), q.State)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "State found", fiber.Map{"state": state})
}

// GetArea handles GET /location/area?state=&area=.
func (h *LocationsHandler) GetArea(c *fiber.Ctx) error {
	var q dto.LocationQuery
	if err := bindQuery(c, h.validate, &q); err != nil {
		return err
	}
	area, err := h.locations.GetArea(c.UserContext(), q.Area, q.State)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Area found", fiber.Map{"area": area})
}

// ListStates handles GET /location/state/all.
func (h *LocationsHandler) ListStates(c *fiber.Ctx) error {
	page, limit, err := pageParams(c, h.validate)
	if err != nil {
		return err
	}
	states, err := h.locations.ListStates(c.UserContext(), page, limit)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "States", states)
}

// ListAreasInState handles GET /location/areasInAState?state=.
func (h *LocationsHandler) ListAreasInState(c *fiber.Ctx) error {
	var q dto.LocationQuery
	if err := bindQuery(c, h.validate, &q); err != nil {
		return err
	}
	page, limit, err := pageParams(c, h.validate)
	if err != nil {
		return err
	}
	areas, err := h.locations.ListAreasInState(c.UserContext(), q.State, page, limit)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Areas", areas)
}
