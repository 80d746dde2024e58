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

// OrdersHandler exposes orders to users and orders plus quotes to administrators.
type OrdersHandler struct {
	orders   *service.OrderService
	validate *validation.Validator
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(orders *service.OrderService, validate *validation.Validator) *OrdersHandler {
	return &OrdersHandler{orders: orders, validate: validate}
}

// Create handles POST /order/create/:productId.
func (h *OrdersHandler) Create(c *fiber.Ctx) error {
	principal, err := auth.MustPrincipal(c, domain.PrincipalUser)
	if err != nil {
		return err
	}
	var req dto.OrderCreateRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return err
	}
	order, err := h.orders.Create(c.UserContext(), principal.ID, c.Params("productId"), req.DateRequested)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Order placed", fiber.Map{"order": order})
}

// Get handles GET /order/:orderId.
func (h *OrdersHandler) Get(c *fiber.Ctx) error {
	principal, err := auth.MustPrincipal(c, domain.PrincipalUser)
	if err != nil {
		return err
	}
	order, err := h.orders.GetForUser(c.UserContext(), principal.ID, c.Params("orderId"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Order found", fiber.Map{"order": order})
}

// ListMine handles GET /orders.
func (h *OrdersHandler) ListMine(c *fiber.Ctx) error {
	principal, err := auth.MustPrincipal(c, domain.PrincipalUser)
	if err != nil {
		return err
	}
	page, limit, err := pageParams(c, h.validate)
	if err != nil {
		return err
	}
	orders, err := h.orders.ListForUser(c.UserContext(), principal.ID, page, limit)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Orders", orders)
}

// ListAll handles GET /admin/orders.
func (h *OrdersHandler) ListAll(c *fiber.Ctx) error {
	page, limit, err := pageParams(c, h.validate)
	if err != nil {
		return err
	}
	orders, err := h.orders.ListAll(c.UserContext(), page, limit)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Orders", orders)
}

// UpdateStatus handles PATCH /admin/order/:orderId/status.
func (h *OrdersHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, err := auth.MustPrincipal(c, domain.PrincipalAdmin)
	if err != nil {
		return err
	}
	var req dto.OrderStatusRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return err
	}
	order, err := h.orders.UpdateStatus(c.UserContext(), principal.ID, c.Params("orderId"), domain.OrderStatus(req.Status))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Order status updated", fiber.Map{"order": order})
}

// CreateQuote handles POST /quote/:orderId.
func (h *OrdersHandler) CreateQuote(c *fiber.Ctx) error {
	principal, err := auth.MustPrincipal(c, domain.PrincipalAdmin)
	if err != nil {
		return err
	}
	var req dto.QuoteCreateRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return err
	}
	quote, err := h.orders.CreateQuote(c.UserContext(), principal.ID, c.Params("orderId"), service.QuoteInput{
		Title:         req.Title,
		Price:         req.Price,
		AvailableFrom: req.AvailableFrom,
		AvailableTo:   req.AvailableTo,
		Description:   req.Description,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Quote created", fiber.Map{"quote": quote})
}

// UpdateQuote handles PATCH /quote/:quoteId.
func (h *OrdersHandler) UpdateQuote(c *fiber.Ctx) error {
	principal, err := auth.MustPrincipal(c, domain.PrincipalAdmin)
	if err != nil {
		return err
	}
	var req dto.QuoteUpdateRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return err
	}
	quote, err := h.orders.UpdateQuote(c.UserContext(), principal.ID, c.Params("quoteId"), service.QuoteChanges{
		Title:         req.Title,
		Price:         req.Price,
		AvailableFrom: req.AvailableFrom,
		AvailableTo:   req.AvailableTo,
		Description:   req.Description,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Quote updated", fiber.Map{"quote": quote})
}

// GetQuote handles GET /quote/:quoteId.
func (h *OrdersHandler) GetQuote(c *fiber.Ctx) error {
	quote, err := h.orders.GetQuote(c.UserContext(), c.Params("quoteId"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Quote found", fiber.Map{"quote": quote})
}
