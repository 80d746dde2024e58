package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/billboardhub/billboard-market/internal/api/dto"
	"github.com/billboardhub/billboard-market/internal/api/validation"
	"github.com/billboardhub/billboard-market/internal/auth"
	"github.com/billboardhub/billboard-market/internal/domain"
	"github.com/billboardhub/billboard-market/internal/service"
	apperrors "github.com/billboardhub/billboard-market/pkg/util/errorutil"
)

// ProductsHandler exposes the billboard catalogue.
type ProductsHandler struct {
	products *service.ProductService
	validate *validation.Validator
}

// NewProductsHandler constructs handler.
func NewProductsHandler(products *service.ProductService, validate *validation.Validator) *ProductsHandler {
	return &ProductsHandler{products: products, validate: validate}
}

// Create handles POST /product/create.
func (h *ProductsHandler) Create(c *fiber.Ctx) error {
	principal, err := auth.MustPrincipal(c, domain.PrincipalAdmin)
	if err != nil {
		return err
	}
	var req dto.ProductCreateRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return err
	}
	product, err := h.products.Create(c.UserContext(), principal.ID, service.ProductInput{
		Title:        req.Title,
		Category:     req.Category,
		Availability: req.Availability,
		Description:  req.Description,
		Size:         req.Size,
		Address:      req.Address,
		Quantity:     req.Quantity,
		Featured:     req.Featured,
		State:        req.State,
		Area:         req.Area,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Product created", fiber.Map{"product": product})
}

// UploadImage handles PATCH /product/uploadImage/:productId with a multipart "image" file.
func (h *ProductsHandler) UploadImage(c *fiber.Ctx) error {
	upload, closeFile, err := formImage(c, "image")
	defer closeFile()
	if err != nil {
		return err
	}
	product, err := h.products.UploadImage(c.UserContext(), c.Params("productId"), upload)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Product image uploaded", fiber.Map{"product": product})
}

// Update handles PATCH /product/update/:productId.
func (h *ProductsHandler) Update(c *fiber.Ctx) error {
	var req dto.ProductUpdateRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return err
	}
	product, err := h.products.Update(c.UserContext(), c.Params("productId"), service.ProductUpdate{
		Title:        req.Title,
		Category:     req.Category,
		Availability: req.Availability,
		Description:  req.Description,
		Size:         req.Size,
		Address:      req.Address,
		Quantity:     req.Quantity,
		Featured:     req.Featured,
		State:        req.State,
		Area:         req.Area,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Product updated", fiber.Map{"product": product})
}

// Get handles GET /product/:productId.
func (h *ProductsHandler) Get(c *fiber.Ctx) error {
	product, err := h.products.Get(c.UserContext(), c.Params("productId"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Product found", fiber.Map{"product": product})
}

// List handles GET /products.
func (h *ProductsHandler) List(c *fiber.Ctx) error {
	page, limit, err := pageParams(c, h.validate)
	if err != nil {
		return err
	}
	products, err := h.products.List(c.UserContext(), page, limit)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Products", products)
}

// ListByState handles GET /productsByState?state=.
func (h *ProductsHandler) ListByState(c *fiber.Ctx) error {
	var q dto.LocationQuery
	if err := bindQuery(c, h.validate, &q); err != nil {
		return err
	}
	if strings.TrimSpace(q.State) == "" {
		return apperrors.NewBadRequest("Bad Request. Field (state) cannot be empty.")
	}
	page, limit, err := pageParams(c, h.validate)
	if err != nil {
		return err
	}
	products, err := h.products.ListByState(c.UserContext(), q.State, page, limit)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Products", products)
}

// ListByArea handles GET /productsByArea?state=&area=.
func (h *ProductsHandler) ListByArea(c *fiber.Ctx) error {
	var q dto.LocationQuery
	if err := bindQuery(c, h.validate, &q); err != nil {
		return err
	}
	if strings.TrimSpace(q.State) == "" || strings.TrimSpace(q.Area) == "" {
		return apperrors.NewBadRequest("Bad Request. Fields (state, area) cannot be empty.")
	}
	page, limit, err := pageParams(c, h.validate)
	if err != nil {
		return err
	}
	products, err := h.products.ListByArea(c.UserContext(), q.State, q.Area, page, limit)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Products", products)
}

// Delete handles DELETE /product/delete/:productId.
func (h *ProductsHandler) Delete(c *fiber.Ctx) error {
	if err := h.products.Delete(c.UserContext(), c.Params("productId")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Product deleted", nil)
}
