package service

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/billboardhub/billboard-market/internal/domain"
	"github.com/billboardhub/billboard-market/internal/repository"
	apperrors "github.com/billboardhub/billboard-market/pkg/util/errorutil"
)

// MaxImageBytes caps uploaded product images and avatars.
const MaxImageBytes = 3 * 1024 * 1024

const (
	productMissing  = "Product doesn't exist"
	uploadsDisabled = "image uploads are not enabled"
)

// ProductInput carries the fields of a new product. State and Area are names.
type ProductInput struct {
	Title        string
	Category     string
	Availability *bool
	Description  string
	Size         string
	Address      string
	Quantity     string
	Featured     bool
	State        string
	Area         string
}

// ProductUpdate lists the fields an update may change. State and Area are
// names and must be given together.
type ProductUpdate struct {
	Title        *string
	Category     *string
	Availability *bool
	Description  *string
	Size         *string
	Address      *string
	Quantity     *string
	Featured     *bool
	State        *string
	Area         *string
}

// ProductService manages the billboard catalogue. Products are anchored to an
// area of a state resolved through the location directory.
type ProductService struct {
	products  repository.ProductRepository
	locations *LocationService
	images    ImageStore
	logger    *zap.Logger
}

// NewProductService constructs the service. images may be nil when uploads are disabled.
func NewProductService(products repository.ProductRepository, locations *LocationService, images ImageStore, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{products: products, locations: locations, images: images, logger: logger}
}

// Create stores a product owned by the administrator ownerID.
func (s *ProductService) Create(ctx context.Context, ownerID string, in ProductInput) (*domain.Product, error) {
	product := &domain.Product{
		Title:        strings.TrimSpace(in.Title),
		Category:     strings.TrimSpace(in.Category),
		Availability: in.Availability == nil || *in.Availability,
		Description:  strings.TrimSpace(in.Description),
		Size:         strings.TrimSpace(in.Size),
		Address:      strings.TrimSpace(in.Address),
		Quantity:     strings.TrimSpace(in.Quantity),
		Featured:     in.Featured,
		OwnerID:      ownerID,
	}
	if product.Title == "" || product.Category == "" || product.Description == "" || product.Size == "" ||
		product.Address == "" || strings.TrimSpace(in.State) == "" || strings.TrimSpace(in.Area) == "" {
		return nil, apperrors.NewBadRequest("Bad Request. Fields (title, category, availability, description, size, address, area, state) cannot be empty")
	}
	if !domain.ValidCategory(product.Category) {
		return nil, apperrors.NewBadRequest(fmt.Sprintf("Bad Request. Unknown category %q", product.Category))
	}

	if err := s.anchor(ctx, product, in.State, in.Area); err != nil {
		return nil, err
	}
	if err := s.products.Create(ctx, product); err != nil {
		s.logger.Error("create product failed", zap.Error(err))
		return nil, notFoundOr(err, "State or area doesn't exist.")
	}
	s.logger.Info("product created", zap.String("product_id", product.ID), zap.String("owner_id", ownerID))
	return product, nil
}

// anchor resolves the area inside the named state so the product's state
// always equals its area's parent.
func (s *ProductService) anchor(ctx context.Context, product *domain.Product, stateName, areaName string) error {
	area, err := s.locations.GetArea(ctx, areaName, stateName)
	if err != nil {
		return err
	}
	product.StateID = area.StateID
	product.AreaID = area.ID
	return nil
}

// Get returns a product by id.
func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, productMissing)
	}
	return product, nil
}

// Update applies the given fields. Moving a product re-resolves its anchoring.
func (s *ProductService) Update(ctx context.Context, id string, update ProductUpdate) (*domain.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	assign := func(dst *string, src *string) error {
		if src == nil {
			return nil
		}
		v := strings.TrimSpace(*src)
		if v == "" {
			return apperrors.NewBadRequest("Bad Request. Fields cannot be empty")
		}
		*dst = v
		return nil
	}
	for _, f := range []struct {
		dst *string
		src *string
	}{
		{&product.Title, update.Title},
		{&product.Category, update.Category},
		{&product.Description, update.Description},
		{&product.Size, update.Size},
		{&product.Address, update.Address},
	} {
		if err := assign(f.dst, f.src); err != nil {
			return nil, err
		}
	}
	if update.Category != nil && !domain.ValidCategory(product.Category) {
		return nil, apperrors.NewBadRequest(fmt.Sprintf("Bad Request. Unknown category %q", product.Category))
	}
	if update.Quantity != nil {
		product.Quantity = strings.TrimSpace(*update.Quantity)
	}
	if update.Availability != nil {
		product.Availability = *update.Availability
	}
	if update.Featured != nil {
		product.Featured = *update.Featured
	}

	if update.State != nil || update.Area != nil {
		if update.State == nil || update.Area == nil {
			return nil, apperrors.NewBadRequest("Bad Request. Fields (state, area) must be updated together")
		}
		if err := s.anchor(ctx, product, *update.State, *update.Area); err != nil {
			return nil, err
		}
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, notFoundOr(err, productMissing)
	}
	s.logger.Info("product updated", zap.String("product_id", id))
	return product, nil
}

// Delete removes a product and its hosted image.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	product, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return notFoundOr(err, productMissing)
	}
	if product.Image != nil && product.Image.Key != "" && s.images != nil {
		if err := s.images.Delete(ctx, product.Image.Key); err != nil {
			s.logger.Warn("delete product image failed", zap.String("product_id", id), zap.Error(err))
		}
	}
	s.logger.Info("product deleted", zap.String("product_id", id))
	return nil
}

// List pages through every product, newest first.
func (s *ProductService) List(ctx context.Context, page, limit int) (domain.Page[domain.Product], error) {
	return s.list(ctx, domain.ProductFilter{}, page, limit)
}

// ListByState pages through the products of a state.
func (s *ProductService) ListByState(ctx context.Context, stateName string, page, limit int) (domain.Page[domain.Product], error) {
	state, err := s.locations.GetState(ctx, stateName)
	if err != nil {
		return domain.Page[domain.Product]{}, err
	}
	return s.list(ctx, domain.ProductFilter{StateID: state.ID}, page, limit)
}

// ListByArea pages through the products of an area inside a state.
func (s *ProductService) ListByArea(ctx context.Context, stateName, areaName string, page, limit int) (domain.Page[domain.Product], error) {
	area, err := s.locations.GetArea(ctx, areaName, stateName)
	if err != nil {
		return domain.Page[domain.Product]{}, err
	}
	return s.list(ctx, domain.ProductFilter{StateID: area.StateID, AreaID: area.ID}, page, limit)
}

func (s *ProductService) list(ctx context.Context, filter domain.ProductFilter, page, limit int) (domain.Page[domain.Product], error) {
	page, limit = domain.NormalizePaging(page, limit)
	total, err := s.products.Count(ctx, filter)
	if err != nil {
		return domain.Page[domain.Product]{}, apperrors.NewInternalError(err)
	}
	if domain.PastEnd(total, page, limit) {
		return domain.NewPage[domain.Product](nil, total, page, limit), nil
	}
	items, err := s.products.List(ctx, filter, domain.Offset(page, limit), limit)
	if err != nil {
		return domain.Page[domain.Product]{}, apperrors.NewInternalError(err)
	}
	return domain.NewPage(items, total, page, limit), nil
}

// UploadImage replaces the product picture.
func (s *ProductService) UploadImage(ctx context.Context, id string, upload Upload) (*domain.Product, error) {
	if s.images == nil {
		return nil, apperrors.NewBadRequest(uploadsDisabled)
	}
	if err := validateImage(upload); err != nil {
		return nil, err
	}
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("products/%s/%s%s", id, uuid.NewString(), strings.ToLower(path.Ext(upload.Filename)))
	url, err := s.images.Upload(ctx, key, upload.ContentType, upload.Body, upload.Size)
	if err != nil {
		s.logger.Error("upload product image failed", zap.String("product_id", id), zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}

	previous := product.Image
	product.Image = &domain.ProductImage{
		Name:     upload.Filename,
		URL:      url,
		Key:      key,
		Size:     upload.Size,
		MimeType: upload.ContentType,
	}
	if err := s.products.Update(ctx, product); err != nil {
		return nil, notFoundOr(err, productMissing)
	}
	if previous != nil && previous.Key != "" {
		if err := s.images.Delete(ctx, previous.Key); err != nil {
			s.logger.Warn("delete previous product image failed", zap.String("product_id", id), zap.Error(err))
		}
	}
	s.logger.Info("product image updated", zap.String("product_id", id))
	return product, nil
}

func validateImage(upload Upload) error {
	if upload.Body == nil {
		return apperrors.NewBadRequest("Bad Request. File not found")
	}
	if !strings.HasPrefix(upload.ContentType, "image/") {
		return apperrors.NewBadRequest("Only images are allowed")
	}
	if upload.Size > MaxImageBytes {
		return apperrors.NewBadRequest("Image should not be more than 3MB")
	}
	return nil
}
