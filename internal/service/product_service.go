package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Varun5711/campusapi/internal/cache"
	"github.com/Varun5711/campusapi/internal/logger"
	"github.com/Varun5711/campusapi/internal/models"
	"github.com/Varun5711/campusapi/internal/qrcode"
	"github.com/Varun5711/campusapi/internal/storage"
	"github.com/Varun5711/campusapi/internal/validation"
)

var errProductNotFound = notFound("Product")

type ProductService struct {
	products storage.ProductRepository
	cache    *cache.Cache
	qr       *qrcode.Generator
	log      *logger.Logger
}

func NewProductService(products storage.ProductRepository, c *cache.Cache, qr *qrcode.Generator, log *logger.Logger) *ProductService {
	return &ProductService{
		products: products,
		cache:    c,
		qr:       qr,
		log:      log,
	}
}

func productKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}

func (s *ProductService) Create(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	name := strings.TrimSpace(req.Name)
	if err := validation.ValidateProduct(name, req.Price, req.Stock); err != nil {
		return nil, invalidErr(err)
	}

	product, err := s.products.CreateProduct(ctx, &models.Product{
		Name:        name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.remember(ctx, product)
	return product, nil
}

func (s *ProductService) List(ctx context.Context) ([]*models.Product, error) {
	return s.products.ListProducts(ctx)
}

// Get reads through the cache. Cache failures are logged and fall back to the database.
func (s *ProductService) Get(ctx context.Context, id int64) (*models.Product, error) {
	var cached models.Product
	found, err := s.cache.GetJSON(ctx, productKey(id), &cached)
	if err != nil {
		s.log.Warn("Product cache read failed for %d: %v", id, err)
	}
	if found {
		return &cached, nil
	}

	product, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, errProductNotFound
	}

	s.remember(ctx, product)
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, id int64, req models.UpdateProductRequest) (*models.Product, error) {
	product, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, errProductNotFound
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if err := validation.ValidateProduct(product.Name, product.Price, product.Stock); err != nil {
		return nil, invalidErr(err)
	}

	updated, err := s.products.UpdateProduct(ctx, product)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, errProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.Invalidate(ctx, id)
	return updated, nil
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	err := s.products.DeleteProduct(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return errProductNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.Invalidate(ctx, id)
	return nil
}

func (s *ProductService) QRCode(ctx context.Context, id int64) (*models.ProductQRCode, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	url, dataURI, err := s.qr.ProductCode(id)
	if err != nil {
		return nil, err
	}
	return &models.ProductQRCode{ProductID: id, URL: url, QRCode: dataURI}, nil
}

// Invalidate drops the cached copy after the product changed elsewhere.
func (s *ProductService) Invalidate(ctx context.Context, id int64) {
	if err := s.cache.Delete(ctx, productKey(id)); err != nil {
		s.log.Warn("Product cache invalidation failed for %d: %v", id, err)
	}
}

func (s *ProductService) remember(ctx context.Context, p *models.Product) {
	if err := s.cache.SetJSON(ctx, productKey(p.ID), p); err != nil {
		s.log.Warn("Product cache write failed for %d: %v", p.ID, err)
	}
}
