package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Varun5711/campusapi/internal/logger"
	"github.com/Varun5711/campusapi/internal/models"
	"github.com/Varun5711/campusapi/internal/storage"
	"github.com/Varun5711/campusapi/internal/validation"
)

var errPurchaseNotFound = notFound("Purchase")

type PurchaseService struct {
	purchases storage.PurchaseRepository
	users     storage.UserRepository
	products  *ProductService
	log       *logger.Logger
}

func NewPurchaseService(purchases storage.PurchaseRepository, users storage.UserRepository, products *ProductService, log *logger.Logger) *PurchaseService {
	return &PurchaseService{
		purchases: purchases,
		users:     users,
		products:  products,
		log:       log,
	}
}

// Create buys quantity units for req.UserID, or for callerID when the body names no user.
func (s *PurchaseService) Create(ctx context.Context, callerID int64, req models.CreatePurchaseRequest) (*models.Purchase, error) {
	userID := req.UserID
	if userID == 0 {
		userID = callerID
	}
	if userID == 0 {
		return nil, invalid("User ID is required")
	}
	if req.ProductID == 0 {
		return nil, invalid("Product ID is required")
	}
	if err := validation.ValidateQuantity(req.Quantity); err != nil {
		return nil, invalidErr(err)
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	purchase, err := s.purchases.CreatePurchase(ctx, userID, req.ProductID, req.Quantity, models.PurchaseStatusCompleted)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return nil, errProductNotFound
	case errors.Is(err, storage.ErrInsufficientStock):
		return nil, invalid("Not enough stock available")
	case errors.Is(err, storage.ErrReferenceMissing):
		return nil, ErrUserNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to create purchase: %w", err)
	}

	s.products.Invalidate(ctx, req.ProductID)
	s.log.Info("User %d purchased %d x product %d", userID, req.Quantity, req.ProductID)
	return purchase, nil
}

func (s *PurchaseService) List(ctx context.Context) ([]*models.Purchase, error) {
	return s.purchases.ListPurchases(ctx)
}

func (s *PurchaseService) Get(ctx context.Context, id int64) (*models.Purchase, error) {
	purchase, err := s.purchases.GetPurchase(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase: %w", err)
	}
	if purchase == nil {
		return nil, errPurchaseNotFound
	}
	return purchase, nil
}

func (s *PurchaseService) ListByUser(ctx context.Context, userID int64) ([]*models.Purchase, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.purchases.ListPurchasesByUser(ctx, userID)
}

func (s *PurchaseService) UpdateStatus(ctx context.Context, id int64, status string) (*models.Purchase, error) {
	if err := validation.ValidateStatus(status, models.PurchaseStatuses); err != nil {
		return nil, invalidErr(err)
	}

	purchase, err := s.purchases.UpdatePurchaseStatus(ctx, id, status)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, errPurchaseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update purchase: %w", err)
	}
	return purchase, nil
}
