package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/Varun5711/campusapi/internal/database"
	"github.com/Varun5711/campusapi/internal/models"
	"github.com/jackc/pgx/v5"
)

type PurchaseStorage struct {
	db *database.DBManager
}

func NewPurchaseStorage(db *database.DBManager) *PurchaseStorage {
	return &PurchaseStorage{db: db}
}

const purchaseSelect = `
	SELECT pu.id, pu.user_id, pu.product_id, pu.quantity, pu.purchase_price::float8, pu.status, pu.created_at,
	       p.id, p.name, p.description, p.price::float8, p.stock, p.created_at, p.updated_at
	FROM purchases pu
	JOIN products p ON p.id = pu.product_id
`

func scanPurchase(row pgx.Row) (*models.Purchase, error) {
	var pu models.Purchase
	var p models.Product
	err := row.Scan(
		&pu.ID,
		&pu.UserID,
		&pu.ProductID,
		&pu.Quantity,
		&pu.PurchasePrice,
		&pu.Status,
		&pu.CreatedAt,
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Stock,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	pu.Product = &p
	return &pu, nil
}

func (s *PurchaseStorage) CreatePurchase(ctx context.Context, userID, productID int64, quantity int, status string) (*models.Purchase, error) {
	var purchase *models.Purchase

	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		var price float64
		var stock int
		err := tx.QueryRow(ctx, `
			SELECT price::float8, stock
			FROM products
			WHERE id = $1
			FOR UPDATE
		`, productID).Scan(&price, &stock)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		if stock < quantity {
			return ErrInsufficientStock
		}

		var id int64
		err = tx.QueryRow(ctx, `
			INSERT INTO purchases (user_id, product_id, quantity, purchase_price, status)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, userID, productID, quantity, price, status).Scan(&id)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			UPDATE products
			SET stock = stock - $1, updated_at = NOW()
			WHERE id = $2
		`, quantity, productID)
		if err != nil {
			return err
		}

		purchase, err = scanPurchase(tx.QueryRow(ctx, purchaseSelect+` WHERE pu.id = $1`, id))
		return err
	})
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInsufficientStock) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create purchase: %w", translate(err))
	}

	return purchase, nil
}

func (s *PurchaseStorage) GetPurchase(ctx context.Context, id int64) (*models.Purchase, error) {
	pu, err := scanPurchase(s.db.Read().QueryRow(ctx, purchaseSelect+` WHERE pu.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase: %w", err)
	}
	return pu, nil
}

func (s *PurchaseStorage) list(ctx context.Context, query string, args ...interface{}) ([]*models.Purchase, error) {
	rows, err := s.db.Read().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	defer rows.Close()

	purchases := make([]*models.Purchase, 0)
	for rows.Next() {
		pu, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		purchases = append(purchases, pu)
	}

	return purchases, rows.Err()
}

func (s *PurchaseStorage) ListPurchases(ctx context.Context) ([]*models.Purchase, error) {
	return s.list(ctx, purchaseSelect+` ORDER BY pu.id`)
}

func (s *PurchaseStorage) ListPurchasesByUser(ctx context.Context, userID int64) ([]*models.Purchase, error) {
	return s.list(ctx, purchaseSelect+` WHERE pu.user_id = $1 ORDER BY pu.id`, userID)
}

func (s *PurchaseStorage) UpdatePurchaseStatus(ctx context.Context, id int64, status string) (*models.Purchase, error) {
	tag, err := s.db.Write().Exec(ctx, `UPDATE purchases SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update purchase status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	pu, err := scanPurchase(s.db.Write().QueryRow(ctx, purchaseSelect+` WHERE pu.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to reload purchase: %w", err)
	}
	return pu, nil
}
