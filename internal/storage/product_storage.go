package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/Varun5711/campusapi/internal/database"
	"github.com/Varun5711/campusapi/internal/models"
	"github.com/jackc/pgx/v5"
)

type ProductStorage struct {
	db *database.DBManager
}

func NewProductStorage(db *database.DBManager) *ProductStorage {
	return &ProductStorage{db: db}
}

const productColumns = `id, name, description, price::float8, stock, created_at, updated_at`

func scanProduct(row pgx.Row) (*models.Product, error) {
	var p models.Product
	err := row.Scan(
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
	return &p, nil
}

func (s *ProductStorage) CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	query := `
		INSERT INTO products (name, description, price, stock)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + productColumns

	created, err := scanProduct(s.db.Write().QueryRow(ctx, query, p.Name, p.Description, p.Price, p.Stock))
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", translate(err))
	}
	return created, nil
}

func (s *ProductStorage) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(s.db.Read().QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

func (s *ProductStorage) ListProducts(ctx context.Context) ([]*models.Product, error) {
	rows, err := s.db.Read().Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := make([]*models.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

func (s *ProductStorage) UpdateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, stock = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING ` + productColumns

	updated, err := scanProduct(s.db.Write().QueryRow(ctx, query, p.Name, p.Description, p.Price, p.Stock, p.ID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", translate(err))
	}
	return updated, nil
}

func (s *ProductStorage) DeleteProduct(ctx context.Context, id int64) error {
	tag, err := s.db.Write().Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
