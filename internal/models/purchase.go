package models

import "time"

const (
	PurchaseStatusPending   = "pending"
	PurchaseStatusCompleted = "completed"
	PurchaseStatusCancelled = "cancelled"
	PurchaseStatusRefunded  = "refunded"
)

var PurchaseStatuses = []string{
	PurchaseStatusPending,
	PurchaseStatusCompleted,
	PurchaseStatusCancelled,
	PurchaseStatusRefunded,
}

type Purchase struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"userId"`
	ProductID     int64     `json:"productId"`
	Quantity      int       `json:"quantity"`
	PurchasePrice float64   `json:"purchasePrice"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	Product       *Product  `json:"product,omitempty"`
}

type CreatePurchaseRequest struct {
	UserID    int64 `json:"userId,omitempty"`
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type UpdatePurchaseStatusRequest struct {
	Status string `json:"status"`
}
