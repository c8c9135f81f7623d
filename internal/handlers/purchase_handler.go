package handlers

import (
	"net/http"

	"github.com/Varun5711/campusapi/internal/logger"
	"github.com/Varun5711/campusapi/internal/middleware"
	"github.com/Varun5711/campusapi/internal/models"
	"github.com/Varun5711/campusapi/internal/service"
)

type PurchaseHandler struct {
	purchases *service.PurchaseService
	log       *logger.Logger
}

func NewPurchaseHandler(purchases *service.PurchaseService, log *logger.Logger) *PurchaseHandler {
	return &PurchaseHandler{
		purchases: purchases,
		log:       log,
	}
}

func (h *PurchaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePurchaseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	purchase, err := h.purchases.Create(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		respondServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "Purchase completed successfully",
		"purchase": purchase,
	})
}

func (h *PurchaseHandler) List(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.purchases.List(r.Context())
	if err != nil {
		respondServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, purchases)
}

func (h *PurchaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	purchase, err := h.purchases.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, purchase)
}

func (h *PurchaseHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	purchases, err := h.purchases.ListByUser(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, purchases)
}

func (h *PurchaseHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req models.UpdatePurchaseStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	purchase, err := h.purchases.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		respondServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Purchase status updated successfully",
		"purchase": purchase,
	})
}
