package handlers

import (
	"net/http"

	"github.com/Varun5711/campusapi/internal/logger"
	"github.com/Varun5711/campusapi/internal/middleware"
	"github.com/Varun5711/campusapi/internal/models"
	"github.com/Varun5711/campusapi/internal/service"
)

type ProductHandler struct {
	products *service.ProductService
	log      *logger.Logger
}

func NewProductHandler(products *service.ProductService, log *logger.Logger) *ProductHandler {
	return &ProductHandler{
		products: products,
		log:      log,
	}
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	product, err := h.products.Create(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Product created successfully",
		"product": product,
	})
}

// List and Get run behind optional auth: stock counts are only shown to
// authenticated callers.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		respondServiceError(w, r, h.log, err)
		return
	}

	_, authenticated := middleware.ClaimsFromContext(r.Context())
	views := make([]models.ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, p.View(authenticated))
	}
	respondJSON(w, http.StatusOK, views)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	product, err := h.products.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.log, err)
		return
	}

	_, authenticated := middleware.ClaimsFromContext(r.Context())
	respondJSON(w, http.StatusOK, product.View(authenticated))
}

func (h *ProductHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	code, err := h.products.QRCode(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, code)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req models.UpdateProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	product, err := h.products.Update(r.Context(), id, req)
	if err != nil {
		respondServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Product updated successfully",
		"product": product,
	})
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, h.log, err)
		return
	}
	respondMessage(w, http.StatusOK, "Product deleted successfully")
}
