package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"securesphere/internal/model"
	"securesphere/internal/service"
	"securesphere/internal/transport/rest/middleware"
)

// ProductHandler handles product CRUD and the lead review queue.
type ProductHandler struct {
	productSvc *service.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productSvc *service.ProductService) *ProductHandler {
	return &ProductHandler{productSvc: productSvc}
}

// Create handles POST /v1/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.productSvc.Create(r.Context(), middleware.GetUserID(r.Context()), in)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

// List handles GET /v1/products. Clients see their own products; leads and
// superusers see everything.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		products []*model.Product
		err      error
	)
	if callerRole(r) == model.RoleClient {
		products, err = h.productSvc.ListForClient(r.Context(), middleware.GetUserID(r.Context()))
	} else {
		products, err = h.productSvc.ListAll(r.Context())
	}
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// Get handles GET /v1/products/{productId}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["productId"]
	product, err := h.productSvc.Get(r.Context(), middleware.GetUserID(r.Context()), callerRole(r), productID)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Update handles PUT /v1/products/{productId}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in service.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	productID := mux.Vars(r)["productId"]
	product, err := h.productSvc.Update(r.Context(), middleware.GetUserID(r.Context()), callerRole(r), productID, in)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Delete handles DELETE /v1/products/{productId}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["productId"]
	err := h.productSvc.Delete(r.Context(), middleware.GetUserID(r.Context()), callerRole(r), productID)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ReviewQueue handles GET /v1/review/queue
func (h *ProductHandler) ReviewQueue(w http.ResponseWriter, r *http.Request) {
	entries, err := h.productSvc.ReviewQueue(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}
