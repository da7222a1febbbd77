package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"securesphere/internal/apperr"
	"securesphere/internal/model"
	"securesphere/internal/repository"
	"securesphere/internal/service"
	"securesphere/internal/transport/rest/middleware"
)

// AdminHandler handles superuser endpoints: invitations, user management,
// and the maturity ranking.
type AdminHandler struct {
	inviteSvc  *service.InviteService
	productSvc *service.ProductService
	scoringSvc *service.ScoringService
	userRepo   repository.UserRepo
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(inviteSvc *service.InviteService, productSvc *service.ProductService, scoringSvc *service.ScoringService, userRepo repository.UserRepo) *AdminHandler {
	return &AdminHandler{
		inviteSvc:  inviteSvc,
		productSvc: productSvc,
		scoringSvc: scoringSvc,
		userRepo:   userRepo,
	}
}

// Invite handles POST /v1/admin/invitations
func (h *AdminHandler) Invite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email        string     `json:"email"`
		Role         model.Role `json:"role"`
		Organization string     `json:"organization"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inviter, err := h.userRepo.GetByID(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil || inviter == nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	result, err := h.inviteSvc.Invite(r.Context(), inviter, req.Email, req.Role, req.Organization)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// ListInvitations handles GET /v1/admin/invitations
func (h *AdminHandler) ListInvitations(w http.ResponseWriter, r *http.Request) {
	invitations, err := h.inviteSvc.ListPending(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invitations)
}

// RevokeInvitation handles DELETE /v1/admin/invitations/{invitationId}
func (h *AdminHandler) RevokeInvitation(w http.ResponseWriter, r *http.Request) {
	if err := h.inviteSvc.Revoke(r.Context(), mux.Vars(r)["invitationId"]); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "revoked"})
}

// ListUsers handles GET /v1/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	var (
		users []*model.User
		err   error
	)
	if role := model.Role(r.URL.Query().Get("role")); role != "" {
		if !role.Valid() {
			writeAppError(w, apperr.Validation("role", "unknown role"))
			return
		}
		users, err = h.userRepo.ListByRole(r.Context(), role)
	} else {
		users, err = h.userRepo.List(r.Context())
	}
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// CreateProductForClient handles POST /v1/admin/users/{userId}/products
func (h *AdminHandler) CreateProductForClient(w http.ResponseWriter, r *http.Request) {
	var in service.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.productSvc.AdminCreateForClient(r.Context(), mux.Vars(r)["userId"], in)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

// Ranking handles GET /v1/admin/ranking?limit=N
func (h *AdminHandler) Ranking(w http.ResponseWriter, r *http.Request) {
	limit := int64(10)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 {
			writeAppError(w, apperr.Validation("limit", "limit must be a positive integer"))
			return
		}
		limit = n
	}

	ranking, err := h.scoringSvc.Ranking(r.Context(), limit)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ranking)
}
