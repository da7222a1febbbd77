package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"securesphere/internal/catalog"
	"securesphere/internal/model"
	"securesphere/internal/repository"
	"securesphere/internal/service"
	"securesphere/internal/storage"
	"securesphere/internal/transport/rest/handler"
	"securesphere/internal/transport/rest/middleware"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService     *service.AuthService
	ProductService  *service.ProductService
	ResponseService *service.ResponseService
	ScoringService  *service.ScoringService
	StatusService   *service.StatusService
	ReviewService   *service.ReviewService
	InviteService   *service.InviteService
	UserRepo        repository.UserRepo
	Files           storage.FileStore
	Catalog         *catalog.Catalog
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	productHandler := handler.NewProductHandler(c.ProductService)
	assessmentHandler := handler.NewAssessmentHandler(c.ResponseService, c.ScoringService, c.StatusService, c.ProductService, c.Files, c.Catalog)
	reviewHandler := handler.NewReviewHandler(c.ReviewService)
	adminHandler := handler.NewAdminHandler(c.InviteService, c.ProductService, c.ScoringService, c.UserRepo)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Authenticated routes (any role)
	authed := v1.NewRoute().Subrouter()
	authed.Use(authMW.RequireAuth)

	authed.HandleFunc("/auth/me", authHandler.Me).Methods("GET", "OPTIONS")
	authed.HandleFunc("/auth/password", authHandler.ChangePassword).Methods("POST", "OPTIONS")
	authed.HandleFunc("/catalog/sections", assessmentHandler.Sections).Methods("GET", "OPTIONS")
	authed.HandleFunc("/catalog/sections/{section}", assessmentHandler.Questions).Methods("GET", "OPTIONS")
	authed.HandleFunc("/products", productHandler.List).Methods("GET", "OPTIONS")
	authed.HandleFunc("/products/{productId}", productHandler.Get).Methods("GET", "OPTIONS")
	authed.HandleFunc("/products/{productId}/responses", assessmentHandler.Responses).Methods("GET", "OPTIONS")
	authed.HandleFunc("/products/{productId}/status", assessmentHandler.Status).Methods("GET", "OPTIONS")
	authed.HandleFunc("/products/{productId}/heatmap", assessmentHandler.HeatMap).Methods("GET", "OPTIONS")
	authed.HandleFunc("/products/{productId}/scores", assessmentHandler.Snapshots).Methods("GET", "OPTIONS")
	authed.HandleFunc("/comments/unread", reviewHandler.UnreadCount).Methods("GET", "OPTIONS")
	authed.HandleFunc("/comments/{commentId}/thread", reviewHandler.Thread).Methods("GET", "OPTIONS")
	authed.HandleFunc("/comments/{commentId}/read", reviewHandler.MarkRead).Methods("POST", "OPTIONS")
	authed.HandleFunc("/evidence/{ref}", assessmentHandler.Evidence).Methods("GET", "OPTIONS")

	// Client routes
	clientRoutes := v1.NewRoute().Subrouter()
	clientRoutes.Use(authMW.RequireRole(model.RoleClient))

	clientRoutes.HandleFunc("/products", productHandler.Create).Methods("POST", "OPTIONS")
	clientRoutes.HandleFunc("/products/{productId}", productHandler.Update).Methods("PUT", "OPTIONS")
	clientRoutes.HandleFunc("/products/{productId}/sections/{section}", assessmentHandler.SubmitSection).Methods("POST", "OPTIONS")
	clientRoutes.HandleFunc("/products/{productId}/sections/{section}", assessmentHandler.SectionResponses).Methods("GET", "OPTIONS")
	clientRoutes.HandleFunc("/comments", reviewHandler.ClientComments).Methods("GET", "OPTIONS")
	clientRoutes.HandleFunc("/comments/{commentId}/reply", reviewHandler.ClientReply).Methods("POST", "OPTIONS")

	// Lead routes
	leadRoutes := v1.NewRoute().Subrouter()
	leadRoutes.Use(authMW.RequireRole(model.RoleLead, model.RoleSuperuser))

	leadRoutes.HandleFunc("/review/queue", productHandler.ReviewQueue).Methods("GET", "OPTIONS")
	leadRoutes.HandleFunc("/review/replies", reviewHandler.ClientReplies).Methods("GET", "OPTIONS")
	leadRoutes.HandleFunc("/responses/{responseId}/review", reviewHandler.Review).Methods("POST", "OPTIONS")
	leadRoutes.HandleFunc("/comments/{commentId}/lead-reply", reviewHandler.LeadReply).Methods("POST", "OPTIONS")

	// Superuser routes
	adminRoutes := v1.NewRoute().Subrouter()
	adminRoutes.Use(authMW.RequireRole(model.RoleSuperuser))

	adminRoutes.HandleFunc("/admin/invitations", adminHandler.Invite).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/admin/invitations", adminHandler.ListInvitations).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/admin/invitations/{invitationId}", adminHandler.RevokeInvitation).Methods("DELETE", "OPTIONS")
	adminRoutes.HandleFunc("/admin/users", adminHandler.ListUsers).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/admin/users/{userId}/products", adminHandler.CreateProductForClient).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/admin/ranking", adminHandler.Ranking).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/admin/products/{productId}", productHandler.Delete).Methods("DELETE", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
