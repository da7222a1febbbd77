package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"securesphere/internal/apperr"
	"securesphere/internal/cache"
	"securesphere/internal/model"
	"securesphere/internal/repository"
)

// ProductService manages the products under assessment and the lead-facing
// review queue.
type ProductService struct {
	productRepo  repository.ProductRepo
	responseRepo repository.ResponseRepo
	commentRepo  repository.CommentRepo
	scoreRepo    repository.ScoreRepo
	statusRepo   repository.StatusRepo
	userRepo     repository.UserRepo
	statusCache  cache.StatusCache
	ranking      cache.RankingCache
	txn          repository.TxnRunner
	log          *slog.Logger
}

// NewProductService creates a product service.
func NewProductService(
	productRepo repository.ProductRepo,
	responseRepo repository.ResponseRepo,
	commentRepo repository.CommentRepo,
	scoreRepo repository.ScoreRepo,
	statusRepo repository.StatusRepo,
	userRepo repository.UserRepo,
	statusCache cache.StatusCache,
	ranking cache.RankingCache,
	txn repository.TxnRunner,
	log *slog.Logger,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		responseRepo: responseRepo,
		commentRepo:  commentRepo,
		scoreRepo:    scoreRepo,
		statusRepo:   statusRepo,
		userRepo:     userRepo,
		statusCache:  statusCache,
		ranking:      ranking,
		txn:          txn,
		log:          log,
	}
}

// ProductInput is a create/update form for a product.
type ProductInput struct {
	Name                string `json:"name"`
	Description         string `json:"description"`
	ProductURL          string `json:"productUrl"`
	ProgrammingLanguage string `json:"programmingLanguage"`
	CloudPlatform       string `json:"cloudPlatform"`
	CICDPlatform        string `json:"cicdPlatform"`
	AdditionalDetails   string `json:"additionalDetails"`
}

func (in ProductInput) validate() error {
	for field, value := range map[string]string{
		"name":                in.Name,
		"productUrl":          in.ProductURL,
		"programmingLanguage": in.ProgrammingLanguage,
		"cloudPlatform":       in.CloudPlatform,
		"cicdPlatform":        in.CICDPlatform,
	} {
		if strings.TrimSpace(value) == "" {
			return apperr.Validation(field, field+" is required")
		}
	}
	return nil
}

// Create registers a new product owned by the given client.
func (s *ProductService) Create(ctx context.Context, ownerID string, in ProductInput) (*model.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:                strings.TrimSpace(in.Name),
		Description:         in.Description,
		ProductURL:          in.ProductURL,
		ProgrammingLanguage: in.ProgrammingLanguage,
		CloudPlatform:       in.CloudPlatform,
		CICDPlatform:        in.CICDPlatform,
		AdditionalDetails:   in.AdditionalDetails,
		OwnerID:             ownerID,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.log.Info("product created", "product", product.ID, "owner", ownerID)
	return product, nil
}

// Get loads a product, enforcing that clients see only their own.
func (s *ProductService) Get(ctx context.Context, userID string, role model.Role, productID string) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	if product == nil {
		return nil, apperr.NotFound("product", productID)
	}
	if role == model.RoleClient && product.OwnerID != userID {
		return nil, apperr.Unauthorized(userID, "product "+productID)
	}
	return product, nil
}

// ListForClient returns the client's own products.
func (s *ProductService) ListForClient(ctx context.Context, clientID string) ([]*model.Product, error) {
	return s.productRepo.ListByOwner(ctx, clientID)
}

// ListAll returns every product. Lead and superuser only.
func (s *ProductService) ListAll(ctx context.Context) ([]*model.Product, error) {
	return s.productRepo.List(ctx)
}

// Update applies a product form, enforcing ownership for clients.
func (s *ProductService) Update(ctx context.Context, userID string, role model.Role, productID string, in ProductInput) (*model.Product, error) {
	product, err := s.Get(ctx, userID, role, productID)
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	product.Name = strings.TrimSpace(in.Name)
	product.Description = in.Description
	product.ProductURL = in.ProductURL
	product.ProgrammingLanguage = in.ProgrammingLanguage
	product.CloudPlatform = in.CloudPlatform
	product.CICDPlatform = in.CICDPlatform
	product.AdditionalDetails = in.AdditionalDetails

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return product, nil
}

// AdminCreateForClient lets a superuser register a product on behalf of a
// client account.
func (s *ProductService) AdminCreateForClient(ctx context.Context, clientID string, in ProductInput) (*model.Product, error) {
	owner, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("load owner: %w", err)
	}
	if owner == nil {
		return nil, apperr.NotFound("user", clientID)
	}
	if owner.Role != model.RoleClient {
		return nil, apperr.Validation("ownerId", "products can only be assigned to client accounts")
	}
	return s.Create(ctx, clientID, in)
}

// Delete removes a product and everything derived from it: responses,
// comments, score snapshots, workflow status, caches, and the ranking entry.
func (s *ProductService) Delete(ctx context.Context, userID string, role model.Role, productID string) error {
	product, err := s.Get(ctx, userID, role, productID)
	if err != nil {
		return err
	}

	err = s.txn.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.responseRepo.DeleteByProduct(ctx, productID); err != nil {
			return fmt.Errorf("delete responses: %w", err)
		}
		if err := s.commentRepo.DeleteByProduct(ctx, productID); err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		if err := s.scoreRepo.DeleteByProductUser(ctx, productID, product.OwnerID); err != nil {
			return fmt.Errorf("delete score snapshots: %w", err)
		}
		if err := s.statusRepo.Delete(ctx, productID, product.OwnerID); err != nil {
			return fmt.Errorf("delete status: %w", err)
		}
		return s.productRepo.Delete(ctx, productID)
	})
	if err != nil {
		return err
	}

	if err := s.statusCache.Invalidate(ctx, productID, product.OwnerID); err != nil {
		s.log.Warn("status cache invalidation failed", "product", productID, "error", err)
	}
	if err := s.ranking.Remove(ctx, productID); err != nil {
		s.log.Warn("ranking removal failed", "product", productID, "error", err)
	}

	s.log.Info("product deleted", "product", productID, "by", userID)
	return nil
}

// QueueEntry is one assessment awaiting lead review.
type QueueEntry struct {
	Product *model.Product       `json:"product"`
	Owner   *model.User          `json:"owner"`
	Status  *model.ProductStatus `json:"status"`
}

// ReviewQueue lists assessments whose questionnaires are complete and that
// still need lead attention, newest activity first.
func (s *ProductService) ReviewQueue(ctx context.Context) ([]*QueueEntry, error) {
	statuses, err := s.statusRepo.ListByStatus(ctx,
		model.StatusQuestionsDone,
		model.StatusUnderReview,
		model.StatusNeedsClientResponse,
	)
	if err != nil {
		return nil, fmt.Errorf("list statuses: %w", err)
	}

	entries := make([]*QueueEntry, 0, len(statuses))
	for _, st := range statuses {
		product, err := s.productRepo.GetByID(ctx, st.ProductID)
		if err != nil || product == nil {
			s.log.Warn("queue entry without product", "product", st.ProductID)
			continue
		}
		owner, err := s.userRepo.GetByID(ctx, st.UserID)
		if err != nil || owner == nil {
			s.log.Warn("queue entry without owner", "user", st.UserID)
			continue
		}
		entries = append(entries, &QueueEntry{Product: product, Owner: owner, Status: st})
	}
	return entries, nil
}
