package service

import (
	"context"
	"fmt"
	"log/slog"

	"securesphere/internal/cache"
	"securesphere/internal/catalog"
	"securesphere/internal/model"
	"securesphere/internal/repository"
)

// StatusService derives the workflow status of a product's assessment. The
// status is a pure function of the stored responses and review comments; it
// is recomputed wholesale after every relevant mutation, never patched.
type StatusService struct {
	responseRepo repository.ResponseRepo
	commentRepo  repository.CommentRepo
	statusRepo   repository.StatusRepo
	statusCache  cache.StatusCache
	catalog      *catalog.Catalog
	log          *slog.Logger
}

// NewStatusService creates a status service.
func NewStatusService(
	responseRepo repository.ResponseRepo,
	commentRepo repository.CommentRepo,
	statusRepo repository.StatusRepo,
	statusCache cache.StatusCache,
	cat *catalog.Catalog,
	log *slog.Logger,
) *StatusService {
	return &StatusService{
		responseRepo: responseRepo,
		commentRepo:  commentRepo,
		statusRepo:   statusRepo,
		statusCache:  statusCache,
		catalog:      cat,
		log:          log,
	}
}

// StatusInput is the full observable state the status derivation depends on.
type StatusInput struct {
	AnsweredCount          int
	ReviewedCount          int
	TotalQuestions         int
	AnyNeedsClientResponse bool
	AllApproved            bool
}

// DeriveStatus evaluates the workflow state machine. The needs-client-response
// flag overrides everything; the remaining rules are evaluated top to bottom.
func DeriveStatus(in StatusInput) model.AssessmentStatus {
	switch {
	case in.AnyNeedsClientResponse:
		return model.StatusNeedsClientResponse
	case in.AnsweredCount == 0:
		return model.StatusInProgress
	case in.AnsweredCount == in.TotalQuestions && in.ReviewedCount == 0:
		return model.StatusQuestionsDone
	case in.ReviewedCount > 0 && in.ReviewedCount < in.AnsweredCount:
		return model.StatusUnderReview
	case in.ReviewedCount == in.AnsweredCount && in.AnsweredCount == in.TotalQuestions:
		if in.AllApproved {
			return model.StatusCompleted
		}
		return model.StatusReviewDone
	default:
		return model.StatusInProgress
	}
}

// Recompute rebuilds the ProductStatus for one product x user pair from the
// current responses and comments, persists it, and refreshes the cache.
func (s *StatusService) Recompute(ctx context.Context, productID, userID string) (*model.ProductStatus, error) {
	responses, err := s.responseRepo.ListByProductUser(ctx, productID, userID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}

	ids := make([]string, len(responses))
	for i, r := range responses {
		ids[i] = r.ID
	}
	comments, err := s.commentRepo.ListByResponseIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	latest := latestOutcomes(comments)

	in := StatusInput{
		AnsweredCount:  len(responses),
		TotalQuestions: s.catalog.TotalQuestions(),
		AllApproved:    len(responses) > 0,
	}
	for _, r := range responses {
		if r.IsReviewed {
			in.ReviewedCount++
		}
		if r.NeedsClientResponse {
			in.AnyNeedsClientResponse = true
		}
		if c := latest[r.ID]; c == nil || c.Status != model.CommentApproved {
			in.AllApproved = false
		}
	}

	status := &model.ProductStatus{
		ProductID:      productID,
		UserID:         userID,
		Status:         DeriveStatus(in),
		AnsweredCount:  in.AnsweredCount,
		TotalQuestions: in.TotalQuestions,
	}
	if err := s.statusRepo.Upsert(ctx, status); err != nil {
		return nil, fmt.Errorf("store status: %w", err)
	}

	if err := s.statusCache.Set(ctx, status); err != nil {
		s.log.Warn("status cache update failed", "productId", productID, "error", err)
	}
	return status, nil
}

// Get returns the current status, serving from cache when possible and
// recomputing if no status has ever been stored.
func (s *StatusService) Get(ctx context.Context, productID, userID string) (*model.ProductStatus, error) {
	if cached, err := s.statusCache.Get(ctx, productID, userID); err == nil && cached != nil {
		return cached, nil
	}

	status, err := s.statusRepo.Get(ctx, productID, userID)
	if err != nil {
		return nil, err
	}
	if status == nil {
		return s.Recompute(ctx, productID, userID)
	}
	if err := s.statusCache.Set(ctx, status); err != nil {
		s.log.Warn("status cache update failed", "productId", productID, "error", err)
	}
	return status, nil
}
