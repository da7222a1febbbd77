package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"securesphere/internal/apperr"
	"securesphere/internal/catalog"
	"securesphere/internal/model"
	"securesphere/internal/repository"
	"securesphere/internal/storage"
)

// ResponseService implements the section submission protocol: existing
// responses are partitioned into locked (latest review comment approved) and
// unlocked; unlocked ones are replaced by the submitted answers, locked ones
// are left untouched in every field.
type ResponseService struct {
	responseRepo repository.ResponseRepo
	commentRepo  repository.CommentRepo
	productRepo  repository.ProductRepo
	txn          repository.TxnRunner
	files        storage.FileStore
	scoring      *ScoringService
	status       *StatusService
	catalog      *catalog.Catalog
	log          *slog.Logger
}

// NewResponseService creates a response service.
func NewResponseService(
	responseRepo repository.ResponseRepo,
	commentRepo repository.CommentRepo,
	productRepo repository.ProductRepo,
	txn repository.TxnRunner,
	files storage.FileStore,
	scoring *ScoringService,
	status *StatusService,
	cat *catalog.Catalog,
	log *slog.Logger,
) *ResponseService {
	return &ResponseService{
		responseRepo: responseRepo,
		commentRepo:  commentRepo,
		productRepo:  productRepo,
		txn:          txn,
		files:        files,
		scoring:      scoring,
		status:       status,
		catalog:      cat,
		log:          log,
	}
}

// SubmitResult reports what a section submission did.
type SubmitResult struct {
	Inserted       int                  `json:"inserted"`
	SkippedLocked  int                  `json:"skippedLocked"`
	EvidenceErrors map[string]string    `json:"evidenceErrors,omitempty"`
	Status         *model.ProductStatus `json:"status"`
}

// SubmitSection replaces a client's answers for one section. Approved
// responses are never touched; evidence uploads with disallowed extensions
// are reported per slot but do not fail the submission; the read-modify-write
// runs in one transaction, with derived scores and status recomputed inside
// it.
func (s *ResponseService) SubmitSection(ctx context.Context, clientID, productID, section string, answers []model.SectionAnswer) (*SubmitResult, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	if product == nil {
		return nil, apperr.NotFound("product", productID)
	}
	if product.OwnerID != clientID {
		return nil, apperr.Unauthorized(clientID, "product "+productID)
	}
	if !slices.Contains(s.catalog.OrderedSections(), section) {
		return nil, apperr.Validation("section", fmt.Sprintf("unknown section %q", section))
	}

	// Evidence files are stored before the transaction; storage failures must
	// not roll back the submission.
	evidenceRefs := make(map[string]string)
	result := &SubmitResult{}
	for _, a := range answers {
		if a.Evidence == nil || len(a.Evidence.Data) == 0 {
			continue
		}
		ref, err := s.files.Store(a.Evidence.Data, a.Evidence.Filename)
		if err != nil {
			if apperr.IsValidation(err) {
				if result.EvidenceErrors == nil {
					result.EvidenceErrors = make(map[string]string)
				}
				result.EvidenceErrors[a.Question] = err.Error()
				s.log.Warn("evidence upload rejected", "question", a.Question, "error", err)
				continue
			}
			return nil, fmt.Errorf("store evidence: %w", err)
		}
		evidenceRefs[a.Question] = ref
	}

	err = s.txn.WithTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.responseRepo.ListBySection(ctx, productID, clientID, section)
		if err != nil {
			return fmt.Errorf("list existing responses: %w", err)
		}

		ids := make([]string, len(existing))
		byQuestion := make(map[string]*model.Response, len(existing))
		for i, r := range existing {
			ids[i] = r.ID
			byQuestion[r.Question] = r
		}
		comments, err := s.commentRepo.ListByResponseIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("list comments: %w", err)
		}
		latest := latestOutcomes(comments)

		locked := make(map[string]bool)
		var toDelete []string
		for _, r := range existing {
			if c := latest[r.ID]; c != nil && c.Status == model.CommentApproved {
				locked[r.Question] = true
			} else {
				toDelete = append(toDelete, r.ID)
			}
		}
		if err := s.responseRepo.DeleteByIDs(ctx, toDelete); err != nil {
			return fmt.Errorf("delete superseded responses: %w", err)
		}

		result.Inserted = 0
		result.SkippedLocked = 0
		for _, a := range answers {
			if locked[a.Question] {
				result.SkippedLocked++
				continue
			}
			if a.Answer == "" {
				continue
			}

			evidence := evidenceRefs[a.Question]
			if evidence == "" {
				if prev, ok := byQuestion[a.Question]; ok {
					evidence = prev.EvidencePath
				}
			}

			raw := s.catalog.ScoreFor(section, a.Question, a.Answer)
			resp := &model.Response{
				UserID:        clientID,
				ProductID:     productID,
				Section:       section,
				Question:      a.Question,
				QuestionIndex: a.QuestionIndex,
				Answer:        a.Answer,
				ClientComment: a.Comment,
				EvidencePath:  evidence,
				Score:         raw * 20,
				MaxScore:      100,
			}
			if err := s.responseRepo.Create(ctx, resp); err != nil {
				return fmt.Errorf("insert response: %w", err)
			}
			result.Inserted++
		}

		if err := s.scoring.RecomputeSnapshots(ctx, productID, clientID); err != nil {
			return err
		}
		status, err := s.status.Recompute(ctx, productID, clientID)
		if err != nil {
			return err
		}
		result.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SectionResponses returns the client's current responses for one section.
func (s *ResponseService) SectionResponses(ctx context.Context, clientID, productID, section string) ([]*model.Response, error) {
	return s.responseRepo.ListBySection(ctx, productID, clientID, section)
}

// AllResponses returns every current response for a product x user pair.
func (s *ResponseService) AllResponses(ctx context.Context, productID, userID string) ([]*model.Response, error) {
	return s.responseRepo.ListByProductUser(ctx, productID, userID)
}
