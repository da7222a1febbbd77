package service

import (
	"context"
	"fmt"
	"log/slog"

	"securesphere/internal/apperr"
	"securesphere/internal/cache"
	"securesphere/internal/model"
	"securesphere/internal/repository"
	"securesphere/internal/storage"
)

// ReviewService drives the two-party review workflow: lead verdicts on
// responses, the flat reply chain under each verdict, and role-scoped
// read-state tracking.
type ReviewService struct {
	commentRepo  repository.CommentRepo
	responseRepo repository.ResponseRepo
	txn          repository.TxnRunner
	files        storage.FileStore
	unread       cache.UnreadCache
	scoring      *ScoringService
	status       *StatusService
	log          *slog.Logger
}

// NewReviewService creates a review service.
func NewReviewService(
	commentRepo repository.CommentRepo,
	responseRepo repository.ResponseRepo,
	txn repository.TxnRunner,
	files storage.FileStore,
	unread cache.UnreadCache,
	scoring *ScoringService,
	status *StatusService,
	log *slog.Logger,
) *ReviewService {
	return &ReviewService{
		commentRepo:  commentRepo,
		responseRepo: responseRepo,
		txn:          txn,
		files:        files,
		unread:       unread,
		scoring:      scoring,
		status:       status,
		log:          log,
	}
}

// ReviewResponse records a lead's verdict on one response as a thread root
// comment. A rejected or needs-revision verdict reopens the response for the
// client and forces the assessment into needs_client_response until the
// client resubmits that question.
func (s *ReviewService) ReviewResponse(ctx context.Context, leadID, responseID, text string, outcome model.CommentStatus) (*model.ReviewComment, error) {
	if !outcome.IsReviewOutcome() {
		return nil, apperr.Validation("status", fmt.Sprintf("%q is not a review outcome", outcome))
	}
	if text == "" {
		return nil, apperr.Validation("comment", "comment text is required")
	}

	resp, err := s.responseRepo.GetByID(ctx, responseID)
	if err != nil {
		return nil, fmt.Errorf("load response: %w", err)
	}
	if resp == nil {
		return nil, apperr.NotFound("response", responseID)
	}

	comment := &model.ReviewComment{
		ResponseID: responseID,
		LeadID:     leadID,
		ClientID:   resp.UserID,
		ProductID:  resp.ProductID,
		Comment:    text,
		Status:     outcome,
	}

	err = s.txn.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.commentRepo.Create(ctx, comment); err != nil {
			return fmt.Errorf("create comment: %w", err)
		}

		if outcome.RequiresClientAction() {
			resp.IsReviewed = false
			resp.NeedsClientResponse = true
		} else {
			resp.IsReviewed = true
			resp.NeedsClientResponse = false
		}
		if err := s.responseRepo.Update(ctx, resp); err != nil {
			return fmt.Errorf("update response: %w", err)
		}

		if err := s.scoring.RecomputeSnapshots(ctx, resp.ProductID, resp.UserID); err != nil {
			return err
		}
		_, err := s.status.Recompute(ctx, resp.ProductID, resp.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidateUnread(ctx, resp.UserID)
	return comment, nil
}

// ClientReply appends the client's turn under a parent comment. A client may
// hold at most one outstanding reply per parent; a second attempt is rejected
// as a duplicate. Fresh evidence attached to the reply also updates the
// original response and clears its needs-client-response flag.
func (s *ReviewService) ClientReply(ctx context.Context, clientID, parentID, text string, evidence *model.EvidenceBlob) (*model.ReviewComment, error) {
	if text == "" {
		return nil, apperr.Validation("reply", "reply text is required")
	}

	parent, err := s.commentRepo.GetByID(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("load parent comment: %w", err)
	}
	if parent == nil {
		return nil, apperr.NotFound("comment", parentID)
	}
	if parent.ClientID != clientID {
		return nil, apperr.Unauthorized(clientID, "comment "+parentID)
	}

	existing, err := s.commentRepo.FindReply(ctx, parentID, "clientId", clientID, model.CommentClientReply)
	if err != nil {
		return nil, fmt.Errorf("check existing reply: %w", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("you have already replied to this comment")
	}

	// Evidence is stored outside the transaction; a rejected extension fails
	// only the attachment, not the reply.
	evidenceRef := ""
	if evidence != nil && len(evidence.Data) > 0 {
		ref, err := s.files.Store(evidence.Data, evidence.Filename)
		if err != nil {
			if !apperr.IsValidation(err) {
				return nil, fmt.Errorf("store evidence: %w", err)
			}
			s.log.Warn("reply evidence rejected", "comment", parentID, "error", err)
		} else {
			evidenceRef = ref
		}
	}

	reply := &model.ReviewComment{
		ResponseID:      parent.ResponseID,
		LeadID:          parent.LeadID,
		ClientID:        clientID,
		ProductID:       parent.ProductID,
		Comment:         text,
		Status:          model.CommentClientReply,
		ParentCommentID: parentID,
	}

	err = s.txn.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.commentRepo.Create(ctx, reply); err != nil {
			return fmt.Errorf("create reply: %w", err)
		}

		if evidenceRef != "" && parent.ResponseID != "" {
			resp, err := s.responseRepo.GetByID(ctx, parent.ResponseID)
			if err != nil {
				return fmt.Errorf("load response: %w", err)
			}
			if resp != nil {
				resp.EvidencePath = evidenceRef
				resp.ClientComment = text
				resp.NeedsClientResponse = false
				if err := s.responseRepo.Update(ctx, resp); err != nil {
					return fmt.Errorf("update response: %w", err)
				}
				if _, err := s.status.Recompute(ctx, resp.ProductID, resp.UserID); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateUnread(ctx, parent.LeadID)
	return reply, nil
}

// LeadReply appends the lead's turn under a client reply, with the symmetric
// one-outstanding-reply guard.
func (s *ReviewService) LeadReply(ctx context.Context, leadID, parentID, text string) (*model.ReviewComment, error) {
	if text == "" {
		return nil, apperr.Validation("reply", "reply text is required")
	}

	parent, err := s.commentRepo.GetByID(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("load parent comment: %w", err)
	}
	if parent == nil {
		return nil, apperr.NotFound("comment", parentID)
	}
	if parent.LeadID != leadID {
		return nil, apperr.Unauthorized(leadID, "comment "+parentID)
	}

	existing, err := s.commentRepo.FindReply(ctx, parentID, "leadId", leadID, model.CommentLeadReply)
	if err != nil {
		return nil, fmt.Errorf("check existing reply: %w", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("you have already replied to this message")
	}

	reply := &model.ReviewComment{
		ResponseID:      parent.ResponseID,
		LeadID:          leadID,
		ClientID:        parent.ClientID,
		ProductID:       parent.ProductID,
		Comment:         text,
		Status:          model.CommentLeadReply,
		ParentCommentID: parentID,
	}
	if err := s.commentRepo.Create(ctx, reply); err != nil {
		return nil, fmt.Errorf("create reply: %w", err)
	}

	s.invalidateUnread(ctx, parent.ClientID)
	return reply, nil
}

// Thread returns the root comment plus its direct replies, oldest first,
// after re-validating that the caller belongs to the thread.
func (s *ReviewService) Thread(ctx context.Context, userID string, role model.Role, rootID string) ([]*model.ReviewComment, error) {
	root, err := s.commentRepo.GetByID(ctx, rootID)
	if err != nil {
		return nil, fmt.Errorf("load thread root: %w", err)
	}
	if root == nil {
		return nil, apperr.NotFound("comment", rootID)
	}
	if err := s.authorizeThread(userID, role, root); err != nil {
		return nil, err
	}
	return s.commentRepo.ListThread(ctx, rootID)
}

// MarkThreadRead flips the unread flag on the root and its direct replies
// that are addressed to the caller's role. Returns how many were marked.
func (s *ReviewService) MarkThreadRead(ctx context.Context, userID string, role model.Role, rootID string) (int64, error) {
	root, err := s.commentRepo.GetByID(ctx, rootID)
	if err != nil {
		return 0, fmt.Errorf("load thread root: %w", err)
	}
	if root == nil {
		return 0, apperr.NotFound("comment", rootID)
	}
	if err := s.authorizeThread(userID, role, root); err != nil {
		return 0, err
	}

	thread, err := s.commentRepo.ListThread(ctx, rootID)
	if err != nil {
		return 0, err
	}

	var ids []string
	for _, c := range thread {
		if !c.IsRead && addressedTo(c, userID, role) {
			ids = append(ids, c.ID)
		}
	}
	marked, err := s.commentRepo.MarkRead(ctx, ids)
	if err != nil {
		return 0, err
	}

	s.invalidateUnread(ctx, userID)
	return marked, nil
}

// UnreadCount returns the role-scoped unread message count, serving from the
// cache when warm.
func (s *ReviewService) UnreadCount(ctx context.Context, userID string, role model.Role) (int64, error) {
	if count, ok, err := s.unread.Get(ctx, userID, role); err == nil && ok {
		return count, nil
	}

	var count int64
	var err error
	switch role {
	case model.RoleClient:
		count, err = s.commentRepo.CountUnreadForClient(ctx, userID)
	case model.RoleLead:
		count, err = s.commentRepo.CountUnreadForLead(ctx, userID)
	default:
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	if err := s.unread.Set(ctx, userID, role, count); err != nil {
		s.log.Warn("unread cache update failed", "userId", userID, "error", err)
	}
	return count, nil
}

// CommentsForClient lists every comment addressed to a client, oldest first.
func (s *ReviewService) CommentsForClient(ctx context.Context, clientID string) ([]*model.ReviewComment, error) {
	return s.commentRepo.ListByClient(ctx, clientID)
}

// ClientRepliesForLead lists the client replies waiting on a lead.
func (s *ReviewService) ClientRepliesForLead(ctx context.Context, leadID string) ([]*model.ReviewComment, error) {
	return s.commentRepo.ListByLeadStatus(ctx, leadID, model.CommentClientReply)
}

func (s *ReviewService) authorizeThread(userID string, role model.Role, root *model.ReviewComment) error {
	switch role {
	case model.RoleClient:
		if root.ClientID != userID {
			return apperr.Unauthorized(userID, "comment "+root.ID)
		}
	case model.RoleLead:
		if root.LeadID != userID {
			return apperr.Unauthorized(userID, "comment "+root.ID)
		}
	case model.RoleSuperuser:
		// Admins may inspect any thread.
	default:
		return apperr.Unauthorized(userID, "comment "+root.ID)
	}
	return nil
}

// addressedTo reports whether a comment counts as unread mail for the caller.
func addressedTo(c *model.ReviewComment, userID string, role model.Role) bool {
	switch role {
	case model.RoleClient:
		if c.ClientID != userID {
			return false
		}
		for _, s := range model.ClientVisibleStatuses {
			if c.Status == s {
				return true
			}
		}
		return false
	case model.RoleLead:
		return c.LeadID == userID && c.Status == model.CommentClientReply
	}
	return false
}

func (s *ReviewService) invalidateUnread(ctx context.Context, userIDs ...string) {
	if err := s.unread.Invalidate(ctx, userIDs...); err != nil {
		s.log.Warn("unread cache invalidation failed", "error", err)
	}
}
