package model

import "time"

// CommentStatus is the review outcome or reply kind carried by a comment.
type CommentStatus string

const (
	CommentPending       CommentStatus = "pending"
	CommentApproved      CommentStatus = "approved"
	CommentNeedsRevision CommentStatus = "needs_revision"
	CommentRejected      CommentStatus = "rejected"
	CommentClientReply   CommentStatus = "client_reply"
	CommentLeadReply     CommentStatus = "lead_reply"
)

// IsReviewOutcome reports whether s is a lead review verdict rather than a
// reply in the thread.
func (s CommentStatus) IsReviewOutcome() bool {
	switch s {
	case CommentPending, CommentApproved, CommentNeedsRevision, CommentRejected:
		return true
	}
	return false
}

// RequiresClientAction reports whether the verdict sends the answer back to
// the client for revision.
func (s CommentStatus) RequiresClientAction() bool {
	return s == CommentRejected || s == CommentNeedsRevision
}

// ReviewComment is one message in the review thread for a response. A comment
// with no parent and a review-outcome status is a thread root authored by the
// lead; replies form a flat chain via ParentCommentID.
type ReviewComment struct {
	ID              string        `json:"id" bson:"_id,omitempty"`
	ResponseID      string        `json:"responseId,omitempty" bson:"responseId,omitempty"`
	LeadID          string        `json:"leadId" bson:"leadId"`
	ClientID        string        `json:"clientId" bson:"clientId"`
	ProductID       string        `json:"productId" bson:"productId"`
	Comment         string        `json:"comment" bson:"comment"`
	Status          CommentStatus `json:"status" bson:"status"`
	ParentCommentID string        `json:"parentCommentId,omitempty" bson:"parentCommentId,omitempty"`
	IsRead          bool          `json:"isRead" bson:"isRead"`
	CreatedAt       time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// ClientVisibleStatuses are the comment statuses that count toward a client's
// unread messages.
var ClientVisibleStatuses = []CommentStatus{
	CommentApproved, CommentNeedsRevision, CommentRejected, CommentLeadReply,
}
