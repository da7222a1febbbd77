package model

import "time"

// AssessmentStatus is the derived workflow state of a product's assessment.
type AssessmentStatus string

const (
	StatusInProgress          AssessmentStatus = "in_progress"
	StatusQuestionsDone       AssessmentStatus = "questions_done"
	StatusUnderReview         AssessmentStatus = "under_review"
	StatusReviewDone          AssessmentStatus = "review_done"
	StatusCompleted           AssessmentStatus = "completed"
	StatusNeedsClientResponse AssessmentStatus = "needs_client_response"
)

// ProductStatus is a derived cache of the workflow state for one
// product x user pair. It is recomputed wholesale from responses and review
// comments and is never authoritative.
type ProductStatus struct {
	ID             string           `json:"id" bson:"_id,omitempty"`
	ProductID      string           `json:"productId" bson:"productId"`
	UserID         string           `json:"userId" bson:"userId"`
	Status         AssessmentStatus `json:"status" bson:"status"`
	AnsweredCount  int              `json:"answeredCount" bson:"answeredCount"`
	TotalQuestions int              `json:"totalQuestions" bson:"totalQuestions"`
	LastUpdated    time.Time        `json:"lastUpdated" bson:"lastUpdated"`
}
