// Package service implements the assessment workflow: section submission with
// approval locking, score aggregation, status derivation, and the
// lead/client review thread.
package service

import "securesphere/internal/model"

// latestOutcomes maps each response id to the most recent review-outcome
// comment attached to it. Replies in the thread are not outcomes and are
// ignored; a response whose latest outcome is approved is locked against
// resubmission.
func latestOutcomes(comments []*model.ReviewComment) map[string]*model.ReviewComment {
	latest := make(map[string]*model.ReviewComment)
	for _, c := range comments {
		if c.ResponseID == "" || !c.Status.IsReviewOutcome() {
			continue
		}
		if prev, ok := latest[c.ResponseID]; !ok || c.CreatedAt.After(prev.CreatedAt) {
			latest[c.ResponseID] = c
		}
	}
	return latest
}
