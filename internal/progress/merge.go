// Package progress records quiz results. A user's stored score for a quiz
// never decreases.
package progress

import "github.com/farmwise/backend/internal/models"

// Merge folds a new submission into the stored row. The best score wins and
// completed is overwritten only when supplied. changed is false when the
// submission adds nothing.
func Merge(existing models.UserProgress, score int, completed *bool) (next models.UserProgress, changed bool) {
	next = existing
	if score > next.Score {
		next.Score = score
	}
	if completed != nil {
		next.Completed = *completed
	}
	return next, next.Score != existing.Score || next.Completed != existing.Completed
}
