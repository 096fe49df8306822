package performance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

type Service struct {
	store StoreAPI
	now   func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func normalize(r *Review) {
	r.EmployeeID = strings.TrimSpace(r.EmployeeID)
	r.ReviewPeriod = strings.TrimSpace(r.ReviewPeriod)
	r.ReviewerID = strings.TrimSpace(r.ReviewerID)
	r.Status = strings.TrimSpace(r.Status)
}

func validateRatings(r Review) error {
	names := []string{"overallRating", "qualityRating", "productivityRating", "teamworkRating", "communicationRating", "initiativeRating"}
	for i, rating := range r.ratings() {
		if rating != nil && (*rating < MinRating || *rating > MaxRating) {
			return invalid(fmt.Sprintf("%s must be between %d and %d", names[i], MinRating, MaxRating))
		}
	}
	return nil
}

func (s *Service) ensureEmployee(ctx context.Context, id string, notFound error) error {
	exists, err := s.store.EmployeeExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return notFound
	}
	return nil
}

// Create records a new review. The employee and reviewer must both exist and
// an employee gets at most one review per period.
func (s *Service) Create(ctx context.Context, r Review) (Review, error) {
	normalize(&r)
	if r.EmployeeID == "" {
		return Review{}, invalid("employeeId is required")
	}
	if r.ReviewPeriod == "" {
		return Review{}, invalid("reviewPeriod is required")
	}
	if r.Status == "" {
		r.Status = StatusDraft
	}
	if !validStatus(r.Status) {
		return Review{}, invalid("status is not a known review status")
	}
	if err := validateRatings(r); err != nil {
		return Review{}, err
	}
	if err := s.ensureEmployee(ctx, r.EmployeeID, ErrEmployeeNotFound); err != nil {
		return Review{}, err
	}
	if r.ReviewerID != "" {
		if err := s.ensureEmployee(ctx, r.ReviewerID, ErrReviewerNotFound); err != nil {
			return Review{}, err
		}
	}

	_, err := s.store.GetByEmployeePeriod(ctx, r.EmployeeID, r.ReviewPeriod)
	switch {
	case err == nil:
		return Review{}, ErrDuplicatePeriod
	case !errors.Is(err, ErrReviewNotFound):
		return Review{}, err
	}

	created, err := s.store.Create(ctx, r)
	if err != nil {
		return Review{}, err
	}
	return created.withAverage(), nil
}

// Update copies the editable fields of r onto the stored review. Employee and
// period are fixed once created.
func (s *Service) Update(ctx context.Context, id string, r Review) (Review, error) {
	normalize(&r)
	if r.Status != "" && !validStatus(r.Status) {
		return Review{}, invalid("status is not a known review status")
	}
	if err := validateRatings(r); err != nil {
		return Review{}, err
	}
	if r.ReviewerID != "" {
		if err := s.ensureEmployee(ctx, r.ReviewerID, ErrReviewerNotFound); err != nil {
			return Review{}, err
		}
	}
	updated, err := s.store.Update(ctx, id, func(cur *Review) error {
		if r.ReviewerID != "" {
			cur.ReviewerID = r.ReviewerID
		}
		cur.OverallRating = r.OverallRating
		cur.QualityRating = r.QualityRating
		cur.ProductivityRating = r.ProductivityRating
		cur.TeamworkRating = r.TeamworkRating
		cur.CommunicationRating = r.CommunicationRating
		cur.InitiativeRating = r.InitiativeRating
		cur.Strengths = r.Strengths
		cur.AreasForImprovement = r.AreasForImprovement
		cur.Goals = r.Goals
		cur.EmployeeComments = r.EmployeeComments
		cur.ReviewerComments = r.ReviewerComments
		if r.Status != "" {
			cur.Status = r.Status
		}
		cur.ReviewDate = r.ReviewDate
		cur.NextReviewDate = r.NextReviewDate
		return nil
	})
	if err != nil {
		return Review{}, err
	}
	return updated.withAverage(), nil
}

func (s *Service) transition(ctx context.Context, id, status string, extra func(*Review)) (Review, error) {
	now := s.now()
	updated, err := s.store.Update(ctx, id, func(cur *Review) error {
		cur.Status = status
		cur.ReviewDate = &now
		if extra != nil {
			extra(cur)
		}
		return nil
	})
	if err != nil {
		return Review{}, err
	}
	return updated.withAverage(), nil
}

func (s *Service) Submit(ctx context.Context, id string) (Review, error) {
	return s.transition(ctx, id, StatusSubmitted, nil)
}

// Approve marks the review approved. A non-empty approverID must name an
// employee and is recorded as the reviewer.
func (s *Service) Approve(ctx context.Context, id, approverID string) (Review, error) {
	approverID = strings.TrimSpace(approverID)
	if approverID != "" {
		if err := s.ensureEmployee(ctx, approverID, ErrReviewerNotFound); err != nil {
			return Review{}, err
		}
	}
	return s.transition(ctx, id, StatusApproved, func(cur *Review) {
		if approverID != "" {
			cur.ReviewerID = approverID
		}
	})
}

func (s *Service) AddEmployeeComments(ctx context.Context, id, comments string) (Review, error) {
	comments = strings.TrimSpace(comments)
	if comments == "" {
		return Review{}, invalid("comments are required")
	}
	updated, err := s.store.Update(ctx, id, func(cur *Review) error {
		cur.EmployeeComments = comments
		cur.Status = StatusEmployeeCommented
		return nil
	})
	if err != nil {
		return Review{}, err
	}
	return updated.withAverage(), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

func (s *Service) Get(ctx context.Context, id string) (Review, error) {
	r, err := s.store.Get(ctx, id)
	if err != nil {
		return Review{}, err
	}
	return r.withAverage(), nil
}

func withAverages(reviews []Review, err error) ([]Review, error) {
	if err != nil {
		return nil, err
	}
	for i := range reviews {
		reviews[i] = reviews[i].withAverage()
	}
	return reviews, nil
}

func (s *Service) ByEmployee(ctx context.Context, employeeID string) ([]Review, error) {
	return withAverages(s.store.ListByEmployee(ctx, employeeID))
}

func (s *Service) ByReviewer(ctx context.Context, reviewerID string) ([]Review, error) {
	return withAverages(s.store.ListByReviewer(ctx, reviewerID))
}

func (s *Service) ByEmployeeAndPeriod(ctx context.Context, employeeID, period string) (Review, error) {
	r, err := s.store.GetByEmployeePeriod(ctx, strings.TrimSpace(employeeID), strings.TrimSpace(period))
	if err != nil {
		return Review{}, err
	}
	return r.withAverage(), nil
}

func (s *Service) ByDateRange(ctx context.Context, start, end time.Time) ([]Review, error) {
	if end.Before(start) {
		return nil, ErrInvalidRange
	}
	return withAverages(s.store.ListByReviewDate(ctx, start, end))
}

// Pending lists reviews submitted and awaiting approval.
func (s *Service) Pending(ctx context.Context) ([]Review, error) {
	return withAverages(s.store.ListByStatus(ctx, StatusSubmitted))
}

// upcomingUntil is the end of the upcoming window. Reviews already overdue
// stay in the list until they are rescheduled.
func (s *Service) upcomingUntil() time.Time {
	return s.now().AddDate(0, 0, UpcomingWindowDays)
}

func (s *Service) Upcoming(ctx context.Context) ([]Review, error) {
	return withAverages(s.store.ListUpcoming(ctx, "", s.upcomingUntil()))
}

// NextUpcoming returns the employee's earliest due review, overdue included,
// or nil when nothing is due inside the upcoming window.
func (s *Service) NextUpcoming(ctx context.Context, employeeID string) (*Review, error) {
	reviews, err := s.store.ListUpcoming(ctx, employeeID, s.upcomingUntil())
	if err != nil || len(reviews) == 0 {
		return nil, err
	}
	next := reviews[0].withAverage()
	return &next, nil
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return s.store.Stats(ctx, s.now().AddDate(0, -StatsWindowMonths, 0))
}

func (s *Service) EmployeeStats(ctx context.Context, employeeID string) (EmployeeStats, error) {
	employeeID = strings.TrimSpace(employeeID)
	avg, pending, err := s.store.EmployeeAggregates(ctx, employeeID)
	if err != nil {
		return EmployeeStats{}, err
	}
	stats := EmployeeStats{EmployeeID: employeeID, AverageRating: avg, PendingReviews: pending}

	history, err := s.ByEmployee(ctx, employeeID)
	if err != nil {
		return EmployeeStats{}, err
	}
	if len(history) > 0 {
		latest := history[0]
		stats.LatestReview = &latest
	}
	if stats.NextReview, err = s.NextUpcoming(ctx, employeeID); err != nil {
		return EmployeeStats{}, err
	}
	return stats, nil
}
