package performance

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"empsync/internal/platform/apperr"
)

const reviewColumns = `id::text, employee_id::text, review_period, reviewer_id::text,
  overall_rating, quality_rating, productivity_rating, teamwork_rating, communication_rating, initiative_rating,
  strengths, areas_for_improvement, goals, employee_comments, reviewer_comments, status,
  review_date, next_review_date, created_at, updated_at`

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func scanReview(row pgx.Row) (Review, error) {
	var r Review
	var reviewer *string
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.ReviewPeriod, &reviewer,
		&r.OverallRating, &r.QualityRating, &r.ProductivityRating, &r.TeamworkRating, &r.CommunicationRating, &r.InitiativeRating,
		&r.Strengths, &r.AreasForImprovement, &r.Goals, &r.EmployeeComments, &r.ReviewerComments, &r.Status,
		&r.ReviewDate, &r.NextReviewDate, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Review{}, ErrReviewNotFound
		}
		return Review{}, err
	}
	if reviewer != nil {
		r.ReviewerID = *reviewer
	}
	return r, nil
}

func collect(rows pgx.Rows, err error) ([]Review, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Review{}
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func nullableID(id string) any {
	if id == "" {
		return nil
	}
	return id
}

func translateWriteErr(err error) error {
	switch {
	case apperr.IsUniqueViolation(err):
		return ErrDuplicatePeriod
	case apperr.IsForeignKeyViolation(err):
		return ErrEmployeeNotFound
	}
	return err
}

func (s *Store) EmployeeExists(ctx context.Context, id string) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, `SELECT COUNT(1) FROM employees WHERE id::text = $1`, id).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) Create(ctx context.Context, r Review) (Review, error) {
	created, err := scanReview(s.DB.QueryRow(ctx, `
    INSERT INTO performance_reviews (
      employee_id, review_period, reviewer_id,
      overall_rating, quality_rating, productivity_rating, teamwork_rating, communication_rating, initiative_rating,
      strengths, areas_for_improvement, goals, employee_comments, reviewer_comments, status,
      review_date, next_review_date
    )
    VALUES ($1::uuid,$2,$3::uuid,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
    RETURNING `+reviewColumns,
		r.EmployeeID, r.ReviewPeriod, nullableID(r.ReviewerID),
		r.OverallRating, r.QualityRating, r.ProductivityRating, r.TeamworkRating, r.CommunicationRating, r.InitiativeRating,
		r.Strengths, r.AreasForImprovement, r.Goals, r.EmployeeComments, r.ReviewerComments, r.Status,
		r.ReviewDate, r.NextReviewDate))
	if err != nil {
		return Review{}, translateWriteErr(err)
	}
	return created, nil
}

func (s *Store) Get(ctx context.Context, id string) (Review, error) {
	return scanReview(s.DB.QueryRow(ctx, `SELECT `+reviewColumns+` FROM performance_reviews WHERE id::text = $1`, id))
}

func (s *Store) Update(ctx context.Context, id string, fn func(*Review) error) (Review, error) {
	var updated Review
	err := pgx.BeginTxFunc(ctx, s.DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		current, err := scanReview(tx.QueryRow(ctx, `SELECT `+reviewColumns+` FROM performance_reviews WHERE id::text = $1 FOR UPDATE`, id))
		if err != nil {
			return err
		}
		if err := fn(&current); err != nil {
			return err
		}
		updated, err = scanReview(tx.QueryRow(ctx, `
      UPDATE performance_reviews
      SET reviewer_id = $2::uuid, overall_rating = $3, quality_rating = $4, productivity_rating = $5,
          teamwork_rating = $6, communication_rating = $7, initiative_rating = $8,
          strengths = $9, areas_for_improvement = $10, goals = $11, employee_comments = $12,
          reviewer_comments = $13, status = $14, review_date = $15, next_review_date = $16, updated_at = now()
      WHERE id::text = $1
      RETURNING `+reviewColumns,
			id, nullableID(current.ReviewerID), current.OverallRating, current.QualityRating, current.ProductivityRating,
			current.TeamworkRating, current.CommunicationRating, current.InitiativeRating,
			current.Strengths, current.AreasForImprovement, current.Goals, current.EmployeeComments,
			current.ReviewerComments, current.Status, current.ReviewDate, current.NextReviewDate))
		return err
	})
	if err != nil {
		return Review{}, translateWriteErr(err)
	}
	return updated, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, `DELETE FROM performance_reviews WHERE id::text = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func (s *Store) ListByEmployee(ctx context.Context, employeeID string) ([]Review, error) {
	return collect(s.DB.Query(ctx, `
    SELECT `+reviewColumns+`
    FROM performance_reviews
    WHERE employee_id::text = $1
    ORDER BY review_date DESC NULLS LAST, created_at DESC
  `, employeeID))
}

func (s *Store) ListByReviewer(ctx context.Context, reviewerID string) ([]Review, error) {
	return collect(s.DB.Query(ctx, `
    SELECT `+reviewColumns+`
    FROM performance_reviews
    WHERE reviewer_id::text = $1
    ORDER BY review_date DESC NULLS LAST, created_at DESC
  `, reviewerID))
}

func (s *Store) GetByEmployeePeriod(ctx context.Context, employeeID, period string) (Review, error) {
	return scanReview(s.DB.QueryRow(ctx, `
    SELECT `+reviewColumns+`
    FROM performance_reviews
    WHERE employee_id::text = $1 AND review_period = $2
  `, employeeID, period))
}

func (s *Store) ListByReviewDate(ctx context.Context, start, end time.Time) ([]Review, error) {
	return collect(s.DB.Query(ctx, `
    SELECT `+reviewColumns+`
    FROM performance_reviews
    WHERE review_date BETWEEN $1 AND $2
    ORDER BY review_date DESC
  `, start, end))
}

func (s *Store) ListByStatus(ctx context.Context, status string) ([]Review, error) {
	return collect(s.DB.Query(ctx, `
    SELECT `+reviewColumns+`
    FROM performance_reviews
    WHERE status = $1
    ORDER BY updated_at DESC
  `, status))
}

func (s *Store) ListUpcoming(ctx context.Context, employeeID string, until time.Time) ([]Review, error) {
	return collect(s.DB.Query(ctx, `
    SELECT `+reviewColumns+`
    FROM performance_reviews
    WHERE next_review_date <= $1 AND ($2 = '' OR employee_id::text = $2)
    ORDER BY next_review_date
  `, until, employeeID))
}

func (s *Store) Stats(ctx context.Context, since time.Time) (Stats, error) {
	stats := Stats{StatusCounts: map[string]int64{}, RatingDistribution: map[int]int64{}}
	for _, status := range Statuses {
		stats.StatusCounts[status] = 0
	}

	if err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(AVG(overall_rating), 0)::float8
    FROM performance_reviews
    WHERE overall_rating IS NOT NULL AND COALESCE(review_date, created_at) >= $1
  `, since).Scan(&stats.AverageRating); err != nil {
		return Stats{}, err
	}
	stats.AverageRating = round2(stats.AverageRating)

	rows, err := s.DB.Query(ctx, `SELECT status, COUNT(1) FROM performance_reviews GROUP BY status`)
	if err != nil {
		return Stats{}, err
	}
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			rows.Close()
			return Stats{}, err
		}
		stats.StatusCounts[status] = count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Stats{}, err
	}

	rows, err = s.DB.Query(ctx, `
    SELECT overall_rating, COUNT(1)
    FROM performance_reviews
    WHERE overall_rating IS NOT NULL
    GROUP BY overall_rating
  `)
	if err != nil {
		return Stats{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var rating int
		var count int64
		if err := rows.Scan(&rating, &count); err != nil {
			return Stats{}, err
		}
		stats.RatingDistribution[rating] = count
	}
	return stats, rows.Err()
}

func (s *Store) EmployeeAggregates(ctx context.Context, employeeID string) (float64, int64, error) {
	var avg float64
	var pending int64
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(AVG(overall_rating), 0)::float8,
           COUNT(1) FILTER (WHERE status = $2)
    FROM performance_reviews
    WHERE employee_id::text = $1
  `, employeeID, StatusSubmitted).Scan(&avg, &pending)
	if err != nil {
		return 0, 0, err
	}
	return round2(avg), pending, nil
}
