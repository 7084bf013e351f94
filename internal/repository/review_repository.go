package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/meeting-room-reservation/internal/model"
)

// ReviewRepo provides data access to room reviews and their reports.
type ReviewRepo struct {
	db *sql.DB
}

// NewReviewRepo constructs a ReviewRepo bound to the provided database.
func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

const reviewColumns = `id, room_id, user_id, rating, comment, hidden, created_at, updated_at`

func scanReview(row interface{ Scan(...any) error }, rv *model.Review) error {
	return row.Scan(&rv.ID, &rv.RoomID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.Hidden, &rv.CreatedAt, &rv.UpdatedAt)
}

// Create inserts a review and populates its ID and timestamps.
func (r *ReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO reviews (room_id, user_id, rating, comment) VALUES (?, ?, ?, ?)`,
		rv.RoomID, rv.UserID, rv.Rating, rv.Comment,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rv.ID = uint64(id)
	const sel = `SELECT ` + reviewColumns + ` FROM reviews WHERE id = ?`
	return scanReview(r.db.QueryRowContext(ctx, sel, rv.ID), rv)
}

// GetByID retrieves a review. Returns ErrReviewNotFound when no row
// matches.
func (r *ReviewRepo) GetByID(ctx context.Context, id uint64) (*model.Review, error) {
	const q = `SELECT ` + reviewColumns + ` FROM reviews WHERE id = ?`
	var rv model.Review
	if err := scanReview(r.db.QueryRowContext(ctx, q, id), &rv); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &rv, nil
}

// ListByRoom returns a room's reviews, newest first. Hidden reviews are
// filtered out unless includeHidden is set (moderator view).
func (r *ReviewRepo) ListByRoom(ctx context.Context, roomID uint64, includeHidden bool) ([]model.Review, error) {
	q := `SELECT ` + reviewColumns + ` FROM reviews WHERE room_id = ?`
	if !includeHidden {
		q += ` AND hidden = FALSE`
	}
	q += ` ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Review
	for rows.Next() {
		var rv model.Review
		if err := scanReview(rows, &rv); err != nil {
			return nil, err
		}
		result = append(result, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateFields updates rating and/or comment of a review and returns
// the fresh row.
func (r *ReviewRepo) UpdateFields(ctx context.Context, id uint64, rating *int, comment *string) (*model.Review, error) {
	set := make([]string, 0, 3)
	args := make([]any, 0, 3)
	if rating != nil {
		set = append(set, "rating = ?")
		args = append(args, *rating)
	}
	if comment != nil {
		set = append(set, "comment = ?")
		args = append(args, *comment)
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}
	set = append(set, "updated_at = UTC_TIMESTAMP(6)")
	args = append(args, id)
	if _, err := r.db.ExecContext(ctx, `UPDATE reviews SET `+strings.Join(set, ", ")+` WHERE id = ?`, args...); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// SetHidden toggles a review's visibility. Returns ErrReviewNotFound
// when no row matches.
func (r *ReviewRepo) SetHidden(ctx context.Context, id uint64, hidden bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE reviews SET hidden = ?, updated_at = UTC_TIMESTAMP(6) WHERE id = ?`, hidden, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// hidden may already hold the requested value; distinguish
		// missing rows from no-op updates.
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM reviews WHERE id = ? LIMIT 1`, id).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrReviewNotFound
			}
			return err
		}
	}
	return nil
}

// Delete removes a review and its reports. Returns ErrReviewNotFound
// when the review does not exist.
func (r *ReviewRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `DELETE FROM review_reports WHERE review_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReviewNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// CreateReport files a report against a review.
func (r *ReviewRepo) CreateReport(ctx context.Context, rp *model.ReviewReport) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO review_reports (review_id, reporter_id, reason) VALUES (?, ?, ?)`,
		rp.ReviewID, rp.ReporterID, rp.Reason,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rp.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		`SELECT created_at FROM review_reports WHERE id = ?`, rp.ID,
	).Scan(&rp.CreatedAt)
}

// ReportedReview pairs a report with the review it targets so the
// moderation queue needs a single query.
type ReportedReview struct {
	Report model.ReviewReport
	Review model.Review
}

// ListReports returns all open reports, newest first, each joined with
// its review.
func (r *ReviewRepo) ListReports(ctx context.Context) ([]ReportedReview, error) {
	const q = `SELECT rp.id, rp.review_id, rp.reporter_id, rp.reason, rp.created_at,
	                  rv.id, rv.room_id, rv.user_id, rv.rating, rv.comment, rv.hidden, rv.created_at, rv.updated_at
	           FROM review_reports rp
	           JOIN reviews rv ON rv.id = rp.review_id
	           ORDER BY rp.created_at DESC, rp.id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []ReportedReview
	for rows.Next() {
		var rr ReportedReview
		if err := rows.Scan(
			&rr.Report.ID, &rr.Report.ReviewID, &rr.Report.ReporterID, &rr.Report.Reason, &rr.Report.CreatedAt,
			&rr.Review.ID, &rr.Review.RoomID, &rr.Review.UserID, &rr.Review.Rating, &rr.Review.Comment,
			&rr.Review.Hidden, &rr.Review.CreatedAt, &rr.Review.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, rr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
