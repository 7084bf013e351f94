package model

import "time"

// Review is a user's rating of a meeting room. Hidden reviews stay in
// the table but are filtered out of public listings; moderators see
// and toggle them.
//
// Fields:
//  ID        – primary key identifier.
//  RoomID    – room being reviewed.
//  UserID    – author of the review.
//  Rating    – 1 to 5 inclusive.
//  Comment   – free-text body, may be empty.
//  Hidden    – set by moderators to pull a review from listings.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Review struct {
	ID        uint64    // reviews.id
	RoomID    uint64    // reviews.room_id
	UserID    uint64    // reviews.user_id
	Rating    int       // reviews.rating
	Comment   string    // reviews.comment
	Hidden    bool      // reviews.hidden
	CreatedAt time.Time // reviews.created_at
	UpdatedAt time.Time // reviews.updated_at
}

// ReviewReport flags a review for moderator attention.
//
// Fields:
//  ID         – primary key identifier.
//  ReviewID   – review being reported.
//  ReporterID – user who filed the report.
//  Reason     – why the review was reported.
//  CreatedAt  – creation timestamp.
type ReviewReport struct {
	ID         uint64    // review_reports.id
	ReviewID   uint64    // review_reports.review_id
	ReporterID uint64    // review_reports.reporter_id
	Reason     string    // review_reports.reason
	CreatedAt  time.Time // review_reports.created_at
}
