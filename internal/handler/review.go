package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/meeting-room-reservation/internal/middleware"
	"github.com/iliyamo/meeting-room-reservation/internal/model"
	"github.com/iliyamo/meeting-room-reservation/internal/policy"
	"github.com/iliyamo/meeting-room-reservation/internal/repository"
)

// ReviewHandler serves room reviews and their moderation queue. Authors
// manage their own reviews; hiding, unhiding and the report queue go
// through the moderation privilege.
type ReviewHandler struct {
	Reviews *repository.ReviewRepo
	Rooms   *repository.RoomRepo
	Gate    policy.Gate
	Inv     *middleware.Invalidator
}

func NewReviewHandler(reviews *repository.ReviewRepo, rooms *repository.RoomRepo, gate policy.Gate, inv *middleware.Invalidator) *ReviewHandler {
	if reviews == nil || rooms == nil || gate == nil {
		panic("nil dependency passed to NewReviewHandler")
	}
	return &ReviewHandler{Reviews: reviews, Rooms: rooms, Gate: gate, Inv: inv}
}

// ----- DTOs -----

type createReviewReq struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type updateReviewReq struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

type reportReviewReq struct {
	Reason string `json:"reason"`
}

type reviewResp struct {
	ID        uint64 `json:"id"`
	RoomID    uint64 `json:"room_id"`
	UserID    uint64 `json:"user_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	Hidden    bool   `json:"hidden"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toReviewResp(rv *model.Review) reviewResp {
	return reviewResp{
		ID:        rv.ID,
		RoomID:    rv.RoomID,
		UserID:    rv.UserID,
		Rating:    rv.Rating,
		Comment:   rv.Comment,
		Hidden:    rv.Hidden,
		CreatedAt: rv.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: rv.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func validRating(r int) bool { return r >= 1 && r <= 5 }

// ListByRoom returns a room's visible reviews, newest first.
func (h *ReviewHandler) ListByRoom(c echo.Context) error {
	roomID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Rooms.GetByID(ctx, roomID); err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	reviews, err := h.Reviews.ListByRoom(ctx, roomID, false)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]reviewResp, 0, len(reviews))
	for i := range reviews {
		out = append(out, toReviewResp(&reviews[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"reviews": out, "count": len(out)})
}

// Create files a review for a room on behalf of the caller.
func (h *ReviewHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	roomID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var req createReviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !validRating(req.Rating) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 5"})
	}

	ctx := c.Request().Context()
	if _, err := h.Rooms.GetByID(ctx, roomID); err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	rv := &model.Review{
		RoomID:  roomID,
		UserID:  uid,
		Rating:  req.Rating,
		Comment: strings.TrimSpace(req.Comment),
	}
	if err := h.Reviews.Create(ctx, rv); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create review failed"})
	}
	h.Inv.InvalidateRoom(ctx, roomID)
	return c.JSON(http.StatusCreated, toReviewResp(rv))
}

// Update edits a review. Only the author may edit.
func (h *ReviewHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid review id"})
	}
	var req updateReviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Rating == nil && req.Comment == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no fields to update"})
	}
	if req.Rating != nil && !validRating(*req.Rating) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 5"})
	}

	ctx := c.Request().Context()
	existing, err := h.Reviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if existing.UserID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	rv, err := h.Reviews.UpdateFields(ctx, id, req.Rating, req.Comment)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update review failed"})
	}
	h.Inv.InvalidateRoom(ctx, rv.RoomID)
	return c.JSON(http.StatusOK, toReviewResp(rv))
}

// Delete removes a review. The author may always delete their own; anyone
// holding the moderation privilege may delete any.
func (h *ReviewHandler) Delete(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid review id"})
	}

	ctx := c.Request().Context()
	existing, err := h.Reviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if existing.UserID != actor.ID && !h.Gate.Allow(actor, policy.ActionModerateReviews) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if err := h.Reviews.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete review failed"})
	}
	h.Inv.InvalidateRoom(ctx, existing.RoomID)
	return c.NoContent(http.StatusNoContent)
}

// Report flags a review for moderator attention.
func (h *ReviewHandler) Report(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid review id"})
	}
	var req reportReviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Reason = strings.TrimSpace(req.Reason)
	if req.Reason == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reason required"})
	}

	ctx := c.Request().Context()
	if _, err := h.Reviews.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	rp := &model.ReviewReport{ReviewID: id, ReporterID: uid, Reason: req.Reason}
	if err := h.Reviews.CreateReport(ctx, rp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "report failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":         rp.ID,
		"review_id":  rp.ReviewID,
		"reason":     rp.Reason,
		"created_at": rp.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// Hide pulls a review from public listings. Moderation routes are gated by
// role middleware, so no ownership check happens here.
func (h *ReviewHandler) Hide(c echo.Context) error {
	return h.setHidden(c, true)
}

// Unhide restores a hidden review to public listings.
func (h *ReviewHandler) Unhide(c echo.Context) error {
	return h.setHidden(c, false)
}

func (h *ReviewHandler) setHidden(c echo.Context, hidden bool) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid review id"})
	}
	ctx := c.Request().Context()
	existing, err := h.Reviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.Reviews.SetHidden(ctx, id, hidden); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update review failed"})
	}
	h.Inv.InvalidateRoom(ctx, existing.RoomID)
	return c.NoContent(http.StatusNoContent)
}

// ListReports returns the moderation queue, newest first.
func (h *ReviewHandler) ListReports(c echo.Context) error {
	reports, err := h.Reviews.ListReports(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	type reportResp struct {
		ID         uint64     `json:"id"`
		ReporterID uint64     `json:"reporter_id"`
		Reason     string     `json:"reason"`
		CreatedAt  string     `json:"created_at"`
		Review     reviewResp `json:"review"`
	}
	out := make([]reportResp, 0, len(reports))
	for i := range reports {
		rr := &reports[i]
		out = append(out, reportResp{
			ID:         rr.Report.ID,
			ReporterID: rr.Report.ReporterID,
			Reason:     rr.Report.Reason,
			CreatedAt:  rr.Report.CreatedAt.UTC().Format(time.RFC3339),
			Review:     toReviewResp(&rr.Review),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"reports": out, "count": len(out)})
}
