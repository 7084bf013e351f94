package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/meeting-room-reservation/internal/middleware"
	"github.com/iliyamo/meeting-room-reservation/internal/model"
	"github.com/iliyamo/meeting-room-reservation/internal/repository"
)

// RoomHandler serves the room catalog: public browsing plus the privileged
// management endpoints.
type RoomHandler struct {
	Rooms *repository.RoomRepo
	Inv   *middleware.Invalidator
}

func NewRoomHandler(rooms *repository.RoomRepo, inv *middleware.Invalidator) *RoomHandler {
	if rooms == nil {
		panic("nil repository passed to NewRoomHandler")
	}
	return &RoomHandler{Rooms: rooms, Inv: inv}
}

// ----- DTOs -----

type createRoomReq struct {
	Name      string   `json:"name"`
	Capacity  int      `json:"capacity"`
	Location  string   `json:"location"`
	Equipment []string `json:"equipment"`
}

type updateRoomReq struct {
	Name      *string   `json:"name"`
	Capacity  *int      `json:"capacity"`
	Location  *string   `json:"location"`
	Equipment *[]string `json:"equipment"`
}

type roomResp struct {
	ID        uint64   `json:"id"`
	Name      string   `json:"name"`
	Capacity  int      `json:"capacity"`
	Location  string   `json:"location"`
	Equipment []string `json:"equipment"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

func toRoomResp(r *model.Room) roomResp {
	eq := r.Equipment
	if eq == nil {
		eq = []string{}
	}
	return roomResp{
		ID:        r.ID,
		Name:      r.Name,
		Capacity:  r.Capacity,
		Location:  r.Location,
		Equipment: eq,
		CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: r.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// List returns all rooms ordered by name.
func (h *RoomHandler) List(c echo.Context) error {
	rooms, err := h.Rooms.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]roomResp, 0, len(rooms))
	for i := range rooms {
		out = append(out, toRoomResp(&rooms[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"rooms": out, "count": len(out)})
}

// Get returns one room by id.
func (h *RoomHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	room, err := h.Rooms.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toRoomResp(room))
}

// Search filters rooms by name, location, minimum capacity and equipment,
// with pagination.
func (h *RoomHandler) Search(c echo.Context) error {
	q := repository.RoomSearchQuery{
		Name:      strings.TrimSpace(c.QueryParam("name")),
		Location:  strings.TrimSpace(c.QueryParam("location")),
		Equipment: strings.TrimSpace(c.QueryParam("equipment")),
	}
	if v := c.QueryParam("min_capacity"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid min_capacity"})
		}
		q.MinCapacity = n
	}
	q.Page, _ = strconv.Atoi(c.QueryParam("page"))
	q.PageSize, _ = strconv.Atoi(c.QueryParam("page_size"))

	rooms, total, err := h.Rooms.Search(c.Request().Context(), q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]roomResp, 0, len(rooms))
	for i := range rooms {
		out = append(out, toRoomResp(&rooms[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"rooms": out, "total": total})
}

// Create adds a room to the catalog.
func (h *RoomHandler) Create(c echo.Context) error {
	var req createRoomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	if req.Capacity <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be positive"})
	}

	room := &model.Room{
		Name:      req.Name,
		Capacity:  req.Capacity,
		Location:  strings.TrimSpace(req.Location),
		Equipment: req.Equipment,
	}
	if err := h.Rooms.Create(c.Request().Context(), room); err != nil {
		if errors.Is(err, repository.ErrRoomNameTaken) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room name already taken"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create room failed"})
	}
	h.Inv.InvalidateRoom(c.Request().Context(), room.ID)
	return c.JSON(http.StatusCreated, toRoomResp(room))
}

// Update applies a partial change to a room. Absent fields keep their
// stored values.
func (h *RoomHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var req updateRoomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name must not be empty"})
		}
		req.Name = &trimmed
	}
	if req.Capacity != nil && *req.Capacity <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be positive"})
	}

	patch := model.RoomPatch{
		Name:      req.Name,
		Capacity:  req.Capacity,
		Location:  req.Location,
		Equipment: req.Equipment,
	}
	room, err := h.Rooms.UpdateFields(c.Request().Context(), id, patch)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRoomNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		case errors.Is(err, repository.ErrRoomNameTaken):
			return c.JSON(http.StatusConflict, echo.Map{"error": "room name already taken"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update room failed"})
	}
	h.Inv.InvalidateRoom(c.Request().Context(), id)
	return c.JSON(http.StatusOK, toRoomResp(room))
}

// Delete removes a room. Rooms holding future bookings refuse deletion;
// past bookings and reviews are cascaded away with the room.
func (h *RoomHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	if err := h.Rooms.Delete(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrRoomNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "room has future bookings"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete room failed"})
	}
	h.Inv.InvalidateRoom(c.Request().Context(), id)
	return c.NoContent(http.StatusNoContent)
}
