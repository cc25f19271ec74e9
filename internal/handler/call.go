package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/matheusvidal/stockman/internal/model"
	"github.com/matheusvidal/stockman/internal/queue"
	"github.com/matheusvidal/stockman/internal/repository"
	publisher "github.com/matheusvidal/stockman/internal/service"
)

// CallHandler exposes the helpdesk ticket endpoints.
type CallHandler struct {
	Calls   *repository.CallRepo
	Users   *repository.UserRepo
	Sectors *repository.SectorRepo
}

func NewCallHandler(c *repository.CallRepo, u *repository.UserRepo, s *repository.SectorRepo) *CallHandler {
	return &CallHandler{Calls: c, Users: u, Sectors: s}
}

type createCallReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	UserID      int64  `json:"userId"`
	SectorID    int64  `json:"sectorId"`
}

type callResp struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Status        string    `json:"status"`
	UserID        int64     `json:"userId"`
	UserName      string    `json:"userName"`
	SectorID      int64     `json:"sectorId"`
	SectorName    string    `json:"sectorName"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

func toCallResp(c repository.CallRow) callResp {
	return callResp{
		ID: c.ID, Title: c.Title, Description: c.Description, Status: c.Status,
		UserID: c.UserID, UserName: c.UserName,
		SectorID: c.SectorID, SectorName: c.SectorName,
		CreatedAt: c.CreatedAt, LastUpdatedAt: c.LastUpdatedAt,
	}
}

// Create opens a call after checking that the referenced user and
// sector exist, then publishes a call.created event. Publishing is
// best effort: a broker outage is logged, never surfaced.
func (h *CallHandler) Create(c echo.Context) error {
	var req createCallReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.UserID <= 0 || req.SectorID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title/userId/sectorId required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.FindByID(ctx, req.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if u == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	sector, err := h.Sectors.GetByID(ctx, req.SectorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "sector not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	call := &model.Call{
		Title:       req.Title,
		Description: req.Description,
		UserID:      req.UserID,
		SectorID:    req.SectorID,
	}
	if err := h.Calls.Create(ctx, call); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create call failed"})
	}

	ev := queue.CallCreatedEvent{
		CallID:     call.ID,
		Title:      call.Title,
		UserID:     u.ID,
		UserName:   u.Name,
		SectorID:   sector.ID,
		SectorName: sector.Name,
		CreatedAt:  call.CreatedAt.Format(time.RFC3339),
	}
	if err := publisher.PublishCallCreated(ctx, ev); err != nil {
		log.Printf("publish call.created for call %d: %v", call.ID, err)
	}

	return c.JSON(http.StatusCreated, toCallResp(repository.CallRow{
		Call: *call, UserName: u.Name, SectorName: sector.Name,
	}))
}

// GetAll lists every call.
func (h *CallHandler) GetAll(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	calls, err := h.Calls.GetAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toCallResps(calls))
}

// GetByID returns a single call.
func (h *CallHandler) GetByID(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid call id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	call, err := h.Calls.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "call not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toCallResp(*call))
}

// GetByUserID lists the calls opened by one user.
func (h *CallHandler) GetByUserID(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	calls, err := h.Calls.GetByUserID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toCallResps(calls))
}

// GetBySectorID lists the calls routed to one sector.
func (h *CallHandler) GetBySectorID(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid sector id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	calls, err := h.Calls.GetBySectorID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toCallResps(calls))
}

func toCallResps(calls []repository.CallRow) []callResp {
	out := make([]callResp, 0, len(calls))
	for _, c := range calls {
		out = append(out, toCallResp(c))
	}
	return out
}
