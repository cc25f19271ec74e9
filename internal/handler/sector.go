package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/matheusvidal/stockman/internal/model"
	"github.com/matheusvidal/stockman/internal/repository"
)

// SectorHandler exposes the sector lookup endpoints. The GET routes
// sit behind the Redis response cache; sectors change rarely.
type SectorHandler struct {
	Sectors *repository.SectorRepo
}

func NewSectorHandler(s *repository.SectorRepo) *SectorHandler {
	return &SectorHandler{Sectors: s}
}

type createSectorReq struct {
	Name string `json:"name"`
}

type sectorResp struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Status        bool      `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

func toSectorResp(s model.Sector) sectorResp {
	return sectorResp{
		ID: s.ID, Name: s.Name, Status: s.Status,
		CreatedAt: s.CreatedAt, LastUpdatedAt: s.LastUpdatedAt,
	}
}

// GetAll lists active sectors.
func (h *SectorHandler) GetAll(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	sectors, err := h.Sectors.GetAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]sectorResp, 0, len(sectors))
	for _, s := range sectors {
		out = append(out, toSectorResp(s))
	}
	return c.JSON(http.StatusOK, out)
}

// GetByID returns a single sector.
func (h *SectorHandler) GetByID(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid sector id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Sectors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "sector not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toSectorResp(*s))
}

// Create registers a new sector.
func (h *SectorHandler) Create(c echo.Context) error {
	var req createSectorReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Sectors.Create(ctx, req.Name)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "sector already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create sector failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id, "name": strings.TrimSpace(req.Name)})
}
