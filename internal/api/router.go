package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"royal-odds/internal/service"
	"royal-odds/internal/simulation"
	appErr "royal-odds/pkg/errors"
	"royal-odds/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	services *service.Container
}

func RegisterRoutes(r *gin.Engine, services *service.Container) {
	handler := &Handler{services: services}

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong"})
	})

	v1 := r.Group("/v1")
	{
		v1.GET("/odds/:mode", handler.ListOdds)
		v1.GET("/odds/:mode/:hand", handler.GetOdds)
		v1.GET("/runs", handler.ListRuns)
	}
}

func (h *Handler) ListOdds(c *gin.Context) {
	mode, players, ok := parseBucket(c)
	if !ok {
		return
	}

	items, err := h.services.Odds.List(c.Request.Context(), mode, players)
	if err != nil {
		response.Fail(c, errorStatus(err), err)
		return
	}

	response.Success(c, gin.H{
		"mode":    mode,
		"players": players,
		"items":   items,
		"total":   len(items),
	})
}

func (h *Handler) GetOdds(c *gin.Context) {
	mode, players, ok := parseBucket(c)
	if !ok {
		return
	}

	odds, err := h.services.Odds.Lookup(c.Request.Context(), mode, players, c.Param("hand"))
	if err != nil {
		response.Fail(c, errorStatus(err), err)
		return
	}
	response.Success(c, odds)
}

func (h *Handler) ListRuns(c *gin.Context) {
	page, err := parsePositiveIntQuery(c, "page", 1)
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	size, err := parsePositiveIntQuery(c, "size", 20)
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.services.Odds.ListRuns(c.Request.Context(), page, size)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, err)
		return
	}

	response.Success(c, gin.H{
		"items": result.Items,
		"total": result.Total,
		"page":  page,
		"size":  size,
	})
}

func parseBucket(c *gin.Context) (simulation.Mode, int, bool) {
	mode, err := simulation.ParseMode(c.Param("mode"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return "", 0, false
	}
	players, err := parsePositiveIntQuery(c, "players", 3)
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return "", 0, false
	}
	return mode, players, true
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, appErr.ErrOddsNotFound):
		return http.StatusNotFound
	case errors.Is(err, appErr.ErrInvalidMode),
		errors.Is(err, appErr.ErrInvalidPlayers),
		errors.Is(err, appErr.ErrInvalidHandLength),
		errors.Is(err, appErr.ErrInvalidRank):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func parsePositiveIntQuery(c *gin.Context, key string, defaultVal int) (int, error) {
	val := c.Query(key)
	if val == "" {
		return defaultVal, nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return parsed, nil
}
