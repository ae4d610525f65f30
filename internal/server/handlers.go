package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/ppiankov/veracity/internal/pipeline"
	"github.com/ppiankov/veracity/internal/store"
)

type textRequest struct {
	Text    string `json:"text"`
	Subject string `json:"subject"`
}

type compareRequest struct {
	A      string `json:"a"`
	B      string `json:"b"`
	LabelA string `json:"label_a"`
	LabelB string `json:"label_b"`
}

type newsRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

func (s *Server) handleText(c echo.Context) error {
	var req textRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	report, err := s.analyzer.AnalyzeText(c.Request().Context(), req.Subject, req.Text)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, report)
}

func (s *Server) handleCompare(c echo.Context) error {
	var req compareRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	report, err := s.analyzer.Compare(c.Request().Context(),
		pipeline.Sample{Label: req.LabelA, Text: req.A},
		pipeline.Sample{Label: req.LabelB, Text: req.B},
	)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, report)
}

func (s *Server) handleNews(c echo.Context) error {
	var req newsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	report, err := s.analyzer.CheckNews(c.Request().Context(), req.Query)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, report)
}

func (s *Server) handleHistoryList(c echo.Context) error {
	if s.history == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "history is disabled")
	}

	limit := store.DefaultListLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 500 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be between 1 and 500")
		}
		limit = n
	}

	entries, err := s.history.List(c.Request().Context(), limit)
	if err != nil {
		return mapError(err)
	}
	if entries == nil {
		entries = []store.Entry{}
	}
	return c.JSON(http.StatusOK, entries)
}

func (s *Server) handleHistoryGet(c echo.Context) error {
	if s.history == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "history is disabled")
	}

	report, err := s.history.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, report)
}

// mapError converts an analysis or store error into an echo.HTTPError
func mapError(err error) *echo.HTTPError {
	switch {
	case pipeline.IsValidationError(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())

	case errors.Is(err, store.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "report not found")

	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error").SetInternal(err)
	}
}
