package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/idxpulse/idxpulse/internal/domain/dto"
	"github.com/idxpulse/idxpulse/internal/httperr"
	"github.com/idxpulse/idxpulse/internal/service"
)

// Handler provides HTTP handlers for the broker summary endpoints.
//
// Responsibilities:
//   - Validate incoming query parameters
//   - Call the service layer
//   - Translate domain results into response DTOs
//
// Failures are attached with c.Error and mapped by the ErrorHandler
// middleware; handlers never write error bodies themselves.
type Handler struct {
	svc service.BrokerService
}

// NewHandler constructs a Handler with its service dependency.
func NewHandler(svc service.BrokerService) *Handler {
	return &Handler{svc: svc}
}

// GetBrokerSummary handles GET /api/v1/broker-summary requests.
//
// GetBrokerSummary godoc
// @Summary      Get broker summary by symbol
// @Description  Returns per-broker buy/sell totals for the given symbol over an optional date window
// @Tags         broker
// @Accept       json
// @Produce      json
// @Param        symbol      query     string  true   "Stock symbol" example(BBCA)
// @Param        start_date  query     string  false  "Start date in YYYY-MM-DD" example(2026-08-10)
// @Param        end_date    query     string  false  "End date in YYYY-MM-DD" example(2026-08-16)
// @Param        X-Nonce     header    string  true   "Once-only request token"
// @Success      200         {object}  dto.BrokerSummaryResponse  "Success"
// @Failure      400         {object}  dto.ErrorResponse          "Bad Request"
// @Failure      404         {object}  dto.ErrorResponse          "Not Found"
// @Failure      422         {object}  dto.ErrorResponse          "Duplicate Nonce"
// @Failure      500         {object}  dto.ErrorResponse          "Internal Error"
// @Router       /api/v1/broker-summary [get]
func (h *Handler) GetBrokerSummary(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Query("symbol")))
	if symbol == "" {
		_ = c.Error(httperr.Validation("symbol is required"))
		return
	}

	from, to, err := parseWindow(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	summary, err := h.svc.GetBrokerSummary(c.Request.Context(), symbol, from, to)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if summary == nil {
		_ = c.Error(httperr.NotFound("no data found"))
		return
	}

	c.JSON(http.StatusOK, dto.NewBrokerSummaryResponse(summary))
}

// parseWindow resolves the optional start_date/end_date pair. When both
// are omitted the window defaults to the last 7 days ending yesterday.
// A start date without an end date runs through yesterday.
func parseWindow(startStr, endStr string) (time.Time, time.Time, error) {
	yesterday := truncateDay(time.Now().UTC().AddDate(0, 0, -1))

	from := yesterday.AddDate(0, 0, -6)
	to := yesterday

	if startStr != "" {
		parsed, err := time.Parse(time.DateOnly, startStr)
		if err != nil {
			return time.Time{}, time.Time{}, httperr.Validation("invalid start_date format, expected YYYY-MM-DD")
		}
		from = parsed
	}
	if endStr != "" {
		parsed, err := time.Parse(time.DateOnly, endStr)
		if err != nil {
			return time.Time{}, time.Time{}, httperr.Validation("invalid end_date format, expected YYYY-MM-DD")
		}
		to = parsed
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, httperr.Validation("end_date must not be before start_date")
	}
	return from, to, nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
