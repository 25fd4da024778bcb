package dto

import (
	"time"

	"github.com/idxpulse/idxpulse/internal/domain/models"
)

// BrokerSummaryResponse is the JSON structure returned by the
// GET /api/v1/broker-summary endpoint.
//
// Fields match the API contract and may differ from internal domain
// models. This keeps the API surface decoupled from business logic.
type BrokerSummaryResponse struct {
	Symbol         string               `json:"symbol" example:"BBCA"`
	StartDate      string               `json:"start_date" example:"2026-08-10"`
	EndDate        string               `json:"end_date" example:"2026-08-16"`
	Brokers        []models.BrokerTotal `json:"brokers"`
	TotalBuyLot    int64                `json:"total_buy_lot" example:"540200"`
	TotalBuyValue  float64              `json:"total_buy_value" example:"4876000000"`
	TotalSellLot   int64                `json:"total_sell_lot" example:"498100"`
	TotalSellValue float64              `json:"total_sell_value" example:"4510300000"`
}

// NewBrokerSummaryResponse maps the domain aggregate to the response DTO.
func NewBrokerSummaryResponse(s *models.BrokerSummary) BrokerSummaryResponse {
	return BrokerSummaryResponse{
		Symbol:         s.Symbol,
		StartDate:      s.StartDate.Format(time.DateOnly),
		EndDate:        s.EndDate.Format(time.DateOnly),
		Brokers:        s.Brokers,
		TotalBuyLot:    s.TotalBuyLot,
		TotalBuyValue:  s.TotalBuyValue,
		TotalSellLot:   s.TotalSellLot,
		TotalSellValue: s.TotalSellValue,
	}
}
