package models

// Requests for verdict HTTP endpoints. Defined in domain for reuse by jobs and handlers.

type AnalyzeRequest struct {
	Symbol            string `json:"symbol" validate:"required,max=10"`
	DaysBack          int    `json:"days_back" default:"7" validate:"gte=1,lte=30"`
	TechnicalInterval string `json:"technical_interval" default:"1D" validate:"oneof=1min 5min 15min 30min 60min 1D 1W 1M"`
	TechnicalLimit    int    `json:"technical_limit" default:"100" validate:"gte=1,lte=1000"`
}

type SentimentRequest struct {
	Symbols  []string `json:"symbols" validate:"required,min=1,max=20,dive,required,max=10"`
	DaysBack int      `json:"days_back" default:"7" validate:"gte=1,lte=30"`
}

type CleanRequest struct {
	Rows []map[string]float64 `json:"rows" validate:"required"`
}
