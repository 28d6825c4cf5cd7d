package http

import (
	"time"

	"currency-ledger/internal/domain"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type registerRequest struct {
	Email             string `json:"email" binding:"required,email"`
	Password          string `json:"password" binding:"required,min=6"`
	FirstName         string `json:"firstName" binding:"required"`
	LastName          string `json:"lastName" binding:"required"`
	PreferredCurrency string `json:"preferredCurrency" binding:"omitempty,currency"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type profileRequest struct {
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	PreferredCurrency string `json:"preferredCurrency" binding:"omitempty,currency"`
}

type ratesQuery struct {
	Base string `form:"base" binding:"omitempty,currency"`
}

type convertQuery struct {
	From   string  `form:"from" binding:"required,currency"`
	To     string  `form:"to" binding:"required,currency"`
	Amount float64 `form:"amount" binding:"required,gt=0"`
}

type convertRequest struct {
	From   string  `json:"from" binding:"required,currency"`
	To     string  `json:"to" binding:"required,currency"`
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

type saveConversionRequest struct {
	FromCurrency    string  `json:"fromCurrency" binding:"required,currency"`
	ToCurrency      string  `json:"toCurrency" binding:"required,currency"`
	Amount          float64 `json:"amount" binding:"required,gt=0"`
	ConvertedAmount float64 `json:"convertedAmount" binding:"gte=0"`
	Rate            float64 `json:"rate" binding:"required,gt=0"`
}

type recentQuery struct {
	Limit int `form:"limit" binding:"omitempty,gte=0"`
}

type UserResponse struct {
	ID                int64  `json:"id"`
	Email             string `json:"email"`
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	PreferredCurrency string `json:"preferredCurrency"`
}

type ConversionResponse struct {
	Seq             int64     `json:"seq"`
	FromCurrency    string    `json:"fromCurrency"`
	ToCurrency      string    `json:"toCurrency"`
	Amount          float64   `json:"amount"`
	ConvertedAmount float64   `json:"convertedAmount"`
	Rate            float64   `json:"rate"`
	Date            time.Time `json:"date"`
}

type CurrencyResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type CurrencyCountResponse struct {
	Code  string `json:"code"`
	Count int    `json:"count"`
}

type StatsResponse struct {
	TotalConversions     int                  `json:"totalConversions"`
	MostUsedFromCurrency string               `json:"mostUsedFromCurrency"`
	MostUsedToCurrency   string               `json:"mostUsedToCurrency"`
	TotalAmountConverted float64              `json:"totalAmountConverted"`
	RecentActivity       []ConversionResponse `json:"recentActivity"`
	CurrencyUsage        struct {
		From []CurrencyCountResponse `json:"from"`
		To   []CurrencyCountResponse `json:"to"`
	} `json:"currencyUsage"`
}

type ExportResponse struct {
	Key       string    `json:"key"`
	Location  string    `json:"location"`
	URL       string    `json:"url,omitempty"`
	Size      int64     `json:"size"`
	Records   int       `json:"records,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:                user.ID,
		Email:             user.Email,
		FirstName:         user.FirstName,
		LastName:          user.LastName,
		PreferredCurrency: user.PreferredCurrency,
	}
}

func conversionToResponse(rec domain.ConversionRecord) ConversionResponse {
	return ConversionResponse{
		Seq:             rec.Seq,
		FromCurrency:    rec.FromCurrency,
		ToCurrency:      rec.ToCurrency,
		Amount:          rec.Amount,
		ConvertedAmount: rec.ConvertedAmount,
		Rate:            rec.Rate,
		Date:            rec.Timestamp,
	}
}

func ledgerToResponse(ledger domain.Ledger) []ConversionResponse {
	resp := make([]ConversionResponse, len(ledger))
	for i := range ledger {
		resp[i] = conversionToResponse(ledger[i])
	}
	return resp
}

func countsToResponse(counts []domain.CurrencyCount) []CurrencyCountResponse {
	resp := make([]CurrencyCountResponse, len(counts))
	for i, c := range counts {
		resp[i] = CurrencyCountResponse{Code: c.Code, Count: c.Count}
	}
	return resp
}

func statsToResponse(stats *domain.StatsView) StatsResponse {
	resp := StatsResponse{
		TotalConversions:     stats.TotalConversions,
		MostUsedFromCurrency: stats.MostUsedFromCurrency,
		MostUsedToCurrency:   stats.MostUsedToCurrency,
		TotalAmountConverted: stats.TotalAmountConverted,
		RecentActivity:       ledgerToResponse(stats.RecentActivity),
	}
	resp.CurrencyUsage.From = countsToResponse(stats.CurrencyUsage.From)
	resp.CurrencyUsage.To = countsToResponse(stats.CurrencyUsage.To)
	return resp
}

func exportToResponse(export domain.LedgerExport) ExportResponse {
	return ExportResponse{
		Key:       export.Key,
		Location:  export.Location,
		URL:       export.URL,
		Size:      export.Size,
		Records:   export.Records,
		CreatedAt: export.CreatedAt,
	}
}
