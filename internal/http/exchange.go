package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (h *Handler) rates(c *gin.Context) {
	var q ratesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.bindError(c, err)
		return
	}

	base := q.Base
	if base == "" {
		base = h.preferredCurrency(c)
	}

	snapshot, err := h.exchange.Rates(c.Request.Context(), base)
	if err != nil {
		h.writeError(c, err)
		return
	}

	lastUpdated := snapshot.LastUpdated
	if lastUpdated.IsZero() {
		lastUpdated = snapshot.RetrievedAt
	}
	resp := gin.H{
		"success":   true,
		"base_code": snapshot.Base,
		"rates":     snapshot.Rates,
	}
	if !lastUpdated.IsZero() {
		resp["last_updated"] = lastUpdated.Format(time.RFC1123Z)
	}
	c.JSON(http.StatusOK, resp)
}

// preferredCurrency returns the authenticated caller's preferred currency, or "" for
// anonymous callers and lookup failures.
func (h *Handler) preferredCurrency(c *gin.Context) string {
	userID, ok := currentUserID(c)
	if !ok {
		return ""
	}
	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		loggerFrom(c, h.logger).WithError(err).Debug("preferred currency lookup failed")
		return ""
	}
	return user.PreferredCurrency
}

func (h *Handler) convert(c *gin.Context) {
	var q convertQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.bindError(c, err)
		return
	}

	rec, err := h.exchange.Convert(c.Request.Context(), q.From, q.To, q.Amount)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"from":             rec.FromCurrency,
		"to":               rec.ToCurrency,
		"amount":           rec.Amount,
		"converted_amount": rec.ConvertedAmount,
		"conversion_rate":  rec.Rate,
		"date":             rec.Timestamp,
	})
}

func (h *Handler) supportedCurrencies(c *gin.Context) {
	currencies, err := h.exchange.SupportedCurrencies(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]CurrencyResponse, len(currencies))
	for i, cur := range currencies {
		resp[i] = CurrencyResponse{Code: cur.Code, Name: cur.Name}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "currencies": resp})
}
