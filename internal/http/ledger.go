package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"currency-ledger/internal/service"
)

func (h *Handler) saveConversion(c *gin.Context) {
	var req saveConversionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	userID, _ := currentUserID(c)
	rec, err := h.ledgers.SaveConversion(c.Request.Context(), userID, service.SaveConversionInput{
		FromCurrency:    req.FromCurrency,
		ToCurrency:      req.ToCurrency,
		Amount:          req.Amount,
		ConvertedAmount: req.ConvertedAmount,
		Rate:            req.Rate,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Conversion saved to history",
		"conversion": conversionToResponse(*rec),
	})
}

func (h *Handler) convertAndSave(c *gin.Context) {
	var req convertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	userID, _ := currentUserID(c)
	rec, err := h.ledgers.ConvertAndSave(c.Request.Context(), userID, req.From, req.To, req.Amount)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Conversion saved to history",
		"conversion": conversionToResponse(*rec),
	})
}

func (h *Handler) history(c *gin.Context) {
	userID, _ := currentUserID(c)
	ledger, err := h.ledgers.History(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "history": ledgerToResponse(ledger)})
}

func (h *Handler) recent(c *gin.Context) {
	var q recentQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.bindError(c, err)
		return
	}

	userID, _ := currentUserID(c)
	ledger, err := h.ledgers.Recent(c.Request.Context(), userID, q.Limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "recent": ledgerToResponse(ledger)})
}

func (h *Handler) stats(c *gin.Context) {
	userID, _ := currentUserID(c)
	stats, err := h.ledgers.Stats(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": statsToResponse(stats)})
}

func (h *Handler) exportHistory(c *gin.Context) {
	userID, _ := currentUserID(c)
	export, err := h.exports.Export(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "export": exportToResponse(*export)})
}

func (h *Handler) listExports(c *gin.Context) {
	userID, _ := currentUserID(c)
	exports, err := h.exports.ListExports(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]ExportResponse, len(exports))
	for i := range exports {
		resp[i] = exportToResponse(exports[i])
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "exports": resp})
}
