package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"currency-ledger/internal/domain"
	"currency-ledger/internal/service"
)

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	user, err := h.users.Register(c.Request.Context(), service.RegisterInput{
		Email:             req.Email,
		Password:          req.Password,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		PreferredCurrency: req.PreferredCurrency,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.respondWithToken(c, http.StatusCreated, user)
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.respondWithToken(c, http.StatusOK, user)
}

func (h *Handler) respondWithToken(c *gin.Context, status int, user *domain.User) {
	token, err := h.issueToken(user.ID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(status, gin.H{
		"success": true,
		"token":   token,
		"user":    userToResponse(user),
	})
}

func (h *Handler) me(c *gin.Context) {
	userID, _ := currentUserID(c)
	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": userToResponse(user)})
}

func (h *Handler) updateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	userID, _ := currentUserID(c)
	user, err := h.users.UpdateProfile(c.Request.Context(), userID, domain.ProfileUpdate{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		PreferredCurrency: req.PreferredCurrency,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated successfully",
		"user":    userToResponse(user),
	})
}
