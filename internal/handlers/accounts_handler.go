package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"trackpay-backend/internal/logger"
	"trackpay-backend/internal/models"
	"trackpay-backend/internal/services/accounts"
)

type AccountsHandler struct {
	service *accounts.Service
}

func NewAccountsHandler(s *accounts.Service) *AccountsHandler {
	return &AccountsHandler{service: s}
}

func (h *AccountsHandler) List(c *gin.Context) {
	items := h.service.List()
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items), "primary_id": h.primaryID()})
}

func (h *AccountsHandler) Get(c *gin.Context) {
	acct, err := h.service.Get(c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, acct)
}

func (h *AccountsHandler) Create(c *gin.Context) {
	var payload models.AccountInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	acct, err := h.service.Create(payload)
	if err != nil {
		writeAccountError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "account created", "account": acct})
}

func (h *AccountsHandler) Update(c *gin.Context) {
	var payload models.AccountInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	acct, err := h.service.Update(c.Param("id"), payload)
	if err != nil {
		writeAccountError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "account updated", "account": acct})
}

func (h *AccountsHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Param("id")); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AccountsHandler) SetPrimary(c *gin.Context) {
	acct, err := h.service.SetPrimary(c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "primary account updated", "account": acct})
}

// Refresh blocks until the balance is fetched; a client disconnect cancels it.
func (h *AccountsHandler) Refresh(c *gin.Context) {
	id := c.Param("id")
	acct, err := h.service.RefreshBalance(c.Request.Context(), id)
	if err != nil {
		status := statusFor(err)
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			status = http.StatusGatewayTimeout
		case errors.Is(err, context.Canceled):
			status = 499
		case errors.Is(err, accounts.ErrUnavailable):
			status = http.StatusServiceUnavailable
		}
		log := logger.FromContext(c.Request.Context())
		log.Warn().Err(err).Str("account_id", id).Msg("balance refresh failed")
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "balance refreshed", "account": acct})
}

func (h *AccountsHandler) Alerts(c *gin.Context) {
	items := h.service.LowBalance()
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items), "primary_id": h.primaryID()})
}

// primaryID is empty when no account exists.
func (h *AccountsHandler) primaryID() string {
	if p, ok := h.service.Primary(); ok {
		return p.ID
	}
	return ""
}

// writeAccountError reports form errors per field so the client can show
// them inline.
func writeAccountError(c *gin.Context, err error) {
	var fe models.FieldErrors
	if errors.As(err, &fe) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account", "fields": fe})
		return
	}
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
