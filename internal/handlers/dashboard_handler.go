package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"trackpay-backend/internal/export"
	"trackpay-backend/internal/logger"
	"trackpay-backend/internal/models"
	"trackpay-backend/internal/repository"
	"trackpay-backend/internal/services/analytics"
	"trackpay-backend/internal/services/classifier"
	"trackpay-backend/internal/services/dashboard"
)

type DashboardHandler struct {
	service *dashboard.Service
}

func NewDashboardHandler(s *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// filterFromQuery reads ?window=&account=&search=&category=&type=.
func filterFromQuery(c *gin.Context) (analytics.Filter, error) {
	window, err := analytics.ParseWindow(c.Query("window"))
	if err != nil {
		return analytics.Filter{}, err
	}
	return analytics.Filter{
		Window:   window,
		Account:  c.Query("account"),
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Type:     c.Query("type"),
	}, nil
}

func (h *DashboardHandler) ListTransactions(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	items := h.service.Transactions(f)
	c.JSON(http.StatusOK, gin.H{
		"items":  items,
		"count":  len(items),
		"filter": f,
	})
}

func (h *DashboardHandler) CreateTransaction(c *gin.Context) {
	var payload dashboard.TransactionInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	tx, err := h.service.AddTransaction(payload)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "transaction created", "transaction": tx})
}

func (h *DashboardHandler) DeleteTransaction(c *gin.Context) {
	if err := h.service.DeleteTransaction(c.Param("id")); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// ImportTransactions accepts a multipart "file" in the export CSV layout.
func (h *DashboardHandler) ImportTransactions(c *gin.Context) {
	log := logger.FromContext(c.Request.Context())

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	defer file.Close()

	log.Info().Str("file", header.Filename).Int64("size", header.Size).Msg("csv upload received")

	n, err := h.service.ImportCSV(file)
	if err != nil {
		log.Warn().Err(err).Str("file", header.Filename).Msg("csv import rejected")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"file":     header.Filename,
		"imported": n,
	})
}

func (h *DashboardHandler) Summary(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.service.Summary(f))
}

func (h *DashboardHandler) Trend(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.service.Trend()})
}

// Categories returns the expense split; ?limit= caps the list (default 6).
func (h *DashboardHandler) Categories(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "6"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"categories": h.service.Categories(f, limit),
		"types":      h.service.PaymentTypes(f),
	})
}

func (h *DashboardHandler) Options(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Options())
}

func (h *DashboardHandler) Classify(c *gin.Context) {
	var payload struct {
		Description       string `json:"description"`
		Merchant          string `json:"merchant"`
		Amount            int64  `json:"amount"`
		UPIVirtualAddress string `json:"upi_virtual_address"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"analysis":   classifier.Classify(payload.Description, payload.Merchant, payload.Amount),
		"upi_source": classifier.IdentifyUPI(payload.UPIVirtualAddress),
	})
}

func (h *DashboardHandler) ExportCSV(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rows := h.service.ExportRows(f)

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.csv\"",
		time.Now().Format("20060102")))
	if err := export.WriteCSV(c.Writer, rows); err != nil {
		log := logger.FromContext(c.Request.Context())
		log.Error().Err(err).Msg("csv export failed")
		_ = c.Error(err)
	}
}

func (h *DashboardHandler) ExportXLSX(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rows := h.service.ExportRows(f)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.xlsx\"",
		time.Now().Format("20060102")))
	if err := export.WriteXLSX(c.Writer, rows); err != nil {
		log := logger.FromContext(c.Request.Context())
		log.Error().Err(err).Msg("xlsx export failed")
		_ = c.Error(err)
	}
}

func (h *DashboardHandler) GetOnboarding(c *gin.Context) {
	seen, err := h.service.OnboardingSeen(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"seen": seen})
}

func (h *DashboardHandler) DismissOnboarding(c *gin.Context) {
	if err := h.service.MarkOnboardingSeen(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"seen": true})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var fe models.FieldErrors
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrDuplicateID):
		return http.StatusConflict
	case errors.As(err, &fe),
		errors.Is(err, models.ErrZeroAmount),
		errors.Is(err, models.ErrUnknownType),
		errors.Is(err, models.ErrUnknownStatus),
		errors.Is(err, models.ErrUPIAddress),
		errors.Is(err, models.ErrAmountRange),
		errors.Is(err, models.ErrVPAFormat),
		errors.Is(err, models.ErrMissingDate),
		errors.Is(err, dashboard.ErrInvalidDate):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
