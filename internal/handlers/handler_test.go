package handler

import (
	"fmt"
	"math"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"trackpay-backend/internal/models"
	"trackpay-backend/internal/repository"
	"trackpay-backend/internal/services/dashboard"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("account %q: %w", "x", repository.ErrNotFound), http.StatusNotFound},
		{"duplicate", repository.ErrDuplicateID, http.StatusConflict},
		{"field errors", models.FieldErrors{"pan": "bad"}, http.StatusBadRequest},
		{"zero amount", models.ErrZeroAmount, http.StatusBadRequest},
		{"vpa", models.ErrUPIAddress, http.StatusBadRequest},
		{"vpa format", fmt.Errorf("%w: %q", models.ErrVPAFormat, "foo"), http.StatusBadRequest},
		{"amount range", fmt.Errorf("%w: %d", models.ErrAmountRange, int64(math.MinInt64)), http.StatusBadRequest},
		{"unknown type", fmt.Errorf("%w: %q", models.ErrUnknownType, "Cheque"), http.StatusBadRequest},
		{"bad date", fmt.Errorf("%w %q", dashboard.ErrInvalidDate, "x"), http.StatusBadRequest},
		{"other", fmt.Errorf("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}
