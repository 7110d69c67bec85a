package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"trackpay-backend/internal/models"
)

// PreferenceRepository persists small settings such as the onboarding flag.
type PreferenceRepository struct {
	db *gorm.DB
}

func NewPreferenceRepository(db *gorm.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// GetBool returns the stored flag, or false when the key was never written.
func (r *PreferenceRepository) GetBool(ctx context.Context, key string) (bool, error) {
	var pref models.Preference
	err := r.db.WithContext(ctx).First(&pref, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load preference %q: %w", key, err)
	}

	var v bool
	if err := json.Unmarshal(pref.Value, &v); err != nil {
		return false, fmt.Errorf("decode preference %q: %w", key, err)
	}
	return v, nil
}

// SetBool upserts the flag.
func (r *PreferenceRepository) SetBool(ctx context.Context, key string, v bool) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	pref := models.Preference{Key: key, Value: datatypes.JSON(raw)}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&pref).Error
	if err != nil {
		return fmt.Errorf("save preference %q: %w", key, err)
	}
	return nil
}
