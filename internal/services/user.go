package services

import (
	"context"

	"github.com/pennywise-app/pennywise-backend/internal/errs"
	"github.com/pennywise-app/pennywise-backend/internal/models"
	"github.com/pennywise-app/pennywise-backend/pkg/logger"
)

type userUSStore interface {
	GetUser(ctx context.Context, uid string) (*models.User, error)
	UpdateProfile(ctx context.Context, uid string, fields map[string]any) (*models.User, error)
}

type userService struct {
	Store userUSStore
}

func NewUserService(store userUSStore) *userService {
	return &userService{
		Store: store,
	}
}

func (s *userService) GetProfile(ctx context.Context, uid string) (*models.User, error) {
	return s.Store.GetUser(ctx, uid)
}

// ProfileUpdate carries the editable profile fields. Saving marks the
// profile complete; the caller re-materializes the session afterwards
// so the flag lands in the token claims.
type ProfileUpdate struct {
	Name      string `json:"name"`
	StoreName string `json:"storeName"`
	Location  string `json:"location"`
	Currency  string `json:"currency"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

func (s *userService) UpdateProfile(ctx context.Context, uid string, req ProfileUpdate) (*models.User, error) {
	log := logger.FromContext(ctx)

	if req.Name == "" {
		return nil, errs.NewValidationError("name is required")
	}
	if len(req.Phone) > 0 && len(req.Phone) < 10 {
		return nil, errs.NewValidationError("invalid phone number")
	}

	fields := map[string]any{
		"uid":               uid,
		"name":              req.Name,
		"storeName":         req.StoreName,
		"location":          req.Location,
		"currency":          req.Currency,
		"phone":             req.Phone,
		"address":           req.Address,
		"isProfileComplete": true,
	}

	user, err := s.Store.UpdateProfile(ctx, uid, fields)
	if err != nil {
		log.Error("failed to update profile", "error", err)
		return nil, err
	}

	log.Info("profile updated", "profile_complete", user.IsProfileComplete)
	return user, nil
}
