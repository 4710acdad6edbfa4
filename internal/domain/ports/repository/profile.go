package repository

import (
	"context"

	"genomics-annotation-service/internal/domain/model"
)

// ProfileRepository reads user profiles from the accounts database. The only
// write the pipeline performs is the premium upgrade.
type ProfileRepository interface {
	Find(ctx context.Context, userID string) (*model.UserProfile, error)
	SetRole(ctx context.Context, userID string, role model.Role) error
}
