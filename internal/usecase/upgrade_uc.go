package usecase

import (
	"context"
	"fmt"

	"genomics-annotation-service/internal/domain/model"
	"genomics-annotation-service/internal/domain/ports/adapter"
	"genomics-annotation-service/internal/domain/ports/repository"
	"genomics-annotation-service/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ UpgradeUseCase = (*upgradeUC)(nil)

// UpgradeUseCase flips a user to premium and kicks off restoration of their
// archived results.
type UpgradeUseCase interface {
	Subscribe(ctx context.Context, userID string) error
}

type upgradeUC struct {
	profiles     repository.ProfileRepository
	restoreStart adapter.NotificationBus
	log          *zerolog.Logger
}

func NewUpgradeUseCase(profiles repository.ProfileRepository, restoreStart adapter.NotificationBus, logger *zerolog.Logger) *upgradeUC {
	return &upgradeUC{profiles: profiles, restoreStart: restoreStart, log: logger}
}

func (u *upgradeUC) Subscribe(ctx context.Context, userID string) error {
	defer logging.TraceDuration(u.log, "UpgradeUC.Subscribe")()

	if err := u.profiles.SetRole(ctx, userID, model.RolePremium); err != nil {
		return fmt.Errorf("set premium role: %w", err)
	}
	if err := u.restoreStart.Publish(ctx, model.RestoreStartMessage{UserID: userID}); err != nil {
		return fmt.Errorf("publish restore start: %w", err)
	}

	logging.With(logging.WithUserID(ctx, userID), u.log).Info().Msg("user upgraded to premium")
	return nil
}
