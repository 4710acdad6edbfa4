//go:build !integration

package usecase

import (
	"context"
	"errors"
	"testing"

	"genomics-annotation-service/internal/domain"
	"genomics-annotation-service/internal/domain/model"
)

func TestUpgradeUC_Subscribe(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	profiles := newMemProfileRepo()
	profiles.add(model.UserProfile{ID: "U1", Role: model.RoleFree})
	bus := newMemBus()

	uc := NewUpgradeUseCase(profiles, bus, nopLogger())
	if err := uc.Subscribe(ctx, "U1"); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	p, _ := profiles.Find(ctx, "U1")
	if p.Role != model.RolePremium {
		t.Fatalf("expected premium role, got %s", p.Role)
	}

	if len(bus.published) != 1 {
		t.Fatalf("expected 1 restore-start event, got %d", len(bus.published))
	}
	msg, ok := bus.published[0].(model.RestoreStartMessage)
	if !ok || msg.UserID != "U1" {
		t.Fatalf("unexpected event: %#v", bus.published[0])
	}
}

func TestUpgradeUC_UnknownAccount(t *testing.T) {
	t.Parallel()

	uc := NewUpgradeUseCase(newMemProfileRepo(), newMemBus(), nopLogger())
	if err := uc.Subscribe(context.Background(), "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
