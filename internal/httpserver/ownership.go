package httpserver

import (
	"context"

	"github.com/fdg312/diet-hub/internal/config"
)

// dietitianPolicy решает, может ли пользователь работать с диетами другого
// пользователя через параметр user_id.
// Если AUTH_REQUIRED=0, проверка пропускается
type dietitianPolicy struct {
	authRequired bool
	dietitians   map[string]bool
}

func newDietitianPolicy(cfg *config.Config) *dietitianPolicy {
	p := &dietitianPolicy{
		authRequired: cfg.AuthRequired,
		dietitians:   make(map[string]bool, len(cfg.DietitianUserIDs)),
	}
	for _, id := range cfg.DietitianUserIDs {
		p.dietitians[id] = true
	}
	return p
}

func (p *dietitianPolicy) CanActFor(ctx context.Context, callerID, targetID string) bool {
	if !p.authRequired || callerID == targetID {
		return true
	}
	return p.dietitians[callerID]
}
