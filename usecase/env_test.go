package usecase

import (
	"context"
	"time"

	"main/config"
	"main/model"
)

// coreEnv wires the emergency access core against the in-memory fakes.
type coreEnv struct {
	shields   *fakeShieldStore
	guardians *fakeGuardianStore
	requests  *fakeActivationStore
	tokens    *fakeTokenStore
	outbox    *fakeOutbox
	cfg       config.ShieldConfig

	machine  *ShieldStateMachine
	monitor  *InactivityMonitor
	protocol *ProtocolChecker
	quorum   *QuorumCoordinator
	tokenSvc *AccessTokenService
	activity *ActivityRecorder
}

func newCoreEnv() *coreEnv {
	env := &coreEnv{
		shields:   newFakeShieldStore(),
		guardians: newFakeGuardianStore(),
		requests:  newFakeActivationStore(),
		tokens:    newFakeTokenStore(),
		outbox:    &fakeOutbox{},
		cfg: config.ShieldConfig{
			ActivationWindow:         72 * time.Hour,
			TokenTTL:                 30 * 24 * time.Hour,
			MaxCodeAttempts:          3,
			ConfirmationLinkTTL:      72 * time.Hour,
			DownloadLinkTTL:          5 * time.Minute,
			DefaultInactivityMonths:  6,
			DefaultRequiredGuardians: 1,
			BaseURL:                  "http://shield.test",
		},
	}

	env.machine = &ShieldStateMachine{Shields: env.shields, Tokens: env.tokens}
	env.monitor = &InactivityMonitor{
		Shields:      env.shields,
		Guardians:    env.guardians,
		Requests:     env.requests,
		StateMachine: env.machine,
		Outbox:       env.outbox,
		Config:       env.cfg,
	}
	env.protocol = &ProtocolChecker{
		Requests:     env.requests,
		Guardians:    env.guardians,
		StateMachine: env.machine,
		Outbox:       env.outbox,
		Config:       env.cfg,
	}
	env.quorum = &QuorumCoordinator{
		Requests:     env.requests,
		Guardians:    env.guardians,
		StateMachine: env.machine,
		Outbox:       env.outbox,
	}
	env.tokenSvc = &AccessTokenService{
		Tokens:       env.tokens,
		Guardians:    env.guardians,
		StateMachine: env.machine,
		Outbox:       env.outbox,
		Config:       env.cfg,
	}
	env.activity = &ActivityRecorder{
		Shields:      env.shields,
		Requests:     env.requests,
		Guardians:    env.guardians,
		StateMachine: env.machine,
		Outbox:       env.outbox,
	}

	return env
}

// addUser seeds enabled shield settings with the given inactivity period
// and confirmation threshold, last active lastActivity ago.
func (e *coreEnv) addUser(userID string, months, required int, lastActivity time.Duration) {
	e.shields.put(&model.ShieldSettings{
		UserID:                 userID,
		IsShieldEnabled:        true,
		InactivityPeriodMonths: months,
		RequiredGuardians:      required,
		ShieldStatus:           model.ShieldInactive,
		LastActivityAt:         time.Now().UTC().Add(-lastActivity),
	})
}

func (e *coreEnv) addGuardian(id, userID string, canTrigger bool, perms model.GuardianPermissions) {
	e.guardians.guardians[id] = &model.Guardian{
		ID:                  id,
		UserID:              userID,
		Name:                "Guardian " + id,
		Email:               id + "@example.com",
		CanTriggerEmergency: canTrigger,
		Permissions:         perms,
	}
}

func (e *coreEnv) shieldStatus(userID string) model.ShieldStatus {
	s, _ := e.shields.Get(context.Background(), userID)
	if s == nil {
		return ""
	}
	return s.ShieldStatus
}

const months = 30 * 24 * time.Hour
