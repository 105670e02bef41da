package core

import (
	"context"
	"fmt"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"package-visibility/internal/types"
)

type StateValidator struct{}

func NewStateValidator() StateValidator {
	return StateValidator{}
}

// ValidateState checks an installed-package state document before it
// is loaded into the engine.  Records are supplied fully parsed by
// collaborators; validation guards the engine's own invariants, not
// manifest syntax.
func (v StateValidator) ValidateState(ctx context.Context, state types.InstalledState) error {
	assert.NotEmpty(ctx, state.APIVersion, "api_version must be set")
	seen := map[string]struct{}{}
	for _, record := range state.Packages {
		if err := v.validateRecord(record); err != nil {
			return err
		}
		if _, ok := seen[record.Name]; ok {
			return errbuilder.New().
				WithCode(errbuilder.CodeAlreadyExists).
				WithMsg(fmt.Sprintf("duplicate package in state: %s", record.Name))
		}
		seen[record.Name] = struct{}{}
	}
	log.Ctx(ctx).Debug().Int("packages", len(state.Packages)).Msg("state validated")
	return nil
}

func (v StateValidator) validateRecord(record types.PackageRecord) error {
	if strings.TrimSpace(record.Name) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("package record missing name")
	}
	if record.UID < 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("package %s has negative uid", record.Name))
	}
	if record.TargetAPILevel <= 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("package %s must declare target_api_level", record.Name))
	}
	for _, filter := range record.ExposedFilters {
		for _, authority := range filter.Authorities {
			if strings.TrimSpace(authority.Host) == "" {
				return errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("package %s exposes an authority without a host", record.Name))
			}
		}
	}
	for _, pattern := range record.QueriesPatterns {
		if strings.TrimSpace(pattern.Action) == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("package %s declares a query pattern without an action", record.Name))
		}
		if pattern.Authority != nil && strings.TrimSpace(pattern.Authority.Host) == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("package %s declares a query authority without a host", record.Name))
		}
	}
	for _, queried := range record.QueriesPackages {
		if strings.TrimSpace(queried) == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("package %s declares an empty queries_packages entry", record.Name))
		}
	}
	return nil
}

// ValidatePolicy checks a device policy document.  Forward references
// to packages not present in any state file are legal: declared-query
// and allow-list names resolve lazily at decision time.
func (v StateValidator) ValidatePolicy(ctx context.Context, policy types.DevicePolicy) error {
	for _, name := range policy.ForceQueryablePackages {
		if strings.TrimSpace(name) == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("force_queryable entries must not be empty")
		}
	}
	for _, name := range policy.Feature.DisabledPackages {
		if strings.TrimSpace(name) == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("feature.disabled_packages entries must not be empty")
		}
	}
	log.Ctx(ctx).Debug().
		Int("force_queryable", len(policy.ForceQueryablePackages)).
		Bool("system_force_queryable", policy.SystemForceQueryable).
		Msg("policy validated")
	return nil
}
