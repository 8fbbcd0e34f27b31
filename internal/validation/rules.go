// Package validation holds the stateless field rules for the identity entities.
// Each rule either passes silently or fails with an error wrapping one of the
// model error sentinels, so the same predicates serve creation and update paths
// ahead of any store write.
package validation

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"backend/internal/model"

	"github.com/google/uuid"
)

const (
	UsernameMinLength = 4
	UsernameMaxLength = 128

	OrganisationNameMaxLength = 125
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	orgNameRe  = regexp.MustCompile(`^[a-zA-Z0-9\s]+$`)
)

// Username checks the default length bounds and allowed characters.
func Username(username string) error {
	return UsernameRange(username, UsernameMinLength, UsernameMaxLength)
}

// UsernameRange checks a username against explicit length bounds.
func UsernameRange(username string, minLength, maxLength int) error {
	if len(username) < minLength {
		return fmt.Errorf("%w: username must be at least %d characters long", model.ErrInvalidInput, minLength)
	}
	if len(username) > maxLength {
		return fmt.Errorf("%w: username cannot be longer than %d characters", model.ErrInvalidInput, maxLength)
	}
	if !usernameRe.MatchString(username) {
		return fmt.Errorf("%w: username can only contain letters, numbers, underscores, and hyphens", model.ErrInvalidInput)
	}
	return nil
}

// UserStation checks the station code against the allowed set. With no explicit
// set it accepts the two defined codes, WH and SP.
func UserStation(station string, allowed ...string) error {
	if len(allowed) == 0 {
		allowed = []string{model.StationWarehouse, model.StationShop}
	}
	for _, s := range allowed {
		if station == s {
			return nil
		}
	}
	return fmt.Errorf("%w: user station must be one of the following: %s",
		model.ErrInvalidInput, strings.Join(allowed, ", "))
}

// Role checks a user's role reference: absent-but-required fails, and a role
// without a non-empty name fails.
func Role(role *model.Role, required bool) error {
	if role == nil {
		if required {
			return fmt.Errorf("%w: role is required for this user", model.ErrInvalidInput)
		}
		return nil
	}
	if role.Name == "" {
		return fmt.Errorf("%w: role must have a valid name", model.ErrInvalidInput)
	}
	return nil
}

// RoleName checks a role name against the fixed allowed set, case-insensitively.
func RoleName(name string) error {
	lowered := strings.ToLower(name)
	for _, allowed := range model.AllowedRoleNames {
		if lowered == allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: invalid role '%s', allowed roles: %s",
		model.ErrInvalidInput, name, strings.Join(model.AllowedRoleNames, ", "))
}

// OrganisationName checks length and the letters/digits/spaces character set.
func OrganisationName(name string) error {
	if len(name) > OrganisationNameMaxLength {
		return fmt.Errorf("%w: organisation name cannot exceed %d characters",
			model.ErrInvalidInput, OrganisationNameMaxLength)
	}
	if !orgNameRe.MatchString(name) {
		return fmt.Errorf("%w: organisation name can only contain letters, numbers and spaces", model.ErrInvalidInput)
	}
	return nil
}

// UserResolver is the lookup the owner rule needs from the store layer.
type UserResolver interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// OrganisationOwner resolves and checks an organisation owner. The owner may be
// a *model.User already, or a uuid (or its string form) to resolve through the
// store. Resolution misses surface as not-found; any other kind of value is a
// type mismatch.
func OrganisationOwner(ctx context.Context, owner interface{}, users UserResolver) (*model.User, error) {
	switch v := owner.(type) {
	case *model.User:
		if v == nil {
			return nil, fmt.Errorf("%w: organisation owner is required", model.ErrInvalidInput)
		}
		return v, nil
	case uuid.UUID:
		return resolveOwner(ctx, v, users)
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("%w: organisation owner id is not a valid uuid", model.ErrInvalidInput)
		}
		return resolveOwner(ctx, id, users)
	case nil:
		return nil, fmt.Errorf("%w: organisation owner is required", model.ErrInvalidInput)
	default:
		return nil, fmt.Errorf("%w: invalid organisation owner type %T, expected User or id", model.ErrTypeMismatch, owner)
	}
}

func resolveOwner(ctx context.Context, id uuid.UUID, users UserResolver) (*model.User, error) {
	user, err := users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: user with id %s does not exist", model.ErrNotFound, id)
	}
	return user, nil
}

// ProfileUser checks a user reference for profile association: a present user
// must be active.
func ProfileUser(user *model.User) error {
	if user == nil {
		return nil
	}
	if !user.IsActive {
		return fmt.Errorf("%w: the user is inactive and cannot be assigned to a profile", model.ErrInvalidInput)
	}
	return nil
}
