package validation

import (
	"fmt"
	"regexp"
	"strings"

	"backend/internal/model"
)

// PasswordPolicy controls the tunable parts of the password rule.
type PasswordPolicy struct {
	MinLength      int
	RequireSpecial bool
}

// DefaultPasswordPolicy is the policy applied on account creation.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{MinLength: 8}
}

var (
	upperRe   = regexp.MustCompile(`[A-Z]`)
	lowerRe   = regexp.MustCompile(`[a-z]`)
	digitRe   = regexp.MustCompile(`[0-9]`)
	specialRe = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};:"\\|,.<>\/?]`)
)

// Password checks a candidate password against the user's own attributes, the
// length and character-class rules of the policy, and the common-password list.
// Plaintext never leaves this function; hashing happens at the lifecycle layer.
func Password(password string, user *model.User, policy PasswordPolicy) error {
	if err := similarToUserAttributes(password, user); err != nil {
		return err
	}

	if len(password) < policy.MinLength {
		return fmt.Errorf("%w: password must be at least %d characters long", model.ErrInvalidInput, policy.MinLength)
	}

	checks := []struct {
		re  *regexp.Regexp
		msg string
	}{
		{upperRe, "password must contain at least one uppercase letter"},
		{lowerRe, "password must contain at least one lowercase letter"},
		{digitRe, "password must contain at least one number"},
	}
	if policy.RequireSpecial {
		checks = append(checks, struct {
			re  *regexp.Regexp
			msg string
		}{specialRe, "password must contain at least one special character"})
	}
	for _, c := range checks {
		if !c.re.MatchString(password) {
			return fmt.Errorf("%w: %s", model.ErrInvalidInput, c.msg)
		}
	}

	lowered := strings.ToLower(password)
	for _, common := range commonPasswords {
		if lowered == common {
			return fmt.Errorf("%w: this password is too common", model.ErrInvalidInput)
		}
	}

	return nil
}

// minFragment keeps trivially short attribute fragments ("a", "de") from
// rejecting every password containing them.
const minFragment = 3

func similarToUserAttributes(password string, user *model.User) error {
	if user == nil {
		return nil
	}

	// The email domain is left out on purpose: fragments like "com" would
	// reject nearly everything.
	attributes := []struct {
		name      string
		value     string
		wholeOnly bool
	}{
		{"username", user.Username, false},
		{"email", user.Email, true},
		{"email", emailLocalPart(user.Email), false},
		{"first name", user.Firstname, false},
		{"middle name", user.Middlename, false},
		{"last name", user.Lastname, false},
	}

	lowered := strings.ToLower(password)
	for _, attr := range attributes {
		fragments := splitWords(strings.ToLower(attr.value))
		if attr.wholeOnly {
			fragments = []string{strings.ToLower(attr.value)}
		}
		for _, fragment := range fragments {
			if len(fragment) < minFragment {
				continue
			}
			if strings.Contains(lowered, fragment) || strings.Contains(fragment, lowered) {
				return fmt.Errorf("%w: password is too similar to the %s", model.ErrInvalidInput, attr.name)
			}
		}
	}
	return nil
}

func emailLocalPart(email string) string {
	if at := strings.LastIndex(email, "@"); at > 0 {
		return email[:at]
	}
	return ""
}

var wordSplitRe = regexp.MustCompile(`[^a-z0-9]+`)

func splitWords(s string) []string {
	if s == "" {
		return nil
	}
	parts := wordSplitRe.Split(s, -1)
	// The whole attribute counts as a fragment too
	return append(parts, s)
}
