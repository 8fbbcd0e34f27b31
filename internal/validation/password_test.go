package validation

import (
	"errors"
	"strings"
	"testing"

	"backend/internal/model"
)

func TestPasswordLength(t *testing.T) {
	err := Password("Ab1", nil, DefaultPasswordPolicy())
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("short password should fail with ErrInvalidInput, got: %v", err)
	}
	if !strings.Contains(err.Error(), "at least 8 characters") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestPasswordCharacterClasses(t *testing.T) {
	policy := DefaultPasswordPolicy()

	cases := []struct {
		name     string
		password string
		want     string
	}{
		{"missing uppercase", "alllowercase1", "uppercase"},
		{"missing lowercase", "ALLUPPERCASE1", "lowercase"},
		{"missing digit", "NoDigitsHere", "number"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Password(tc.password, nil, policy)
			if err == nil {
				t.Fatalf("Password(%q) should fail", tc.password)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in message, got: %v", tc.want, err)
			}
		})
	}

	if err := Password("BlueHorizon7", nil, policy); err != nil {
		t.Fatalf("well-formed password should pass: %v", err)
	}
}

func TestPasswordSpecialCharacterPolicy(t *testing.T) {
	policy := PasswordPolicy{MinLength: 8, RequireSpecial: true}

	if err := Password("Abcdef12", nil, policy); err == nil {
		t.Fatal("expected failure without a special character")
	}
	if err := Password("Abcdef12!", nil, policy); err != nil {
		t.Fatalf("unexpected error with a special character: %v", err)
	}
}

func TestPasswordCommonList(t *testing.T) {
	// Survives the class checks but sits on the common list
	err := Password("Password1", nil, DefaultPasswordPolicy())
	if err == nil {
		t.Fatal("common password should be rejected")
	}
	if !strings.Contains(err.Error(), "too common") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestPasswordSimilarity(t *testing.T) {
	user := &model.User{
		Username:  "jsmith",
		Email:     "john.smith@example.com",
		Firstname: "John",
		Lastname:  "Smith",
	}
	policy := DefaultPasswordPolicy()

	cases := []struct {
		name     string
		password string
	}{
		{"contains username", "Jsmith99x"},
		{"contains last name", "MySmith2024"},
		{"contains email local word", "John4Ever1"},
		{"whole email", "john.smith@example.com"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Password(tc.password, user, policy)
			if !errors.Is(err, model.ErrInvalidInput) {
				t.Fatalf("Password(%q) should fail the similarity check, got: %v", tc.password, err)
			}
			if !strings.Contains(err.Error(), "too similar") {
				t.Fatalf("unexpected message: %v", err)
			}
		})
	}

	// The email domain is excluded from the fragments, so a password sharing
	// it must still pass.
	if err := Password("Examplecom1", user, policy); err != nil {
		t.Fatalf("domain fragments must not reject passwords: %v", err)
	}

	if err := Password("BlueHorizon7", user, policy); err != nil {
		t.Fatalf("dissimilar password should pass: %v", err)
	}
}

func TestPasswordShortFragmentsIgnored(t *testing.T) {
	// One- and two-letter name fragments must not poison the check
	user := &model.User{Username: "a_li", Email: "al@ex.org", Firstname: "Al"}
	if err := Password("Grapefruit9", user, DefaultPasswordPolicy()); err != nil {
		t.Fatalf("short fragments should be skipped: %v", err)
	}
}
