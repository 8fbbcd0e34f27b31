package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"backend/internal/model"

	"github.com/google/uuid"
)

func TestCreateOrganisation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := mustCreateUser(t, env, "jdoe", "jdoe@example.com")

	org, err := env.orgs.CreateOrganisation(ctx, CreateOrganisationRequest{
		Name:    "Acme Retail",
		Address: "1 Main St",
		OwnerID: owner.ID,
	})
	if err != nil {
		t.Fatalf("CreateOrganisation failed: %v", err)
	}
	if org.Name != "Acme Retail" || org.OwnerID != owner.ID {
		t.Fatalf("unexpected organisation: %+v", org)
	}
	if org.Owner != "jdoe" {
		t.Fatalf("owner username not resolved: %+v", org)
	}
}

func TestCreateOrganisationInvalidName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := mustCreateUser(t, env, "jdoe", "jdoe@example.com")

	_, err := env.orgs.CreateOrganisation(ctx, CreateOrganisationRequest{
		Name:    "Acme & Co",
		OwnerID: owner.ID,
	})
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("punctuated name should fail, got: %v", err)
	}

	_, err = env.orgs.CreateOrganisation(ctx, CreateOrganisationRequest{
		Name:    strings.Repeat("a", 126),
		OwnerID: owner.ID,
	})
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("overlong name should fail, got: %v", err)
	}
}

func TestCreateOrganisationUnknownOwner(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.orgs.CreateOrganisation(context.Background(), CreateOrganisationRequest{
		Name:    "Acme Retail",
		OwnerID: uuid.NewString(),
	})
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("unknown owner should fail with ErrNotFound, got: %v", err)
	}
}

func TestUpdateOrganisation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := mustCreateUser(t, env, "jdoe", "jdoe@example.com")
	successor := mustCreateUser(t, env, "asmith", "asmith@example.com")

	org, err := env.orgs.CreateOrganisation(ctx, CreateOrganisationRequest{
		Name:    "Acme Retail",
		OwnerID: owner.ID,
	})
	if err != nil {
		t.Fatalf("CreateOrganisation failed: %v", err)
	}

	updated, err := env.orgs.UpdateOrganisation(ctx, org.ID, UpdateOrganisationRequest{
		Name:    "Acme Wholesale",
		OwnerID: successor.ID,
	})
	if err != nil {
		t.Fatalf("UpdateOrganisation failed: %v", err)
	}
	if updated.Name != "Acme Wholesale" || updated.OwnerID != successor.ID {
		t.Fatalf("organisation not updated: %+v", updated)
	}

	_, err = env.orgs.UpdateOrganisation(ctx, org.ID, UpdateOrganisationRequest{Name: "Bad!Name"})
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("invalid rename should fail, got: %v", err)
	}
}

func TestDeleteOrganisation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := mustCreateUser(t, env, "jdoe", "jdoe@example.com")
	org, err := env.orgs.CreateOrganisation(ctx, CreateOrganisationRequest{
		Name:    "Acme Retail",
		OwnerID: owner.ID,
	})
	if err != nil {
		t.Fatalf("CreateOrganisation failed: %v", err)
	}

	if err := env.orgs.DeleteOrganisation(ctx, org.ID); err != nil {
		t.Fatalf("DeleteOrganisation failed: %v", err)
	}
	_, err = env.orgs.GetOrganisation(ctx, org.ID)
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("organisation should be gone, got: %v", err)
	}

	// The owner account is untouched
	if _, err := env.users.GetUserByID(ctx, owner.ID); err != nil {
		t.Fatalf("owner should survive the organisation delete: %v", err)
	}
}

func TestListOrganisations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := mustCreateUser(t, env, "jdoe", "jdoe@example.com")
	for _, name := range []string{"Acme North", "Acme South"} {
		if _, err := env.orgs.CreateOrganisation(ctx, CreateOrganisationRequest{
			Name:    name,
			OwnerID: owner.ID,
		}); err != nil {
			t.Fatalf("CreateOrganisation(%q) failed: %v", name, err)
		}
	}

	orgs, total, err := env.orgs.ListOrganisations(ctx, 1, 20)
	if err != nil {
		t.Fatalf("ListOrganisations failed: %v", err)
	}
	if total != 2 || len(orgs) != 2 {
		t.Fatalf("expected two organisations, got total=%d len=%d", total, len(orgs))
	}
}
