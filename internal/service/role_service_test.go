package service

import (
	"context"
	"errors"
	"testing"

	"backend/internal/model"

	"github.com/google/uuid"
)

func TestCreateRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	role, err := env.roles.CreateRole(ctx, CreateRoleRequest{Name: "admin", Description: "full access"})
	if err != nil {
		t.Fatalf("CreateRole failed: %v", err)
	}
	if role.Name != "admin" {
		t.Fatalf("unexpected role: %+v", role)
	}

	// The allowed-name check is case-insensitive
	if _, err := env.roles.CreateRole(ctx, CreateRoleRequest{Name: "SUPERADMIN"}); err != nil {
		t.Fatalf("upper-cased allowed name should pass: %v", err)
	}

	_, err = env.roles.CreateRole(ctx, CreateRoleRequest{Name: "ceo"})
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("name outside the allowed set should fail, got: %v", err)
	}
}

func TestUpdateRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	role, err := env.roles.CreateRole(ctx, CreateRoleRequest{Name: "admin"})
	if err != nil {
		t.Fatalf("CreateRole failed: %v", err)
	}

	updated, err := env.roles.UpdateRole(ctx, role.ID, UpdateRoleRequest{Name: "sales rep", Description: "sells"})
	if err != nil {
		t.Fatalf("UpdateRole failed: %v", err)
	}
	if updated.Name != "sales rep" || updated.Description != "sells" {
		t.Fatalf("role not updated: %+v", updated)
	}

	_, err = env.roles.UpdateRole(ctx, role.ID, UpdateRoleRequest{Name: "intern"})
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("rename outside the allowed set should fail, got: %v", err)
	}
}

func TestGrantAndRevokePermission(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	role, err := env.roles.CreateRole(ctx, CreateRoleRequest{Name: "inventory manager"})
	if err != nil {
		t.Fatalf("CreateRole failed: %v", err)
	}
	perm, err := env.roles.CreatePermission(ctx, CreatePermissionRequest{Name: "stock.write"})
	if err != nil {
		t.Fatalf("CreatePermission failed: %v", err)
	}

	grant, err := env.roles.GrantPermission(ctx, role.ID, perm.ID)
	if err != nil {
		t.Fatalf("GrantPermission failed: %v", err)
	}
	if grant.Permission != "stock.write" {
		t.Fatalf("grant missing permission name: %+v", grant)
	}

	// The (role, permission) pair is unique
	_, err = env.roles.GrantPermission(ctx, role.ID, perm.ID)
	if !errors.Is(err, model.ErrConstraint) {
		t.Fatalf("duplicate grant should fail with ErrConstraint, got: %v", err)
	}

	grants, err := env.roles.ListGrants(ctx, role.ID)
	if err != nil {
		t.Fatalf("ListGrants failed: %v", err)
	}
	if len(grants) != 1 {
		t.Fatalf("expected one grant, got %d", len(grants))
	}

	if err := env.roles.RevokePermission(ctx, role.ID, perm.ID); err != nil {
		t.Fatalf("RevokePermission failed: %v", err)
	}
	err = env.roles.RevokePermission(ctx, role.ID, perm.ID)
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("revoking an absent grant should fail with ErrNotFound, got: %v", err)
	}
}

func TestDeleteRoleCascadesGrants(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	role, err := env.roles.CreateRole(ctx, CreateRoleRequest{Name: "invoice clerk"})
	if err != nil {
		t.Fatalf("CreateRole failed: %v", err)
	}
	perm, err := env.roles.CreatePermission(ctx, CreatePermissionRequest{Name: "invoice.read"})
	if err != nil {
		t.Fatalf("CreatePermission failed: %v", err)
	}
	if _, err := env.roles.GrantPermission(ctx, role.ID, perm.ID); err != nil {
		t.Fatalf("GrantPermission failed: %v", err)
	}

	if err := env.roles.DeleteRole(ctx, role.ID); err != nil {
		t.Fatalf("DeleteRole failed: %v", err)
	}

	_, err = env.roles.GetRole(ctx, role.ID)
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("role should be gone, got: %v", err)
	}

	roleID := uuid.MustParse(role.ID)
	permID := uuid.MustParse(perm.ID)
	exists, err := env.roleRepo.GrantExists(ctx, roleID, permID)
	if err != nil {
		t.Fatalf("GrantExists failed: %v", err)
	}
	if exists {
		t.Fatal("grants must be removed with their role")
	}
}

func TestDeletePermissionCascadesGrants(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	role, err := env.roles.CreateRole(ctx, CreateRoleRequest{Name: "sales rep"})
	if err != nil {
		t.Fatalf("CreateRole failed: %v", err)
	}
	perm, err := env.roles.CreatePermission(ctx, CreatePermissionRequest{Name: "order.write"})
	if err != nil {
		t.Fatalf("CreatePermission failed: %v", err)
	}
	if _, err := env.roles.GrantPermission(ctx, role.ID, perm.ID); err != nil {
		t.Fatalf("GrantPermission failed: %v", err)
	}

	if err := env.roles.DeletePermission(ctx, perm.ID); err != nil {
		t.Fatalf("DeletePermission failed: %v", err)
	}

	grants, err := env.roles.ListGrants(ctx, role.ID)
	if err != nil {
		t.Fatalf("ListGrants failed: %v", err)
	}
	if len(grants) != 0 {
		t.Fatalf("grants must be removed with their permission, got %d", len(grants))
	}
}

func TestGrantPermissionUnknownParties(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	role, err := env.roles.CreateRole(ctx, CreateRoleRequest{Name: "admin"})
	if err != nil {
		t.Fatalf("CreateRole failed: %v", err)
	}

	_, err = env.roles.GrantPermission(ctx, role.ID, uuid.NewString())
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("unknown permission should fail with ErrNotFound, got: %v", err)
	}

	_, err = env.roles.GrantPermission(ctx, uuid.NewString(), uuid.NewString())
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("unknown role should fail with ErrNotFound, got: %v", err)
	}

	_, err = env.roles.GrantPermission(ctx, "nope", "also-nope")
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("malformed ids should fail with ErrInvalidInput, got: %v", err)
	}
}
