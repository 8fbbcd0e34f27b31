package service

import (
	"context"
	"fmt"
	"log"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/validation"
	"backend/internal/websocket"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateRoleRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateRoleRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type CreatePermissionRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type RoleResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

type PermissionResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

type GrantResponse struct {
	ID           string `json:"id"`
	RoleID       string `json:"role_id"`
	PermissionID string `json:"permission_id"`
	Permission   string `json:"permission,omitempty"`
}

// RoleService covers roles, permissions and the grants joining them
type RoleService interface {
	ListRoles(ctx context.Context) ([]RoleResponse, error)
	GetRole(ctx context.Context, id string) (*RoleResponse, error)
	CreateRole(ctx context.Context, req CreateRoleRequest) (*RoleResponse, error)
	UpdateRole(ctx context.Context, id string, req UpdateRoleRequest) (*RoleResponse, error)
	DeleteRole(ctx context.Context, id string) error

	ListPermissions(ctx context.Context) ([]PermissionResponse, error)
	CreatePermission(ctx context.Context, req CreatePermissionRequest) (*PermissionResponse, error)
	DeletePermission(ctx context.Context, id string) error

	ListGrants(ctx context.Context, roleID string) ([]GrantResponse, error)
	GrantPermission(ctx context.Context, roleID, permissionID string) (*GrantResponse, error)
	RevokePermission(ctx context.Context, roleID, permissionID string) error
}

type roleService struct {
	repo  repository.RoleRepository
	tx    repository.TransactionManager
	audit repository.AuditRepository
	hub   *websocket.Hub
}

func NewRoleService(
	repo repository.RoleRepository,
	tx repository.TransactionManager,
	audit repository.AuditRepository,
	hub *websocket.Hub,
) RoleService {
	return &roleService{repo: repo, tx: tx, audit: audit, hub: hub}
}

// --- Implementation ---

func (s *roleService) ListRoles(ctx context.Context) ([]RoleResponse, error) {
	roles, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roles: %w", err)
	}

	res := make([]RoleResponse, 0, len(roles))
	for i := range roles {
		res = append(res, toRoleResponse(&roles[i]))
	}
	return res, nil
}

func (s *roleService) GetRole(ctx context.Context, id string) (*RoleResponse, error) {
	roleID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid role id", model.ErrInvalidInput)
	}

	role, err := s.repo.FindByID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	resp := toRoleResponse(role)
	return &resp, nil
}

func (s *roleService) CreateRole(ctx context.Context, req CreateRoleRequest) (*RoleResponse, error) {
	if err := validation.RoleName(req.Name); err != nil {
		return nil, err
	}

	role := &model.Role{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, role); err != nil {
		return nil, fmt.Errorf("failed to create role: %w", err)
	}

	s.auditTrail(ctx, model.ActionCreateRole, role.ID.String(), role.Name)
	s.hub.Notify("created", "role", role.ID.String())

	resp := toRoleResponse(role)
	return &resp, nil
}

func (s *roleService) UpdateRole(ctx context.Context, id string, req UpdateRoleRequest) (*RoleResponse, error) {
	roleID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid role id", model.ErrInvalidInput)
	}

	role, err := s.repo.FindByID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	if err := validation.RoleName(req.Name); err != nil {
		return nil, err
	}

	role.Name = req.Name
	role.Description = req.Description

	if err := s.repo.Update(ctx, role); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	s.auditTrail(ctx, model.ActionUpdateRole, role.ID.String(), role.Name)
	s.hub.Notify("updated", "role", role.ID.String())

	resp := toRoleResponse(role)
	return &resp, nil
}

// DeleteRole removes the role; its grants go with it in the same transaction.
func (s *roleService) DeleteRole(ctx context.Context, id string) error {
	roleID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid role id", model.ErrInvalidInput)
	}

	role, err := s.repo.FindByID(ctx, roleID)
	if err != nil {
		return err
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, roleID)
	})
	if err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}

	s.auditTrail(ctx, model.ActionDeleteRole, id, role.Name)
	s.hub.Notify("deleted", "role", id)
	return nil
}

func (s *roleService) ListPermissions(ctx context.Context) ([]PermissionResponse, error) {
	perms, err := s.repo.ListPermissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch permissions: %w", err)
	}

	res := make([]PermissionResponse, 0, len(perms))
	for i := range perms {
		res = append(res, toPermissionResponse(&perms[i]))
	}
	return res, nil
}

func (s *roleService) CreatePermission(ctx context.Context, req CreatePermissionRequest) (*PermissionResponse, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: permission name is required", model.ErrInvalidInput)
	}

	perm := &model.Permission{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.repo.CreatePermission(ctx, perm); err != nil {
		return nil, fmt.Errorf("failed to create permission: %w", err)
	}

	s.auditTrail(ctx, model.ActionCreatePermission, perm.ID.String(), perm.Name)

	resp := toPermissionResponse(perm)
	return &resp, nil
}

// DeletePermission removes the permission; dependent grants are removed in the
// same transaction.
func (s *roleService) DeletePermission(ctx context.Context, id string) error {
	permID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid permission id", model.ErrInvalidInput)
	}

	perm, err := s.repo.FindPermissionByID(ctx, permID)
	if err != nil {
		return err
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return s.repo.DeletePermission(txCtx, permID)
	})
	if err != nil {
		return fmt.Errorf("failed to delete permission: %w", err)
	}

	s.auditTrail(ctx, model.ActionDeletePermission, id, perm.Name)
	return nil
}

func (s *roleService) ListGrants(ctx context.Context, roleID string) ([]GrantResponse, error) {
	id, err := uuid.Parse(roleID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid role id", model.ErrInvalidInput)
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	grants, err := s.repo.ListGrants(ctx, id)
	if err != nil {
		return nil, err
	}

	res := make([]GrantResponse, 0, len(grants))
	for i := range grants {
		res = append(res, toGrantResponse(&grants[i]))
	}
	return res, nil
}

// GrantPermission links a permission to a role. The (role, permission) pair is
// unique; granting twice is a constraint violation.
func (s *roleService) GrantPermission(ctx context.Context, roleID, permissionID string) (*GrantResponse, error) {
	rid, err := uuid.Parse(roleID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid role id", model.ErrInvalidInput)
	}
	pid, err := uuid.Parse(permissionID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid permission id", model.ErrInvalidInput)
	}

	role, err := s.repo.FindByID(ctx, rid)
	if err != nil {
		return nil, err
	}
	perm, err := s.repo.FindPermissionByID(ctx, pid)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.GrantExists(ctx, rid, pid)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: role '%s' already has permission '%s'", model.ErrConstraint, role.Name, perm.Name)
	}

	grant, err := s.repo.Grant(ctx, rid, pid)
	if err != nil {
		return nil, err
	}
	grant.Permission = perm

	s.auditTrail(ctx, model.ActionGrantPermission, grant.ID.String(), role.Name+" -> "+perm.Name)
	s.hub.Notify("updated", "role", roleID)

	resp := toGrantResponse(grant)
	return &resp, nil
}

func (s *roleService) RevokePermission(ctx context.Context, roleID, permissionID string) error {
	rid, err := uuid.Parse(roleID)
	if err != nil {
		return fmt.Errorf("%w: invalid role id", model.ErrInvalidInput)
	}
	pid, err := uuid.Parse(permissionID)
	if err != nil {
		return fmt.Errorf("%w: invalid permission id", model.ErrInvalidInput)
	}

	if err := s.repo.Revoke(ctx, rid, pid); err != nil {
		return err
	}

	s.auditTrail(ctx, model.ActionRevokePermission, roleID, permissionID)
	s.hub.Notify("updated", "role", roleID)
	return nil
}

// --- Helpers ---

func (s *roleService) auditTrail(ctx context.Context, action, entityID, entityName string) {
	entry := &model.AuditLog{Action: action, EntityID: entityID, EntityName: entityName}
	if err := s.audit.Create(ctx, entry); err != nil {
		log.Printf("audit write failed for %s: %v", action, err)
	}
}

func toRoleResponse(r *model.Role) RoleResponse {
	return RoleResponse{
		ID:          r.ID.String(),
		Name:        r.Name,
		Description: r.Description,
		CreatedAt:   r.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func toPermissionResponse(p *model.Permission) PermissionResponse {
	return PermissionResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func toGrantResponse(g *model.RolePermission) GrantResponse {
	resp := GrantResponse{
		ID:           g.ID.String(),
		RoleID:       g.RoleID.String(),
		PermissionID: g.PermissionID.String(),
	}
	if g.Permission != nil {
		resp.Permission = g.Permission.Name
	}
	return resp
}
