package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/validation"
	"backend/internal/websocket"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DTOs for Request validation
type CreateUserRequest struct {
	Email    string                 `json:"email" binding:"required,email"`
	Username string                 `json:"username" binding:"required"`
	Password string                 `json:"password" binding:"required"`
	Extra    map[string]interface{} `json:"extra,omitempty"`
}

// DTO for returning User without exposing sensitive data (e.g. password hash)
type UserResponse struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Firstname      string `json:"firstname"`
	Middlename     string `json:"middlename,omitempty"`
	Lastname       string `json:"lastname"`
	Role           string `json:"role,omitempty"`
	OrganisationID string `json:"organisation_id,omitempty"`
	UserStation    string `json:"user_station,omitempty"`
	StationID      string `json:"station_id,omitempty"`
	IsActive       bool   `json:"is_active"`
	IsStaff        bool   `json:"is_staff"`
	IsSuperuser    bool   `json:"is_superuser"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

// UserService is the account lifecycle manager: creation, activation state and
// partial updates, each validated before any store write.
type UserService interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error)
	CreateSuperuser(ctx context.Context, req CreateUserRequest) (*UserResponse, error)
	ActivateUser(ctx context.Context, email string) error
	DeactivateUser(ctx context.Context, email string) error
	UpdateUser(ctx context.Context, email string, fields map[string]interface{}) (*UserResponse, error)
	GetUserByEmail(ctx context.Context, email string) (*UserResponse, error)
	GetUserByID(ctx context.Context, id string) (*UserResponse, error)
	ListUsers(ctx context.Context, filter repository.UserFilter, page, limit int) ([]UserResponse, int64, error)
	DeleteUser(ctx context.Context, id string) error
}

type userService struct {
	repo  repository.UserRepository
	roles repository.RoleRepository
	audit repository.AuditRepository
	tx    repository.TransactionManager
	hub   *websocket.Hub
}

// NewUserService returns a new instance of UserService
func NewUserService(
	repo repository.UserRepository,
	roles repository.RoleRepository,
	audit repository.AuditRepository,
	tx repository.TransactionManager,
	hub *websocket.Hub,
) UserService {
	return &userService{repo: repo, roles: roles, audit: audit, tx: tx, hub: hub}
}

// normalizeEmail lower-cases the domain portion, leaving the local part as given.
func normalizeEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}

// Helper: parse model to standard json API response
func mapToResponse(user *model.User) *UserResponse {
	resp := &UserResponse{
		ID:          user.ID.String(),
		Username:    user.Username,
		Email:       user.Email,
		Firstname:   user.Firstname,
		Middlename:  user.Middlename,
		Lastname:    user.Lastname,
		UserStation: user.UserStation,
		StationID:   user.StationID,
		IsActive:    user.IsActive,
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
		CreatedAt:   user.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:   user.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if user.Role != nil {
		resp.Role = user.Role.Name
	}
	if user.OrganisationID != nil {
		resp.OrganisationID = user.OrganisationID.String()
	}
	return resp
}

func (s *userService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	return s.createUser(ctx, req, model.ActionCreateUser)
}

// CreateSuperuser defaults is_staff, is_superuser and is_active to true and
// refuses an explicit downgrade of either privilege flag.
func (s *userService) CreateSuperuser(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	if req.Extra == nil {
		req.Extra = map[string]interface{}{}
	}
	for _, flag := range []string{"is_staff", "is_superuser", "is_active"} {
		if _, ok := req.Extra[flag]; !ok {
			req.Extra[flag] = true
		}
	}
	if v, ok := req.Extra["is_staff"].(bool); !ok || !v {
		return nil, fmt.Errorf("%w: superuser must have is_staff=true", model.ErrInvalidInput)
	}
	if v, ok := req.Extra["is_superuser"].(bool); !ok || !v {
		return nil, fmt.Errorf("%w: superuser must have is_superuser=true", model.ErrInvalidInput)
	}

	return s.createUser(ctx, req, model.ActionCreateSuperuser)
}

func (s *userService) createUser(ctx context.Context, req CreateUserRequest, action string) (*UserResponse, error) {
	if req.Email == "" {
		return nil, fmt.Errorf("%w: the email field is required", model.ErrInvalidInput)
	}
	if req.Password == "" {
		return nil, fmt.Errorf("%w: the password field is required", model.ErrInvalidInput)
	}
	if err := validation.Username(req.Username); err != nil {
		return nil, err
	}

	user := &model.User{
		Email:    normalizeEmail(req.Email),
		Username: req.Username,
		IsActive: true,
	}

	// The identifying triple arrives as explicit arguments, never as extras
	for _, reserved := range []string{"email", "username", "password"} {
		if _, ok := req.Extra[reserved]; ok {
			return nil, fmt.Errorf("%w: '%s' cannot be passed as an extra field", model.ErrInvalidInput, reserved)
		}
	}
	if err := user.ApplyFields(req.Extra); err != nil {
		return nil, err
	}

	if user.UserStation != "" {
		if err := validation.UserStation(user.UserStation); err != nil {
			return nil, err
		}
	}
	if err := s.checkRoleReference(ctx, user); err != nil {
		return nil, err
	}
	if err := validation.Password(req.Password, user, validation.DefaultPasswordPolicy()); err != nil {
		return nil, err
	}

	// Uniqueness pre-checks; the unique indexes remain the final arbiter
	if _, err := s.repo.FindByEmail(ctx, user.Email); err == nil {
		return nil, fmt.Errorf("%w: email already exists", model.ErrConstraint)
	}
	if _, err := s.repo.FindByUsername(ctx, user.Username); err == nil {
		return nil, fmt.Errorf("%w: username already exists", model.ErrConstraint)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashed)

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, action, user.ID.String(), user.Username, map[string]string{"email": user.Email})
	s.hub.Notify("created", "user", user.ID.String())

	return mapToResponse(user), nil
}

// checkRoleReference verifies that a set role id points at an existing role
// with a non-empty name.
func (s *userService) checkRoleReference(ctx context.Context, user *model.User) error {
	if user.RoleID == nil {
		return validation.Role(nil, false)
	}
	role, err := s.roles.FindByID(ctx, *user.RoleID)
	if err != nil {
		return err
	}
	user.Role = role
	return validation.Role(role, true)
}

func (s *userService) ActivateUser(ctx context.Context, email string) error {
	return s.setActive(ctx, email, true, model.ActionActivateUser)
}

func (s *userService) DeactivateUser(ctx context.Context, email string) error {
	return s.setActive(ctx, email, false, model.ActionDeactivateUser)
}

// setActive writes only the is_active flag. Re-applying the current state is
// not an error, so the operation is idempotent.
func (s *userService) setActive(ctx context.Context, email string, active bool, action string) error {
	if err := s.repo.SetActive(ctx, email, active); err != nil {
		return err
	}
	s.recordAudit(ctx, action, email, "", nil)
	s.hub.Notify("updated", "user", email)
	return nil
}

func (s *userService) UpdateUser(ctx context.Context, email string, fields map[string]interface{}) (*UserResponse, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	previousEmail := user.Email
	previousUsername := user.Username

	if _, ok := fields["password"]; ok {
		return nil, fmt.Errorf("%w: password cannot be changed through a field update", model.ErrInvalidInput)
	}
	if err := user.ApplyFields(fields); err != nil {
		return nil, err
	}

	if user.Username != previousUsername {
		if err := validation.Username(user.Username); err != nil {
			return nil, err
		}
		if _, err := s.repo.FindByUsername(ctx, user.Username); err == nil {
			return nil, fmt.Errorf("%w: username already exists", model.ErrConstraint)
		}
	}
	if user.Email != previousEmail {
		user.Email = normalizeEmail(user.Email)
		if _, err := s.repo.FindByEmail(ctx, user.Email); err == nil {
			return nil, fmt.Errorf("%w: email already exists", model.ErrConstraint)
		}
	}
	if user.UserStation != "" {
		if err := validation.UserStation(user.UserStation); err != nil {
			return nil, err
		}
	}
	if err := s.checkRoleReference(ctx, user); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, model.ActionUpdateUser, user.ID.String(), user.Username, map[string]string{"email": user.Email})
	s.hub.Notify("updated", "user", user.ID.String())

	return mapToResponse(user), nil
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*UserResponse, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return mapToResponse(user), nil
}

func (s *userService) GetUserByID(ctx context.Context, id string) (*UserResponse, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", model.ErrInvalidInput)
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return mapToResponse(user), nil
}

func (s *userService) ListUsers(ctx context.Context, filter repository.UserFilter, page, limit int) ([]UserResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	users, total, err := s.repo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *mapToResponse(&users[i]))
	}

	return responses, total, nil
}

// DeleteUser removes the user and cascades to its profile and any organisation
// it owns, inside a single transaction.
func (s *userService) DeleteUser(ctx context.Context, id string) error {
	userID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid user id", model.ErrInvalidInput)
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, userID)
	})
	if err != nil {
		return err
	}

	s.recordAudit(ctx, model.ActionDeleteUser, id, user.Username, map[string]string{"email": user.Email})
	s.hub.Notify("deleted", "user", id)
	return nil
}

// recordAudit writes a best-effort trail entry; an audit failure must not fail
// the already-committed operation.
func (s *userService) recordAudit(ctx context.Context, action, entityID, entityName string, details map[string]string) {
	entry := &model.AuditLog{Action: action, EntityID: entityID, EntityName: entityName}
	if details != nil {
		if payload, err := json.Marshal(details); err == nil {
			entry.Details = string(payload)
		}
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		log.Printf("audit write failed for %s: %v", action, err)
	}
}
