package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/validation"
	"backend/internal/websocket"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateProfileRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Avatar string `json:"avatar"`
}

type UpdateProfileRequest struct {
	Avatar string `json:"avatar"`
}

type ProfileResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Username  string `json:"username,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ProfileService manages the one-to-one profile attached to a user
type ProfileService interface {
	CreateProfile(ctx context.Context, req CreateProfileRequest) (*ProfileResponse, error)
	GetProfileByUser(ctx context.Context, userID string) (*ProfileResponse, error)
	UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest) (*ProfileResponse, error)
	DeleteProfile(ctx context.Context, id string) error
}

type profileService struct {
	repo  repository.ProfileRepository
	users repository.UserRepository
	audit repository.AuditRepository
	hub   *websocket.Hub
}

func NewProfileService(
	repo repository.ProfileRepository,
	users repository.UserRepository,
	audit repository.AuditRepository,
	hub *websocket.Hub,
) ProfileService {
	return &profileService{repo: repo, users: users, audit: audit, hub: hub}
}

func toProfileResponse(p *model.UserProfile) *ProfileResponse {
	resp := &ProfileResponse{
		ID:        p.ID.String(),
		UserID:    p.UserID.String(),
		Avatar:    p.Avatar,
		CreatedAt: p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: p.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if p.User != nil {
		resp.Username = p.User.Username
	}
	return resp
}

// CreateProfile attaches a profile to an active user. One profile per user:
// creating a second one for the same user is a constraint violation.
func (s *profileService) CreateProfile(ctx context.Context, req CreateProfileRequest) (*ProfileResponse, error) {
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", model.ErrInvalidInput)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := validation.ProfileUser(user); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByUser(ctx, userID); err == nil {
		return nil, fmt.Errorf("%w: user '%s' already has a profile", model.ErrConstraint, user.Username)
	} else if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}

	profile := &model.UserProfile{
		UserID: userID,
		User:   user,
		Avatar: req.Avatar,
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		return nil, err
	}

	s.auditTrail(ctx, model.ActionCreateProfile, profile.ID.String(), user.Username)
	s.hub.Notify("created", "profile", profile.ID.String())

	return toProfileResponse(profile), nil
}

func (s *profileService) GetProfileByUser(ctx context.Context, userID string) (*ProfileResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", model.ErrInvalidInput)
	}

	profile, err := s.repo.FindByUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProfileResponse(profile), nil
}

func (s *profileService) UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest) (*ProfileResponse, error) {
	profileID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid profile id", model.ErrInvalidInput)
	}

	profile, err := s.repo.FindByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	profile.Avatar = req.Avatar
	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, err
	}

	s.auditTrail(ctx, model.ActionUpdateProfile, id, "")
	s.hub.Notify("updated", "profile", id)

	return toProfileResponse(profile), nil
}

func (s *profileService) DeleteProfile(ctx context.Context, id string) error {
	profileID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid profile id", model.ErrInvalidInput)
	}

	if _, err := s.repo.FindByID(ctx, profileID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, profileID); err != nil {
		return err
	}

	s.auditTrail(ctx, model.ActionDeleteProfile, id, "")
	s.hub.Notify("deleted", "profile", id)
	return nil
}

func (s *profileService) auditTrail(ctx context.Context, action, entityID, entityName string) {
	entry := &model.AuditLog{Action: action, EntityID: entityID, EntityName: entityName}
	if err := s.audit.Create(ctx, entry); err != nil {
		log.Printf("audit write failed for %s: %v", action, err)
	}
}
