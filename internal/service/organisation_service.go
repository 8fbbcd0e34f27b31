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

type CreateOrganisationRequest struct {
	Name    string `json:"name" binding:"required"`
	Logo    string `json:"logo"`
	Address string `json:"address"`
	Contact string `json:"contact"`
	Email   string `json:"email" binding:"omitempty,email"`
	OwnerID string `json:"owner_id" binding:"required"`
}

type UpdateOrganisationRequest struct {
	Name    string `json:"name"`
	Logo    string `json:"logo"`
	Address string `json:"address"`
	Contact string `json:"contact"`
	Email   string `json:"email" binding:"omitempty,email"`
	OwnerID string `json:"owner_id"`
}

type OrganisationResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Logo      string `json:"logo,omitempty"`
	Address   string `json:"address,omitempty"`
	Contact   string `json:"contact,omitempty"`
	Email     string `json:"email,omitempty"`
	OwnerID   string `json:"owner_id"`
	Owner     string `json:"owner,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// OrganisationService defines the business logic over organisations
type OrganisationService interface {
	CreateOrganisation(ctx context.Context, req CreateOrganisationRequest) (*OrganisationResponse, error)
	GetOrganisation(ctx context.Context, id string) (*OrganisationResponse, error)
	ListOrganisations(ctx context.Context, page, limit int) ([]OrganisationResponse, int64, error)
	UpdateOrganisation(ctx context.Context, id string, req UpdateOrganisationRequest) (*OrganisationResponse, error)
	DeleteOrganisation(ctx context.Context, id string) error
}

type organisationService struct {
	repo  repository.OrganisationRepository
	users repository.UserRepository
	audit repository.AuditRepository
	hub   *websocket.Hub
}

// NewOrganisationService returns a new instance of OrganisationService
func NewOrganisationService(
	repo repository.OrganisationRepository,
	users repository.UserRepository,
	audit repository.AuditRepository,
	hub *websocket.Hub,
) OrganisationService {
	return &organisationService{repo: repo, users: users, audit: audit, hub: hub}
}

func toOrganisationResponse(org *model.Organisation) *OrganisationResponse {
	resp := &OrganisationResponse{
		ID:        org.ID.String(),
		Name:      org.Name,
		Logo:      org.Logo,
		Address:   org.Address,
		Contact:   org.Contact,
		Email:     org.Email,
		OwnerID:   org.OwnerID.String(),
		CreatedAt: org.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: org.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if org.Owner != nil {
		resp.Owner = org.Owner.Username
	}
	return resp
}

func (s *organisationService) CreateOrganisation(ctx context.Context, req CreateOrganisationRequest) (*OrganisationResponse, error) {
	if err := validation.OrganisationName(req.Name); err != nil {
		return nil, err
	}

	owner, err := validation.OrganisationOwner(ctx, req.OwnerID, s.users)
	if err != nil {
		return nil, err
	}

	org := &model.Organisation{
		Name:    req.Name,
		Logo:    req.Logo,
		Address: req.Address,
		Contact: req.Contact,
		Email:   req.Email,
		OwnerID: owner.ID,
		Owner:   owner,
	}

	if err := s.repo.Create(ctx, org); err != nil {
		return nil, err
	}

	s.auditTrail(ctx, model.ActionCreateOrg, org)
	s.hub.Notify("created", "organisation", org.ID.String())

	return toOrganisationResponse(org), nil
}

func (s *organisationService) GetOrganisation(ctx context.Context, id string) (*OrganisationResponse, error) {
	org, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toOrganisationResponse(org), nil
}

func (s *organisationService) ListOrganisations(ctx context.Context, page, limit int) ([]OrganisationResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	orgs, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]OrganisationResponse, 0, len(orgs))
	for i := range orgs {
		responses = append(responses, *toOrganisationResponse(&orgs[i]))
	}
	return responses, total, nil
}

func (s *organisationService) UpdateOrganisation(ctx context.Context, id string, req UpdateOrganisationRequest) (*OrganisationResponse, error) {
	org, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" && req.Name != org.Name {
		if err := validation.OrganisationName(req.Name); err != nil {
			return nil, err
		}
		org.Name = req.Name
	}
	if req.OwnerID != "" {
		owner, err := validation.OrganisationOwner(ctx, req.OwnerID, s.users)
		if err != nil {
			return nil, err
		}
		org.OwnerID = owner.ID
		org.Owner = owner
	}
	if req.Logo != "" {
		org.Logo = req.Logo
	}
	if req.Address != "" {
		org.Address = req.Address
	}
	if req.Contact != "" {
		org.Contact = req.Contact
	}
	if req.Email != "" {
		org.Email = req.Email
	}

	if err := s.repo.Update(ctx, org); err != nil {
		return nil, err
	}

	s.auditTrail(ctx, model.ActionUpdateOrg, org)
	s.hub.Notify("updated", "organisation", org.ID.String())

	return toOrganisationResponse(org), nil
}

func (s *organisationService) DeleteOrganisation(ctx context.Context, id string) error {
	org, err := s.findByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, org.ID); err != nil {
		return err
	}

	s.auditTrail(ctx, model.ActionDeleteOrg, org)
	s.hub.Notify("deleted", "organisation", org.ID.String())
	return nil
}

func (s *organisationService) findByID(ctx context.Context, id string) (*model.Organisation, error) {
	orgID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid organisation id", model.ErrInvalidInput)
	}
	return s.repo.FindByID(ctx, orgID)
}

func (s *organisationService) auditTrail(ctx context.Context, action string, org *model.Organisation) {
	entry := &model.AuditLog{Action: action, EntityID: org.ID.String(), EntityName: org.Name}
	if err := s.audit.Create(ctx, entry); err != nil {
		log.Printf("audit write failed for %s: %v", action, err)
	}
}
