package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/prepnest/prepnest-backend/internal/model"
	"github.com/prepnest/prepnest-backend/internal/repository"
	"github.com/rs/zerolog"
)

var ErrLeadNotFound = errors.New("lead not found")

// LeadService handles contact-form enquiries.
type LeadService struct {
	repo *repository.LeadRepository
	log  zerolog.Logger
}

// NewLeadService creates a new LeadService.
func NewLeadService(repo *repository.LeadRepository, log zerolog.Logger) *LeadService {
	return &LeadService{
		repo: repo,
		log:  log.With().Str("component", "lead_service").Logger(),
	}
}

// Create records a new enquiry from the public contact form.
func (s *LeadService) Create(ctx context.Context, req *model.CreateLeadRequest) (*model.Lead, error) {
	lead := &model.Lead{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
		Source:  req.Source,
	}
	if err := s.repo.Create(ctx, lead); err != nil {
		return nil, err
	}
	s.log.Info().Int("lead_id", lead.ID).Str("source", lead.Source).Msg("New lead captured")
	return lead, nil
}

// List returns leads with pagination and optional status filter.
func (s *LeadService) List(ctx context.Context, status *model.LeadStatus, page, perPage int) ([]model.Lead, int, error) {
	if perPage <= 0 || perPage > 100 {
		perPage = 20
	}
	if page <= 0 {
		page = 1
	}

	leads, total, err := s.repo.ListPaginated(ctx, status, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	if leads == nil {
		leads = []model.Lead{}
	}
	return leads, total, nil
}

// UpdateStatus moves a lead along the follow-up pipeline.
func (s *LeadService) UpdateStatus(ctx context.Context, id int, status model.LeadStatus) (*model.Lead, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}
