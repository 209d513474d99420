package service

import (
	"context"
	"errors"
	"fmt"

	"staffchat/internal/ingest"
	"staffchat/internal/model"

	"gorm.io/gorm"
)

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService { return &ProjectService{db: db} }

func (s *ProjectService) Create(ctx context.Context, in *model.ProjectInput, conversationID, userID string) (*model.Project, error) {
	if in.ProjectID == "" || in.Name == nil {
		return nil, fmt.Errorf("%w: project_id and name are required", ErrValidation)
	}

	var count int64
	scoped(s.db.WithContext(ctx).Model(&model.Project{}), conversationID, userID).
		Where("project_id = ?", in.ProjectID).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("project_id %w in this conversation", ErrConflict)
	}

	p := &model.Project{
		ProjectID:      in.ProjectID,
		RequiredSkills: model.StringList{},
		ConversationID: conversationID,
		UserID:         userID,
	}
	applyProjectInput(p, in)
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return p, nil
}

func (s *ProjectService) Get(ctx context.Context, projectID, conversationID, userID string) (*model.Project, error) {
	var p model.Project
	err := scoped(s.db.WithContext(ctx), conversationID, userID).
		Where("project_id = ?", projectID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &p, nil
}

func (s *ProjectService) Update(ctx context.Context, projectID string, in *model.ProjectInput, conversationID, userID string) (*model.Project, error) {
	p, err := s.Get(ctx, projectID, conversationID, userID)
	if err != nil {
		return nil, err
	}
	applyProjectInput(p, in)
	if err := s.db.WithContext(ctx).Save(p).Error; err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return p, nil
}

func (s *ProjectService) Delete(ctx context.Context, projectID, conversationID, userID string) error {
	p, err := s.Get(ctx, projectID, conversationID, userID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(p).Error; err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

func (s *ProjectService) ListByConversation(ctx context.Context, conversationID, userID string, limit int) ([]model.Project, error) {
	var out []model.Project
	err := scoped(s.db.WithContext(ctx), conversationID, userID).
		Order("project_id").Limit(limit).Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return out, nil
}

func (s *ProjectService) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.Project{}).Count(&n).Error
	return n, err
}

func applyProjectInput(p *model.Project, in *model.ProjectInput) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Summary != nil {
		p.Summary = emptyToNil(*in.Summary)
	}
	if in.RequiredSkills != nil {
		p.RequiredSkills = model.StringList(*in.RequiredSkills)
	}
	if in.StaffingMix != nil {
		p.StaffingMix = emptyToNil(*in.StaffingMix)
	}
	if in.StartDate != nil {
		p.StartDate = ingest.ParseDate(*in.StartDate)
	}
	if in.EndDate != nil {
		p.EndDate = ingest.ParseDate(*in.EndDate)
	}
	if in.Milestones != nil {
		p.Milestones = emptyToNil(*in.Milestones)
	}
	if in.RequiredRoles != nil {
		p.RequiredRoles = emptyToNil(*in.RequiredRoles)
	}
	if in.Priority != nil {
		p.Priority = model.ParsePriority(*in.Priority)
	}
	if in.BudgetINR != nil {
		p.BudgetINR = in.BudgetINR
	}
	if in.Compliance != nil {
		p.Compliance = emptyToNil(*in.Compliance)
	}
}
