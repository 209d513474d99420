package service

import (
	"context"
	"errors"
	"fmt"

	"staffchat/internal/ingest"
	"staffchat/internal/model"

	"gorm.io/gorm"
)

// ResourceService is scoped CRUD over the resources table. All lookups are
// bound to a conversation and, when given, a user.
type ResourceService struct {
	db *gorm.DB
}

func NewResourceService(db *gorm.DB) *ResourceService { return &ResourceService{db: db} }

// scoped narrows a query to one conversation and optionally one user,
// mirroring the upload scoping rules.
func scoped(q *gorm.DB, conversationID, userID string) *gorm.DB {
	q = q.Where("conversation_id = ?", conversationID)
	if userID != "" && userID != DefaultUser {
		q = q.Where("user_id = ?", userID)
	}
	return q
}

func (s *ResourceService) Create(ctx context.Context, in *model.ResourceInput, conversationID, userID string) (*model.Resource, error) {
	if in.ResourceID == "" || in.Name == nil || in.Role == nil || in.Skills == nil {
		return nil, fmt.Errorf("%w: resource_id, name, role and skills are required", ErrValidation)
	}

	var count int64
	scoped(s.db.WithContext(ctx).Model(&model.Resource{}), conversationID, userID).
		Where("resource_id = ?", in.ResourceID).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("resource_id %w in this conversation", ErrConflict)
	}

	r := &model.Resource{
		ResourceID:     in.ResourceID,
		Skills:         model.StringList{},
		ConversationID: conversationID,
		UserID:         userID,
	}
	applyResourceInput(r, in)
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}
	return r, nil
}

func (s *ResourceService) Get(ctx context.Context, resourceID, conversationID, userID string) (*model.Resource, error) {
	var r model.Resource
	err := scoped(s.db.WithContext(ctx), conversationID, userID).
		Where("resource_id = ?", resourceID).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get resource: %w", err)
	}
	return &r, nil
}

func (s *ResourceService) Update(ctx context.Context, resourceID string, in *model.ResourceInput, conversationID, userID string) (*model.Resource, error) {
	r, err := s.Get(ctx, resourceID, conversationID, userID)
	if err != nil {
		return nil, err
	}
	applyResourceInput(r, in)
	if err := s.db.WithContext(ctx).Save(r).Error; err != nil {
		return nil, fmt.Errorf("update resource: %w", err)
	}
	return r, nil
}

func (s *ResourceService) Delete(ctx context.Context, resourceID, conversationID, userID string) error {
	r, err := s.Get(ctx, resourceID, conversationID, userID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(r).Error; err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}
	return nil
}

func (s *ResourceService) ListByConversation(ctx context.Context, conversationID, userID string, limit int) ([]model.Resource, error) {
	var out []model.Resource
	err := scoped(s.db.WithContext(ctx), conversationID, userID).
		Order("resource_id").Limit(limit).Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	return out, nil
}

func (s *ResourceService) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.Resource{}).Count(&n).Error
	return n, err
}

func applyResourceInput(r *model.Resource, in *model.ResourceInput) {
	if in.Name != nil {
		r.Name = *in.Name
	}
	if in.Role != nil {
		r.Role = *in.Role
	}
	if in.Skills != nil {
		r.Skills = model.StringList(*in.Skills)
	}
	if in.ProficiencyLevel != nil {
		r.ProficiencyLevel = model.ParseProficiency(*in.ProficiencyLevel)
	}
	if in.CapacityHrsPerWeek != nil {
		r.CapacityHrsPerWeek = in.CapacityHrsPerWeek
	}
	if in.CurrentCommitments != nil {
		r.CurrentCommitments = emptyToNil(*in.CurrentCommitments)
	}
	if in.AvailabilityDate != nil {
		r.AvailabilityDate = ingest.ParseDate(*in.AvailabilityDate)
	}
	if in.LocationTimezone != nil {
		r.LocationTimezone = emptyToNil(*in.LocationTimezone)
	}
	if in.EmploymentType != nil {
		r.EmploymentType = model.ParseEmploymentType(*in.EmploymentType)
	}
	if in.CostPerHourINR != nil {
		r.CostPerHourINR = in.CostPerHourINR
	}
}

func emptyToNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
