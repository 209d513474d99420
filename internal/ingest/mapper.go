package ingest

import (
	"strings"

	"staffchat/internal/model"
)

// cell fetches the raw value for a canonical field through the resolution
// map, or "" when the field resolved to no header.
func cell(row map[string]string, resolved map[string]string, field string) string {
	col, ok := resolved[field]
	if !ok {
		return ""
	}
	return row[col]
}

// MapResource builds one candidate record from a raw row. Only required
// fields are guaranteed present by the resolver precondition; everything
// else coerces to its absent value.
func MapResource(row map[string]string, resolved map[string]string, conversationID, userID string) *model.Resource {
	return &model.Resource{
		ResourceID:         strings.TrimSpace(cell(row, resolved, "resource_id")),
		Name:               strings.TrimSpace(cell(row, resolved, "name")),
		Role:               strings.TrimSpace(cell(row, resolved, "role")),
		Skills:             SplitList(cell(row, resolved, "skills")),
		ProficiencyLevel:   model.ParseProficiency(cell(row, resolved, "proficiency_level")),
		CapacityHrsPerWeek: ParseInt(cell(row, resolved, "capacity_hrs_per_week")),
		CurrentCommitments: optStr(cell(row, resolved, "current_commitments")),
		AvailabilityDate:   ParseDate(cell(row, resolved, "availability_date")),
		LocationTimezone:   optStr(cell(row, resolved, "location_timezone")),
		EmploymentType:     model.ParseEmploymentType(cell(row, resolved, "employment_type")),
		CostPerHourINR:     ParseFloat(cell(row, resolved, "cost_per_hour_inr")),
		ConversationID:     conversationID,
		UserID:             userID,
	}
}

func MapProject(row map[string]string, resolved map[string]string, conversationID, userID string) *model.Project {
	return &model.Project{
		ProjectID:      strings.TrimSpace(cell(row, resolved, "project_id")),
		Name:           strings.TrimSpace(cell(row, resolved, "name")),
		Summary:        optStr(cell(row, resolved, "summary")),
		RequiredSkills: SplitList(cell(row, resolved, "required_skills")),
		StaffingMix:    optStr(cell(row, resolved, "staffing_mix")),
		StartDate:      ParseDate(cell(row, resolved, "start_date")),
		EndDate:        ParseDate(cell(row, resolved, "end_date")),
		Milestones:     optStr(cell(row, resolved, "milestones")),
		RequiredRoles:  optStr(cell(row, resolved, "required_roles")),
		Priority:       model.ParsePriority(cell(row, resolved, "priority")),
		BudgetINR:      ParseInt(cell(row, resolved, "budget_inr")),
		Compliance:     optStr(cell(row, resolved, "compliance")),
		ConversationID: conversationID,
		UserID:         userID,
	}
}
