package model

import (
	"encoding/json"
	"strings"
	"time"
)

type SignInRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SignInResponse struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	ConversationID string `json:"conversation_id"`
	Token          string `json:"token"`
}

type MessageIn struct {
	Role    string `json:"role" binding:"required,oneof=system user assistant"`
	Content string `json:"content" binding:"required"`
}

// Message is both the JSONL record on disk and the wire shape.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	TS      string `json:"ts"`
}

type ConversationSummary struct {
	ID     string `json:"id"`
	LastAt string `json:"last_at"`
	Count  int    `json:"count"`
}

type CreateConversationResponse struct {
	ID string `json:"id"`
}

type ChatRequest struct {
	ConversationID string `json:"conversation_id" binding:"required"`
	Question       string `json:"question" binding:"required"`
}

type ChatResponse struct {
	Answer string `json:"answer"`
}

// FlexList accepts either a JSON array of strings or a single delimited
// string ("Python, Go; Rust") in request bodies.
type FlexList []string

func (l *FlexList) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		out := make([]string, 0, len(arr))
		for _, s := range arr {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		*l = out
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' }) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*l = out
	return nil
}

// ResourceInput covers both create (resource_id/name/role/skills required,
// checked by the handler) and partial update (nil means "leave unchanged").
type ResourceInput struct {
	ResourceID         string    `json:"resource_id"`
	Name               *string   `json:"name"`
	Role               *string   `json:"role"`
	Skills             *FlexList `json:"skills"`
	ProficiencyLevel   *string   `json:"proficiency_level"`
	CapacityHrsPerWeek *int      `json:"capacity_hrs_per_week"`
	CurrentCommitments *string   `json:"current_commitments"`
	AvailabilityDate   *string   `json:"availability_date"`
	LocationTimezone   *string   `json:"location_timezone"`
	EmploymentType     *string   `json:"employment_type"`
	CostPerHourINR     *float64  `json:"cost_per_hour_inr"`
}

type ProjectInput struct {
	ProjectID      string    `json:"project_id"`
	Name           *string   `json:"name"`
	Summary        *string   `json:"summary"`
	RequiredSkills *FlexList `json:"required_skills"`
	StaffingMix    *string   `json:"staffing_mix"`
	StartDate      *string   `json:"start_date"`
	EndDate        *string   `json:"end_date"`
	Milestones     *string   `json:"milestones"`
	RequiredRoles  *string   `json:"required_roles"`
	Priority       *string   `json:"priority"`
	BudgetINR      *int      `json:"budget_inr"`
	Compliance     *string   `json:"compliance"`
}

type ResourceOut struct {
	ResourceID         string   `json:"resource_id"`
	Name               string   `json:"name"`
	Role               string   `json:"role"`
	Skills             []string `json:"skills"`
	ProficiencyLevel   *string  `json:"proficiency_level"`
	CapacityHrsPerWeek *int     `json:"capacity_hrs_per_week"`
	CurrentCommitments *string  `json:"current_commitments"`
	AvailabilityDate   *string  `json:"availability_date"`
	LocationTimezone   *string  `json:"location_timezone"`
	EmploymentType     *string  `json:"employment_type"`
	CostPerHourINR     *float64 `json:"cost_per_hour_inr"`
}

type ProjectOut struct {
	ProjectID      string   `json:"project_id"`
	Name           string   `json:"name"`
	Summary        *string  `json:"summary"`
	RequiredSkills []string `json:"required_skills"`
	StaffingMix    *string  `json:"staffing_mix"`
	StartDate      *string  `json:"start_date"`
	EndDate        *string  `json:"end_date"`
	Milestones     *string  `json:"milestones"`
	RequiredRoles  *string  `json:"required_roles"`
	Priority       *string  `json:"priority"`
	BudgetINR      *int     `json:"budget_inr"`
	Compliance     *string  `json:"compliance"`
}

// ResourceCompact is the dashboard-friendly dataset shape.
type ResourceCompact struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Role             string   `json:"role"`
	Skills           []string `json:"skills"`
	Proficiency      *string  `json:"proficiency"`
	Capacity         *int     `json:"capacity"`
	Commitments      *string  `json:"commitments"`
	AvailabilityDate *string  `json:"availability_date"`
	Timezone         *string  `json:"timezone"`
	Type             *string  `json:"type"`
	CostHour         *float64 `json:"cost_hour"`
}

type Dataset struct {
	Resources []ResourceCompact `json:"resources"`
	Projects  []ProjectOut      `json:"projects"`
}

func isoDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

func enumStr[T ~string](v *T) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

func (r *Resource) Out() ResourceOut {
	return ResourceOut{
		ResourceID:         r.ResourceID,
		Name:               r.Name,
		Role:               r.Role,
		Skills:             r.Skills,
		ProficiencyLevel:   enumStr(r.ProficiencyLevel),
		CapacityHrsPerWeek: r.CapacityHrsPerWeek,
		CurrentCommitments: r.CurrentCommitments,
		AvailabilityDate:   isoDate(r.AvailabilityDate),
		LocationTimezone:   r.LocationTimezone,
		EmploymentType:     enumStr(r.EmploymentType),
		CostPerHourINR:     r.CostPerHourINR,
	}
}

func (r *Resource) Compact() ResourceCompact {
	return ResourceCompact{
		ID:               r.ResourceID,
		Name:             r.Name,
		Role:             r.Role,
		Skills:           r.Skills,
		Proficiency:      enumStr(r.ProficiencyLevel),
		Capacity:         r.CapacityHrsPerWeek,
		Commitments:      r.CurrentCommitments,
		AvailabilityDate: isoDate(r.AvailabilityDate),
		Timezone:         r.LocationTimezone,
		Type:             enumStr(r.EmploymentType),
		CostHour:         r.CostPerHourINR,
	}
}

func (p *Project) Out() ProjectOut {
	return ProjectOut{
		ProjectID:      p.ProjectID,
		Name:           p.Name,
		Summary:        p.Summary,
		RequiredSkills: p.RequiredSkills,
		StaffingMix:    p.StaffingMix,
		StartDate:      isoDate(p.StartDate),
		EndDate:        isoDate(p.EndDate),
		Milestones:     p.Milestones,
		RequiredRoles:  p.RequiredRoles,
		Priority:       enumStr(p.Priority),
		BudgetINR:      p.BudgetINR,
		Compliance:     p.Compliance,
	}
}
