package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type Proficiency string

const (
	ProficiencyBeginner     Proficiency = "Beginner"
	ProficiencyIntermediate Proficiency = "Intermediate"
	ProficiencyAdvanced     Proficiency = "Advanced"
	ProficiencyExpert       Proficiency = "Expert"
)

type EmploymentType string

const (
	EmploymentIntern     EmploymentType = "Intern"
	EmploymentFullTime   EmploymentType = "Full-time"
	EmploymentContractor EmploymentType = "Contractor"
)

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// enum value plus its symbolic name; both are accepted case-insensitively.
var (
	proficiencies = map[Proficiency]string{
		ProficiencyBeginner: "Beginner", ProficiencyIntermediate: "Intermediate",
		ProficiencyAdvanced: "Advanced", ProficiencyExpert: "Expert",
	}
	employmentTypes = map[EmploymentType]string{
		EmploymentIntern: "Intern", EmploymentFullTime: "FullTime",
		EmploymentContractor: "Contractor",
	}
	priorities = map[Priority]string{
		PriorityLow: "Low", PriorityMedium: "Medium", PriorityHigh: "High",
	}
)

// ParseProficiency matches by value or name, case-insensitively.
// Unknown or blank input yields nil rather than an error, so a misspelled
// cell becomes "unset" instead of failing the row.
func ParseProficiency(s string) *Proficiency {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for v, name := range proficiencies {
		if strings.EqualFold(s, string(v)) || strings.EqualFold(s, name) {
			p := v
			return &p
		}
	}
	return nil
}

func ParseEmploymentType(s string) *EmploymentType {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for v, name := range employmentTypes {
		if strings.EqualFold(s, string(v)) || strings.EqualFold(s, name) {
			e := v
			return &e
		}
	}
	return nil
}

func ParsePriority(s string) *Priority {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for v, name := range priorities {
		if strings.EqualFold(s, string(v)) || strings.EqualFold(s, name) {
			p := v
			return &p
		}
	}
	return nil
}

// StringList is stored as a JSON array in a text column so it works across
// sqlite, mysql and postgres alike.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *StringList) Scan(src any) error {
	if src == nil {
		*l = StringList{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported StringList source %T", src)
	}
	if len(data) == 0 {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(data, l)
}

// Resource is a staffable person or contractor. The primary key is the
// bare resource_id; conversation/user scoping happens at the query layer.
type Resource struct {
	ResourceID         string          `gorm:"primaryKey" json:"resource_id"`
	Name               string          `gorm:"not null" json:"name"`
	Role               string          `gorm:"not null" json:"role"`
	Skills             StringList      `gorm:"type:text;not null" json:"skills"`
	ProficiencyLevel   *Proficiency    `json:"proficiency_level"`
	CapacityHrsPerWeek *int            `json:"capacity_hrs_per_week"`
	CurrentCommitments *string         `gorm:"type:text" json:"current_commitments"`
	AvailabilityDate   *time.Time      `gorm:"type:date" json:"availability_date"`
	LocationTimezone   *string         `json:"location_timezone"`
	EmploymentType     *EmploymentType `json:"employment_type"`
	CostPerHourINR     *float64        `gorm:"column:cost_per_hour_inr;type:numeric(12,2)" json:"cost_per_hour_inr"`
	ConversationID     string          `gorm:"index" json:"conversation_id"`
	UserID             string          `gorm:"index" json:"user_id"`
}

type Project struct {
	ProjectID      string     `gorm:"primaryKey" json:"project_id"`
	Name           string     `gorm:"not null" json:"name"`
	Summary        *string    `gorm:"type:text" json:"summary"`
	RequiredSkills StringList `gorm:"type:text" json:"required_skills"`
	StaffingMix    *string    `json:"staffing_mix"`
	StartDate      *time.Time `gorm:"type:date" json:"start_date"`
	EndDate        *time.Time `gorm:"type:date" json:"end_date"`
	Milestones     *string    `gorm:"type:text" json:"milestones"`
	RequiredRoles  *string    `json:"required_roles"`
	Priority       *Priority  `json:"priority"`
	BudgetINR      *int       `gorm:"column:budget_inr" json:"budget_inr"`
	Compliance     *string    `json:"compliance"`
	ConversationID string     `gorm:"index" json:"conversation_id"`
	UserID         string     `gorm:"index" json:"user_id"`
}

func (Resource) TableName() string { return "resources" }
func (Project) TableName() string  { return "projects" }

func (r *Resource) Identifier() string { return r.ResourceID }
func (p *Project) Identifier() string  { return p.ProjectID }
