package ingest

import "strings"

// FieldSpec names a canonical field and the header aliases that may carry it,
// in resolution priority order.
type FieldSpec struct {
	Field   string
	Aliases []string
}

var ResourceFields = []FieldSpec{
	{"resource_id", []string{"resource_id", "id"}},
	{"name", []string{"name", "full_name"}},
	{"role", []string{"role", "designation"}},
	{"skills", []string{"skills", "skillset"}},
	{"proficiency_level", []string{"proficiency_level", "proficiency", "skill_level"}},
	{"capacity_hrs_per_week", []string{"capacity_hrs_per_week", "capacity", "weekly_capacity"}},
	{"current_commitments", []string{"current_commitments", "commitments"}},
	{"availability_date", []string{"availability_date", "available_from"}},
	{"location_timezone", []string{"location_timezone", "location_time_zone", "timezone", "location"}},
	{"employment_type", []string{"employment_type", "employment", "emp_type"}},
	{"cost_per_hour_inr", []string{"cost_per_hour_inr", "cost_per_hour", "rate_inr", "hourly_rate_inr"}},
}

var ResourceRequired = []string{"resource_id", "name", "role", "skills"}

var ProjectFields = []FieldSpec{
	{"project_id", []string{"project_id", "id", "p_id"}},
	{"name", []string{"project_name", "name", "title"}},
	{"summary", []string{"summary", "problem_statement", "description"}},
	{"required_skills", []string{"required_skills", "skills"}},
	{"staffing_mix", []string{"staffing_mix", "target_staffing_mix"}},
	{"start_date", []string{"start_date", "kickoff", "start"}},
	{"end_date", []string{"end_date", "finish", "end"}},
	{"milestones", []string{"milestones", "phases", "plan"}},
	{"required_roles", []string{"required_roles", "roles"}},
	{"priority", []string{"priority", "prio"}},
	{"budget_inr", []string{"budget_inr", "budget", "cost_inr"}},
	{"compliance", []string{"compliance", "constraints"}},
}

var ProjectRequired = []string{"project_id", "name"}

// NormalizeHeader lowercases and trims a header, turns spaces and slashes
// into underscores, strips parentheses, and maps the rupee sign to "inr".
func NormalizeHeader(h string) string {
	s := strings.ToLower(strings.TrimSpace(h))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "(", "")
	s = strings.ReplaceAll(s, ")", "")
	s = strings.ReplaceAll(s, "₹", "inr")
	s = strings.ReplaceAll(s, "/", "_")
	return s
}

// Resolve maps canonical fields to the actual header carrying them. For each
// field the first alias present in headers wins; no fuzzy matching. The
// second result lists every field with no matching header.
func Resolve(headers []string, fields []FieldSpec) (map[string]string, []string) {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}

	resolved := map[string]string{}
	var missing []string
	for _, f := range fields {
		found := false
		for _, alias := range f.Aliases {
			if present[alias] {
				resolved[f.Field] = alias
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, f.Field)
		}
	}
	return resolved, missing
}

// MissingRequired filters the required set down to unresolved fields,
// preserving the required order.
func MissingRequired(resolved map[string]string, required []string) []string {
	var missing []string
	for _, f := range required {
		if _, ok := resolved[f]; !ok {
			missing = append(missing, f)
		}
	}
	return missing
}
