// Package rules holds the advisory assignment rules layered over office
// selection. Rules can veto candidate offices outright or push them to the
// back of the evaluation order; they never pick an office themselves.
package rules

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/attunehealth/office-scheduler/internal/office"
)

// OverrideLevel controls how strongly a rule applies.
type OverrideLevel string

const (
	// OverrideHard removes the rule's offices from candidacy entirely.
	OverrideHard OverrideLevel = "hard"
	// OverrideSoft down-ranks the rule's offices without removing them.
	OverrideSoft OverrideLevel = "soft"
	// OverrideNone makes the rule purely informational.
	OverrideNone OverrideLevel = "none"
)

// Rule is one advisory assignment rule. Lower Priority evaluates first.
type Rule struct {
	ID       uuid.UUID `json:"id"`
	Priority int       `json:"priority"`
	RuleType string    `json:"ruleType"`
	// Condition is a key=value match expression ("sessionType=group",
	// "clinicianId=clin-9", "clientId=cl-12"). Empty matches every
	// request.
	Condition string        `json:"condition,omitempty"`
	OfficeIDs []office.ID   `json:"officeIds"`
	Override  OverrideLevel `json:"overrideLevel"`
	Active    bool          `json:"active"`
}

// Subject is the request surface a rule condition can match against.
type Subject struct {
	ClientID    string
	ClinicianID string
	SessionType string
}

// Matches reports whether the rule condition applies to the subject.
func (r Rule) Matches(s Subject) bool {
	cond := strings.TrimSpace(r.Condition)
	if cond == "" {
		return true
	}
	key, value, found := strings.Cut(cond, "=")
	if !found {
		// Bare conditions match against session type for backwards
		// compatibility with rules entered before the key=value form.
		return strings.EqualFold(cond, s.SessionType)
	}
	value = strings.TrimSpace(value)
	switch strings.TrimSpace(key) {
	case "sessionType":
		return strings.EqualFold(value, s.SessionType)
	case "clinicianId":
		return value == s.ClinicianID
	case "clientId":
		return value == s.ClientID
	default:
		return false
	}
}

// SortByPriority orders rules ascending by priority in place. Equal
// priorities fall back to rule type then id so evaluation order is stable.
func SortByPriority(rs []Rule) {
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].Priority != rs[j].Priority {
			return rs[i].Priority < rs[j].Priority
		}
		if rs[i].RuleType != rs[j].RuleType {
			return rs[i].RuleType < rs[j].RuleType
		}
		return rs[i].ID.String() < rs[j].ID.String()
	})
}
