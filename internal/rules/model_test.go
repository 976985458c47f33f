package rules

import (
	"testing"

	"github.com/google/uuid"
)

func TestRuleMatches(t *testing.T) {
	subject := Subject{ClientID: "cl-1", ClinicianID: "clin-9", SessionType: "group"}

	tests := []struct {
		name      string
		condition string
		want      bool
	}{
		{"empty matches everything", "", true},
		{"session type match", "sessionType=group", true},
		{"session type case insensitive", "sessionType=GROUP", true},
		{"session type mismatch", "sessionType=family", false},
		{"clinician match", "clinicianId=clin-9", true},
		{"clinician mismatch", "clinicianId=clin-2", false},
		{"client match", "clientId=cl-1", true},
		{"bare condition matches session type", "group", true},
		{"bare condition mismatch", "telehealth", false},
		{"unknown key never matches", "weather=rainy", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Rule{Condition: tt.condition}
			if got := r.Matches(subject); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.condition, got, tt.want)
			}
		})
	}
}

func TestSortByPriorityIsStable(t *testing.T) {
	a := Rule{ID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), Priority: 20, RuleType: "capacity"}
	b := Rule{ID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), Priority: 10, RuleType: "accessibility"}
	c := Rule{ID: uuid.MustParse("00000000-0000-0000-0000-000000000003"), Priority: 10, RuleType: "accessibility"}

	rs := []Rule{a, c, b}
	SortByPriority(rs)

	if rs[0].ID != b.ID || rs[1].ID != c.ID || rs[2].ID != a.ID {
		t.Errorf("unexpected order: %v %v %v", rs[0].ID, rs[1].ID, rs[2].ID)
	}
}
