// Package clinicians holds clinician profiles consumed by the assignment
// engine. Profiles are read-only input; onboarding and editing happen in the
// practice-management system.
package clinicians

import (
	"github.com/attunehealth/office-scheduler/internal/office"
)

// Profile describes a clinician and their office preferences.
type Profile struct {
	ID string `json:"clinicianId"`
	// ExternalPractitionerID links the profile to the practitioner record
	// in the appointment source.
	ExternalPractitionerID string `json:"externalPractitionerId,omitempty"`
	// PreferredOffices is ordered highest preference first.
	PreferredOffices   []office.ID `json:"preferredOffices,omitempty"`
	AllowsRelationship bool        `json:"allowsRelationship"`
	AgeRangeMin        int         `json:"ageRangeMin,omitempty"`
	AgeRangeMax        int         `json:"ageRangeMax,omitempty"`
}

// ByID indexes profiles by clinician id.
func ByID(profiles []Profile) map[string]Profile {
	out := make(map[string]Profile, len(profiles))
	for _, p := range profiles {
		out[p.ID] = p
	}
	return out
}

// ByExternalID indexes profiles by the appointment source practitioner id.
func ByExternalID(profiles []Profile) map[string]Profile {
	out := make(map[string]Profile, len(profiles))
	for _, p := range profiles {
		if p.ExternalPractitionerID != "" {
			out[p.ExternalPractitionerID] = p
		}
	}
	return out
}
