// Package preferences stores per-client scheduling preferences. Records are
// optional-heavy: most clients have no stored preferences at all, and every
// field except the client id may be absent.
package preferences

import (
	"github.com/attunehealth/office-scheduler/internal/office"
)

// ClientPreference captures a client's room and support needs.
type ClientPreference struct {
	ClientID           string   `json:"clientId"`
	MobilityNeeds      []string `json:"mobilityNeeds,omitempty"`
	SensoryPreferences []string `json:"sensoryPreferences,omitempty"`
	PhysicalNeeds      []string `json:"physicalNeeds,omitempty"`
	SupportNeeds       []string `json:"supportNeeds,omitempty"`
	// RoomConsistency ranges 1-5; 5 means the client strongly prefers the
	// same room every visit.
	RoomConsistency int `json:"roomConsistency,omitempty"`
	// AssignedOffice is the sticky prior assignment. Nil means the client
	// has never been assigned a room.
	AssignedOffice *office.ID `json:"assignedOffice,omitempty"`
	// PreferredClinician is empty when the client has no preference.
	PreferredClinician string `json:"preferredClinician,omitempty"`
}

// RequiresAccessibleOffice reports whether the client's stored needs demand
// an accessible room regardless of what the request asked for.
func (p ClientPreference) RequiresAccessibleOffice() bool {
	return len(p.MobilityNeeds) > 0
}

// ByClientID indexes preferences by client id.
func ByClientID(prefs []ClientPreference) map[string]ClientPreference {
	out := make(map[string]ClientPreference, len(prefs))
	for _, p := range prefs {
		out[p.ClientID] = p
	}
	return out
}
