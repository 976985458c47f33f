package office

// Size categorizes the physical capacity of a treatment office.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// Office is a read-only snapshot of a physical treatment room. The roster is
// mutated only through the configuration store; the assignment engine never
// writes to it.
//
// JSON field names match the wire format consumed by the dashboard and the
// notification formatter.
type Office struct {
	ID              ID       `json:"officeId"`
	InService       bool     `json:"inService"`
	Accessible      bool     `json:"isAccessible"`
	Size            Size     `json:"size"`
	AgeGroups       []string `json:"ageGroups,omitempty"`
	SpecialFeatures []string `json:"specialFeatures,omitempty"`
	// PreferredBy lists clinician ids that rank this office in their
	// preferences, highest preference first. Derived from clinician
	// records when a snapshot is assembled, never stored.
	PreferredBy []string `json:"preferredByClinicians,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}

// HasFeature reports whether the office offers the named special feature.
func (o Office) HasFeature(feature string) bool {
	for _, f := range o.SpecialFeatures {
		if f == feature {
			return true
		}
	}
	return false
}

// InServiceOnly filters a roster down to offices currently in service,
// preserving order.
func InServiceOnly(roster []Office) []Office {
	out := make([]Office, 0, len(roster))
	for _, o := range roster {
		if o.InService {
			out = append(out, o)
		}
	}
	return out
}

// Find returns the office with the given canonical id, if present.
func Find(roster []Office, id ID) (Office, bool) {
	for _, o := range roster {
		if o.ID == id {
			return o, true
		}
	}
	return Office{}, false
}
