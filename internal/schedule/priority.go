package schedule

// sessionPriorities is the single source of truth for relocation priority.
// A booking may only displace another booking of strictly lower priority.
var sessionPriorities = map[SessionType]int{
	SessionInPerson:   100,
	SessionGroup:      75,
	SessionFamily:     75,
	SessionTelehealth: 25,
}

// defaultSessionPriority applies to session types the table does not know.
const defaultSessionPriority = 50

// Priority returns the relocation priority for a session type. Higher wins.
func Priority(t SessionType) int {
	if p, ok := sessionPriorities[t]; ok {
		return p
	}
	return defaultSessionPriority
}
