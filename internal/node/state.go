package node

// State is the provisioning state of the managed node agent. It is derived
// from the presence of the credential and marker files on every call and is
// never cached.
type State int

const (
	StateUnconfigured State = iota
	StateConfiguring
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUnconfigured:
		return "UNCONFIGURED"
	case StateConfiguring:
		return "CONFIGURING"
	case StateReady:
		return "READY"
	default:
		return "UNKNOWN"
	}
}

func deriveState(hasCredential, hasMarker bool) State {
	switch {
	case !hasCredential:
		return StateUnconfigured
	case !hasMarker:
		return StateConfiguring
	default:
		return StateReady
	}
}
