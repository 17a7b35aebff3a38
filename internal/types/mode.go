package types

// RuntimeMode is the deployment context controlling which model backends may
// be invoked. It is read-only configuration state; the core never mutates it.
type RuntimeMode string

const (
	ModeLocal      RuntimeMode = "LOCAL"
	ModeWorkRemote RuntimeMode = "WORK_REMOTE"
	ModeDemo       RuntimeMode = "DEMO"
	ModeAirplane   RuntimeMode = "AIRPLANE"
)

func ParseRuntimeMode(s string) (RuntimeMode, bool) {
	switch RuntimeMode(s) {
	case ModeLocal, ModeWorkRemote, ModeDemo, ModeAirplane:
		return RuntimeMode(s), true
	default:
		return "", false
	}
}

// AllowsLocal reports whether the local backend may be invoked in this mode.
func (m RuntimeMode) AllowsLocal() bool {
	return m == ModeLocal
}

// AllowsRemote reports whether the remote backend may be invoked in this mode.
func (m RuntimeMode) AllowsRemote() bool {
	return m == ModeWorkRemote || m == ModeDemo
}

// AllowsDrafting reports whether any backend may be invoked at all.
// AIRPLANE permits no adapter calls.
func (m RuntimeMode) AllowsDrafting() bool {
	return m.AllowsLocal() || m.AllowsRemote()
}
