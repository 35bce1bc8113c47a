package services

import "aimufti-backend/internal/config"

// Mode is the feature availability computed once at startup.
type Mode struct {
	DatabaseEnabled bool
	LLMEnabled      bool
}

// ModeFromConfig derives availability flags from the immutable configuration.
func ModeFromConfig(cfg *config.Config) Mode {
	return Mode{
		DatabaseEnabled: cfg.DatabaseEnabled(),
		LLMEnabled:      cfg.LLMEnabled(),
	}
}

// Persistent reports whether chat turns are stored and replayed.
func (m Mode) Persistent() bool {
	return m.DatabaseEnabled
}

// String names the mode for logs and metrics.
func (m Mode) String() string {
	if m.Persistent() {
		return "persistent"
	}
	return "stateless"
}
