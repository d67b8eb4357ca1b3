// Package auth inspects the directory bearer credential locally. No
// network calls are made.
package auth

// State represents the state of the configured credential.
type State int

const (
	// StateConfigured means a credential is set.
	StateConfigured State = iota
	// StateMissing means a required credential is not set.
	StateMissing
	// StateInvalid means a credential is set but cannot be used.
	StateInvalid
	// StateOptional means no credential is set and none is required.
	StateOptional
)

// String returns the string representation of a State.
func (s State) String() string {
	switch s {
	case StateConfigured:
		return "configured"
	case StateMissing:
		return "missing"
	case StateInvalid:
		return "invalid"
	case StateOptional:
		return "optional"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Status represents the credential status.
type Status struct {
	State   State         `json:"state" yaml:"state"`
	Summary string        `json:"summary" yaml:"summary"` // Brief one-line summary
	Details *TokenDetails `json:"details,omitempty" yaml:"details,omitempty"`
}

// TokenDetails describes a credential without exposing it.
type TokenDetails struct {
	EnvVar string `json:"env_var" yaml:"env_var"` // Environment variable the credential is read from
	IsSet  bool   `json:"is_set" yaml:"is_set"`
	Masked string `json:"masked,omitempty" yaml:"masked,omitempty"` // first10...last5
	Role   string `json:"role,omitempty" yaml:"role,omitempty"`     // JWT role claim, when the token is a JWT
	Source string `json:"source,omitempty" yaml:"source,omitempty"` // "env" or "config"
}
