package auth

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/agentstation/mcpsync/pkg/errors"
)

// Claims are the JWT claims read from a directory credential.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// MaskToken keeps the first 10 and last 5 characters of a token. Tokens
// too short to mask safely are fully redacted.
func MaskToken(token string) string {
	if len(token) <= 15 {
		return strings.Repeat("*", len(token))
	}
	return token[:10] + "..." + token[len(token)-5:]
}

// Role returns the role claim of a JWT without verifying its signature.
// Plain API keys are reported as validation errors.
func Role(token string) (string, error) {
	if strings.Count(token, ".") != 2 {
		return "", errors.NewValidationError("token", MaskToken(token), "not a JWT")
	}

	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return "", errors.WrapParse("jwt", "claims", err)
	}
	return claims.Role, nil
}

// Checker checks the status of the directory credential.
type Checker struct {
	EnvVar   string
	Required bool
}

// NewChecker creates a new credential checker.
func NewChecker(envVar string, required bool) *Checker {
	return &Checker{EnvVar: envVar, Required: required}
}

// Check inspects token, reported as coming from source.
func (c *Checker) Check(token, source string) *Status {
	if token == "" {
		if c.Required {
			return &Status{
				State:   StateMissing,
				Summary: fmt.Sprintf("Set %s environment variable", c.EnvVar),
				Details: &TokenDetails{EnvVar: c.EnvVar},
			}
		}
		return &Status{
			State:   StateOptional,
			Summary: fmt.Sprintf("Optional: %s not set", c.EnvVar),
		}
	}

	details := &TokenDetails{
		EnvVar: c.EnvVar,
		IsSet:  true,
		Masked: MaskToken(token),
		Source: source,
	}
	if strings.ContainsAny(token, " \t\r\n") {
		return &Status{
			State:   StateInvalid,
			Summary: "Credential contains whitespace",
			Details: details,
		}
	}
	if role, err := Role(token); err == nil {
		details.Role = role
	}

	return &Status{
		State:   StateConfigured,
		Summary: fmt.Sprintf("Bearer credential configured (%s)", details.Masked),
		Details: details,
	}
}
