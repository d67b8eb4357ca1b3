package auth

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/mcpsync/pkg/errors"
)

func jwtWithPayload(payload string) string {
	enc := base64.RawURLEncoding.EncodeToString
	return enc([]byte(`{"alg":"HS256","typ":"JWT"}`)) + "." + enc([]byte(payload)) + ".signature"
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "abcdefghij...vwxyz", MaskToken("abcdefghijklmnopqrstuvwxyz"))
	assert.Equal(t, "*****", MaskToken("short"))
	assert.Equal(t, "", MaskToken(""))
}

func TestRole(t *testing.T) {
	role, err := Role(jwtWithPayload(`{"role":"service_role","iss":"supabase"}`))
	require.NoError(t, err)
	assert.Equal(t, "service_role", role)

	_, err = Role("plain-api-key")
	assert.True(t, errors.IsValidationError(err))

	var parseErr *errors.ParseError
	_, err = Role("a.!!!.c")
	assert.True(t, errors.As(err, &parseErr))

	_, err = Role(jwtWithPayload(`not json`))
	assert.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "jwt", parseErr.Format)

	role, err = Role(jwtWithPayload(`{"sub":"svc"}`))
	require.NoError(t, err)
	assert.Empty(t, role)
}

func TestCheck(t *testing.T) {
	required := NewChecker("PULSEMCP_API_KEY", true)
	status := required.Check("", "")
	assert.Equal(t, StateMissing, status.State)
	assert.Contains(t, status.Summary, "PULSEMCP_API_KEY")

	optional := NewChecker("PULSEMCP_API_KEY", false)
	assert.Equal(t, StateOptional, optional.Check("", "").State)

	token := jwtWithPayload(`{"role":"anon"}`)
	status = optional.Check(token, "env")
	require.Equal(t, StateConfigured, status.State)
	assert.Equal(t, "anon", status.Details.Role)
	assert.Equal(t, "env", status.Details.Source)
	assert.NotContains(t, status.Summary, token)

	status = optional.Check("has a space in it", "flag")
	assert.Equal(t, StateInvalid, status.State)
	assert.Equal(t, "invalid", status.State.String())
}
