package transport

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/agentstation/mcpsync/pkg/constants"
	"github.com/agentstation/mcpsync/pkg/errors"
)

// DecodeResponse decodes a JSON response into target and closes the body.
// Non-200 responses become *errors.APIError carrying a truncated body.
func DecodeResponse(resp *http.Response, source string, target any) error {
	defer func() { _ = resp.Body.Close() }()

	endpoint := ""
	if resp.Request != nil && resp.Request.URL != nil {
		endpoint = resp.Request.URL.String()
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, constants.MaxErrorBodySize))
		message := strings.TrimSpace(string(body))
		if message == "" {
			message = resp.Status
		}
		return &errors.APIError{
			Source:     source,
			StatusCode: resp.StatusCode,
			Endpoint:   endpoint,
			Message:    message,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapResource("read", "response body", endpoint, err)
	}
	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", endpoint, err)
	}
	return nil
}
