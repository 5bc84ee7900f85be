package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Envelope mirrors the API success envelope with the data left raw for the
// caller to decode.
type Envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
}

// ErrorEnvelope mirrors the API error envelope
type ErrorEnvelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
	Stack   string   `json:"stack"`
}

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// DecodeEnvelope reads the success envelope and unmarshals its data into v
func DecodeEnvelope(t *testing.T, resp *http.Response, v interface{}) Envelope {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	var envelope Envelope
	err = json.Unmarshal(body, &envelope)
	require.NoError(t, err, "failed to unmarshal envelope: %s", string(body))
	require.True(t, envelope.Success, "expected success envelope: %s", string(body))

	if v != nil {
		err = json.Unmarshal(envelope.Data, v)
		require.NoError(t, err, "failed to unmarshal envelope data: %s", string(envelope.Data))
	}

	return envelope
}

// AssertErrorResponse verifies the error envelope's status and message
func AssertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	var envelope ErrorEnvelope
	err = json.Unmarshal(body, &envelope)
	require.NoError(t, err, "failed to unmarshal error envelope: %s", string(body))

	assert.False(t, envelope.Success, "expected success=false")
	if expectedMessage != "" {
		assert.Contains(t, envelope.Message, expectedMessage, "error message mismatch")
	}
}

// CookieValue returns the named cookie's value from a response, or ""
func CookieValue(resp *http.Response, name string) string {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == name {
			return cookie.Value
		}
	}
	return ""
}
