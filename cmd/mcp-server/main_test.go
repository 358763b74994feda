package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(t *testing.T, body string) (int, map[string]interface{}) {
	t.Helper()
	app := newApp(nil)
	req := httptest.NewRequest(http.MethodPost, "/tool", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestTool_Solve(t *testing.T) {
	status, out := post(t, `{"tool":"solve","params":{"equation":"X^2 - 4 = 0"}}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "2.0, -2.0", out["string"])
	assert.Empty(t, out["error"])
}

func TestTool_ErrorInResponse(t *testing.T) {
	status, out := post(t, `{"tool":"solve","params":{"equation":"X^3 = 0"}}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, out["error"], "strictly greater than 2")
}

func TestTool_UnknownField(t *testing.T) {
	status, out := post(t, `{"tool":"sqrt","params":{"x":4},"extra":1}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, out["error"], "unknown field")
}

func TestTool_TrailingData(t *testing.T) {
	status, out := post(t, `{"tool":"sqrt","params":{"x":4}} {"tool":"sqrt"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid JSON: trailing data", out["error"])
}

func TestTool_BadJSON(t *testing.T) {
	status, _ := post(t, `{"tool":`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSchema(t *testing.T) {
	resp, err := newApp(nil).Test(httptest.NewRequest(http.MethodGet, "/schema", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var spec struct {
		Tools []map[string]interface{} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(b, &spec))
	assert.Len(t, spec.Tools, 6)
}

func TestHealth(t *testing.T) {
	resp, err := newApp(nil).Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "ok", out["status"])
}

func TestEnvPort(t *testing.T) {
	t.Setenv("COMPUTOR_PORT", "9090")
	assert.Equal(t, 9090, envPort())
	t.Setenv("COMPUTOR_PORT", "nope")
	assert.Equal(t, defaultPort, envPort())
}
