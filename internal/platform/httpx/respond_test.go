package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type decodeTarget struct {
	Name string `json:"name"`
}

func TestDecodeJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ana"}`))
	var target decodeTarget
	require.NoError(t, DecodeJSON(req, &target))
	require.Equal(t, "ana", target.Name)
}

func TestDecodeJSONRejectsOversizedBody(t *testing.T) {
	body := `{"name":"` + strings.Repeat("a", MaxBodyBytes+1) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	var target decodeTarget
	require.Error(t, DecodeJSON(req, &target))
}

func TestDecodeJSONRejectsTrailingContent(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ana"}{"name":"bob"}`))
	var target decodeTarget
	require.Error(t, DecodeJSON(req, &target))
}

func TestProblemShape(t *testing.T) {
	rec := httptest.NewRecorder()
	Problem(rec, http.StatusNotFound, "Not Found", "no such row")

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var pd ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pd))
	require.Equal(t, "Not Found", pd.Title)
	require.Equal(t, http.StatusNotFound, pd.Status)
	require.Equal(t, "no such row", pd.Detail)
}
