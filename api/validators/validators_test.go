package validators

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/autovista-ai/autovista-backend/pkg/errors"
)

type decodePayload struct {
	Question string `json:"question" validate:"required,min=3"`
	Limit    int    `json:"limit" validate:"omitempty,min=1,max=20"`
}

func TestDecodeJSONBody(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"question":"how many trucks sold","limit":5}`))

	var payload decodePayload
	require.NoError(t, DecodeJSONBody(req, &payload))
	assert.Equal(t, "how many trucks sold", payload.Question)
	assert.Equal(t, 5, payload.Limit)
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"question":"ok ok","query":"extra"}`))

	var payload decodePayload
	err := DecodeJSONBody(req, &payload)
	require.Error(t, err)

	var typed *pkgerrors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestDecodeJSONBodyFieldMessages(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"limit":100}`))

	var payload decodePayload
	err := DecodeJSONBody(req, &payload)
	require.Error(t, err)

	var typed *pkgerrors.Error
	require.ErrorAs(t, err, &typed)
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok, "expected per-field details, got %T", typed.Details())
	assert.Equal(t, "is required", details["question"])
	assert.Equal(t, "must be at most 20", details["limit"])
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest("GET", "/?limit=25", nil)

	value, err := ParseQueryInt(req, "limit", 10, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 25, value)

	value, err = ParseQueryInt(req, "missing", 10, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 10, value)

	_, err = ParseQueryInt(httptest.NewRequest("GET", "/?limit=500", nil), "limit", 10, 1, 100)
	require.Error(t, err)

	_, err = ParseQueryInt(httptest.NewRequest("GET", "/?limit=many", nil), "limit", 10, 1, 100)
	require.Error(t, err)
}

func TestParseQueryDate(t *testing.T) {
	value, err := ParseQueryDate(httptest.NewRequest("GET", "/?start_date=2026-03-15", nil), "start_date")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), value)

	value, err = ParseQueryDate(httptest.NewRequest("GET", "/", nil), "start_date")
	require.NoError(t, err)
	assert.True(t, value.IsZero())

	_, err = ParseQueryDate(httptest.NewRequest("GET", "/?start_date=yesterday", nil), "start_date")
	require.Error(t, err)
}
