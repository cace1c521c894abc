package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActiveYearHandlers(t *testing.T) {
	newTestDB(t)

	var resp struct {
		ActiveYear int `json:"activeYear"`
	}
	w := httptest.NewRecorder()
	GetActiveYear(w, jsonRequest(t, "GET", "/api/v1/settings/active-year", nil, nil))
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &resp)
	assert.Equal(t, time.Now().Year(), resp.ActiveYear)

	w = httptest.NewRecorder()
	SetActiveYear(w, jsonRequest(t, "PUT", "/api/v1/settings/active-year", map[string]int{"year": 2030}, nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	GetActiveYear(w, jsonRequest(t, "GET", "/api/v1/settings/active-year", nil, nil))
	decodeBody(t, w, &resp)
	assert.Equal(t, 2030, resp.ActiveYear)

	// Out-of-range year is rejected.
	w = httptest.NewRecorder()
	SetActiveYear(w, jsonRequest(t, "PUT", "/api/v1/settings/active-year", map[string]int{"year": 1980}, nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
