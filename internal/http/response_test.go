package httpapi

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"adaptlearn-backend-go/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestWriteServiceErrorMapsTaxonomy(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteServiceError(rec, services.ErrDuplicateKey("Username already exists"))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "DUPLICATE_KEY")
	assert.Contains(t, rec.Body.String(), "Username already exists")
}

func TestWriteServiceErrorHidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteServiceError(rec, errors.New("pq: column does not exist"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "column")
}

func TestWriteJSONSetsContentType(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]string{"ok": "yes"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
