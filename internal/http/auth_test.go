package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"adaptlearn-backend-go/internal/config"
	"adaptlearn-backend-go/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTokens() services.TokenService {
	return services.TokenService{
		Secret:     []byte("test-secret"),
		Issuer:     "adaptlearn",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
	}
}

func echoUsername() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"username": CurrentUsername(r)})
	})
}

func TestWithAuthRejectsMissingHeader(t *testing.T) {
	handler := WithAuth(testTokens())(echoUsername())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWithAuthRejectsGarbageToken(t *testing.T) {
	handler := WithAuth(testTokens())(echoUsername())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWithAuthRejectsRefreshToken(t *testing.T) {
	tokens := testTokens()
	refresh, err := tokens.CreateRefreshToken("alice")
	require.NoError(t, err)

	handler := WithAuth(tokens)(echoUsername())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWithAuthPassesValidToken(t *testing.T) {
	tokens := testTokens()
	access, _, err := tokens.CreateAccessToken("alice", "alice@example.com")
	require.NoError(t, err)

	handler := WithAuth(tokens)(echoUsername())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)
}

func TestRequireAdmin(t *testing.T) {
	tokens := testTokens()
	cfg := config.Config{AdminUsers: []string{"root"}}

	handler := WithAuth(tokens)(RequireAdmin(cfg)(echoUsername()))

	access, _, err := tokens.CreateAccessToken("alice", "")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	access, _, err = tokens.CreateAccessToken("root", "")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
