package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/application/query"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/scoring"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/user"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/interface/http/handlers"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/pkg/logger"
)

// ─────────────────────────────────────────────────────────────────────────────
// Fakes
// ─────────────────────────────────────────────────────────────────────────────

type fakeUsers struct {
	user.Repository

	byID map[user.UserID]*user.User
}

func (f *fakeUsers) GetByID(_ context.Context, id user.UserID) (*user.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUsers) TopByScore(context.Context, int) ([]*user.User, error) {
	out := make([]*user.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUsers) ScoreRank(_ context.Context, id user.UserID) (int, int, error) {
	if _, ok := f.byID[id]; !ok {
		return 0, 0, user.ErrUserNotFound
	}
	return 1, len(f.byID), nil
}

type fakeRecords struct{ user.StudentRecordRepository }

func (fakeRecords) GetByUserID(context.Context, user.UserID) (*user.StudentRecord, error) {
	return nil, user.ErrUserNotFound
}

type fakeProfiles struct{ user.TeacherProfileRepository }

func (fakeProfiles) GetByUserID(context.Context, user.UserID) (*user.TeacherProfile, error) {
	return nil, user.ErrUserNotFound
}

type fakeVerifier struct {
	id   user.UserID
	role user.Role
	err  error
}

func (f *fakeVerifier) Verify(string) (user.UserID, user.Role, error) {
	return f.id, f.role, f.err
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	users := &fakeUsers{byID: map[user.UserID]*user.User{
		7: {
			ID:          7,
			Name:        "Amaya Perera",
			Email:       "amaya@school.lk",
			Role:        user.RoleStudent,
			SystemScore: 150,
			IsActive:    true,
		},
	}}
	catalogue := scoring.NewCatalogue(scoring.DefaultTiers())
	log := logger.New(logger.Options{Output: io.Discard, Level: logger.LevelError})

	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0

	return NewServer(cfg, Dependencies{
		GetProfileHandler:     query.NewGetUserProfileHandler(users, fakeRecords{}, fakeProfiles{}, catalogue),
		GetRankHandler:        query.NewGetUserRankHandler(users, nil, catalogue, log),
		GetLeaderboardHandler: query.NewGetLeaderboardHandler(users, nil, catalogue, log),
		Tokens:                &fakeVerifier{id: 7, role: user.RoleStudent},
		Levels:                catalogue,
		Logger:                log,
		HealthChecker:         handlers.NewNoopHealthChecker(),
	})
}

func doRequest(s *Server, method, target string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) JSONResponse {
	t.Helper()
	var body JSONResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

// ─────────────────────────────────────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────────────────────────────────────

func TestServer_Health(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeBody(t, rec).Success)
}

func TestServer_Levels(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/api/v1/levels", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []query.TierDTO `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Data, 10)
	assert.Equal(t, "Novice Scout", body.Data[0].Name)
}

func TestServer_GetProfile(t *testing.T) {
	s := newTestServer(t)

	t.Run("existing user", func(t *testing.T) {
		rec := doRequest(s, http.MethodGet, "/api/v1/users/7", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		rec := doRequest(s, http.MethodGet, "/api/v1/users/99", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		body := decodeBody(t, rec)
		assert.False(t, body.Success)
		assert.Equal(t, "user_not_found", body.Error.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		rec := doRequest(s, http.MethodGet, "/api/v1/users/abc", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("negative id", func(t *testing.T) {
		rec := doRequest(s, http.MethodGet, "/api/v1/users/-1", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_OwnProfileRequiresToken(t *testing.T) {
	s := newTestServer(t)

	t.Run("missing token", func(t *testing.T) {
		rec := doRequest(s, http.MethodGet, "/api/v1/users/me", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		rec := doRequest(s, http.MethodGet, "/api/v1/users/me", map[string]string{
			"Authorization": "Basic dXNlcjpwYXNz",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		rec := doRequest(s, http.MethodGet, "/api/v1/users/me", map[string]string{
			"Authorization": "Bearer some-token",
		})
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestServer_GetRank(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/api/v1/users/7/rank", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data query.UserRankDTO `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, int64(7), body.Data.UserID)
	assert.Equal(t, 1, body.Data.Rank)
	assert.Equal(t, 1, body.Data.TotalRanked)
}

func TestServer_Leaderboard(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/api/v1/leaderboard?limit=5", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_AdminPromotionsDisabledWithoutKeys(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/promotions", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestServer_SecurityHeaders(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/health", nil)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRateLimiter_InMemory(t *testing.T) {
	rl := newRateLimiter(2, time.Minute)

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"), "limits are per client")
}
