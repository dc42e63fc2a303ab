package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentor-hub/student-mentor/internal/domain/shared"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig(srv.URL)
	cfg.Password = "secret"
	return NewClient(cfg), srv
}

func TestGetStudentInfo_LogsInOnceAndCachesToken(t *testing.T) {
	var logins, infos int32

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&logins, 1)
		var req loginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "admin", req.Username)
		assert.Equal(t, "secret", req.Password)
		json.NewEncoder(w).Encode(map[string]string{"token": "tok-1"})
	})
	mux.HandleFunc("/student/info/42", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&infos, 1)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{"studentId": 42})
	})

	client, _ := newTestClient(t, mux)

	for i := 0; i < 3; i++ {
		snap, err := client.GetStudentInfo(context.Background(), 42)
		require.NoError(t, err)
		assert.Equal(t, int64(42), snap.StudentID)
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&logins))
	assert.Equal(t, int32(3), atomic.LoadInt32(&infos))
}

func TestGetStudentInfo_TokenFieldVariants(t *testing.T) {
	for _, field := range []string{"token", "accessToken", "jwt", "access_token"} {
		mux := http.NewServeMux()
		mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{field: "tok"})
		})
		mux.HandleFunc("/student/info/1", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"), "field %s", field)
			json.NewEncoder(w).Encode(map[string]any{"studentId": 1})
		})

		client, _ := newTestClient(t, mux)
		_, err := client.GetStudentInfo(context.Background(), 1)
		assert.NoError(t, err, "field %s", field)
	}
}

func TestGetStudentInfo_RetriesOnceOnUnauthorized(t *testing.T) {
	var logins, attempts int32

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&logins, 1)
		json.NewEncoder(w).Encode(map[string]string{"token": fmt.Sprintf("tok-%d", n)})
	})
	mux.HandleFunc("/student/info/7", func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) == 1 {
			// Stale token: reject the first attempt.
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "Bearer tok-2", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{"studentId": 7})
	})

	client, _ := newTestClient(t, mux)
	snap, err := client.GetStudentInfo(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), snap.StudentID)
	assert.Equal(t, int32(2), atomic.LoadInt32(&logins))
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))
}

func TestGetStudentInfo_SecondUnauthorizedIsTerminal(t *testing.T) {
	var attempts int32

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"token": "tok"})
	})
	mux.HandleFunc("/student/info/7", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusForbidden)
	})

	client, _ := newTestClient(t, mux)
	_, err := client.GetStudentInfo(context.Background(), 7)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.True(t, errors.Is(err, shared.ErrForbidden))
	// Exactly one retry, never more.
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))
}

func TestGetStudentInfo_ClientErrorMapping(t *testing.T) {
	cases := []struct {
		status  int
		message string
		kind    error
	}{
		{http.StatusBadRequest, "Invalid student ID", shared.ErrInvalidInput},
		{http.StatusNotFound, "Student not found", shared.ErrNotFound},
	}
	for _, tc := range cases {
		mux := http.NewServeMux()
		mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"token": "tok"})
		})
		mux.HandleFunc("/student/info/9", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		})

		client, _ := newTestClient(t, mux)
		_, err := client.GetStudentInfo(context.Background(), 9)
		require.Error(t, err)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, tc.status, apiErr.StatusCode)
		assert.Equal(t, tc.message, apiErr.Message)
		assert.True(t, errors.Is(err, tc.kind))
	}
}

func TestGetStudentInfo_ServerErrorIncludesBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"token": "tok"})
	})
	mux.HandleFunc("/student/info/9", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	})

	client, _ := newTestClient(t, mux)
	_, err := client.GetStudentInfo(context.Background(), 9)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "502")
	assert.Contains(t, apiErr.Message, "upstream exploded")
}

func TestGetStudentInfo_ConnectionError(t *testing.T) {
	cfg := DefaultConfig("http://127.0.0.1:1")
	cfg.Password = "secret"
	client := NewClient(cfg)

	_, err := client.GetStudentInfo(context.Background(), 1)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.True(t, errors.Is(err, shared.ErrConnection))
}

func TestSaveWellbeing_PostsPayload(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"token": "tok"})
	})
	mux.HandleFunc("/wellbeing/5", func(w http.ResponseWriter, r *http.Request) {
		var p WellbeingPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		assert.Equal(t, 36, p.StressPercentage)
		assert.Equal(t, "YELLOW", p.StressColour)
		assert.NotEmpty(t, p.WellbeingGist)
		w.WriteHeader(http.StatusCreated)
	})

	client, _ := newTestClient(t, mux)
	err := client.SaveWellbeing(context.Background(), 5, WellbeingPayload{
		StressPercentage: 36,
		StressColour:     "YELLOW",
		WellbeingGist:    "doing okay",
	})
	assert.NoError(t, err)
}

func TestSaveGuidance_PostsPayload(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"token": "tok"})
	})
	mux.HandleFunc("/guidance/5", func(w http.ResponseWriter, r *http.Request) {
		var p GuidancePayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		assert.Len(t, p.Guidances, 2)
		assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, p.Date)
		w.WriteHeader(http.StatusCreated)
	})

	client, _ := newTestClient(t, mux)
	err := client.SaveGuidance(context.Background(), 5, GuidancePayload{
		Guidances: []string{"a", "b"},
		Date:      "2026-08-31",
	})
	assert.NoError(t, err)
}

func TestSession_LoginFailureYieldsNoToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	client, _ := newTestClient(t, mux)
	_, ok := client.Session().Token(context.Background())
	assert.False(t, ok)
}

func TestSession_MissingCredentials(t *testing.T) {
	cfg := DefaultConfig("http://localhost:0")
	client := NewClient(cfg)

	assert.False(t, client.AuthConfigured())
	_, ok := client.Session().Token(context.Background())
	assert.False(t, ok)
}
