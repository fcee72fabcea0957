package repository

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T, h http.HandlerFunc) *ActivityRepository {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewActivityRepository(srv.URL+"/", 5*time.Second)
}

func TestListDecodesRoster(t *testing.T) {
	repo := newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/activities", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Chess Club": {"description": "Strategy games", "schedule": "Fridays 3pm", "max_participants": 10, "participants": ["a@x.com"]}}`))
	})

	roster, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, roster.Len())

	chess, ok := roster.Get("Chess Club")
	require.True(t, ok)
	assert.Equal(t, "Strategy games", chess.Description)
	assert.Equal(t, 9, chess.SpotsLeft())
}

func TestListNonOKIsRejected(t *testing.T) {
	repo := newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"detail": "maintenance"}`))
	})

	_, err := repo.List(context.Background())
	var rej *RejectedError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, http.StatusServiceUnavailable, rej.Status)
	assert.Equal(t, "maintenance", rej.Detail)
}

func TestListMalformedBody(t *testing.T) {
	repo := newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	})

	_, err := repo.List(context.Background())
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestListTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	repo := NewActivityRepository(url, time.Second)
	_, err := repo.List(context.Background())
	assert.ErrorIs(t, err, ErrTransport)
}

func TestSignupEncodesNameAndEmail(t *testing.T) {
	repo := newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/activities/Chess%20Club/signup", r.URL.EscapedPath())
		assert.Equal(t, "email=a%2Bb%40x.com", r.URL.RawQuery)
		assert.Equal(t, "a+b@x.com", r.URL.Query().Get("email"))
		_, _ = w.Write([]byte(`{"message": "Signed up a+b@x.com for Chess Club"}`))
	})

	msg, err := repo.Signup(context.Background(), "Chess Club", "a+b@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Signed up a+b@x.com for Chess Club", msg)
}

func TestSignupRejectedCarriesDetail(t *testing.T) {
	repo := newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail": "Activity is full"}`))
	})

	_, err := repo.Signup(context.Background(), "Chess Club", "a@x.com")
	var rej *RejectedError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, http.StatusBadRequest, rej.Status)
	assert.Equal(t, "Activity is full", rej.Detail)
}

func TestSignupRejectedWithoutDetail(t *testing.T) {
	repo := newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail": [{"msg": "field required"}]}`))
	})

	_, err := repo.Signup(context.Background(), "Chess Club", "")
	var rej *RejectedError
	require.ErrorAs(t, err, &rej)
	assert.Empty(t, rej.Detail)
}

func TestSignupMalformedBodyIsNotRejection(t *testing.T) {
	repo := newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`Internal Server Error`))
	})

	_, err := repo.Signup(context.Background(), "Chess Club", "a@x.com")
	assert.ErrorIs(t, err, ErrMalformed)

	var rej *RejectedError
	assert.False(t, errors.As(err, &rej))
}

func TestUnregisterUsesDelete(t *testing.T) {
	repo := newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/activities/Gym Class/signup", r.URL.Path)
		assert.Equal(t, "dup@mergington.edu", r.URL.Query().Get("email"))
		_, _ = w.Write([]byte(`{"message": "Unregistered dup@mergington.edu from Gym Class"}`))
	})

	msg, err := repo.Unregister(context.Background(), "Gym Class", "dup@mergington.edu")
	require.NoError(t, err)
	assert.Contains(t, msg, "Unregistered")
}

func TestSignupHonoursContext(t *testing.T) {
	repo := newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := repo.Signup(ctx, "Chess Club", "a@x.com")
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestEncodeComponent(t *testing.T) {
	cases := map[string]string{
		"Chess Club":     "Chess%20Club",
		"a@x.com":        "a%40x.com",
		"a+b":            "a%2Bb",
		"Art/Craft":      "Art%2FCraft",
		"Q&A=?":          "Q%26A%3D%3F",
		"Ciência":        "Ci%C3%AAncia",
		"plain-name_1.x": "plain-name_1.x",
		"Rock (n) Roll!": "Rock%20(n)%20Roll!",
		"o'neil*~":       "o'neil*~",
	}
	for in, want := range cases {
		assert.Equal(t, want, EncodeComponent(in), in)
	}
}
