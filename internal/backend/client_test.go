package backend

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ozzus/pingdumb/internal/domain"
)

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "collector.local:8080", want: "http://collector.local:8080"},
		{in: "https://collector.local/api/", want: "https://collector.local/api"},
		{in: "  https://collector.local/?x=1#frag ", want: "https://collector.local"},
		{in: "", wantErr: true},
		{in: "http://", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient("http://collector", "", "token")
	assert.Error(t, err)

	_, err = NewClient("http://collector", "edge-1", "")
	assert.Error(t, err)
}

func TestPublishResult(t *testing.T) {
	var got domain.Result
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/check/def-1/results", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "edge-1", user)
		assert.Equal(t, "s3cret", pass)

		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "edge-1", "s3cret")
	require.NoError(t, err)

	err = c.PublishResult(context.Background(), domain.Result{ConfigID: "def-1", Error: "timeout", ResponseTime: 5})
	require.NoError(t, err)

	assert.Equal(t, "def-1", got.ConfigID)
	assert.Equal(t, "timeout", got.Error)
	assert.Equal(t, 5.0, got.ResponseTime)
}

func TestPublishResultErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "check not registered", http.StatusNotFound)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "edge-1", "s3cret")
	require.NoError(t, err)

	err = c.PublishResult(context.Background(), domain.Result{ConfigID: "def-1"})
	assert.EqualError(t, err, "unexpected status 404: check not registered")

	err = c.PublishResult(context.Background(), domain.Result{})
	assert.Error(t, err)
}

func TestRunHeartbeat(t *testing.T) {
	var beats atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/instances/heartbeat", r.URL.Path)

		var hb domain.Heartbeat
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&hb))
		assert.Equal(t, "edge-1", hb.Instance)
		assert.Equal(t, 3, hb.Scheduled)
		assert.False(t, hb.Timestamp.IsZero())

		beats.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "edge-1", "s3cret")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.RunHeartbeat(ctx, 20*time.Millisecond, func() domain.Heartbeat {
			return domain.Heartbeat{Scheduled: 3}
		}, slog.New(slog.NewTextHandler(io.Discard, nil)))
		close(done)
	}()

	require.Eventually(t, func() bool { return beats.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	<-done
}
