package checks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ozzus/pingdumb/internal/domain"
)

func newFastServer(t *testing.T, token string) *httptest.Server {
	t.Helper()

	blob := bytes.Repeat([]byte("x"), 256*1024)

	mux := http.NewServeMux()
	var srv *httptest.Server

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `<html><head><script src="/app-1a2b3c.js"></script></head></html>`)
	})
	mux.HandleFunc("/app-1a2b3c.js", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprintf(w, `var a={https:!0,token:"%s",urlCount:5};`, token)
	})
	mux.HandleFunc("/api", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, token, r.URL.Query().Get("token"))
		assert.Equal(t, "2", r.URL.Query().Get("urlCount"))
		_, _ = fmt.Fprintf(w, `{"client":{"ip":"203.0.113.9"},"targets":[{"url":"%[1]s/blob/1"},{"url":"%[1]s/blob/2"}]}`, srv.URL)
	})
	mux.HandleFunc("/blob/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(blob)
	})

	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFastCheckerMeasuresDownload(t *testing.T) {
	srv := newFastServer(t, "YXNkZmFzZGxmbnNkYWZoYXNkZmhrYWxm")

	f := NewFastChecker(srv.Client(), 2, 5*time.Second)
	f.siteURL = srv.URL
	f.apiURL = srv.URL + "/api"

	out, err := f.Run(context.Background(), "", 10*time.Second, Options{})
	require.NoError(t, err)

	payload := out.(domain.FastPayload)
	assert.Equal(t, 2, payload.URLsTested)
	assert.Equal(t, "YXNkZmFz", payload.TokenPrefix)
	assert.Zero(t, payload.UploadMbps)
	assert.Greater(t, payload.DownloadMbps, 0.0)
	assert.Greater(t, payload.TestDurationSec, 0.0)
}

func TestFastCheckerMissingToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "<html></html>")
	}))
	defer srv.Close()

	f := NewFastChecker(srv.Client(), 1, time.Second)
	f.siteURL = srv.URL

	_, err := f.Run(context.Background(), "", time.Second, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrProbeTransport))
}
