package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fastFetcher(format string) *HTTPDiffFetcher {
	f := NewDiffFetcher(format, nil)
	f.client.RetryMax = 2
	f.client.RetryWaitMin = time.Millisecond
	f.client.RetryWaitMax = 5 * time.Millisecond
	return f
}

func TestFetch_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pull/40123.diff" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("diff --git a/x b/x\n"))
	}))
	defer srv.Close()

	f := fastFetcher(srv.URL + "/pull/%s.diff")
	body, err := f.Fetch(context.Background(), "40123")
	require.NoError(t, err)
	require.Equal(t, "diff --git a/x b/x\n", string(body))
}

func TestFetch_RejectsOversizedDiff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("0123456789"))
	}))
	defer srv.Close()

	f := fastFetcher(srv.URL + "/pull/%s.diff")
	f.maxBytes = 10
	body, err := f.Fetch(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, body, 10)

	f.maxBytes = 9
	_, err = f.Fetch(context.Background(), "1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "diff too large")
}

func TestFetch_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	body, err := fastFetcher(srv.URL+"/%s").Fetch(context.Background(), "1")
	require.NoError(t, err)
	require.Equal(t, "ok", string(body))
	require.Equal(t, int32(3), calls.Load())
}

func TestFetch_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := fastFetcher(srv.URL+"/%s").Fetch(context.Background(), "999")
	require.Error(t, err)
	require.Contains(t, err.Error(), "404")
}

func TestFetch_GivesUp(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := fastFetcher(srv.URL+"/%s").Fetch(context.Background(), "7")
	require.Error(t, err)
	require.Equal(t, int32(3), calls.Load())
}

func TestURL_EscapesIdentifier(t *testing.T) {
	f := NewDiffFetcher("https://github.com/spack/spack/pull/%s.diff", nil)
	require.Equal(t, "https://github.com/spack/spack/pull/12%2F3.diff", f.URL("12/3"))
}
