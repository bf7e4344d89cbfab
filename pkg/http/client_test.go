package http

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

func TestClient_SendAndParse_SetsAcceptAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		_, _ = w.Write([]byte(`{"base":"USD"}`))
	}))
	defer srv.Close()

	var out struct {
		Base string `json:"base"`
	}
	err := NewClient().SendAndParse(context.Background(), &RequestOptions{
		URL:         srv.URL,
		QueryParams: map[string][]string{"page": {"1"}},
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, "USD", out.Base)
}

func TestClient_SendAndParse_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	err := NewClient().SendAndParse(context.Background(), &RequestOptions{URL: srv.URL}, &struct{}{})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	assert.Contains(t, se.Body, "rate limited")
}

func TestClient_SendAndParse_DecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[1,2,3]`))
	}))
	defer srv.Close()

	var out struct{ Rates map[string]float64 }
	err := NewClient().SendAndParse(context.Background(), &RequestOptions{URL: srv.URL}, &out)
	var de *DecodeError
	assert.True(t, errors.As(err, &de))
}

func TestClient_PerRequestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	err := NewClient(WithTimeout(time.Minute)).SendAndParse(context.Background(), &RequestOptions{
		URL:     srv.URL,
		Timeout: 50 * time.Millisecond,
	}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), 5*time.Second)
}
