package rankings

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmp229/psa-predict/internal/datasource"
	"github.com/hmp229/psa-predict/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := logrus.New()
	httpClient := datasource.NewRateLimitedHTTPClient(datasource.HTTPClientConfig{
		Timeout:           2 * time.Second,
		MaxRetries:        0,
		RetryWaitMin:      time.Millisecond,
		RetryWaitMax:      time.Millisecond,
		RateLimit:         1000,
		CircuitBreakerMax: 100,
	}, logger)
	t.Cleanup(func() { httpClient.Close() })

	return NewClient(httpClient, srv.URL, time.Minute, logger)
}

func TestResolveFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"players":[{"name":"Ali Farag","id":"farag","profile_url":"https://example.com/farag"}]}`)
	})

	res, err := client.Resolve(context.Background(), "farag")
	require.NoError(t, err)
	assert.True(t, res.IsFound())
	assert.Equal(t, "Ali Farag", res.Canonical)
	assert.Equal(t, "farag", res.CompetitorID)
}

func TestResolveAmbiguousReturnsSuggestions(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"players":[{"name":"Mostafa Asal","id":"asal-m"},{"name":"Ziad Asal","id":"asal-z"}]}`)
	})

	res, err := client.Resolve(context.Background(), "asal")
	require.NoError(t, err)
	assert.Equal(t, models.ResolutionNotFound, res.Status)
	assert.Len(t, res.Suggestions, 2)
}

func TestResolveUpstreamInvalid(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>maintenance</html>`)
	})

	res, err := client.Resolve(context.Background(), "farag")
	require.NoError(t, err)
	assert.Equal(t, models.ResolutionUpstreamInvalid, res.Status)
}

func TestSnapshotFreshAndCached(t *testing.T) {
	calls := 0
	asOf := time.Now().UTC().AddDate(0, 0, -10).Format("2006-01-02")
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprintf(w, `{"rank":2,"points":15000,"as_of":%q}`, asOf)
	})

	first, err := client.Snapshot(context.Background(), "farag")
	require.NoError(t, err)
	assert.Equal(t, 2, first.Rank)

	second, err := client.Snapshot(context.Background(), "farag")
	require.NoError(t, err)
	assert.Equal(t, first.Rank, second.Rank)
	assert.Equal(t, 1, calls, "second lookup should come from cache")
}

func TestSnapshotRejectsStale(t *testing.T) {
	asOf := time.Now().UTC().AddDate(0, 0, -120).Format("2006-01-02")
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"rank":14,"points":8000,"as_of":%q}`, asOf)
	})

	_, err := client.Snapshot(context.Background(), "farag")
	assert.ErrorIs(t, err, models.ErrStaleSnapshot)
}

func TestSnapshotNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.Snapshot(context.Background(), "nobody")
	assert.ErrorIs(t, err, models.ErrCompetitorNotFound)
}

func TestPing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"players":[]}`)
	})
	assert.NoError(t, client.Ping(context.Background()))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	logger := logrus.New()
	httpClient := datasource.NewRateLimitedHTTPClient(datasource.HTTPClientConfig{
		Timeout:           time.Second,
		RetryWaitMin:      time.Millisecond,
		RetryWaitMax:      time.Millisecond,
		RateLimit:         1000,
		CircuitBreakerMax: 100,
	}, logger)
	t.Cleanup(func() { httpClient.Close() })
	down := NewClient(httpClient, srv.URL, time.Minute, logger)
	assert.Error(t, down.Ping(context.Background()))
}

func TestRefreshDropsCache(t *testing.T) {
	calls := 0
	asOf := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprintf(w, `{"rank":5,"points":9000,"as_of":%q}`, asOf)
	})

	_, err := client.Snapshot(context.Background(), "coll")
	require.NoError(t, err)
	client.Refresh()
	_, err = client.Snapshot(context.Background(), "coll")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}
