package datasource

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

	"github.com/hmp229/psa-predict/internal/models"
)

func TestSquashLevelsFetchMatchHistory(t *testing.T) {
	var gotPlayer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPlayer = r.URL.Query().Get("player")
		assert.NotEmpty(t, r.URL.Query().Get("since"))
		fmt.Fprint(w, `{"matches":[
			{"played_on":"2025-05-18","opponent_name":"Mostafa Asal","opponent_ref":"asal","won":false,"games_for":2,"games_against":3,"score_line":"11-9, 8-11, 11-7, 9-11, 8-11","tournament":"British Open"},
			{"played_on":"2025-05-02","opponent_name":"Diego Elias","opponent_ref":"elias","won":true,"games_for":3,"games_against":0}
		]}`)
	}))
	defer srv.Close()

	client := NewSquashLevelsClient(testHTTPClient(t), srv.URL, true, logrus.New())
	records, err := client.FetchMatchHistory(context.Background(), "farag", 12)
	require.NoError(t, err)

	assert.Equal(t, "farag", gotPlayer)
	require.Len(t, records, 2)
	assert.Equal(t, models.ResultLoss, records[0].Result)
	assert.Equal(t, "Mostafa Asal", records[0].Opponent)
	assert.Equal(t, SquashLevelsSourceName, records[0].Source)
	assert.Equal(t, time.Date(2025, time.May, 18, 0, 0, 0, 0, time.UTC), records[0].Date)
	assert.Equal(t, models.ResultWin, records[1].Result)
	assert.Equal(t, 3, records[1].GamesWon)
}

func TestSquashLevelsSkipsBadDates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"matches":[
			{"played_on":"last tuesday","opponent_name":"Mystery","won":true},
			{"played_on":"2025-05-02","opponent_name":"Diego Elias","won":true,"games_for":3}
		]}`)
	}))
	defer srv.Close()

	client := NewSquashLevelsClient(testHTTPClient(t), srv.URL, true, logrus.New())
	records, err := client.FetchMatchHistory(context.Background(), "farag", 12)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Diego Elias", records[0].Opponent)
}

func TestSquashLevelsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewSquashLevelsClient(testHTTPClient(t), srv.URL, true, logrus.New())
	_, err := client.FetchMatchHistory(context.Background(), "farag", 12)

	var srcErr SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, ErrCodeServerError, srcErr.Code)
}
