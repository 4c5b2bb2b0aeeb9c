package recap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ianfoo/gameday-recap/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestFetcher(t *testing.T, endpoint string) *ScheduleFetcher {
	t.Helper()
	sf, err := NewScheduleFetcher(DefaultTeamID, DefaultSportID, WithScheduleURL(endpoint))
	require.NoError(t, err)
	return sf
}

func TestNewScheduleFetcher_validation(t *testing.T) {
	_, err := NewScheduleFetcher(0, DefaultSportID)
	assert.Error(t, err)

	_, err = NewScheduleFetcher(DefaultTeamID, -1)
	assert.Error(t, err)

	sf, err := NewScheduleFetcher(DefaultTeamID, DefaultSportID)
	require.NoError(t, err)
	assert.Equal(t, DefaultScheduleURL, sf.endpoint)
	assert.Equal(t, defaultHTTPTimeout, sf.client.Timeout)

	custom := &http.Client{Timeout: 3 * time.Second}
	sf, err = NewScheduleFetcher(DefaultTeamID, DefaultSportID,
		WithScheduleHTTPClient(custom),
		WithScheduleURL("http://localhost:9000/api/v1/schedule/"))
	require.NoError(t, err)
	assert.Same(t, custom, sf.client)
	assert.Equal(t, "http://localhost:9000/api/v1/schedule", sf.endpoint)
}

func TestFetch_queryParameters(t *testing.T) {
	fake := testutils.NewFakeStatsAPIServer()
	defer fake.Close()

	sf := newTestFetcher(t, fake.ScheduleURL())
	sf.Fetch(context.Background(), "2024-05-10")

	reqs := fake.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "1", reqs[0].Get("sportId"))
	assert.Equal(t, "2024-05-10", reqs[0].Get("date"))
	assert.Equal(t, "112", reqs[0].Get("teamId"))
	assert.Equal(t, "game,team", reqs[0].Get("hydrate"))
}

func TestFetch_finalAwayGame(t *testing.T) {
	fake := testutils.NewFakeStatsAPIServer()
	defer fake.Close()

	res := newTestFetcher(t, fake.ScheduleURL()).Fetch(context.Background(), "2024-05-10")

	require.Equal(t, Found, res.Kind)
	require.NotNil(t, res.Game)
	assert.Equal(t, Game{
		GamePK:       745100,
		OfficialDate: "2024-05-10",
		StatusCode:   "F",
		Status:       StatusFinal,
		Away:         TeamScore{ID: 112, Name: "Chicago Cubs", Score: 4},
		Home:         TeamScore{ID: 138, Name: "St. Louis Cardinals", Score: 3},
	}, *res.Game)
}

func TestFetch_notPlayed(t *testing.T) {
	fake := testutils.NewFakeStatsAPIServer()
	defer fake.Close()
	sf := newTestFetcher(t, fake.ScheduleURL())

	tests := []struct {
		name string
		date string
	}{
		{"empty schedule", "2024-06-03"},
		{"postponed", "2024-06-01"},
		{"in progress", "2024-06-06"},
		{"no fixture", "2024-01-15"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := sf.Fetch(context.Background(), tt.date)
			assert.Equal(t, NotPlayed, res.Kind)
			assert.Nil(t, res.Game)
			assert.Contains(t, res.Detail, tt.date)
		})
	}
}

func TestFetch_skipsSuspendedGameOfDoubleheader(t *testing.T) {
	fake := testutils.NewFakeStatsAPIServer()
	defer fake.Close()

	res := newTestFetcher(t, fake.ScheduleURL()).Fetch(context.Background(), "2024-06-05")

	require.Equal(t, Found, res.Kind)
	assert.Equal(t, 745311, res.Game.GamePK)
	assert.Equal(t, 6, res.Game.Away.Score)
}

func TestFetch_upstreamErrors(t *testing.T) {
	fake := testutils.NewFakeStatsAPIServer()
	defer fake.Close()
	sf := newTestFetcher(t, fake.ScheduleURL())

	res := sf.Fetch(context.Background(), testutils.ServerErrorDate)
	assert.Equal(t, UpstreamError, res.Kind)
	assert.Contains(t, res.Detail, "500")
	assert.Error(t, res.Err)
	assert.Nil(t, res.Game)

	res = sf.Fetch(context.Background(), testutils.GarbageDate)
	assert.Equal(t, UpstreamError, res.Kind)
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "malformed Stats API JSON")
}

func TestFetch_logsStatusOfSkippedGames(t *testing.T) {
	fake := testutils.NewFakeStatsAPIServer()
	defer fake.Close()

	core, logs := observer.New(zap.DebugLevel)
	sf, err := NewScheduleFetcher(DefaultTeamID, DefaultSportID,
		WithScheduleURL(fake.ScheduleURL()),
		WithScheduleLogger(zap.New(core).Sugar()))
	require.NoError(t, err)

	tests := []struct {
		date   string
		status string
		code   string
	}{
		{"2024-06-01", "other", "P"},
		{"2024-06-06", "live", "I"},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			res := sf.Fetch(context.Background(), tt.date)
			require.Equal(t, NotPlayed, res.Kind)

			skipped := logs.TakeAll()
			var found bool
			for _, entry := range skipped {
				if entry.Message != "skipping game that is not final" {
					continue
				}
				found = true
				assert.Equal(t, tt.status, entry.ContextMap()["status"])
				assert.Equal(t, tt.code, entry.ContextMap()["status_code"])
			}
			assert.True(t, found)
		})
	}
}

func TestFetch_unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	sf, err := NewScheduleFetcher(DefaultTeamID, DefaultSportID,
		WithScheduleURL(endpoint),
		WithScheduleTimeout(time.Second))
	require.NoError(t, err)

	res := sf.Fetch(context.Background(), "2024-05-10")
	assert.Equal(t, UpstreamError, res.Kind)
	assert.Error(t, res.Err)
}

func TestFetch_otherTeamsIgnored(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"dates":[{"games":[
			{"gamePk":1,"officialDate":"2024-05-10","status":{"statusCode":"F"},
			 "teams":{"home":{"team":{"id":138,"name":"St. Louis Cardinals"},"score":1},
			          "away":{"team":{"id":158,"name":"Milwaukee Brewers"},"score":2}}}]}]}`))
	}))
	defer srv.Close()

	res := newTestFetcher(t, srv.URL).Fetch(context.Background(), "2024-05-10")
	assert.Equal(t, NotPlayed, res.Kind)
}

func TestParseStatus(t *testing.T) {
	assert.Equal(t, StatusFinal, ParseStatus("F"))
	assert.Equal(t, StatusScheduled, ParseStatus("S"))
	assert.Equal(t, StatusLive, ParseStatus("I"))
	assert.Equal(t, StatusOther, ParseStatus("P"))
	assert.Equal(t, StatusOther, ParseStatus("FR"))
	assert.Equal(t, StatusOther, ParseStatus(""))
	assert.Equal(t, "final", StatusFinal.String())
}
