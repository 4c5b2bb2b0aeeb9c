package recap

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	// DefaultScheduleURL is the MLB Stats API schedule endpoint.
	DefaultScheduleURL = "https://statsapi.mlb.com/api/v1/schedule"
	// DefaultSportID is MLB in the Stats API's sport taxonomy.
	DefaultSportID = 1
	// DefaultTeamID is the Chicago Cubs.
	DefaultTeamID = 112

	scheduleHydration = "game,team"
)

// ScheduleFetcher looks up a single team's games on a given date.
type ScheduleFetcher struct {
	// TeamID is the monitored team.
	TeamID int

	// SportID is the league the team plays in.
	SportID int

	endpoint string
	client   *http.Client
	log      *zap.SugaredLogger
}

// NewScheduleFetcher returns a fetcher for the team's games in the given
// sport. The options can override the endpoint, HTTP client and logger.
func NewScheduleFetcher(
	teamID int,
	sportID int,
	options ...func(*ScheduleFetcher)) (*ScheduleFetcher, error) {

	if teamID < 1 {
		return nil, errors.New("team ID must be positive")
	}
	if sportID < 1 {
		return nil, errors.New("sport ID must be positive")
	}
	sf := &ScheduleFetcher{
		TeamID:   teamID,
		SportID:  sportID,
		endpoint: DefaultScheduleURL,
		client:   newStatsAPIClient(defaultHTTPTimeout),
		log:      zap.NewNop().Sugar(),
	}
	for _, o := range options {
		o(sf)
	}
	return sf, nil
}

// WithScheduleLogger sets the logger the fetcher uses. Without it, a no-op
// logger is used.
func WithScheduleLogger(logger *zap.SugaredLogger) func(*ScheduleFetcher) {
	return func(sf *ScheduleFetcher) {
		sf.log = logger
	}
}

// WithScheduleURL points the fetcher at a different schedule endpoint.
func WithScheduleURL(endpoint string) func(*ScheduleFetcher) {
	return func(sf *ScheduleFetcher) {
		if endpoint != "" {
			sf.endpoint = strings.TrimSuffix(endpoint, "/")
		}
	}
}

// WithScheduleHTTPClient replaces the default 20s-timeout client.
func WithScheduleHTTPClient(client *http.Client) func(*ScheduleFetcher) {
	return func(sf *ScheduleFetcher) {
		if client != nil {
			sf.client = client
		}
	}
}

// WithScheduleTimeout gives the default client a different timeout.
func WithScheduleTimeout(timeout time.Duration) func(*ScheduleFetcher) {
	return func(sf *ScheduleFetcher) {
		sf.client = newStatsAPIClient(timeout)
	}
}

// Fetch asks the schedule endpoint for the team's games on date (YYYY-MM-DD)
// and returns the first one that is final. It never returns an error directly.
// Transport failures, non-2xx answers and garbled bodies come back as
// UpstreamError results.
func (sf *ScheduleFetcher) Fetch(ctx context.Context, date string) ScheduleResult {
	req, err := sf.buildRequest(ctx, date)
	if err != nil {
		return upstreamErrorResult("unable to build schedule request", err)
	}
	sf.log.Debugw("requesting schedule", "url", req.URL.String())

	resp, err := sf.client.Do(req)
	if err != nil {
		return upstreamErrorResult("error reaching schedule endpoint",
			errors.Wrapf(err, "error reaching Stats API: %s", sf.endpoint))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return upstreamErrorResult(
			fmt.Sprintf("error fetching game data: %d", resp.StatusCode),
			fmt.Errorf("Stats API error: %v: %s (url: %s)",
				resp.Status, strings.TrimSpace(string(body)), sf.endpoint))
	}

	var payload scheduleResponse
	if err := decodeStatsAPI(resp.Body, &payload); err != nil {
		return upstreamErrorResult("unable to parse schedule", err)
	}
	return sf.pickFinalGame(date, payload)
}

func (sf *ScheduleFetcher) buildRequest(ctx context.Context, date string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sf.endpoint, nil)
	if err != nil {
		return nil, err
	}
	q := req.URL.Query()
	q.Set("sportId", strconv.Itoa(sf.SportID))
	q.Set("date", date)
	q.Set("teamId", strconv.Itoa(sf.TeamID))
	q.Set("hydrate", scheduleHydration)
	req.URL.RawQuery = q.Encode()
	req.Header.Add("Accept", "application/json")
	return req, nil
}

// pickFinalGame scans every game under every date. Doubleheaders and makeup
// games can put several entries under one date, in any mix of statuses.
func (sf *ScheduleFetcher) pickFinalGame(date string, payload scheduleResponse) ScheduleResult {
	if len(payload.Dates) == 0 {
		return notPlayedResult(fmt.Sprintf("no games found for date: %s", date))
	}
	for _, d := range payload.Dates {
		for _, sg := range d.Games {
			g := sg.toGame()
			if !g.Involves(sf.TeamID) {
				continue
			}
			if !g.IsFinal() {
				sf.log.Debugw("skipping game that is not final",
					"game_pk", g.GamePK,
					"status", g.Status.String(),
					"status_code", g.StatusCode,
					"detailed_state", sg.Status.DetailedState)
				continue
			}
			return foundResult(g)
		}
	}
	return notPlayedResult(fmt.Sprintf("no final game found for date: %s", date))
}

type scheduleResponse struct {
	Dates []scheduleDate `json:"dates"`
}

type scheduleDate struct {
	Date  string         `json:"date"`
	Games []scheduleGame `json:"games"`
}

type scheduleGame struct {
	GamePK       int    `json:"gamePk"`
	OfficialDate string `json:"officialDate"`
	Status       struct {
		StatusCode    string `json:"statusCode"`
		DetailedState string `json:"detailedState"`
	} `json:"status"`
	Teams struct {
		Home scheduleSide `json:"home"`
		Away scheduleSide `json:"away"`
	} `json:"teams"`
}

type scheduleSide struct {
	Team struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"team"`
	Score int `json:"score"`
}

func (s scheduleSide) toTeamScore() TeamScore {
	return TeamScore{ID: s.Team.ID, Name: s.Team.Name, Score: s.Score}
}

func (sg scheduleGame) toGame() Game {
	return Game{
		GamePK:       sg.GamePK,
		OfficialDate: sg.OfficialDate,
		StatusCode:   sg.Status.StatusCode,
		Status:       ParseStatus(sg.Status.StatusCode),
		Home:         sg.Teams.Home.toTeamScore(),
		Away:         sg.Teams.Away.toTeamScore(),
	}
}
