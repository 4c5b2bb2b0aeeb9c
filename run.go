package recap

import (
	"context"

	"github.com/itbasis/go-clock"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ScheduleSource finds the monitored team's final game on a date.
type ScheduleSource interface {
	Fetch(ctx context.Context, date string) ScheduleResult
}

// Notifier delivers a text message and reports whether it went out.
type Notifier interface {
	Notify(ctx context.Context, message string) bool
}

// RunOutcome is how a run ended. Every outcome exits the process cleanly.
type RunOutcome int

const (
	OutcomeSkipped RunOutcome = iota
	OutcomeSent
	OutcomeFailed
)

func (o RunOutcome) String() string {
	switch o {
	case OutcomeSent:
		return "sent"
	case OutcomeFailed:
		return "failed"
	default:
		return "skipped"
	}
}

// Runner strings the stages together for one invocation.
type Runner struct {
	TeamID    int
	RecapHost string

	clock    clock.Clock
	schedule ScheduleSource
	notifier Notifier
	log      *zap.SugaredLogger
}

// NewRunner returns a Runner for teamID. It uses the real clock and a no-op
// logger unless options replace them.
func NewRunner(
	teamID int,
	schedule ScheduleSource,
	notifier Notifier,
	options ...func(*Runner)) (*Runner, error) {

	if schedule == nil {
		return nil, errors.New("schedule source is required")
	}
	if notifier == nil {
		return nil, errors.New("notifier is required")
	}
	r := &Runner{
		TeamID:    teamID,
		RecapHost: DefaultRecapHost,
		clock:     clock.New(),
		schedule:  schedule,
		notifier:  notifier,
		log:       zap.NewNop().Sugar(),
	}
	for _, o := range options {
		o(r)
	}
	return r, nil
}

// WithRunnerLogger sets the logger the runner uses.
func WithRunnerLogger(logger *zap.SugaredLogger) func(*Runner) {
	return func(r *Runner) {
		r.log = logger
	}
}

// WithClock replaces the system clock, which decides what "yesterday" is.
func WithClock(c clock.Clock) func(*Runner) {
	return func(r *Runner) {
		r.clock = c
	}
}

// WithRecapHost changes the host recap links point at.
func WithRecapHost(host string) func(*Runner) {
	return func(r *Runner) {
		if host != "" {
			r.RecapHost = host
		}
	}
}

// Run checks yesterday's schedule and, if the team finished a game, texts
// the recap link. At most one message is sent.
func (r *Runner) Run(ctx context.Context) RunOutcome {
	yesterday := PreviousDay(r.clock)
	r.log.Infow("checking for game", "team_id", r.TeamID, "date", yesterday)

	res := r.schedule.Fetch(ctx, yesterday)
	switch res.Kind {
	case Found:
	case UpstreamError:
		r.log.Errorw("unable to check schedule",
			"date", yesterday,
			"detail", res.Detail,
			"err", res.Err)
		return OutcomeSkipped
	default:
		r.log.Infow("no game found for yesterday", "date", yesterday, "detail", res.Detail)
		return OutcomeSkipped
	}

	g := res.Game
	if g == nil {
		r.log.Warnw("schedule reported a game but returned none", "date", yesterday)
		return OutcomeSkipped
	}
	if result, ok := g.ResultFor(r.TeamID); ok {
		r.log.Infow("found final game",
			"game_pk", g.GamePK,
			"result", result.Verb(),
			"score", result.Team.Score,
			"opponent", result.Opponent.Name,
			"opponent_score", result.Opponent.Score,
			"home", result.Home)
	}

	url, err := BuildRecapURL(r.RecapHost, g)
	if err != nil {
		r.log.Warnw("couldn't generate recap URL", "game_pk", g.GamePK, "err", err)
		return OutcomeSkipped
	}
	r.log.Infow("built recap URL", "url", url)

	if !r.notifier.Notify(ctx, url) {
		return OutcomeFailed
	}
	return OutcomeSent
}
