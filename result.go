package recap

// ResultKind says how a schedule lookup ended.
type ResultKind int

const (
	// NotPlayed means the team has no final game on the date. This covers
	// off days, postponements and games that are not over yet.
	NotPlayed ResultKind = iota
	// Found means Game holds a final game involving the team.
	Found
	// UpstreamError means the Stats API could not be reached or answered
	// with something unusable.
	UpstreamError
)

func (k ResultKind) String() string {
	switch k {
	case Found:
		return "found"
	case UpstreamError:
		return "upstream_error"
	default:
		return "not_played"
	}
}

// ScheduleResult is what a schedule lookup hands to the next stage.
type ScheduleResult struct {
	Kind   ResultKind
	Game   *Game
	Detail string
	Err    error
}

func foundResult(g Game) ScheduleResult {
	return ScheduleResult{Kind: Found, Game: &g}
}

func notPlayedResult(detail string) ScheduleResult {
	return ScheduleResult{Kind: NotPlayed, Detail: detail}
}

func upstreamErrorResult(detail string, err error) ScheduleResult {
	return ScheduleResult{Kind: UpstreamError, Detail: detail, Err: err}
}
