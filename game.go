package recap

// Status is a coarse reading of the Stats API's single-letter status code.
type Status int

const (
	StatusOther Status = iota
	StatusScheduled
	StatusLive
	StatusFinal
)

// StatusCodeFinal is the only status code that marks a game as completed.
const StatusCodeFinal = "F"

func (s Status) String() string {
	switch s {
	case StatusScheduled:
		return "scheduled"
	case StatusLive:
		return "live"
	case StatusFinal:
		return "final"
	default:
		return "other"
	}
}

// ParseStatus maps a Stats API status code onto a Status. Postponed,
// suspended and the various "final but..." codes all land in StatusOther;
// only a plain "F" is final.
func ParseStatus(code string) Status {
	switch code {
	case StatusCodeFinal:
		return StatusFinal
	case "S", "PW":
		return StatusScheduled
	case "I", "PI", "PR", "PY", "MA", "MC", "MI":
		return StatusLive
	default:
		return StatusOther
	}
}

// TeamScore is one side of a game.
type TeamScore struct {
	ID    int
	Name  string
	Score int
}

// Game is a single game as reported by the schedule endpoint.
type Game struct {
	GamePK       int
	OfficialDate string
	StatusCode   string
	Status       Status
	Home         TeamScore
	Away         TeamScore
}

// Involves reports whether teamID played in the game, home or away.
func (g Game) Involves(teamID int) bool {
	return g.Home.ID == teamID || g.Away.ID == teamID
}

// IsFinal reports whether the game has concluded normally.
func (g Game) IsFinal() bool {
	return g.StatusCode == StatusCodeFinal
}

// GameResult is a game seen from one team's side.
type GameResult struct {
	Home     bool
	Team     TeamScore
	Opponent TeamScore
}

// Won reports whether the team outscored its opponent.
func (r GameResult) Won() bool {
	return r.Team.Score > r.Opponent.Score
}

// Verb is "won" or "lost". A tie reads as lost.
func (r GameResult) Verb() string {
	if r.Won() {
		return "won"
	}
	return "lost"
}

// ResultFor returns the game from teamID's side, or false if the team did not
// play in it.
func (g Game) ResultFor(teamID int) (GameResult, bool) {
	switch teamID {
	case g.Away.ID:
		return GameResult{Home: false, Team: g.Away, Opponent: g.Home}, true
	case g.Home.ID:
		return GameResult{Home: true, Team: g.Home, Opponent: g.Away}, true
	}
	return GameResult{}, false
}
