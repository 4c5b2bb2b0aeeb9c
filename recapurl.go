package recap

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// DefaultRecapHost serves the gameday video pages.
const DefaultRecapHost = "www.mlb.com"

// ErrNoGame is returned when there is no game to build a recap URL for.
var ErrNoGame = errors.New("no game to build recap URL for")

// BuildRecapURL returns the link to g's final video recap on host. The
// result is purely syntactic; nobody checks that the page exists.
func BuildRecapURL(host string, g *Game) (string, error) {
	if g == nil {
		return "", ErrNoGame
	}
	if host == "" {
		host = DefaultRecapHost
	}
	day, err := time.Parse(DateLayout, g.OfficialDate)
	if err != nil {
		return "", errors.Wrapf(err, "bad official date for game %d", g.GamePK)
	}
	away, err := nickname(g.Away.Name)
	if err != nil {
		return "", errors.Wrap(err, "away team")
	}
	home, err := nickname(g.Home.Name)
	if err != nil {
		return "", errors.Wrap(err, "home team")
	}
	return fmt.Sprintf("https://%s/gameday/%s-vs-%s/%s/%d/final/video",
		host, away, home, day.Format("2006/01/02"), g.GamePK), nil
}

// nickname drops the city: "St. Louis Cardinals" becomes "cardinals".
func nickname(fullName string) (string, error) {
	words := strings.Fields(strings.ToLower(fullName))
	if len(words) == 0 {
		return "", errors.New("team name is empty")
	}
	return words[len(words)-1], nil
}
