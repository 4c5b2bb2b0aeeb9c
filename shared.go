package recap

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

const defaultHTTPTimeout = 20 * time.Second

func newStatsAPIClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &http.Client{
		Timeout: timeout,
	}
}

// decodeStatsAPI unmarshals a Stats API body into dest, which must be a
// pointer.
func decodeStatsAPI(body io.Reader, dest interface{}) error {
	if err := json.NewDecoder(body).Decode(dest); err != nil {
		return errors.Wrap(err, "malformed Stats API JSON")
	}
	return nil
}
