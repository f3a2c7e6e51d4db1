package signing

import (
	"fmt"
	"strconv"
	"time"
)

// NonceAt renders t as milliseconds since the Unix epoch in decimal form, the
// nonce format private endpoints expect. Callers must take a fresh clock
// reading per request: the server tracks the highest nonce seen for each key
// and rejects anything at or below it.
//
// A clock reading before the epoch is reported as ErrClockBeforeEpoch rather
// than clamped. Clamping would emit a non-increasing nonce, which the server
// treats as a replay.
func NonceAt(t time.Time) (string, error) {
	ms := t.UnixMilli()
	if ms < 0 {
		return "", fmt.Errorf("%w: clock reads %s", ErrClockBeforeEpoch, t.UTC().Format(time.RFC3339))
	}
	return strconv.FormatInt(ms, 10), nil
}
