package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"marquee/internal/textutil"
)

// ErrInvalidInput indicates a candidate is missing the identity fields a
// fingerprint requires. Callers should skip the candidate rather than
// persist a record with a null identity.
var ErrInvalidInput = errors.New("invalid fingerprint input")

// Key derives the deduplication key for an event candidate from its title,
// venue name, and start date. Inputs are normalized before hashing so source
// formatting differences collapse to the same key. The result is stable
// across process restarts.
func Key(title, venueName string, date time.Time) (string, error) {
	normalizedTitle := textutil.Normalize(title)
	if normalizedTitle == "" {
		return "", fmt.Errorf("%w: empty title", ErrInvalidInput)
	}
	if date.IsZero() {
		return "", fmt.Errorf("%w: missing start date", ErrInvalidInput)
	}
	normalizedVenue := textutil.Normalize(venueName)

	payload := normalizedTitle + "|" + normalizedVenue + "|" + date.Format("2006-01-02")
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:]), nil
}
