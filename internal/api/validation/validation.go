// Package validation holds the record-level validators that cannot be
// expressed as gin binding tags.
package validation

import (
	"fmt"
	"time"

	"critichub/internal/api/apperr"
)

const (
	ScoreMin = 1
	ScoreMax = 10
)

// ReservedUsernames cannot be registered; "me" aliases the profile route.
var ReservedUsernames = map[string]bool{"me": true}

// Year rejects a title year strictly greater than the current calendar year.
func Year(year int) *apperr.ValidationError {
	if current := time.Now().Year(); year > current {
		return apperr.Validation("year", fmt.Sprintf("year %d is greater than the current year %d", year, current))
	}
	return nil
}

// Score rejects a review score outside [1,10].
func Score(score int) *apperr.ValidationError {
	if score < ScoreMin || score > ScoreMax {
		return apperr.Validation("score", fmt.Sprintf("score must be between %d and %d", ScoreMin, ScoreMax))
	}
	return nil
}

// Username rejects reserved usernames.
func Username(username string) *apperr.ValidationError {
	if ReservedUsernames[username] {
		return apperr.Validation("username", fmt.Sprintf("username %q is reserved", username))
	}
	return nil
}
