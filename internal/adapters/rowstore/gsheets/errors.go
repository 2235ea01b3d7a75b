package gsheets

import (
	"factory/internal/pkg/errors"

	"google.golang.org/api/googleapi"
)

// classify maps Sheets API failures onto pipeline error codes so callers
// can tell an expired credential from a quota hit from an outage.
func classify(err error, op, message string) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return errors.Wrap(err, op, message)
	}

	code := errors.CodeInternal
	switch {
	case gerr.Code == 401 || gerr.Code == 403:
		code = errors.CodeUnauthorized
		if isRateLimited(gerr) {
			code = errors.CodeResourceExhaust
		}
	case gerr.Code == 404:
		code = errors.CodeNotFound
	case gerr.Code == 429:
		code = errors.CodeResourceExhaust
	case gerr.Code >= 500:
		code = errors.CodeUnavailable
	}

	return errors.WrapWithCode(err, code, op, message).
		WithField("google_status", gerr.Code)
}

// isRateLimited catches quota errors that the API reports as 403.
func isRateLimited(gerr *googleapi.Error) bool {
	for _, item := range gerr.Errors {
		switch item.Reason {
		case "rateLimitExceeded", "userRateLimitExceeded", "quotaExceeded":
			return true
		}
	}
	return false
}
