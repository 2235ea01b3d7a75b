// Package googleauth builds authenticated HTTP clients for the Google
// APIs. Both the sheet store and the drive uploader go through here so a
// single credential setup covers both services.
package googleauth

import (
	"context"
	"net/http"
	"os"

	"factory/internal/config"
	"factory/internal/pkg/errors"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// NewClient returns an HTTP client authorized for the given scopes, using
// the first credential source that is configured:
//
//  1. GOOGLE_CREDENTIALS: inline service-account JSON
//  2. GOOGLE_OAUTH_CLIENT_ID / _SECRET / _REFRESH_TOKEN: user-grant OAuth
//  3. GOOGLE_CREDENTIALS_FILE: service-account JSON on disk
func NewClient(ctx context.Context, cfg config.Config, scopes ...string) (*http.Client, error) {
	const op = "googleauth.NewClient"

	if cfg.CredentialsJSON != "" {
		return jwtClient(ctx, op, []byte(cfg.CredentialsJSON), scopes)
	}

	if cfg.OAuthClientID != "" && cfg.OAuthClientSecret != "" && cfg.OAuthRefreshToken != "" {
		conf := &oauth2.Config{
			ClientID:     cfg.OAuthClientID,
			ClientSecret: cfg.OAuthClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       scopes,
		}
		tok := &oauth2.Token{RefreshToken: cfg.OAuthRefreshToken}
		return conf.Client(ctx, tok), nil
	}

	if cfg.CredentialsFile != "" {
		blob, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeFailedPrecond, op,
				"no google credentials configured: set GOOGLE_CREDENTIALS, GOOGLE_CREDENTIALS_FILE, or the GOOGLE_OAUTH_* trio")
		}
		return jwtClient(ctx, op, blob, scopes)
	}

	return nil, errors.New(errors.CodeFailedPrecond,
		"no google credentials configured: set GOOGLE_CREDENTIALS, GOOGLE_CREDENTIALS_FILE, or the GOOGLE_OAUTH_* trio")
}

func jwtClient(ctx context.Context, op string, blob []byte, scopes []string) (*http.Client, error) {
	conf, err := google.JWTConfigFromJSON(blob, scopes...)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeFailedPrecond, op, "parse service account credentials")
	}
	return conf.Client(ctx), nil
}
