package google

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	oauth2google "golang.org/x/oauth2/google"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// TokenSource builds an OAuth2 token source from a client credentials
// file and a previously stored token file. Refreshing happens
// transparently; the interactive authorisation flow that produces the
// token file in the first place is not the CLI's job.
func TokenSource(ctx context.Context, credentialsFile, tokenFile string, scopes ...string) (oauth2.TokenSource, error) {
	if credentialsFile == "" || tokenFile == "" {
		return nil, fmt.Errorf("%w: credentials_file and token_file must be configured", domain.ErrAuthRequired)
	}

	credentials, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("%w: reading credentials: %v", domain.ErrAuthRequired, err)
	}
	cfg, err := oauth2google.ConfigFromJSON(credentials, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}

	token, err := loadToken(tokenFile)
	if err != nil {
		return nil, err
	}
	return cfg.TokenSource(ctx, token), nil
}

// loadToken reads a stored oauth2.Token from its JSON file.
func loadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading token file: %v", domain.ErrAuthRequired, err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("parsing token file %s: %w", path, err)
	}
	return &token, nil
}
