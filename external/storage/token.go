package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// tokenFile mirrors the persisted token layout: the access/refresh
// token pair bundled with the client registration that issued it.
type tokenFile struct {
	Token        string   `json:"token"`
	RefreshToken string   `json:"refresh_token"`
	TokenURI     string   `json:"token_uri"`
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	Scopes       []string `json:"scopes"`
	Expiry       string   `json:"expiry,omitempty"`
}

// NewDriveService builds a Drive client from the token file. The
// oauth2 client refreshes the access token transparently when expired.
func NewDriveService(ctx context.Context, tokenPath string) (*drive.Service, error) {
	raw, err := os.ReadFile(tokenPath)
	if err != nil {
		return nil, fmt.Errorf("read token file: %w", err)
	}
	var tf tokenFile
	if err := json.Unmarshal(raw, &tf); err != nil {
		return nil, fmt.Errorf("parse token file: %w", err)
	}

	conf := &oauth2.Config{
		ClientID:     tf.ClientID,
		ClientSecret: tf.ClientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: tf.TokenURI},
		Scopes:       tf.Scopes,
	}
	token := &oauth2.Token{
		AccessToken:  tf.Token,
		RefreshToken: tf.RefreshToken,
	}
	if tf.Expiry != "" {
		if expiry, err := time.Parse(time.RFC3339, tf.Expiry); err == nil {
			token.Expiry = expiry
		}
	}

	svc, err := drive.NewService(ctx, option.WithHTTPClient(conf.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("build drive service: %w", err)
	}
	return svc, nil
}

// WriteTokenFile persists a freshly granted token next to the client
// registration that it belongs to, for later runs.
func WriteTokenFile(path string, conf *oauth2.Config, token *oauth2.Token) error {
	tf := tokenFile{
		Token:        token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenURI:     conf.Endpoint.TokenURL,
		ClientID:     conf.ClientID,
		ClientSecret: conf.ClientSecret,
		Scopes:       conf.Scopes,
	}
	if !token.Expiry.IsZero() {
		tf.Expiry = token.Expiry.Format(time.RFC3339)
	}
	raw, err := json.Marshal(tf)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}
