// Command authgen runs the one-time Google OAuth consent flow and
// persists the granted token for the other jobs to use.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	configloader "github.com/campuskit/recarchive/external/config"
	storageimpl "github.com/campuskit/recarchive/external/storage"
	"golang.org/x/oauth2"
)

const (
	driveFileScope  = "https://www.googleapis.com/auth/drive.file"
	consentTimeout  = 5 * time.Minute
	exchangeTimeout = 30 * time.Second
)

type installedCredentials struct {
	Installed struct {
		ClientID     string `json:"client_id"`
		ClientSecret string `json:"client_secret"`
		AuthURI      string `json:"auth_uri"`
		TokenURI     string `json:"token_uri"`
	} `json:"installed"`
}

func main() {
	cfg, err := configloader.Load()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}

	conf, err := loadOAuthConfig(cfg.GoogleCredentialsFile)
	if err != nil {
		slog.Error("failed to load credentials file", "error", err)
		os.Exit(1)
	}

	token, err := runConsentFlow(conf)
	if err != nil {
		slog.Error("consent flow failed", "error", err)
		os.Exit(1)
	}

	if err := storageimpl.WriteTokenFile(cfg.GoogleTokenFile, conf, token); err != nil {
		slog.Error("failed to write token file", "error", err)
		os.Exit(1)
	}
	slog.Info("authentication successful", "token_file", cfg.GoogleTokenFile)
}

func loadOAuthConfig(path string) (*oauth2.Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var creds installedCredentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		return nil, fmt.Errorf("parse credentials file: %w", err)
	}
	return &oauth2.Config{
		ClientID:     creds.Installed.ClientID,
		ClientSecret: creds.Installed.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  creds.Installed.AuthURI,
			TokenURL: creds.Installed.TokenURI,
		},
		Scopes: []string{driveFileScope},
	}, nil
}

// runConsentFlow serves a loopback redirect endpoint on a random port,
// points the user at the consent URL, and exchanges the returned code.
func runConsentFlow(conf *oauth2.Config) (*oauth2.Token, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("open loopback listener: %w", err)
	}
	defer func() {
		_ = listener.Close()
	}()
	conf.RedirectURL = fmt.Sprintf("http://%s/", listener.Addr().String())

	state, err := randomState()
	if err != nil {
		return nil, err
	}

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)
	server := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			errCh <- fmt.Errorf("state mismatch in redirect")
			http.Error(w, "state mismatch", http.StatusBadRequest)
			return
		}
		code := r.URL.Query().Get("code")
		if code == "" {
			errCh <- fmt.Errorf("redirect carried no code: %s", r.URL.Query().Get("error"))
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}
		fmt.Fprintln(w, "Authentication complete. You can close this tab.")
		codeCh <- code
	})}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	defer func() {
		_ = server.Close()
	}()

	authURL := conf.AuthCodeURL(state, oauth2.AccessTypeOffline)
	fmt.Printf("Open this URL in your browser to authorize access:\n\n%s\n\n", authURL)

	var code string
	select {
	case code = <-codeCh:
	case err := <-errCh:
		return nil, err
	case <-time.After(consentTimeout):
		return nil, fmt.Errorf("timed out waiting for consent")
	}

	ctx, cancel := context.WithTimeout(context.Background(), exchangeTimeout)
	defer cancel()
	return conf.Exchange(ctx, code)
}

func randomState() (string, error) {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf[:]), nil
}
