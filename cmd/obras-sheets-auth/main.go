// Command obras-sheets-auth authorizes the report worker to write to Google
// Sheets as a user and saves the resulting token to GOOGLE_OAUTH_TOKEN_FILE.
// The OAuth client must list http://localhost:<OAUTH_REDIRECT_PORT>/callback
// as an authorized redirect URI.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"

	"obras/internal/cli"
	"obras/internal/config"
	applog "obras/internal/log"
	gsheet "obras/internal/sheets/google"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentSheets)

	cfg, err := cli.LoadAndValidateConfig(logger, (*config.Config).ValidateOAuthInit)
	if err != nil {
		os.Exit(1)
	}

	clientJSON := []byte(cfg.GoogleOAuthClientJSON)
	if len(clientJSON) == 0 {
		clientJSON, err = os.ReadFile(cfg.GoogleOAuthClientFile)
		if err != nil {
			logger.Error("Failed to read OAuth client file", applog.FieldError, err)
			os.Exit(1)
		}
	}
	oc, err := gsheet.OAuthConfig(clientJSON)
	if err != nil {
		logger.Error("Invalid OAuth client", applog.FieldError, err)
		os.Exit(1)
	}
	oc.RedirectURL = "http://localhost:" + cfg.OAuthRedirectPort + "/callback"

	ctx, cancel := cli.SignalContext(context.Background(), logger)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, 5*time.Minute)
	defer cancelTimeout()

	state, err := newState()
	if err != nil {
		logger.Error("Failed to create state", applog.FieldError, err)
		os.Exit(1)
	}

	codeCh := make(chan string, 1)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /callback", func(w http.ResponseWriter, r *http.Request) {
		if errStr := r.URL.Query().Get("error"); errStr != "" {
			http.Error(w, "OAuth error: "+errStr, http.StatusBadRequest)
			return
		}
		if r.URL.Query().Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			return
		}
		fmt.Fprintln(w, "You may close this window and return to the terminal.")
		select {
		case codeCh <- r.URL.Query().Get("code"):
		default:
		}
	})
	srv := &http.Server{Addr: ":" + cfg.OAuthRedirectPort, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Callback server failed", applog.FieldError, err)
			cancel()
		}
	}()
	defer srv.Close()

	fmt.Printf("Open this URL to authorize:\n%s\n", oc.AuthCodeURL(state, oauth2.AccessTypeOffline))

	select {
	case code := <-codeCh:
		tok, err := oc.Exchange(ctx, code)
		if err != nil {
			logger.Error("Token exchange failed", applog.FieldError, err)
			os.Exit(1)
		}
		out := cfg.GoogleOAuthTokenFile
		if out == "" {
			out = "token.json"
		}
		if err := gsheet.SaveToken(out, tok); err != nil {
			logger.Error("Failed to save token", applog.FieldError, err)
			os.Exit(1)
		}
		logger.Info("Saved OAuth token", "path", out)
	case <-ctx.Done():
		logger.Error("Authorization did not complete", applog.FieldError, ctx.Err())
		os.Exit(1)
	}
}

func newState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
