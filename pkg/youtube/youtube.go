// Package youtube publishes assets to YouTube behind a one-shot OAuth
// handshake. Tokens are requested fresh for every upload and never persisted;
// this trades a browser round-trip per upload for zero credential storage.
package youtube

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"

	"autopost/service"
)

// uploadCategoryID is YouTube's "People & Blogs" category.
const uploadCategoryID = "22"

type Platform struct {
	clientSecretsPath string
	authTimeout       time.Duration
}

func New(clientSecretsPath string, authTimeout time.Duration) *Platform {
	return &Platform{
		clientSecretsPath: clientSecretsPath,
		authTimeout:       authTimeout,
	}
}

func (p *Platform) Name() string {
	return "youtube"
}

// Authorize runs the loopback OAuth flow: it opens a local listener, logs
// the consent URL for the user, and blocks until the grant arrives or the
// configured timeout elapses. The returned session holds the access token
// in memory only.
func (p *Platform) Authorize(ctx context.Context) (service.PublishSession, error) {
	secrets, err := os.ReadFile(p.clientSecretsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read client secrets: %w", err)
	}

	conf, err := google.ConfigFromJSON(secrets, ytapi.YoutubeUploadScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse client secrets: %w", err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to open loopback listener: %w", err)
	}
	conf.RedirectURL = fmt.Sprintf("http://%s/callback", ln.Addr().String())

	state, err := randomState()
	if err != nil {
		ln.Close()
		return nil, err
	}

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			errCh <- fmt.Errorf("authorization response state mismatch")
			http.Error(w, "state mismatch", http.StatusBadRequest)
			return
		}
		if errMsg := r.URL.Query().Get("error"); errMsg != "" {
			errCh <- fmt.Errorf("authorization denied: %s", errMsg)
			fmt.Fprintln(w, "Authorization denied. You can close this window.")
			return
		}
		codeCh <- r.URL.Query().Get("code")
		fmt.Fprintln(w, "Authorization complete. You can close this window.")
	})

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go srv.Serve(ln)
	defer srv.Close()

	authURL := conf.AuthCodeURL(state, oauth2.AccessTypeOnline)
	zerolog.Ctx(ctx).Info().Str("url", authURL).Msg("waiting for user to grant access")

	waitCtx, cancel := context.WithTimeout(ctx, p.authTimeout)
	defer cancel()

	select {
	case code := <-codeCh:
		token, err := conf.Exchange(waitCtx, code)
		if err != nil {
			return nil, fmt.Errorf("token exchange failed: %w", err)
		}
		return &session{conf: conf, token: token}, nil
	case err := <-errCh:
		return nil, err
	case <-waitCtx.Done():
		return nil, fmt.Errorf("authorization not completed in time: %w", waitCtx.Err())
	}
}

type session struct {
	conf  *oauth2.Config
	token *oauth2.Token
}

func (s *session) Upload(ctx context.Context, filePath string, meta service.VideoMetadata) (string, error) {
	if s.token == nil {
		return "", fmt.Errorf("publish session already closed")
	}

	svc, err := ytapi.NewService(ctx, option.WithTokenSource(s.conf.TokenSource(ctx, s.token)))
	if err != nil {
		return "", fmt.Errorf("failed to build youtube client: %w", err)
	}

	video := &ytapi.Video{
		Snippet: &ytapi.VideoSnippet{
			CategoryId:  uploadCategoryID,
			Title:       meta.Title,
			Description: meta.Description,
			Tags:        meta.Tags,
		},
		Status: &ytapi.VideoStatus{
			PrivacyStatus: string(meta.Privacy),
		},
	}

	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open asset: %w", err)
	}
	defer f.Close()

	resp, err := svc.Videos.Insert([]string{"snippet", "status"}, video).
		Media(f).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("youtube rejected the upload: %w", err)
	}

	return resp.Id, nil
}

// Close drops the token; nothing was ever written to disk.
func (s *session) Close() {
	s.token = nil
}

func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return hex.EncodeToString(b), nil
}
