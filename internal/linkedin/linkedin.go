// Package linkedin implements the OAuth2 / OpenID Connect exchange with
// LinkedIn for social sign-on.
package linkedin

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	oauthlinkedin "golang.org/x/oauth2/linkedin"
)

const defaultUserinfoURL = "https://api.linkedin.com/v2/userinfo"

// ErrNotConfigured is returned when the provider credentials are absent.
var ErrNotConfigured = errors.New("linkedin: oauth credentials not configured")

// Profile is the OpenID Connect userinfo document LinkedIn returns after a
// successful exchange.
type Profile struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
	Locale        string `json:"locale"`
}

// FullName assembles a display name, preferring the composed name claim.
func (p *Profile) FullName() string {
	if name := strings.TrimSpace(p.Name); name != "" {
		return name
	}
	return strings.TrimSpace(strings.TrimSpace(p.GivenName) + " " + strings.TrimSpace(p.FamilyName))
}

// Provider performs the authorization-code flow against LinkedIn.
type Provider struct {
	conf        *oauth2.Config
	userinfoURL string
	httpClient  *http.Client
}

// Option configures Provider behavior.
type Option func(*Provider)

// WithEndpoint overrides the authorize/token endpoint (useful for tests).
func WithEndpoint(ep oauth2.Endpoint) Option {
	return func(p *Provider) { p.conf.Endpoint = ep }
}

// WithUserinfoURL overrides the userinfo endpoint (useful for tests).
func WithUserinfoURL(url string) Option {
	return func(p *Provider) {
		if url != "" {
			p.userinfoURL = url
		}
	}
}

// WithHTTPClient overrides the HTTP client used for the token exchange and
// the userinfo fetch.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) {
		if c != nil {
			p.httpClient = c
		}
	}
}

// New constructs a Provider. ErrNotConfigured when any credential is empty.
func New(clientID, clientSecret, redirectURL string, opts ...Option) (*Provider, error) {
	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, ErrNotConfigured
	}
	p := &Provider{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     oauthlinkedin.Endpoint,
			Scopes:       []string{"openid", "profile", "email"},
		},
		userinfoURL: defaultUserinfoURL,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// StateToken generates an unguessable state parameter for CSRF protection of
// the redirect round-trip.
func StateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate state token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// AuthURL returns the authorization page URL carrying the given state.
func (p *Provider) AuthURL(state string) string {
	return p.conf.AuthCodeURL(state)
}

// Exchange trades the authorization code for an access token and fetches the
// userinfo document.
func (p *Provider) Exchange(ctx context.Context, code string) (*Profile, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	return p.fetchProfile(ctx, token)
}

func (p *Provider) fetchProfile(ctx context.Context, token *oauth2.Token) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userinfoURL, nil)
	if err != nil {
		return nil, err
	}
	token.SetAuthHeader(req)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("userinfo returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	if profile.Sub == "" {
		return nil, errors.New("linkedin: userinfo missing subject")
	}
	return &profile, nil
}
