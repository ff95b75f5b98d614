package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	httpclient "github.com/appleboy/go-httpclient"
	"github.com/rs/zerolog/log"

	"github.com/Nate0911/FancyKarma-Backend/internal/config"
)

// Credentials identifies the OAuth client used for the token exchange.
// Secret may be empty: installed apps authenticate with a blank secret
// and rely on redirect URI matching.
type Credentials struct {
	ID     string
	Secret string
}

// Profile holds the subset of the identity endpoint response the
// eligibility rule needs.
type Profile struct {
	Name         string    `json:"name"`
	LinkKarma    int64     `json:"link_karma"`
	CommentKarma int64     `json:"comment_karma"`
	TotalKarma   *int64    `json:"total_karma,omitempty"`
	CreatedUTC   float64   `json:"created_utc"`
	IsSuspended  bool      `json:"is_suspended"`
	Subreddit    Subreddit `json:"subreddit"`
}

// Subreddit carries the profile-subreddit flags; only the ban marker matters here.
type Subreddit struct {
	Banned bool `json:"banned"`
}

// Karma returns the aggregate karma, falling back to link+comment when
// the API omits total_karma.
func (p *Profile) Karma() int64 {
	if p.TotalKarma != nil {
		return *p.TotalKarma
	}
	return p.LinkKarma + p.CommentKarma
}

// Banned reports whether the account is suspended or shadow-banned.
func (p *Profile) Banned() bool {
	return p.IsSuspended || p.Subreddit.Banned
}

// AgeMonths computes the account age in fixed 30-day months at the given instant.
func (p *Profile) AgeMonths(now time.Time) int {
	seconds := now.Unix() - int64(p.CreatedUTC)
	if seconds < 0 {
		return 0
	}
	return int(seconds / (30 * 24 * 60 * 60))
}

// Client talks to the Reddit OAuth and identity endpoints
type Client struct {
	httpClient *http.Client
	tokenURL   string
	profileURL string
	userAgent  string
}

// NewClient creates a Reddit API client with a bounded request timeout
func NewClient(cfg *config.Config) (*Client, error) {
	client, err := httpclient.NewClient(
		httpclient.WithTimeout(cfg.RedditTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create reddit http client: %w", err)
	}

	return &Client{
		httpClient: client,
		tokenURL:   cfg.RedditTokenURL,
		profileURL: cfg.RedditProfileURL,
		userAgent:  cfg.RedditUserAgent,
	}, nil
}

// tokenResponse is the token endpoint payload. Reddit signals a bad
// grant with HTTP 200 and an "error" field, so both fields are needed
// to tell a rejected code apart from a transport failure.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	Error       string `json:"error"`
}

// ExchangeCode exchanges an authorization code for an access token
func (c *Client) ExchangeCode(
	ctx context.Context,
	code, redirectURI string,
	creds Credentials,
) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", redirectURI)

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.tokenURL,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	req.SetBasicAuth(creds.ID, creds.Secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read token response", ErrUpstreamUnavailable)
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf(
			"%w: HTTP %d - %s",
			ErrUpstreamUnavailable,
			resp.StatusCode,
			bodyPreview(body),
		)
	}

	// Any decodable response without an access token means the code was
	// rejected, regardless of status code.
	if token.AccessToken == "" || token.Error != "" {
		log.Debug().
			Int("status", resp.StatusCode).
			Str("error", token.Error).
			Msg("token exchange rejected")
		return "", ErrInvalidAuthorizationCode
	}

	return token.AccessToken, nil
}

// FetchProfile retrieves the authenticated user's profile
func (c *Client) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.profileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	// Reddit rejects requests without a descriptive User-Agent
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read profile response", ErrUpstreamUnavailable)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf(
			"%w: HTTP %d - %s",
			ErrUpstreamUnavailable,
			resp.StatusCode,
			bodyPreview(body),
		)
	}

	var profile Profile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileUnavailable, err)
	}

	if profile.Name == "" {
		return nil, fmt.Errorf("%w: response missing username", ErrProfileUnavailable)
	}

	return &profile, nil
}

// bodyPreview caps upstream body echoes to keep logs readable
func bodyPreview(body []byte) string {
	preview := string(body)
	if len(preview) > 200 {
		preview = preview[:200] + "..."
	}
	return preview
}
