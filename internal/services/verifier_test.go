package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nate0911/FancyKarma-Backend/internal/config"
	"github.com/Nate0911/FancyKarma-Backend/internal/metrics"
	"github.com/Nate0911/FancyKarma-Backend/internal/models"
	"github.com/Nate0911/FancyKarma-Backend/internal/reddit"
)

// fakeRedditAPI is a scriptable RedditAPI for verifier tests
type fakeRedditAPI struct {
	token       string
	exchangeErr error
	profile     *reddit.Profile
	fetchErr    error

	exchangeCalls int
	fetchCalls    int
}

func (f *fakeRedditAPI) ExchangeCode(
	_ context.Context,
	_, _ string,
	_ reddit.Credentials,
) (string, error) {
	f.exchangeCalls++
	if f.exchangeErr != nil {
		return "", f.exchangeErr
	}
	return f.token, nil
}

func (f *fakeRedditAPI) FetchProfile(_ context.Context, _ string) (*reddit.Profile, error) {
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.profile, nil
}

var testNow = time.Unix(1_700_000_000, 0)

func testConfig() *config.Config {
	return &config.Config{
		MinKarma:            200,
		MinAccountAgeMonths: 8,
		BanStatus:           config.BanStatusBanned,
	}
}

func newTestVerifier(api RedditAPI, audit *AuditService, cfg *config.Config) *VerifierService {
	v := NewVerifierService(api, audit, metrics.NewNoopMetrics(), cfg)
	v.now = func() time.Time { return testNow }
	return v
}

// createdMonthsAgo returns a created_utc exactly n fixed 30-day months
// before testNow
func createdMonthsAgo(n int) float64 {
	return float64(testNow.Unix() - int64(n)*30*24*60*60)
}

// ============================================================
// Evaluate
// ============================================================

func TestEvaluate_PassAtExactThresholds(t *testing.T) {
	v := newTestVerifier(nil, nil, testConfig())

	total := int64(200)
	verdict := v.Evaluate(&reddit.Profile{
		Name:       "spez",
		TotalKarma: &total,
		CreatedUTC: createdMonthsAgo(8),
	})

	assert.Equal(t, models.VerdictPass, verdict.Status)
	assert.Equal(t, int64(200), verdict.Karma)
	assert.Equal(t, 8, verdict.AgeMonths)
	assert.Empty(t, verdict.Reason)
}

func TestEvaluate_FailLowKarma(t *testing.T) {
	v := newTestVerifier(nil, nil, testConfig())

	verdict := v.Evaluate(&reddit.Profile{
		Name:         "newbie",
		LinkKarma:    100,
		CommentKarma: 99,
		CreatedUTC:   createdMonthsAgo(24),
	})

	assert.Equal(t, models.VerdictFail, verdict.Status)
	assert.Equal(t, int64(199), verdict.Karma)
	assert.Equal(t, ReasonInsufficient, verdict.Reason)
}

func TestEvaluate_FailYoungAccount(t *testing.T) {
	v := newTestVerifier(nil, nil, testConfig())

	verdict := v.Evaluate(&reddit.Profile{
		Name:         "newbie",
		LinkKarma:    5000,
		CommentKarma: 5000,
		CreatedUTC:   createdMonthsAgo(7),
	})

	assert.Equal(t, models.VerdictFail, verdict.Status)
	assert.Equal(t, ReasonInsufficient, verdict.Reason)
}

func TestEvaluate_BanDominatesThresholds(t *testing.T) {
	v := newTestVerifier(nil, nil, testConfig())

	// Karma and age both comfortably above the thresholds
	verdict := v.Evaluate(&reddit.Profile{
		Name:         "banned-user",
		LinkKarma:    10000,
		CommentKarma: 10000,
		CreatedUTC:   createdMonthsAgo(60),
		IsSuspended:  true,
	})

	assert.Equal(t, models.VerdictBanned, verdict.Status)
	assert.Equal(t, ReasonBanned, verdict.Reason)
}

func TestEvaluate_SubredditBanDominates(t *testing.T) {
	v := newTestVerifier(nil, nil, testConfig())

	verdict := v.Evaluate(&reddit.Profile{
		Name:       "shadow",
		LinkKarma:  500,
		CreatedUTC: createdMonthsAgo(12),
		Subreddit:  reddit.Subreddit{Banned: true},
	})

	assert.Equal(t, models.VerdictBanned, verdict.Status)
	assert.Equal(t, ReasonBanned, verdict.Reason)
}

func TestEvaluate_BanStatusFailVariant(t *testing.T) {
	cfg := testConfig()
	cfg.BanStatus = config.BanStatusFail
	v := newTestVerifier(nil, nil, cfg)

	verdict := v.Evaluate(&reddit.Profile{
		Name:        "banned-user",
		CreatedUTC:  createdMonthsAgo(12),
		IsSuspended: true,
	})

	assert.Equal(t, models.VerdictFail, verdict.Status)
	assert.Equal(t, ReasonBanned, verdict.Reason)
}

func TestEvaluate_TotalKarmaFallback(t *testing.T) {
	v := newTestVerifier(nil, nil, testConfig())

	verdict := v.Evaluate(&reddit.Profile{
		Name:         "spez",
		LinkKarma:    150,
		CommentKarma: 60,
		CreatedUTC:   createdMonthsAgo(12),
	})

	assert.Equal(t, models.VerdictPass, verdict.Status)
	assert.Equal(t, int64(210), verdict.Karma)
}

// ============================================================
// Verify
// ============================================================

func TestVerify_HappyPath(t *testing.T) {
	total := int64(300)
	api := &fakeRedditAPI{
		token: "tok",
		profile: &reddit.Profile{
			Name:       "spez",
			TotalKarma: &total,
			CreatedUTC: createdMonthsAgo(10),
		},
	}
	v := newTestVerifier(api, nil, testConfig())

	verdict, err := v.Verify(context.Background(), VerificationRequest{
		Code:        "code",
		RedirectURI: "uri",
	})

	require.NoError(t, err)
	assert.Equal(t, models.VerdictPass, verdict.Status)
	assert.Equal(t, 1, api.exchangeCalls)
	assert.Equal(t, 1, api.fetchCalls)
}

func TestVerify_InvalidCodeSkipsProfileFetch(t *testing.T) {
	api := &fakeRedditAPI{exchangeErr: reddit.ErrInvalidAuthorizationCode}
	v := newTestVerifier(api, nil, testConfig())

	_, err := v.Verify(context.Background(), VerificationRequest{Code: "bad"})

	assert.ErrorIs(t, err, reddit.ErrInvalidAuthorizationCode)
	assert.Equal(t, 1, api.exchangeCalls)
	assert.Zero(t, api.fetchCalls)
}

func TestVerify_UpstreamFailureIsTerminal(t *testing.T) {
	api := &fakeRedditAPI{token: "tok", fetchErr: reddit.ErrUpstreamUnavailable}
	v := newTestVerifier(api, nil, testConfig())

	_, err := v.Verify(context.Background(), VerificationRequest{Code: "code"})

	assert.ErrorIs(t, err, reddit.ErrUpstreamUnavailable)
	// No retry on either call
	assert.Equal(t, 1, api.exchangeCalls)
	assert.Equal(t, 1, api.fetchCalls)
}

func TestVerify_AuditRecordsVerdict(t *testing.T) {
	sink := &captureSink{}
	audit := NewAuditService([]AuditSink{sink}, nil, true, 10)

	total := int64(250)
	api := &fakeRedditAPI{
		token: "tok",
		profile: &reddit.Profile{
			Name:       "spez",
			TotalKarma: &total,
			CreatedUTC: createdMonthsAgo(9),
		},
	}
	v := newTestVerifier(api, audit, testConfig())

	_, err := v.Verify(context.Background(), VerificationRequest{
		Code:    "code",
		ActorIP: "203.0.113.7",
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, audit.Shutdown(ctx))

	rows := sink.rows()
	require.Len(t, rows, 1)
	assert.Equal(t, models.VerdictPass, rows[0].Status)
	assert.Equal(t, "spez", rows[0].Username)
	assert.Equal(t, int64(250), rows[0].Karma)
	assert.Equal(t, 9, rows[0].AgeMonths)
	assert.Equal(t, "203.0.113.7", rows[0].ActorIP)
}

func TestVerify_AuditRecordsInvalidCode(t *testing.T) {
	sink := &captureSink{}
	audit := NewAuditService([]AuditSink{sink}, nil, true, 10)

	api := &fakeRedditAPI{exchangeErr: reddit.ErrInvalidAuthorizationCode}
	v := newTestVerifier(api, audit, testConfig())

	_, err := v.Verify(context.Background(), VerificationRequest{Code: "bad"})
	assert.ErrorIs(t, err, reddit.ErrInvalidAuthorizationCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, audit.Shutdown(ctx))

	rows := sink.rows()
	require.Len(t, rows, 1)
	assert.Equal(t, models.VerdictFail, rows[0].Status)
	assert.Equal(t, "Invalid authorization code", rows[0].Reason)
	assert.Empty(t, rows[0].Username)
}

func TestVerify_ThresholdFailureUsesShortAuditReason(t *testing.T) {
	sink := &captureSink{}
	audit := NewAuditService([]AuditSink{sink}, nil, true, 10)

	api := &fakeRedditAPI{
		token: "tok",
		profile: &reddit.Profile{
			Name:       "newbie",
			LinkKarma:  1,
			CreatedUTC: createdMonthsAgo(1),
		},
	}
	v := newTestVerifier(api, audit, testConfig())

	verdict, err := v.Verify(context.Background(), VerificationRequest{Code: "code"})
	require.NoError(t, err)
	assert.Equal(t, ReasonInsufficient, verdict.Reason)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, audit.Shutdown(ctx))

	rows := sink.rows()
	require.Len(t, rows, 1)
	// The sheet log keeps its historical short wording
	assert.Equal(t, "Not enough karma or age", rows[0].Reason)
}
