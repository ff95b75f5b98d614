package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nate0911/FancyKarma-Backend/internal/config"
	"github.com/Nate0911/FancyKarma-Backend/internal/metrics"
	"github.com/Nate0911/FancyKarma-Backend/internal/models"
	"github.com/Nate0911/FancyKarma-Backend/internal/reddit"
)

// Verdict reason strings returned to the caller
const (
	ReasonBanned       = "Account is suspended or banned"
	ReasonInsufficient = "Oops, you don't have enough karma or account age is too young"
)

// Audit reason strings (the sheet log historically used a shorter wording
// for the threshold failure than the API response)
const (
	auditReasonInsufficient  = "Not enough karma or age"
	auditReasonInvalidCode   = "Invalid authorization code"
	auditReasonInternalError = "Internal server error"
)

// RedditAPI is the outbound surface the verifier depends on
type RedditAPI interface {
	ExchangeCode(
		ctx context.Context,
		code, redirectURI string,
		creds reddit.Credentials,
	) (string, error)
	FetchProfile(ctx context.Context, accessToken string) (*reddit.Profile, error)
}

// Verdict is the outcome of one verification attempt
type Verdict struct {
	Status    models.VerdictStatus `json:"status"`
	Karma     int64                `json:"karma"`
	AgeMonths int                  `json:"age"`
	Reason    string               `json:"reason,omitempty"`
}

// VerificationRequest carries one authorization code through the pipeline
type VerificationRequest struct {
	Code        string
	RedirectURI string
	Credentials reddit.Credentials
	ActorIP     string
}

// VerifierService exchanges an authorization code for a profile and
// applies the eligibility rule
type VerifierService struct {
	api     RedditAPI
	audit   *AuditService
	metrics metrics.Recorder

	minKarma     int64
	minAgeMonths int
	banStatus    models.VerdictStatus

	now func() time.Time
}

// NewVerifierService creates a new verifier service
func NewVerifierService(
	api RedditAPI,
	audit *AuditService,
	m metrics.Recorder,
	cfg *config.Config,
) *VerifierService {
	return &VerifierService{
		api:          api,
		audit:        audit,
		metrics:      m,
		minKarma:     cfg.MinKarma,
		minAgeMonths: cfg.MinAccountAgeMonths,
		banStatus:    models.VerdictStatus(cfg.BanStatus),
		now:          time.Now,
	}
}

// Verify runs the two outbound calls in order and evaluates the rule.
// Every outcome, including upstream failures, leaves an audit record;
// audit delivery never influences the returned verdict or error.
func (s *VerifierService) Verify(
	ctx context.Context,
	req VerificationRequest,
) (*Verdict, error) {
	start := s.now()

	token, err := s.api.ExchangeCode(ctx, req.Code, req.RedirectURI, req.Credentials)
	if err != nil {
		s.metrics.RecordTokenExchange(resultLabel(err), time.Since(start))
		if errors.Is(err, reddit.ErrInvalidAuthorizationCode) {
			s.recordAudit(ctx, models.VerdictFail, "", 0, 0, auditReasonInvalidCode, req.ActorIP)
		} else {
			s.recordAudit(ctx, models.VerdictFail, "", 0, 0, auditReasonInternalError, req.ActorIP)
		}
		return nil, err
	}
	s.metrics.RecordTokenExchange("success", time.Since(start))

	fetchStart := s.now()
	profile, err := s.api.FetchProfile(ctx, token)
	if err != nil {
		s.metrics.RecordProfileFetch(resultLabel(err), time.Since(fetchStart))
		s.recordAudit(ctx, models.VerdictFail, "", 0, 0, auditReasonInternalError, req.ActorIP)
		return nil, err
	}
	s.metrics.RecordProfileFetch("success", time.Since(fetchStart))

	verdict := s.Evaluate(profile)

	log.Info().
		Str("username", profile.Name).
		Str("status", string(verdict.Status)).
		Int64("karma", verdict.Karma).
		Int("age_months", verdict.AgeMonths).
		Msg("verification completed")

	s.metrics.RecordVerification(string(verdict.Status), time.Since(start))
	s.recordAudit(
		ctx,
		verdict.Status,
		profile.Name,
		verdict.Karma,
		verdict.AgeMonths,
		auditReason(verdict),
		req.ActorIP,
	)

	return &verdict, nil
}

// Evaluate applies the eligibility rule to a fetched profile. The ban
// check runs first and short-circuits the thresholds.
func (s *VerifierService) Evaluate(profile *reddit.Profile) Verdict {
	karma := profile.Karma()
	ageMonths := profile.AgeMonths(s.now())

	if profile.Banned() {
		return Verdict{
			Status:    s.banStatus,
			Karma:     karma,
			AgeMonths: ageMonths,
			Reason:    ReasonBanned,
		}
	}

	if karma >= s.minKarma && ageMonths >= s.minAgeMonths {
		return Verdict{
			Status:    models.VerdictPass,
			Karma:     karma,
			AgeMonths: ageMonths,
		}
	}

	return Verdict{
		Status:    models.VerdictFail,
		Karma:     karma,
		AgeMonths: ageMonths,
		Reason:    ReasonInsufficient,
	}
}

func (s *VerifierService) recordAudit(
	ctx context.Context,
	status models.VerdictStatus,
	username string,
	karma int64,
	ageMonths int,
	reason, actorIP string,
) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, AuditEntry{
		Status:    status,
		Username:  username,
		Karma:     karma,
		AgeMonths: ageMonths,
		Reason:    reason,
		ActorIP:   actorIP,
	})
}

// auditReason maps a verdict to the wording used in the audit trail
func auditReason(v Verdict) string {
	switch {
	case v.Reason == ReasonBanned:
		return ReasonBanned
	case v.Status == models.VerdictFail:
		return auditReasonInsufficient
	default:
		return ""
	}
}

// resultLabel buckets outbound call errors for metrics
func resultLabel(err error) string {
	switch {
	case errors.Is(err, reddit.ErrInvalidAuthorizationCode):
		return "rejected"
	case errors.Is(err, reddit.ErrProfileUnavailable):
		return "malformed"
	default:
		return "error"
	}
}
