package reddit

import "errors"

var (
	// ErrInvalidAuthorizationCode is returned when the token endpoint answers
	// without an access token (expired, reused or malformed code).
	ErrInvalidAuthorizationCode = errors.New("invalid authorization code")

	// ErrUpstreamUnavailable is returned for network failures, timeouts and
	// undecodable responses from the Reddit API.
	ErrUpstreamUnavailable = errors.New("reddit api unavailable")

	// ErrProfileUnavailable is returned when the identity endpoint answers
	// without the fields the verifier needs (no username).
	ErrProfileUnavailable = errors.New("reddit profile unavailable")
)
