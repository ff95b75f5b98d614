package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nate0911/FancyKarma-Backend/internal/config"
	"github.com/Nate0911/FancyKarma-Backend/internal/reddit"
	"github.com/Nate0911/FancyKarma-Backend/internal/services"
	"github.com/Nate0911/FancyKarma-Backend/internal/util"
)

// VerifyHandler serves the verification endpoint
type VerifyHandler struct {
	verifier *services.VerifierService
	config   *config.Config
}

// NewVerifyHandler creates a new verification handler
func NewVerifyHandler(verifier *services.VerifierService, cfg *config.Config) *VerifyHandler {
	return &VerifyHandler{verifier: verifier, config: cfg}
}

// verifyRequest is the POST /auth request body. Which fields are
// required depends on the credential mode.
type verifyRequest struct {
	Code         string `json:"code"`
	RedirectURI  string `json:"redirect_uri"`
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}

// Verify handles POST /auth
func (h *VerifyHandler) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	verification, ok := h.buildVerification(&req, util.GetIPFromContext(c))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	verdict, err := h.verifier.Verify(c.Request.Context(), verification)
	if err != nil {
		switch {
		case errors.Is(err, reddit.ErrInvalidAuthorizationCode):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization code"})
		default:
			log.Error().Err(err).Msg("verification failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, verdict)
}

// buildVerification validates the request body against the credential
// mode and fills in configured defaults. No outbound call happens until
// this returns true.
func (h *VerifyHandler) buildVerification(
	req *verifyRequest,
	actorIP string,
) (services.VerificationRequest, bool) {
	if req.Code == "" {
		return services.VerificationRequest{}, false
	}

	switch h.config.CredentialMode {
	case config.CredentialModePerRequest:
		// The caller supplies the full client identity
		if req.RedirectURI == "" || req.ClientID == "" || req.ClientSecret == "" {
			return services.VerificationRequest{}, false
		}
		return services.VerificationRequest{
			Code:        req.Code,
			RedirectURI: req.RedirectURI,
			Credentials: reddit.Credentials{
				ID:     req.ClientID,
				Secret: req.ClientSecret,
			},
			ActorIP: actorIP,
		}, true

	default: // fixed
		redirectURI := req.RedirectURI
		if redirectURI == "" {
			redirectURI = h.config.RedditRedirectURI
		}
		// No configured default and none supplied: nothing to exchange against
		if redirectURI == "" {
			return services.VerificationRequest{}, false
		}
		return services.VerificationRequest{
			Code:        req.Code,
			RedirectURI: redirectURI,
			Credentials: reddit.Credentials{
				ID:     h.config.RedditClientID,
				Secret: h.config.RedditClientSecret,
			},
			ActorIP: actorIP,
		}, true
	}
}
