package handler

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"main/dto"
	"main/model"
	"main/services"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// AuditRecorder is the audit log sink. Writes are best effort and never
// block a response.
type AuditRecorder interface {
	Record(ctx context.Context, entry *model.AccessAuditEntry) error
}

// RateLimiter throttles the public verification endpoints per client.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// EmergencyHandler serves the public guardian-facing endpoints: link
// confirmation, token issuance, token verification and document
// downloads. None of them carry a user session; the token and the
// signed link are the only credentials.
type EmergencyHandler struct {
	tokens   *usecase.AccessTokenService
	access   *usecase.EmergencyAccessService
	quorum   *usecase.QuorumCoordinator
	requests usecase.ActivationStore
	limiter  RateLimiter
	audit    AuditRecorder
}

func NewEmergencyHandler(tokens *usecase.AccessTokenService, access *usecase.EmergencyAccessService, quorum *usecase.QuorumCoordinator, requests usecase.ActivationStore, limiter RateLimiter, audit AuditRecorder) *EmergencyHandler {
	return &EmergencyHandler{
		tokens:   tokens,
		access:   access,
		quorum:   quorum,
		requests: requests,
		limiter:  limiter,
		audit:    audit,
	}
}

// Confirm records a guardian's confirmation from their emailed link.
func (h *EmergencyHandler) Confirm(c *gin.Context) {
	var req dto.ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Missing confirmation token")
		return
	}

	requestID, guardianID, err := services.ParseConfirmationToken(req.ConfirmationToken)
	if err != nil {
		respondError(c, fmt.Errorf("invalid or expired confirmation link: %w", err))
		return
	}

	result, err := h.quorum.Confirm(c.Request.Context(), requestID, guardianID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, result)
}

// RequestAccess issues the guardian's access token once the shield is
// active. The signed confirmation link doubles as the guardian's
// credential here.
func (h *EmergencyHandler) RequestAccess(c *gin.Context) {
	var req dto.RequestAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Missing confirmation token")
		return
	}

	requestID, guardianID, err := services.ParseConfirmationToken(req.ConfirmationToken)
	if err != nil {
		respondError(c, fmt.Errorf("invalid or expired confirmation link: %w", err))
		return
	}

	request, err := h.requests.Get(c.Request.Context(), requestID)
	if err != nil {
		respondError(c, err)
		return
	}
	if request == nil {
		utils.NotFound(c, "Activation request not found")
		return
	}

	issued, err := h.tokens.Issue(c.Request.Context(), request.UserID, guardianID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, dto.AccessTokenData{
		AccessToken: issued.Token,
		ExpiresAt:   issued.ExpiresAt.Format(time.RFC3339),
		Scopes:      model.ScopeStrings(issued.Scopes),
	})
}

// VerifyAccess checks a token plus verification code and, on success,
// returns the full emergency access payload.
func (h *EmergencyHandler) VerifyAccess(c *gin.Context) {
	var req dto.VerifyAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Access token is required")
		return
	}

	if !h.allow(c) {
		utils.TooManyRequests(c, "Too many verification attempts, slow down")
		return
	}

	result, err := h.tokens.Verify(c.Request.Context(), req.Token, req.VerificationCode)
	if err != nil {
		respondError(c, err)
		return
	}

	if result.NeedsVerification {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":              result.Reason,
			"needs_verification": true,
		})
		return
	}

	if !result.Granted {
		h.recordAudit(c, result.Token, "verify_access", "denied", result.Reason, "")
		utils.Unauthorized(c, result.Reason)
		return
	}

	data, err := h.access.BuildAccessData(c.Request.Context(), result.Token)
	if err != nil {
		respondError(c, err)
		return
	}

	h.recordAudit(c, result.Token, "verify_access", "granted", "", "")
	utils.Success(c, data)
}

// DownloadDocument re-verifies the credentials and returns a signed,
// short-lived download URL for a single permitted document.
func (h *EmergencyHandler) DownloadDocument(c *gin.Context) {
	var req dto.DocumentDownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Token, verification code and document ID are required")
		return
	}

	if !h.allow(c) {
		utils.TooManyRequests(c, "Too many verification attempts, slow down")
		return
	}

	result, err := h.tokens.Verify(c.Request.Context(), req.Token, req.VerificationCode)
	if err != nil {
		respondError(c, err)
		return
	}
	if !result.Granted {
		h.recordAudit(c, result.Token, "document_download", "denied", result.Reason, req.DocumentID)
		utils.Unauthorized(c, result.Reason)
		return
	}

	data, err := h.access.SignDownload(c.Request.Context(), result.Token, req.DocumentID)
	if err != nil {
		h.recordAudit(c, result.Token, "document_download", "denied", err.Error(), req.DocumentID)
		respondError(c, err)
		return
	}

	h.recordAudit(c, result.Token, "document_download", "granted", "", req.DocumentID)
	utils.Success(c, data)
}

func (h *EmergencyHandler) allow(c *gin.Context) bool {
	if h.limiter == nil {
		return true
	}
	allowed, err := h.limiter.Allow(c.Request.Context(), c.ClientIP())
	if err != nil {
		// Fails open; the per-token attempt lockout still holds.
		log.Printf("verification rate limit check failed: %v", err)
		return true
	}
	return allowed
}

func (h *EmergencyHandler) recordAudit(c *gin.Context, token *model.AccessToken, action, outcome, reason, documentID string) {
	if h.audit == nil {
		return
	}

	entry := &model.AccessAuditEntry{
		Action:     action,
		Outcome:    outcome,
		Reason:     reason,
		DocumentID: documentID,
		IPAddress:  c.ClientIP(),
	}
	if token != nil {
		entry.UserID = token.UserID
		entry.GuardianID = token.GuardianID
	}
	entry.Browser, entry.OS, entry.Device = utils.ParseUserAgent(c.Request.UserAgent())

	if err := h.audit.Record(c.Request.Context(), entry); err != nil {
		log.Printf("failed to record access audit entry: %v", err)
	}
}
