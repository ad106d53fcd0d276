package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"

	"github.com/dimitrije/socketkey-api/internal/middleware"
	"github.com/dimitrije/socketkey-api/internal/models"
	"github.com/dimitrije/socketkey-api/internal/services"
	"github.com/dimitrije/socketkey-api/pkg/dto"
)

var timeoutOutOfRange = fmt.Sprintf("timeout_seconds must be between 1 and %d", services.MaxTimeoutSeconds)

type APIKeyHandler struct {
	apiKeyService APIKeyServiceInterface
	logger        *zap.Logger
	now           func() time.Time
}

func NewAPIKeyHandler(apiKeyService APIKeyServiceInterface, logger *zap.Logger) *APIKeyHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIKeyHandler{
		apiKeyService: apiKeyService,
		logger:        logger,
		now:           time.Now,
	}
}

// Issue creates a key for the authenticated user with the default timeout.
func (h *APIKeyHandler) Issue(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	key, err := services.NewAPIKey()
	if err != nil {
		h.logger.Error("failed to generate api key", zap.Error(err))
		c.InternalServerError("failed to generate api key")
		return
	}

	issuedAt := h.now()
	if _, err := h.apiKeyService.GenerateAPIKey(c.Request.Context(), key, userID.String()); err != nil {
		h.logger.Error("failed to issue api key", zap.String("user_id", userID.String()), zap.Error(err))
		c.InternalServerError("failed to issue api key")
		return
	}

	_ = c.JSON(201, dto.LoginResponse{
		APIKey:    key,
		ExpiresAt: issuedAt.Add(h.apiKeyService.DefaultTimeout()).UTC().Format(time.RFC3339),
	})
}

// IssueCustom creates a key for the authenticated user with a caller-chosen
// timeout.
func (h *APIKeyHandler) IssueCustom(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateAPIKeyRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	timeout, err := services.TimeoutFromSeconds(req.TimeoutSeconds)
	if err != nil {
		c.BadRequest(timeoutOutOfRange)
		return
	}

	key, err := services.NewAPIKey()
	if err != nil {
		h.logger.Error("failed to generate api key", zap.Error(err))
		c.InternalServerError("failed to generate api key")
		return
	}

	issuedAt := h.now()
	err = h.apiKeyService.StoreAPIKey(c.Request.Context(), key, userID.String(), timeout)
	if errors.Is(err, services.ErrInvalidTimeout) {
		c.BadRequest(timeoutOutOfRange)
		return
	}
	if err != nil {
		h.logger.Error("failed to store api key", zap.String("user_id", userID.String()), zap.Error(err))
		c.InternalServerError("failed to issue api key")
		return
	}

	_ = c.JSON(201, dto.LoginResponse{
		APIKey:    key,
		ExpiresAt: issuedAt.Add(timeout).UTC().Format(time.RFC3339),
	})
}

// Info describes the key presented in the X-API-Key header.
func (h *APIKeyHandler) Info(c *drift.Context) {
	key := middleware.APIKeyFromRequest(c)
	if key == "" {
		c.Unauthorized("missing api key")
		return
	}

	rec, found, err := h.apiKeyService.GetAPIKeyInfo(c.Request.Context(), key)
	if err != nil {
		h.logger.Error("failed to get api key", zap.Error(err))
		c.InternalServerError("failed to get api key")
		return
	}
	if !found {
		c.NotFound("api key not found")
		return
	}

	_ = c.JSON(200, h.infoResponse(rec))
}

func (h *APIKeyHandler) Validate(c *drift.Context) {
	key := middleware.APIKeyFromRequest(c)
	if key == "" {
		c.Unauthorized("missing api key")
		return
	}

	valid, err := h.apiKeyService.ValidateAPIKey(c.Request.Context(), key)
	if err != nil {
		h.logger.Error("failed to validate api key", zap.Error(err))
		c.InternalServerError("failed to validate api key")
		return
	}

	_ = c.JSON(200, dto.APIKeyValidityResponse{Valid: valid})
}

// Extend resets the presented key to the default expiry window.
func (h *APIKeyHandler) Extend(c *drift.Context) {
	key := middleware.APIKeyFromRequest(c)
	if key == "" {
		c.Unauthorized("missing api key")
		return
	}

	rec, extended, err := h.apiKeyService.RenewAPIKey(c.Request.Context(), key)
	if err != nil {
		h.logger.Error("failed to extend api key", zap.Error(err))
		c.InternalServerError("failed to extend api key")
		return
	}
	if !extended {
		c.NotFound("api key not found")
		return
	}

	_ = c.JSON(200, dto.APIKeyExtendResponse{
		Message:   "api key extended",
		ExpiresAt: rec.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// Session reports the user bound to the API key that authenticated the request.
func (h *APIKeyHandler) Session(c *drift.Context) {
	userID := middleware.GetAPIKeyUserID(c)
	if userID == "" {
		c.Unauthorized("not authenticated")
		return
	}

	_ = c.JSON(200, dto.SessionResponse{UserID: userID})
}

func (h *APIKeyHandler) infoResponse(rec *models.APIKeyRecord) dto.APIKeyInfoResponse {
	return dto.APIKeyInfoResponse{
		UserID:           rec.UserID,
		ExpiresAt:        rec.ExpiresAt.UTC().Format(time.RFC3339),
		ExpiresInSeconds: int64(rec.TTL(h.now()).Seconds()),
	}
}
