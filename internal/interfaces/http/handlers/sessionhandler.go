package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/innovinitylabs/x402/internal/shared/errors"
	"github.com/innovinitylabs/x402/internal/shared/logger"
	"github.com/innovinitylabs/x402/internal/shared/utils"
)

// SessionHandler serves the session query API. Checking a valid service
// session consumes it, so callers get exactly one positive answer per
// session.
type SessionHandler struct {
	validateSessionUC validateSessionUseCase
	listSessionsUC    listActiveSessionsUseCase
	logger            logger.Interface
}

func NewSessionHandler(validateSessionUC validateSessionUseCase, listSessionsUC listActiveSessionsUseCase) *SessionHandler {
	return &SessionHandler{
		validateSessionUC: validateSessionUC,
		listSessionsUC:    listSessionsUC,
		logger:            logger.NewLogger(),
	}
}

// GetSession handles GET /api/session/:id.
func (h *SessionHandler) GetSession(c *gin.Context) {
	sessionID := c.Param("id")
	if err := utils.ValidateID(sessionID); err != nil {
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("Invalid session ID"))
		return
	}

	result, err := h.validateSessionUC.ExecuteAndConsumeIfService(c.Request.Context(), sessionID)
	if err != nil {
		// Unknown ids still answer the validity question: the 404 body
		// carries valid:false so clients need only one code path.
		if appErr := errors.GetAppError(err); appErr != nil && appErr.Type == errors.ErrorTypeSessionNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"valid":   false,
				"error": utils.ErrorInfo{
					Type:    string(appErr.Type),
					Message: appErr.Message,
					Details: appErr.Details,
				},
			})
			return
		}
		utils.ErrorResponseWithError(c, err)
		return
	}

	data := gin.H{
		"valid":   result.Valid,
		"session": result.Session,
	}
	if result.Valid {
		data["remainingTime"] = result.RemainingTime
	} else {
		data["reason"] = string(result.Reason)
	}

	utils.SuccessResponse(c, http.StatusOK, "", data)
}

// ListSessions handles GET /api/sessions: every currently valid session.
func (h *SessionHandler) ListSessions(c *gin.Context) {
	sessions, err := h.listSessionsUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"sessions": sessions,
		"count":    len(sessions),
	})
}
