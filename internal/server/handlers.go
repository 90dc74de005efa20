package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "nextgen-api/internal/common/errors"
	"nextgen-api/internal/common/logger"
	"nextgen-api/internal/dispatch"
	"nextgen-api/internal/models"
)

type handlers struct {
	dispatcher *dispatch.Dispatcher
	log        logger.Logger
}

func newHandlers(d *dispatch.Dispatcher, log logger.Logger) *handlers {
	return &handlers{
		dispatcher: d,
		log:        log.WithFields(map[string]interface{}{"component": "http"}),
	}
}

func (h *handlers) index(c *gin.Context) {
	h.log.Info("NextGen API is live", nil)
	c.JSON(http.StatusOK, gin.H{"message": "NextGen API is live!"})
}

func (h *handlers) capabilities(c *gin.Context) {
	c.JSON(http.StatusOK, h.dispatcher.Capabilities())
}

func (h *handlers) heartbeat(c *gin.Context) {
	c.JSON(http.StatusOK, h.dispatcher.Heartbeat())
}

// generate accepts the raw payload as an untyped tree; all shape and
// semantic checks belong to the dispatcher, not to JSON binding. A body
// that is not a JSON object at all is still an INVALID_PAYLOAD envelope.
func (h *handlers) generate(c *gin.Context) {
	var raw map[string]interface{}
	if err := c.ShouldBindJSON(&raw); err != nil {
		appErr := apperrors.NewInvalidPayload(err.Error())
		h.log.Warn("malformed request body", map[string]interface{}{"error": err.Error()})
		c.JSON(appErr.Status(), models.ErrorResponse{
			StatusCode: appErr.Status(),
			ErrorKind:  appErr.Kind,
			Message:    appErr.Message,
		})
		return
	}

	resp, errResp := h.dispatcher.HandleTask(c.Request.Context(), raw)
	if errResp != nil {
		c.JSON(errResp.StatusCode, errResp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
