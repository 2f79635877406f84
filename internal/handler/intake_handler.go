package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"formgate/internal/repository"
)

// CreateSubmission handles the intake endpoint used by the embeddable
// client script. Spam and legitimate submissions get the same response so
// bots cannot probe the classifier.
func (h *Handlers) CreateSubmission(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.IntakeDuration.Observe(time.Since(start).Seconds())
	}()

	formID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_form_id",
			Message: "Invalid form ID",
			Code:    http.StatusBadRequest,
		})
		return
	}

	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_payload",
			Message: "Request body must be a JSON object",
			Code:    http.StatusBadRequest,
		})
		return
	}

	result, err := h.intake.HandleSubmission(
		c.Request.Context(),
		uint(formID),
		payload,
		c.ClientIP(),
		c.Request.UserAgent(),
	)
	if err != nil {
		if errors.Is(err, repository.ErrFormNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Form not found",
				Code:    http.StatusNotFound,
			})
			return
		}
		logrus.Errorf("Failed to handle submission for form %d: %v", formID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "persistence_error",
			Message: "Failed to store submission",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, IntakeResponse{
		Success:      true,
		SubmissionID: result.SubmissionID,
	})
}
