package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"formgate/internal/model"
)

func submissionResponse(submission model.Submission) SubmissionResponse {
	response := SubmissionResponse{
		ID:            submission.ID,
		FormID:        submission.FormID,
		Payload:       submission.Payload,
		OriginAddress: submission.OriginAddress,
		UserAgent:     submission.UserAgent,
		IsSpam:        submission.IsSpam,
		SpamReason:    submission.SpamReason,
		CreatedAt:     submission.CreatedAt,
	}

	for _, signal := range submission.Signals {
		response.Signals = append(response.Signals, SpamSignalResponse{
			Signal:    signal.Signal,
			Score:     signal.Score,
			CreatedAt: signal.CreatedAt,
		})
	}

	return response
}

// GetSubmissions returns submissions with pagination. Supports filtering
// by form_id and is_spam.
func (h *Handlers) GetSubmissions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	offset := (page - 1) * limit

	query := h.db.Model(&model.Submission{})

	if formID := c.Query("form_id"); formID != "" {
		query = query.Where("form_id = ?", formID)
	}
	if isSpam := c.Query("is_spam"); isSpam != "" {
		spam, err := strconv.ParseBool(isSpam)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_filter",
				Message: "is_spam must be a boolean",
				Code:    http.StatusBadRequest,
			})
			return
		}
		query = query.Where("is_spam = ?", spam)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to count submissions",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	var submissions []model.Submission
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&submissions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch submissions",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, submissionResponse(submission))
	}

	c.JSON(http.StatusOK, gin.H{
		"submissions": responses,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetSubmission returns a specific submission with its spam signals
func (h *Handlers) GetSubmission(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid submission ID",
			Code:    http.StatusBadRequest,
		})
		return
	}

	var submission model.Submission
	if err := h.db.Preload("Signals").First(&submission, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Submission not found",
				Code:    http.StatusNotFound,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch submission",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, submissionResponse(submission))
}

// GetEmailLogs returns email logs with pagination
func (h *Handlers) GetEmailLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	offset := (page - 1) * limit

	var logs []model.EmailLog
	var total int64

	if err := h.db.Model(&model.EmailLog{}).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to count email logs",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	if err := h.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch email logs",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	responses := make([]EmailLogResponse, 0, len(logs))
	for _, log := range logs {
		responses = append(responses, EmailLogResponse{
			ID:               log.ID,
			SubmissionID:     log.SubmissionID,
			Status:           log.Status,
			ProviderResponse: log.ProviderResponse,
			CreatedAt:        log.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"logs": responses,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}
