package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"formgate/internal/model"
)

func formResponse(form model.Form) FormResponse {
	return FormResponse{
		ID:                form.ID,
		Name:              form.Name,
		Fields:            form.Fields,
		IsActive:          form.IsActive,
		NotificationEmail: form.NotificationEmail,
		CreatedAt:         form.CreatedAt,
		UpdatedAt:         form.UpdatedAt,
	}
}

// GetForms returns all forms
func (h *Handlers) GetForms(c *gin.Context) {
	var forms []model.Form
	if err := h.db.Find(&forms).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch forms",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	responses := make([]FormResponse, 0, len(forms))
	for _, form := range forms {
		responses = append(responses, formResponse(form))
	}

	c.JSON(http.StatusOK, responses)
}

// CreateForm creates a new form
func (h *Handlers) CreateForm(c *gin.Context) {
	var req FormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
			Code:    http.StatusBadRequest,
		})
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	form := model.Form{
		Name:              req.Name,
		Fields:            req.Fields,
		IsActive:          isActive,
		NotificationEmail: req.NotificationEmail,
	}

	if err := h.db.Create(&form).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to create form",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusCreated, formResponse(form))
}

// GetForm returns a specific form
func (h *Handlers) GetForm(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid form ID",
			Code:    http.StatusBadRequest,
		})
		return
	}

	var form model.Form
	if err := h.db.First(&form, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Form not found",
				Code:    http.StatusNotFound,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch form",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, formResponse(form))
}

// UpdateForm updates a form
func (h *Handlers) UpdateForm(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid form ID",
			Code:    http.StatusBadRequest,
		})
		return
	}

	var req FormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
			Code:    http.StatusBadRequest,
		})
		return
	}

	var form model.Form
	if err := h.db.First(&form, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Form not found",
				Code:    http.StatusNotFound,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch form",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	form.Name = req.Name
	form.Fields = req.Fields
	form.NotificationEmail = req.NotificationEmail
	if req.IsActive != nil {
		form.IsActive = *req.IsActive
	}

	if err := h.db.Save(&form).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to update form",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, formResponse(form))
}

// DeleteForm deletes a form
func (h *Handlers) DeleteForm(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid form ID",
			Code:    http.StatusBadRequest,
		})
		return
	}

	if err := h.db.Delete(&model.Form{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to delete form",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// ActivateForm activates a form
func (h *Handlers) ActivateForm(c *gin.Context) {
	h.setFormActive(c, true)
}

// DeactivateForm deactivates a form. Deactivated forms are
// indistinguishable from missing ones at the intake endpoint.
func (h *Handlers) DeactivateForm(c *gin.Context) {
	h.setFormActive(c, false)
}

func (h *Handlers) setFormActive(c *gin.Context, active bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid form ID",
			Code:    http.StatusBadRequest,
		})
		return
	}

	if err := h.db.Model(&model.Form{}).Where("id = ?", id).Update("is_active", active).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to update form",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.Status(http.StatusNoContent)
}
