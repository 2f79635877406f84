package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formgate/internal/metrics"
	"formgate/internal/model"
	"formgate/internal/repository"
	"formgate/internal/service"
	"formgate/internal/spam"
)

// promauto registers globally, so the test binary creates metrics once
var testMetrics = metrics.New()

type stubStore struct {
	form      *model.Form
	createErr error
}

func (s *stubStore) GetActiveForm(ctx context.Context, formID uint) (*model.Form, error) {
	if s.form == nil || s.form.ID != formID {
		return nil, repository.ErrFormNotFound
	}
	return s.form, nil
}

func (s *stubStore) CreateSubmission(ctx context.Context, submission *model.Submission) error {
	if s.createErr != nil {
		return s.createErr
	}
	submission.ID = 7
	return nil
}

func (s *stubStore) CreateSpamSignals(ctx context.Context, signals []model.SpamSignal) error {
	return nil
}

func newTestRouter(store *stubStore) *gin.Engine {
	gin.SetMode(gin.TestMode)

	intake := service.NewIntakeService(store, spam.NewEvaluator(spam.NewHistory()), nil, testMetrics)
	h := NewHandlers(nil, intake, nil, testMetrics)

	router := gin.New()
	router.POST("/api/v1/forms/:id/submissions", h.CreateSubmission)
	return router
}

func postSubmission(router *gin.Engine, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateSubmissionSuccess(t *testing.T) {
	store := &stubStore{form: &model.Form{ID: 1, Name: "Contact", IsActive: true}}
	router := newTestRouter(store)

	body, _ := json.Marshal(map[string]interface{}{"name": "Bob"})
	w := postSubmission(router, "/api/v1/forms/1/submissions", body)

	require.Equal(t, http.StatusOK, w.Code)

	var response IntakeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Success)
	assert.Equal(t, uint(7), response.SubmissionID)
}

func TestCreateSubmissionSpamGetsSameResponse(t *testing.T) {
	store := &stubStore{form: &model.Form{ID: 1, Name: "Contact", IsActive: true}}
	router := newTestRouter(store)

	body, _ := json.Marshal(map[string]interface{}{"__honeypot": "spam"})
	w := postSubmission(router, "/api/v1/forms/1/submissions", body)

	// The embed script is never told the submission was flagged
	require.Equal(t, http.StatusOK, w.Code)

	var response IntakeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Success)
	assert.NotContains(t, w.Body.String(), "spam")
}

func TestCreateSubmissionInvalidFormID(t *testing.T) {
	router := newTestRouter(&stubStore{})

	w := postSubmission(router, "/api/v1/forms/abc/submissions", []byte(`{}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_form_id")
}

func TestCreateSubmissionMalformedBody(t *testing.T) {
	store := &stubStore{form: &model.Form{ID: 1, IsActive: true}}
	router := newTestRouter(store)

	w := postSubmission(router, "/api/v1/forms/1/submissions", []byte(`not json`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_payload")
}

func TestCreateSubmissionFormNotFound(t *testing.T) {
	router := newTestRouter(&stubStore{})

	body, _ := json.Marshal(map[string]interface{}{"name": "Bob"})
	w := postSubmission(router, "/api/v1/forms/99/submissions", body)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not_found")
}

func TestCreateSubmissionPersistenceError(t *testing.T) {
	store := &stubStore{
		form:      &model.Form{ID: 1, Name: "Contact", IsActive: true},
		createErr: errors.New("insert failed"),
	}
	router := newTestRouter(store)

	body, _ := json.Marshal(map[string]interface{}{"name": "Bob"})
	w := postSubmission(router, "/api/v1/forms/1/submissions", body)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "persistence_error")
}
