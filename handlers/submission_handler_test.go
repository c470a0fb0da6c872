package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/business-partner/leads-backend/errors"
	"github.com/business-partner/leads-backend/middleware"
	"github.com/business-partner/leads-backend/types"
)

// MockSubmissionGateway implements SubmissionGateway for handler tests.
type MockSubmissionGateway struct {
	mock.Mock
}

func (m *MockSubmissionGateway) Submit(ctx context.Context, kind types.LeadKind, input types.SubmissionInput) error {
	args := m.Called(ctx, kind, input)
	return args.Error(0)
}

var _ SubmissionGateway = (*MockSubmissionGateway)(nil)

func buildSubmissionRouter(gateway SubmissionGateway) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	h := NewSubmissionHandler(gateway)
	r.POST("/v1/requests/contact", h.SubmitContactRequest)
	r.POST("/v1/requests/equipment", h.SubmitEquipmentRequest)
	return r
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestSubmitContactRequest_Success(t *testing.T) {
	gateway := new(MockSubmissionGateway)
	gateway.On("Submit", mock.Anything, types.LeadKindContact, mock.AnythingOfType("types.SubmissionInput")).Return(nil)

	router := buildSubmissionRouter(gateway)
	w := postJSON(t, router, "/v1/requests/contact", map[string]interface{}{
		"customerName":            "Иван Иванов",
		"phone":                   "+7 (900) 123-45-67",
		"comment":                 "Прошу перезвонить",
		"isPrivacyPolicyAccepted": true,
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp types.SubmissionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Empty(t, resp.Error)

	gateway.AssertExpectations(t)
}

func TestSubmitEquipmentRequest_PassesKindAndInput(t *testing.T) {
	gateway := new(MockSubmissionGateway)

	var gotInput types.SubmissionInput
	gateway.On("Submit", mock.Anything, types.LeadKindEquipment, mock.AnythingOfType("types.SubmissionInput")).
		Run(func(args mock.Arguments) {
			gotInput = args.Get(2).(types.SubmissionInput)
		}).
		Return(nil)

	router := buildSubmissionRouter(gateway)
	w := postJSON(t, router, "/v1/requests/equipment", map[string]interface{}{
		"equipmentId":             "exc-200",
		"equipmentName":           "Экскаватор EXC-200",
		"customerName":            "Иван",
		"email":                   "ivan@mail.ru",
		"isPrivacyPolicyAccepted": true,
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "exc-200", gotInput.EquipmentID)
	assert.Equal(t, "Экскаватор EXC-200", gotInput.EquipmentName)
	assert.True(t, gotInput.ConsentGiven)
}

func TestSubmitContactRequest_FormEncodedBody(t *testing.T) {
	gateway := new(MockSubmissionGateway)
	gateway.On("Submit", mock.Anything, types.LeadKindContact, mock.AnythingOfType("types.SubmissionInput")).Return(nil)

	router := buildSubmissionRouter(gateway)

	form := url.Values{}
	form.Set("customerName", "Иван Иванов")
	form.Set("phone", "89001234567")
	form.Set("isPrivacyPolicyAccepted", "true")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/v1/requests/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSubmitContactRequest_ValidationErrorSurfacesMessage(t *testing.T) {
	gateway := new(MockSubmissionGateway)
	gateway.On("Submit", mock.Anything, types.LeadKindContact, mock.Anything).
		Return(apperrors.ValidationFailed("Пожалуйста, укажите телефон или email", ""))

	router := buildSubmissionRouter(gateway)
	w := postJSON(t, router, "/v1/requests/contact", map[string]interface{}{
		"customerName":            "Иван Иванов",
		"isPrivacyPolicyAccepted": true,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp types.SubmissionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Пожалуйста, укажите телефон или email", resp.Error)
}

func TestSubmitContactRequest_StoreFailure(t *testing.T) {
	gateway := new(MockSubmissionGateway)
	dbErr := &apperrors.AppError{
		Type:       apperrors.DatabaseError,
		Message:    "Произошла ошибка при отправке заявки. Попробуйте позже.",
		HTTPStatus: http.StatusInternalServerError,
	}
	gateway.On("Submit", mock.Anything, types.LeadKindContact, mock.Anything).Return(dbErr)

	router := buildSubmissionRouter(gateway)
	w := postJSON(t, router, "/v1/requests/contact", map[string]interface{}{
		"customerName":            "Иван Иванов",
		"phone":                   "89001234567",
		"isPrivacyPolicyAccepted": true,
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Произошла ошибка при отправке заявки")
}

func TestSubmitContactRequest_MalformedJSON(t *testing.T) {
	gateway := new(MockSubmissionGateway)
	router := buildSubmissionRouter(gateway)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/v1/requests/contact", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	gateway.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything)
}
