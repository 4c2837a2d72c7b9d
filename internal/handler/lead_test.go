package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"clinic-directory/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockLeadSubmitter is a mock implementation of the LeadSubmitter interface
type MockLeadSubmitter struct {
	mock.Mock
}

func (m *MockLeadSubmitter) Submit(ctx context.Context, name, email, phone, message string) (int64, error) {
	args := m.Called(ctx, name, email, phone, message)
	return args.Get(0).(int64), args.Error(1)
}

func TestLeadHandler_Submit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		form           url.Values
		mockID         int64
		mockError      error
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "accepted with phone only",
			form: url.Values{
				"name":    {"Anna"},
				"phone":   {"+48 600 000 000"},
				"message": {"Proszę o kontakt"},
			},
			mockID:         12,
			expectedStatus: http.StatusCreated,
			expectedBody:   `{"id":12}`,
		},
		{
			name:           "rejected without contact channel",
			form:           url.Values{"name": {"Anna"}},
			mockError:      service.ErrNoContact,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"provide an email or a phone number"}`,
		},
		{
			name:           "storage failure",
			form:           url.Values{"email": {"anna@example.com"}},
			mockError:      assert.AnError,
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockLeadSubmitter)
			mockSvc.On("Submit", mock.Anything,
				tt.form.Get("name"), tt.form.Get("email"), tt.form.Get("phone"), tt.form.Get("message")).
				Return(tt.mockID, tt.mockError)

			handler := NewLeadHandler(mockSvc)

			req := httptest.NewRequest(http.MethodPost, "/lead", strings.NewReader(tt.form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = req

			handler.Submit(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			mockSvc.AssertExpectations(t)
		})
	}
}
