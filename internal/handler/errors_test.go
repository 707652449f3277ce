package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"silkrhyme/internal/apperror"
	"silkrhyme/internal/dto"
	"silkrhyme/internal/model"
	"silkrhyme/internal/service"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func serveError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zap.NewNop())(err, c)
	return rec
}

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"app error", apperror.BadRequest("缺少城市参数"), http.StatusBadRequest, "缺少城市参数"},
		{"wrapped app error", errors.Join(errors.New("ctx"), apperror.NotFound("未找到该城市")), http.StatusNotFound, "未找到该城市"},
		{"echo error", echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"), http.StatusMethodNotAllowed, "Method Not Allowed"},
		{"unknown error", errors.New("dial tcp: secret host"), http.StatusInternalServerError, "服务器内部错误"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveError(t, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body dto.MessageResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMsg, body.Message)
		})
	}
}

func TestHTTPErrorHandler_CheckoutKeepsOrder(t *testing.T) {
	err := &service.CheckoutError{
		Err:   apperror.New(http.StatusBadGateway, "支付渠道暂不可用", nil),
		Order: &model.Order{ID: 555, TotalAmount: "176.00"},
	}

	rec := serveError(t, err)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"message":"支付渠道暂不可用","order":{"id":555,"total_amount":"176.00"}}`, rec.Body.String())
}

func TestValidator(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&dto.ItineraryRequest{})
	appErr := apperror.From(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, "缺少参数：destination", appErr.Message)

	err = v.Validate(&dto.RegisterRequest{Email: "not-an-email", Password: "pw", Code: "1"})
	assert.Equal(t, "邮箱格式无效", apperror.MessageOf(err, ""))

	assert.NoError(t, v.Validate(&dto.ItineraryRequest{Destination: "praha"}))
}
