package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketplace/settlement/internal/domain/shared"
	"github.com/marketplace/settlement/internal/interfaces/http/dto"
)

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/test", nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBaseHandler_Success(t *testing.T) {
	c, w := newTestContext(t)

	h := &BaseHandler{}
	h.Success(c, map[string]int{"processed": 3})

	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
}

func TestBaseHandler_BadRequest(t *testing.T) {
	c, w := newTestContext(t)

	h := &BaseHandler{}
	h.BadRequest(c, "Invalid request body")

	assert.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
	assert.Equal(t, "Invalid request body", resp.Error.Message)
}

func TestBaseHandler_ErrorIncludesRequestID(t *testing.T) {
	c, w := newTestContext(t)
	c.Set("request_id", "req-abc-123")

	h := &BaseHandler{}
	h.InternalError(c, "Something broke")

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	resp := decodeResponse(t, w)
	assert.Equal(t, "req-abc-123", resp.Error.RequestID)
}

func TestBaseHandler_HandleError_DomainError(t *testing.T) {
	c, w := newTestContext(t)

	h := &BaseHandler{}
	h.HandleError(c, shared.NewDomainError("INVALID_STATE", "Settlement is not pending"))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeInvalidState, resp.Error.Code)
	assert.Equal(t, "Settlement is not pending", resp.Error.Message)
}

func TestBaseHandler_HandleError_WrappedDomainError(t *testing.T) {
	c, w := newTestContext(t)

	domainErr := shared.NewDomainError("INVALID_PERIOD", "Period end must be after period start")
	wrapped := errors.Join(errors.New("save failed"), domainErr)

	h := &BaseHandler{}
	h.HandleError(c, wrapped)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeInvalidInput, resp.Error.Code)
}

func TestBaseHandler_HandleError_UnknownError(t *testing.T) {
	c, w := newTestContext(t)

	h := &BaseHandler{}
	h.HandleError(c, errors.New("driver: bad connection"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
	assert.Equal(t, "An unexpected error occurred", resp.Error.Message)
}

func TestBaseHandler_HandleError_NilError(t *testing.T) {
	c, w := newTestContext(t)

	h := &BaseHandler{}
	h.HandleError(c, nil)

	assert.Empty(t, w.Body.Bytes())
}

func TestBaseHandler_ValidationError(t *testing.T) {
	c, w := newTestContext(t)

	h := &BaseHandler{}
	h.ValidationError(c, []dto.ValidationDetail{
		{Field: "target_date", Message: "must be in YYYY-MM-DD format"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "target_date", resp.Error.Details[0].Field)
}
