package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhaoqin88/roadgen/cmd/server/internal/apperr"
)

type errorEnvelope struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details"`
	} `json:"error"`
}

func runRespondError(t *testing.T, err error) (*httptest.ResponseRecorder, errorEnvelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/test", nil)

	respondError(c, err)

	var env errorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestRespondErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", apperr.Validation(apperr.CodeInvalidFileType, "bad type"), http.StatusBadRequest, "INVALID_FILE_TYPE"},
		{"unauthorized", apperr.Unauthorized("nope"), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"not found", apperr.NotFound("missing"), http.StatusNotFound, "NOT_FOUND"},
		{"malformed", apperr.Malformed("not an object"), http.StatusUnprocessableEntity, "MALFORMED_ROADMAP"},
		{"upstream", apperr.Upstream("model failed", nil), http.StatusBadGateway, "UPSTREAM_ERROR"},
		{"upstream timeout", apperr.UpstreamTimeout("slow", nil), http.StatusGatewayTimeout, "TIMEOUT_ERROR"},
		{"store", apperr.Store("write failed", errors.New("disk full")), http.StatusInternalServerError, "STORE_ERROR"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, env := runRespondError(t, tc.err)
			assert.Equal(t, tc.wantStatus, w.Code)
			assert.False(t, env.Success)
			assert.Equal(t, tc.wantCode, env.Error.Code)
		})
	}
}

func TestRespondErrorTimeoutMessage(t *testing.T) {
	_, env := runRespondError(t, apperr.UpstreamTimeout("model stalled", nil))
	assert.Equal(t, timeoutMessage, env.Error.Message)
}

func TestRespondErrorIncludesCauseDetails(t *testing.T) {
	_, env := runRespondError(t, apperr.Store("write failed", errors.New("disk full")))
	assert.Equal(t, "disk full", env.Error.Details)
}

func TestRespondErrorUnknownError(t *testing.T) {
	w, env := runRespondError(t, errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
	assert.Equal(t, "boom", env.Error.Details)
}
