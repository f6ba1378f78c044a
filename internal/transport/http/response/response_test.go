package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope(t *testing.T) {
	b, err := json.Marshal(OK(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":0,"msg":"OK","data":{}}`, string(b))

	b, err = json.Marshal(Error(CodeBadRequest, ""))
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":400,"msg":"Bad Request","data":{}}`, string(b))

	assert.Equal(t, "page out of range", Error(CodeBadRequest, "page out of range").Msg)
}

func TestAbort(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Abort(c, CodeTooManyRequests, "")

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":429,"msg":"Too Many Requests","data":{}}`, w.Body.String())
}
