package response_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNewPaginationMeta(t *testing.T) {
	meta := response.NewPaginationMeta(41, 2, 20)
	assert.Equal(t, 3, meta.TotalPages)
	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 20, meta.PageSize)

	assert.Zero(t, response.NewPaginationMeta(5, 1, 0).TotalPages)
}

func TestEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	meta := response.NewPaginationMeta(1, 1, 10)
	response.Success(c, http.StatusOK, []string{"a"}, &meta)
	assert.JSONEq(t, `{"ok":true,"data":["a"],"meta":{"total":1,"totalPages":1,"page":1,"pageSize":10}}`, w.Body.String())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	response.Abort(c, http.StatusForbidden, "FORBIDDEN", "nope")
	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"ok":false,"error":{"code":"FORBIDDEN","message":"nope","details":null}}`, w.Body.String())
}
