package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type testRegistrar struct {
	registered bool
}

func (r *testRegistrar) RegisterRoutes(rg *gin.RouterGroup) {
	r.registered = true
	rg.GET("/widgets", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
}

func TestRouter_Setup(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	registrar := &testRegistrar{}
	r := NewRouter(engine)
	r.Register(registrar)
	r.Setup()

	assert.True(t, registrar.registered)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/widgets", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_WithAPIVersion(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	r := NewRouter(engine, WithAPIVersion("v2"))
	r.Register(&testRegistrar{})
	r.Setup()

	req := httptest.NewRequest(http.MethodGet, "/api/v2/widgets", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/widgets", nil)
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_MultipleRegistrars(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	first := &testRegistrar{}
	second := &testRegistrar{}

	r := NewRouter(engine)
	r.Register(first).Register(second)
	r.Setup()

	assert.True(t, first.registered)
	assert.True(t, second.registered)
}
