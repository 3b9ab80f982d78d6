package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"main/utils"

	"github.com/gin-gonic/gin"
)

func serviceRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ServiceAuthMiddleware())
	router.POST("/sweep", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func TestServiceAuthAcceptsKey(t *testing.T) {
	utils.ServiceAPIKey = "sweep-key"
	router := serviceRouter()

	req := httptest.NewRequest(http.MethodPost, "/sweep", nil)
	req.Header.Set("X-Service-Key", "sweep-key")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestServiceAuthRejectsMissingOrWrongKey(t *testing.T) {
	utils.ServiceAPIKey = "sweep-key"
	router := serviceRouter()

	for _, key := range []string{"", "wrong-key"} {
		req := httptest.NewRequest(http.MethodPost, "/sweep", nil)
		if key != "" {
			req.Header.Set("X-Service-Key", key)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("key %q: status = %d, want 401", key, w.Code)
		}
	}
}
