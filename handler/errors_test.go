package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"main/model"

	"github.com/gin-gonic/gin"
)

func TestRespondErrorMapsTaxonomy(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("bad input: %w", model.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("bad credential: %w", model.ErrUnauthorized), http.StatusUnauthorized},
		{fmt.Errorf("scope miss: %w", model.ErrForbidden), http.StatusForbidden},
		{fmt.Errorf("gone: %w", model.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("lost race: %w", model.ErrStateConflict), http.StatusConflict},
		{fmt.Errorf("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		respondError(c, tt.err)
		if w.Code != tt.want {
			t.Errorf("respondError(%v) = %d, want %d", tt.err, w.Code, tt.want)
		}
	}
}
