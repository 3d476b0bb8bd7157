package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type stubChecker struct {
	err error
}

func (s stubChecker) Check(ctx context.Context) error {
	return s.err
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name           string
		checkErr       error
		expectedStatus int
		expectedState  string
	}{
		{"workbook reachable", nil, http.StatusOK, "ok"},
		{"workbook missing", errors.New("stat contracts.xlsx: no such file"), http.StatusServiceUnavailable, "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/health", NewHealthHandler(stubChecker{err: tt.checkErr}).Health)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			var response map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				t.Fatalf("Failed to parse response: %v", err)
			}
			if response["status"] != tt.expectedState {
				t.Errorf("Expected status '%s', got '%s'", tt.expectedState, response["status"])
			}
			if response["timestamp"] == "" {
				t.Error("Expected timestamp in response")
			}
		})
	}
}
