package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/quangvu-go/pricehub/internal/repository"
	"github.com/quangvu-go/pricehub/internal/service"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid request", service.ErrInvalidRequest, http.StatusBadRequest},
		{"user not found", repository.ErrUserNotFound, http.StatusNotFound},
		{"wallet not found", repository.ErrWalletNotFound, http.StatusNotFound},
		{"trade not found", repository.ErrTradeNotFound, http.StatusNotFound},
		{"price unavailable", service.ErrPriceUnavailable, http.StatusServiceUnavailable},
		{"insufficient balance", service.ErrInsufficientBalance, http.StatusUnprocessableEntity},
		{"concurrency exhausted", service.ErrConcurrencyExhausted, http.StatusConflict},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(recorder)

			respondError(c, tc.err)

			if recorder.Code != tc.status {
				t.Errorf("Expected status %d, got %d", tc.status, recorder.Code)
			}

			var body APIResponse
			if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
				t.Fatalf("Invalid response body: %v", err)
			}
			if body.Success {
				t.Error("Expected success=false on error response")
			}
			if body.Message == "" {
				t.Error("Expected a non-empty message")
			}
		})
	}
}

func TestRespondErrorHidesInternalDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)

	respondError(c, errors.New("pq: connection refused at 10.0.0.5"))

	var body APIResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid response body: %v", err)
	}
	if body.Message != "internal server error" {
		t.Errorf("Internal error detail leaked to client: %q", body.Message)
	}
}

func TestParseUserID(t *testing.T) {
	if _, err := parseUserID("0"); err == nil {
		t.Error("Expected error for zero user ID")
	}
	if _, err := parseUserID("-3"); err == nil {
		t.Error("Expected error for negative user ID")
	}
	if _, err := parseUserID("abc"); err == nil {
		t.Error("Expected error for non-numeric user ID")
	}

	id, err := parseUserID("42")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if id != 42 {
		t.Errorf("Expected 42, got %d", id)
	}
}
