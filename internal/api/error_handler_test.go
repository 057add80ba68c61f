package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/smart-city-lviv/civic-backend/internal/core/domain"
)

func render(t *testing.T, err error, production bool) (int, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop(), production)(err, c)

	var body struct {
		ErrorMessage string `json:"errorMessage"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not the error envelope: %v (%s)", err, rec.Body.String())
	}
	return rec.Code, body.ErrorMessage
}

func TestErrorHandler_DomainErrorStatuses(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"missing credential", domain.ErrMissingCredential, http.StatusUnauthorized},
		{"identity mismatch", domain.ErrIdentityMismatch, http.StatusUnauthorized},
		{"forbidden", fmt.Errorf("%w ivan@lviv.ua DELETE /api/projects", domain.ErrForbidden), http.StatusUnauthorized},
		{"not found", domain.ErrNotFound, http.StatusBadRequest},
		{"invalid rule set", domain.ErrInvalidRuleSet, http.StatusBadRequest},
		{"invalid image", domain.ErrInvalidImage, http.StatusBadRequest},
		{"rate limited", domain.ErrProviderRateLimited, http.StatusBadGateway},
		{"provider down", domain.ErrProviderUnavailable, http.StatusBadGateway},
		{"verify timeout", domain.ErrVerifyTimeout, http.StatusServiceUnavailable},
		{"storage", fmt.Errorf("%w: write failed", domain.ErrStorage), http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		code, msg := render(t, tc.err, false)
		if code != tc.code {
			t.Errorf("%s: status %d, want %d", tc.name, code, tc.code)
		}
		if msg == "" {
			t.Errorf("%s: empty errorMessage", tc.name)
		}
	}
}

func TestErrorHandler_EchoErrorsKeepTheirCode(t *testing.T) {
	code, msg := render(t, echo.NewHTTPError(http.StatusBadRequest, "empty document"), false)
	if code != http.StatusBadRequest {
		t.Errorf("status %d", code)
	}
	if msg != "empty document" {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestErrorHandler_UnexpectedErrorHiddenInProduction(t *testing.T) {
	boom := errors.New("mongo topology closed")

	code, msg := render(t, boom, true)
	if code != http.StatusInternalServerError {
		t.Errorf("status %d", code)
	}
	if msg != "internal server error" {
		t.Errorf("production leaked %q", msg)
	}

	_, msg = render(t, boom, false)
	if msg != "mongo topology closed" {
		t.Errorf("development should surface the cause, got %q", msg)
	}
}
