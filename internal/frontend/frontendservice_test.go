package frontend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/jo-hoe/schoolbook/internal/backend/validation"
	"github.com/jo-hoe/schoolbook/internal/core"
)

func newTestFrontend(t *testing.T) (*echo.Echo, *core.CoreService) {
	t.Helper()

	config := &core.ServiceConfig{
		Port: 8080,
		Database: core.DatabaseConfig{
			Type:             "sqlite",
			ConnectionString: ":memory:",
		},
		Storage: core.StorageConfig{
			Type:      "filesystem",
			Directory: t.TempDir(),
		},
		Image: core.ImageConfig{Width: 400, Height: 300, Quality: 85},
	}

	coreService, err := core.NewCoreService(config)
	if err != nil {
		t.Fatalf("NewCoreService error: %v", err)
	}
	t.Cleanup(func() { _ = coreService.Close() })

	e := echo.New()
	NewFrontendService(config, coreService).SetRoutes(e)
	return e, coreService
}

func TestRootRedirectsToListing(t *testing.T) {
	server, _ := newTestFrontend(t)

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	if recorder.Code != http.StatusMovedPermanently {
		t.Fatalf("expected 301, got %d", recorder.Code)
	}
	if location := recorder.Header().Get(echo.HeaderLocation); location != "/showSchools" {
		t.Errorf("expected redirect to /showSchools, got %q", location)
	}
}

func TestAddSchoolPageRenders(t *testing.T) {
	server, _ := newTestFrontend(t)

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/addSchool", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	body := recorder.Body.String()
	for _, field := range []string{"name", "address", "city", "state", "contact", "email_id", "image"} {
		if !strings.Contains(body, `name="`+field+`"`) {
			t.Errorf("expected form field %q on page", field)
		}
	}
}

func TestShowSchoolsPage_Empty(t *testing.T) {
	server, _ := newTestFrontend(t)

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/showSchools", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "No schools registered yet") {
		t.Error("expected empty-state message")
	}
}

func TestShowSchoolsPage_RendersRecordWithPlaceholder(t *testing.T) {
	server, coreService := newTestFrontend(t)

	_, err := coreService.AddSchool(context.Background(), &validation.Submission{
		Name:    "Springfield Elementary",
		Address: "19 Plympton Street",
		City:    "Springfield",
		State:   "Oregon",
		Contact: "5551234567",
		Email:   "office@springfield.edu",
	})
	if err != nil {
		t.Fatalf("AddSchool error: %v", err)
	}

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/showSchools", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	body := recorder.Body.String()
	if !strings.Contains(body, "Springfield Elementary") {
		t.Error("expected school name on page")
	}
	if !strings.Contains(body, "/images/placeholder") {
		t.Error("expected placeholder image for record without an image")
	}
}
