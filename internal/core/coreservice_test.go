package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jo-hoe/schoolbook/internal/backend/validation"
)

func newTestCoreService(t *testing.T) *CoreService {
	t.Helper()

	config := &ServiceConfig{
		Port: 8080,
		Database: DatabaseConfig{
			Type:             "sqlite",
			ConnectionString: ":memory:",
		},
		Storage: StorageConfig{
			Type:      "filesystem",
			Directory: t.TempDir(),
		},
		Image: ImageConfig{Width: 400, Height: 300, Quality: 85},
	}

	service, err := NewCoreService(config)
	if err != nil {
		t.Fatalf("NewCoreService error: %v", err)
	}
	t.Cleanup(func() { _ = service.Close() })
	return service
}

func testSubmission() *validation.Submission {
	return &validation.Submission{
		Name:    "Springfield Elementary",
		Address: "19 Plympton Street",
		City:    "Springfield",
		State:   "Oregon",
		Contact: "5551234567",
		Email:   "office@springfield.edu",
	}
}

func TestCoreService_AddAndListSchools(t *testing.T) {
	service := newTestCoreService(t)
	ctx := context.Background()

	id, err := service.AddSchool(ctx, testSubmission())
	if err != nil {
		t.Fatalf("AddSchool error: %v", err)
	}
	if id < 1 {
		t.Fatalf("expected id >= 1, got %d", id)
	}

	schools, err := service.ListSchools(ctx)
	if err != nil {
		t.Fatalf("ListSchools error: %v", err)
	}
	if len(schools) != 1 {
		t.Fatalf("expected 1 school, got %d", len(schools))
	}
	if schools[0].ID != id {
		t.Errorf("expected id %d, got %d", id, schools[0].ID)
	}
	if schools[0].Contact != 5551234567 {
		t.Errorf("expected contact 5551234567, got %d", schools[0].Contact)
	}
}

func TestCoreService_AddSchool_ValidationErrorSkipsStore(t *testing.T) {
	service := newTestCoreService(t)
	ctx := context.Background()

	_, err := service.AddSchool(ctx, &validation.Submission{})
	var validationError *validation.ValidationError
	if !errors.As(err, &validationError) {
		t.Fatalf("expected *validation.ValidationError, got %v", err)
	}

	schools, err := service.ListSchools(ctx)
	if err != nil {
		t.Fatalf("ListSchools error: %v", err)
	}
	if len(schools) != 0 {
		t.Fatalf("expected no records after failed validation, got %d", len(schools))
	}
}

func TestCoreService_ListSchools_DegradesMissingImage(t *testing.T) {
	service := newTestCoreService(t)
	ctx := context.Background()

	// Record an image reference, then make it unresolvable by removing
	// the asset out from under the store.
	reference := "1700000000000-9.jpg"
	assetPath := filepath.Join(service.config.Storage.Directory, reference)
	if err := os.WriteFile(assetPath, []byte("jpeg"), 0o644); err != nil {
		t.Fatalf("failed to seed asset: %v", err)
	}

	submission := testSubmission()
	submission.Image = reference
	if _, err := service.AddSchool(ctx, submission); err != nil {
		t.Fatalf("AddSchool error: %v", err)
	}

	schools, err := service.ListSchools(ctx)
	if err != nil {
		t.Fatalf("ListSchools error: %v", err)
	}
	if schools[0].Image != reference {
		t.Fatalf("expected image %q while asset exists, got %q", reference, schools[0].Image)
	}

	if err := os.Remove(assetPath); err != nil {
		t.Fatalf("failed to remove asset: %v", err)
	}

	schools, err = service.ListSchools(ctx)
	if err != nil {
		t.Fatalf("ListSchools after asset removal error: %v", err)
	}
	if len(schools) != 1 {
		t.Fatalf("expected listing to survive missing asset, got %d records", len(schools))
	}
	if schools[0].Image != "" {
		t.Errorf("expected degraded empty image, got %q", schools[0].Image)
	}
}

func TestCoreService_UploadAndResolveImage(t *testing.T) {
	service := newTestCoreService(t)
	ctx := context.Background()

	payload := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 'x'}
	reference, err := service.UploadImage(ctx, payload, "image/png", "crest.png")
	if err != nil {
		t.Fatalf("UploadImage error: %v", err)
	}

	data, mediaType, err := service.ResolveImage(ctx, reference)
	if err != nil {
		t.Fatalf("ResolveImage error: %v", err)
	}
	if mediaType != "image/png" {
		t.Errorf("expected image/png, got %q", mediaType)
	}
	if len(data) != len(payload) {
		t.Errorf("expected %d bytes, got %d", len(payload), len(data))
	}
}
