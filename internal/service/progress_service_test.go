package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"fittrack/internal/repository"
)

// fakeFileStorage records presign calls without touching a bucket.
type fakeFileStorage struct {
	uploadErr error
}

func (f *fakeFileStorage) GeneratePresignedUploadURL(_ context.Context, objectKey, _ string, _ time.Duration) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	return "https://bucket.test/upload/" + objectKey, nil
}

func (f *fakeFileStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://bucket.test/download/" + objectKey, nil
}

func (f *fakeFileStorage) DeleteObject(context.Context, string) error { return nil }

func newTestProgressService(t *testing.T) (ProgressService, repository.Store, *fakeFileStorage) {
	t.Helper()
	store := newTestStore(t)
	fs := &fakeFileStorage{}
	return NewProgressService(store.Progress(), fs), store, fs
}

func TestProgressEntryLifecycle(t *testing.T) {
	svc, _, _ := newTestProgressService(t)
	ctx := context.Background()

	weight := 82.4
	entry, err := svc.CreateEntry(ctx, testUserID, CreateProgressEntryInput{
		RecordedAt: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
		WeightKg:   &weight,
		Notes:      "morning weigh-in",
	})
	if err != nil {
		t.Fatalf("CreateEntry() = %v", err)
	}

	entries, err := svc.ListEntries(ctx, testUserID, nil, nil)
	if err != nil {
		t.Fatalf("ListEntries() = %v", err)
	}
	if len(entries) != 1 || entries[0].ID != entry.ID {
		t.Fatalf("ListEntries() = %d rows, want the created entry", len(entries))
	}

	if err := svc.DeleteEntry(ctx, testUserID, entry.ID); err != nil {
		t.Fatalf("DeleteEntry() = %v", err)
	}
	if err := svc.DeleteEntry(ctx, testUserID, entry.ID); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("second DeleteEntry() = %v, want ErrEntryNotFound", err)
	}
}

func TestPhotoUploadFlow(t *testing.T) {
	svc, _, _ := newTestProgressService(t)
	ctx := context.Background()

	grant, err := svc.RequestPhotoUploadURL(ctx, testUserID, "image/jpeg")
	if err != nil {
		t.Fatalf("RequestPhotoUploadURL() = %v", err)
	}
	if !strings.HasPrefix(grant.ObjectKey, "photos/"+testUserID+"/") {
		t.Errorf("object key %q outside the user's prefix", grant.ObjectKey)
	}
	if !strings.HasSuffix(grant.ObjectKey, ".jpeg") {
		t.Errorf("object key %q missing extension from content type", grant.ObjectKey)
	}
	if grant.UploadURL == "" {
		t.Error("empty upload URL")
	}

	photo, err := svc.ConfirmPhoto(ctx, testUserID, grant.ObjectKey, "image/jpeg", 1024, time.Time{})
	if err != nil {
		t.Fatalf("ConfirmPhoto() = %v", err)
	}
	if photo.TakenAt.IsZero() {
		t.Error("ConfirmPhoto() left TakenAt zero")
	}

	views, err := svc.ListPhotos(ctx, testUserID)
	if err != nil {
		t.Fatalf("ListPhotos() = %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("got %d photos, want 1", len(views))
	}
	if views[0].DownloadURL == "" {
		t.Error("photo view missing download URL")
	}
}

func TestPhotoUploadRejectsNonImages(t *testing.T) {
	svc, _, _ := newTestProgressService(t)
	ctx := context.Background()

	for _, contentType := range []string{"", "application/pdf", "text/plain"} {
		if _, err := svc.RequestPhotoUploadURL(ctx, testUserID, contentType); !errors.Is(err, ErrInvalidContentType) {
			t.Errorf("RequestPhotoUploadURL(%q) = %v, want ErrInvalidContentType", contentType, err)
		}
	}
}

func TestConfirmPhotoRejectsForeignKey(t *testing.T) {
	svc, _, _ := newTestProgressService(t)
	ctx := context.Background()

	if _, err := svc.ConfirmPhoto(ctx, testUserID, "photos/other-user/x.jpeg", "image/jpeg", 10, time.Now()); !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("ConfirmPhoto() with foreign key = %v, want ErrValidationFailed", err)
	}
}

func TestPhotoUploadURLFailure(t *testing.T) {
	svc, _, fs := newTestProgressService(t)
	fs.uploadErr = errors.New("bucket unreachable")

	if _, err := svc.RequestPhotoUploadURL(context.Background(), testUserID, "image/png"); !errors.Is(err, ErrUploadURLError) {
		t.Fatalf("RequestPhotoUploadURL() = %v, want ErrUploadURLError", err)
	}
}
