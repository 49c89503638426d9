package model

import "testing"

func TestMaxUploadSize(t *testing.T) {
	if got := MaxUploadSize(ContentKindVideo); got != 500*megabyte {
		t.Errorf("video cap = %d, want %d", got, 500*megabyte)
	}
	if got := MaxUploadSize(ContentKindImage); got != 10*megabyte {
		t.Errorf("image cap = %d, want %d", got, 10*megabyte)
	}
	// Inline kinds have no upload cap.
	if got := MaxUploadSize(ContentKindText); got != 0 {
		t.Errorf("text cap = %d, want 0", got)
	}
}

func TestIsUploadableKind(t *testing.T) {
	for _, kind := range []ContentKind{ContentKindVideo, ContentKindDocument, ContentKindImage, ContentKindAudio, ContentKindArchive, ContentKindResource} {
		if !IsUploadableKind(kind) {
			t.Errorf("expected %q to be uploadable", kind)
		}
	}
	for _, kind := range []ContentKind{ContentKindText, ContentKindAssignment, ContentKindQuiz} {
		if IsUploadableKind(kind) {
			t.Errorf("expected %q to be inline-only", kind)
		}
	}
}

func TestIsAllowedMIMEType(t *testing.T) {
	if !IsAllowedMIMEType(ContentKindVideo, "video/mp4") {
		t.Error("video/mp4 should be allowed for video")
	}
	if IsAllowedMIMEType(ContentKindVideo, "application/pdf") {
		t.Error("application/pdf should not be allowed for video")
	}
	if !IsAllowedMIMEType(ContentKindDocument, "application/pdf") {
		t.Error("application/pdf should be allowed for document")
	}
	if IsAllowedMIMEType(ContentKindText, "text/plain") {
		t.Error("inline kinds have no MIME allow-list")
	}
}
