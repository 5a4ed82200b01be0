package localmedia

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aulahub/aulahub-backend/internal/platform/logger"
)

func newTestStore(t *testing.T) (Uploader, string) {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	dir := t.TempDir()
	up, err := New(dir, "/media", log)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return up, dir
}

func TestUpload_ContentAddressedAndServable(t *testing.T) {
	up, dir := newTestStore(t)

	url, err := up.Upload(context.Background(), "avatar.png", []byte("png-bytes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(url, "/media/") || !strings.HasSuffix(url, ".png") {
		t.Fatalf("unexpected url %q", url)
	}

	onDisk := filepath.Join(dir, strings.TrimPrefix(url, "/media/"))
	data, err := os.ReadFile(onDisk)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("content mismatch: %q", data)
	}
}

func TestUpload_SameContentSameURL(t *testing.T) {
	up, _ := newTestStore(t)

	first, err := up.Upload(context.Background(), "a.png", []byte("same"))
	if err != nil {
		t.Fatalf("first upload: %v", err)
	}
	second, err := up.Upload(context.Background(), "b.png", []byte("same"))
	if err != nil {
		t.Fatalf("second upload: %v", err)
	}
	if first != second {
		t.Fatalf("identical content should dedupe to one url: %q vs %q", first, second)
	}
}
