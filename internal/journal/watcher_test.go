package journal

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestReconcileMedia(t *testing.T) {
	r := testRepo(t, nil)
	dir := t.TempDir()
	files, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}

	h := saveHike(t, r, "H")
	if err := files.Write("present.jpg", []byte("data")); err != nil {
		t.Fatal(err)
	}
	_, _ = r.AddMedia(models.Media{HikeID: h.ID, URI: "present.jpg"})
	_, _ = r.AddMedia(models.Media{HikeID: h.ID, URI: "missing.jpg"})
	_, _ = r.AddMedia(models.Media{HikeID: h.ID, URI: "https://example.com/remote.jpg"})

	ReconcileMedia(r, files, discardLogger())

	uris, _ := r.MediaURIs()
	if _, ok := uris["present.jpg"]; !ok {
		t.Error("present.jpg should survive reconcile")
	}
	if _, ok := uris["missing.jpg"]; ok {
		t.Error("missing.jpg should be pruned")
	}
	if _, ok := uris["https://example.com/remote.jpg"]; !ok {
		t.Error("remote URIs must never be reconciled against disk")
	}
}

func TestIsLocalURI(t *testing.T) {
	cases := []struct {
		uri  string
		want bool
	}{
		{"abc123.jpg", true},
		{"", false},
		{"sub/dir.jpg", false},
		{`win\path.jpg`, false},
		{"https://example.com/x.jpg", false},
		{"content://media/external/images/1", false},
	}
	for _, tc := range cases {
		if got := isLocalURI(tc.uri); got != tc.want {
			t.Errorf("isLocalURI(%q) = %v, want %v", tc.uri, got, tc.want)
		}
	}
}

func TestWatchMediaDirPrunesOnRemove(t *testing.T) {
	r := testRepo(t, nil)
	dir := t.TempDir()
	files, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}

	h := saveHike(t, r, "Watched")
	if err := files.Write("doomed.jpg", []byte("bytes")); err != nil {
		t.Fatal(err)
	}
	if _, err := r.AddMedia(models.Media{HikeID: h.ID, URI: "doomed.jpg"}); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- WatchMediaDir(ctx, r, files, dir, discardLogger()) }()

	// Give the watcher time to register before removing.
	time.Sleep(200 * time.Millisecond)
	if err := files.Delete("doomed.jpg"); err != nil {
		t.Fatal(err)
	}

	// Filesystem notification is asynchronous; poll with a generous deadline.
	deadline := time.Now().Add(5 * time.Second)
	for {
		uris, _ := r.MediaURIs()
		if _, ok := uris["doomed.jpg"]; !ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("media row not pruned after file removal")
		}
		time.Sleep(50 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("WatchMediaDir: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop on cancel")
	}
}
