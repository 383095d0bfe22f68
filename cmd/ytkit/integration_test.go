//go:build integration

package main

import (
	"context"
	"testing"
	"time"

	_ "gocloud.dev/blob/s3blob"

	"github.com/maggiben/ytkit/internal/testutils"
)

func TestCLIIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	files := []testutils.MediaFile{
		{Name: "first.mp4", Size: 256 * 1024},
		{Name: "second.webm", Size: 1024 * 1024},
	}
	for i := range files {
		files[i].Data = testutils.GenerateTestData(t, files[i].Size)
	}

	t.Log("Starting media test server...")
	server := testutils.StartMediaServer(t, files)
	defer server.Close()

	t.Log("Starting Minio container...")
	minio := testutils.StartMinioContainer(t, ctx, "cli-test-bucket")
	defer func() {
		if err := minio.Close(ctx); err != nil {
			t.Logf("failed to terminate minio container: %v", err)
		}
	}()

	t.Run("list", func(t *testing.T) {
		exitCode := runList([]string{
			"-playlist", server.URL + "/media/",
			"-source", "index",
		})
		if exitCode != ExitSuccess {
			t.Fatalf("list failed with exit code %d", exitCode)
		}
	})

	t.Run("download", func(t *testing.T) {
		exitCode := runDownload([]string{
			"-playlist", server.URL + "/media/",
			"-source", "index",
			"-bucket", minio.BucketURL,
			"-template", "{id}",
			"-concurrency", "2",
			"-retry-budget", "1",
			"-stall-timeout", "1m",
		})
		if exitCode != ExitSuccess {
			t.Fatalf("download failed with exit code %d", exitCode)
		}
	})

	t.Run("verify", func(t *testing.T) {
		bucket, err := minio.OpenBucket(ctx)
		if err != nil {
			t.Fatalf("open bucket: %v", err)
		}
		defer bucket.Close()

		for _, f := range files {
			reader, err := bucket.NewReader(ctx, f.Name, nil)
			if err != nil {
				t.Fatalf("open stored object %s: %v", f.Name, err)
			}
			testutils.CompareReaderToData(t, reader, f.Data)
			reader.Close()
		}
	})

	t.Run("missing flags", func(t *testing.T) {
		if exitCode := runDownload(nil); exitCode != ExitInvalidArgs {
			t.Fatalf("expected invalid args exit code, got %d", exitCode)
		}
	})
}
