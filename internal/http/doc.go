// Package http provides an HTTP client tuned for media stream downloads.
//
// This package handles:
//   - Connection pooling for many parallel workers
//   - HEAD requests to get stream metadata
//   - GET requests that stream the response body
//   - Retry with exponential backoff and jitter
//
// # Usage
//
//	client := http.NewClient(Options{
//	    RetryAttempts: 5,
//	})
//
//	// Get stream info
//	info, err := client.Head(ctx, url)
//	// info.Size, info.ContentType
//
//	// Stream the body
//	body, err := client.Get(ctx, url)
//	defer body.Close()
//
// Retries cover connection errors and 5xx responses up to the first byte of
// the body. Once Get has returned, a stalled or broken body read is the
// caller's problem; workers handle that with their own stall detection.
package http
