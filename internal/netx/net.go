// Package netx holds plain HTTP helpers that sit outside the API client,
// such as fetching objects through presigned storage URLs.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Download fetches url with GET and returns the body. Presigned URLs carry
// their own credentials, so no Authorization header is sent.
func Download(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("download failed: %s; body: %s", resp.Status, string(b))
	}

	return io.ReadAll(resp.Body)
}
