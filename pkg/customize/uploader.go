package customize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// HTTPUploadSink uploads encoded crops to the storefront's file
// storage endpoint. A rate limiter keeps commits from hammering the
// storage service; no internal retry is applied, a failed upload is
// reported to the caller who falls back to the original image.
type HTTPUploadSink struct {
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
}

// NewHTTPUploadSink creates a sink posting to endpoint.
func NewHTTPUploadSink(endpoint string, client *http.Client) *HTTPUploadSink {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPUploadSink{
		endpoint: endpoint,
		client:   client,
		limiter:  rate.NewLimiter(rate.Limit(5), 10),
	}
}

// Upload posts one payload and returns the durable reference URL.
func (s *HTTPUploadSink) Upload(ctx context.Context, productID string, payload []byte, contentType string) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/products/%s/crops/%s", s.endpoint, productID, uuid.NewString())
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("uploading payload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("uploading payload: status %d", resp.StatusCode)
	}

	var result struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding upload response: %w", err)
	}
	if result.URL == "" {
		return "", fmt.Errorf("upload response missing url")
	}
	return result.URL, nil
}
