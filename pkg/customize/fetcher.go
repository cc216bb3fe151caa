package customize

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"

	"github.com/dixieflatline76/Muralist/pkg/provider"
)

// maxSourceBytes bounds how much image data one fetch will read.
const maxSourceBytes = 64 << 20

// userAgentTransport stamps a User-Agent header on every request so
// image hosts can identify the service.
type userAgentTransport struct {
	http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	cloned := req.Clone(req.Context())
	cloned.Header.Set("User-Agent", t.userAgent)
	return t.RoundTripper.RoundTrip(cloned)
}

// Fetcher downloads and decodes product photos at natural resolution.
// The decoded image is the single source of truth for rasterization;
// the browser's scaled copy is never uploaded back.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a Fetcher. The client is copied before its
// transport is wrapped with the service User-Agent, so a client shared
// with other components is left untouched. Nil gets a default client.
func NewFetcher(client *http.Client, userAgent string) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}
	wrapped := *client
	base := wrapped.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	wrapped.Transport = &userAgentTransport{RoundTripper: base, userAgent: userAgent}
	return &Fetcher{client: &wrapped}
}

// Fetch downloads the image at url and decodes it. Decode failure is
// ErrNotDecoded so the session keeps its previous display fit instead
// of producing a zero-sized one. An optional source supplies custom
// download headers or its own client, as some image hosts require.
func (f *Fetcher) Fetch(ctx context.Context, url string, source provider.ProductSource) (image.Image, NaturalSize, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NaturalSize{}, err
	}
	if hp, ok := source.(provider.HeaderProvider); ok {
		for k, v := range hp.GetDownloadHeaders() {
			req.Header.Set(k, v)
		}
	}

	client := f.client
	if cp, ok := source.(provider.CustomClientProvider); ok {
		client = cp.GetClient()
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, NaturalSize{}, fmt.Errorf("fetching source image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, NaturalSize{}, fmt.Errorf("fetching source image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSourceBytes))
	if err != nil {
		return nil, NaturalSize{}, fmt.Errorf("reading source image: %w", err)
	}

	img, err := decodeImage(data, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, NaturalSize{}, fmt.Errorf("%w: %v", ErrNotDecoded, err)
	}

	bounds := img.Bounds()
	return img, NaturalSize{Width: bounds.Dx(), Height: bounds.Dy()}, nil
}

// decodeImage decodes a byte slice, preferring the declared content
// type and falling back to format sniffing.
func decodeImage(data []byte, contentType string) (image.Image, error) {
	switch contentType {
	case "image/png":
		return png.Decode(bytes.NewReader(data))
	case "image/jpeg":
		return jpeg.Decode(bytes.NewReader(data))
	default:
		img, _, err := image.Decode(bytes.NewReader(data))
		return img, err
	}
}
