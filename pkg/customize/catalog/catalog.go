// Package catalog implements the material catalog collaborator over
// the storefront's HTTP API.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dixieflatline76/Muralist/pkg/provider"
	"github.com/dixieflatline76/Muralist/util/log"
)

// Client fetches material (paper type) options for a product. Fetch
// failure is non-fatal to the customization flow; callers proceed with
// an empty list and commit stays blocked until a retry succeeds.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a catalog client against baseURL.
func NewClient(baseURL string, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{}
	}
	return &Client{baseURL: baseURL, client: client}
}

// Name returns the catalog name for logging.
func (c *Client) Name() string {
	return "Storefront Catalog"
}

// FetchMaterials lists the materials offered for a product. Swatch
// image URLs are probed in parallel; dead ones are cleared so the UI
// renders those options as text only instead of broken images.
func (c *Client) FetchMaterials(ctx context.Context, productID string) ([]provider.MaterialOption, error) {
	url := fmt.Sprintf("%s/products/%s/materials", c.baseURL, productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching materials: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching materials: status %d", resp.StatusCode)
	}

	var materials []provider.MaterialOption
	if err := json.NewDecoder(resp.Body).Decode(&materials); err != nil {
		return nil, fmt.Errorf("decoding materials: %w", err)
	}

	c.probeSwatches(ctx, materials)
	return materials, nil
}

// GetProduct fetches one product record, so Client also serves as the
// pipeline's ProductSource.
func (c *Client) GetProduct(ctx context.Context, productID string) (provider.Product, error) {
	url := fmt.Sprintf("%s/products/%s", c.baseURL, productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return provider.Product{}, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return provider.Product{}, fmt.Errorf("fetching product: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return provider.Product{}, fmt.Errorf("fetching product: status %d", resp.StatusCode)
	}

	var p struct {
		ID              string  `json:"id"`
		Name            string  `json:"name"`
		BasePrice       float64 `json:"base_price"`
		DiscountPercent float64 `json:"discount_percent"`
		DiscountAmount  float64 `json:"discount_amount"`
		ImageURL        string  `json:"image_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return provider.Product{}, fmt.Errorf("decoding product: %w", err)
	}
	return provider.Product(p), nil
}

// probeSwatches HEADs each swatch URL with a bounded worker count.
func (c *Client) probeSwatches(ctx context.Context, materials []provider.MaterialOption) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	var mu sync.Mutex
	for i := range materials {
		if materials[i].ImageURL == "" {
			continue
		}
		i := i
		g.Go(func() error {
			if !c.swatchAlive(ctx, materials[i].ImageURL) {
				mu.Lock()
				log.Debugf("Swatch unreachable for material %s, dropping image", materials[i].ID)
				materials[i].ImageURL = ""
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (c *Client) swatchAlive(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
