package customize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/dixieflatline76/Muralist/pkg/provider"
)

// Compose assembles the purchasable line item from a snapshot of the
// customization state. imageRef is the rasterized crop URL when
// cropping succeeded; pass the empty string to fall back to the
// product's original image. The attribute labels are built in a fixed
// order (width, height, material, cropping flag, crop reference),
// omitting absent entries but never reordering present ones.
func Compose(product provider.Product, dim Dimension, material *provider.MaterialOption, croppingEnabled bool, price PriceResult, imageRef string) (provider.CartLine, error) {
	if !dim.Complete() || price.AreaM2 <= 0 {
		return provider.CartLine{}, ErrIncompleteDimension
	}
	if material == nil {
		return provider.CartLine{}, ErrMissingMaterial
	}

	ref := imageRef
	cropped := ref != ""
	if !cropped {
		ref = product.ImageURL
	}

	labels := []string{
		fmt.Sprintf("Width: %g cm", dim.WidthCm),
		fmt.Sprintf("Height: %g cm", dim.HeightCm),
		fmt.Sprintf("Material: %s", material.Name),
		fmt.Sprintf("Cropping: %v", croppingEnabled),
	}
	if cropped {
		labels = append(labels, fmt.Sprintf("Cropped image: %s", ref))
	}

	return provider.CartLine{
		ID:              uuid.NewString(),
		ProductID:       product.ID,
		UnitPrice:       price.UnitPrice,
		Total:           price.Total,
		WidthCm:         dim.WidthCm,
		HeightCm:        dim.HeightCm,
		MaterialID:      material.ID,
		CroppingEnabled: croppingEnabled,
		ImageRef:        ref,
		AttributeLabels: labels,
	}, nil
}

// HTTPCartSink appends cart lines to the storefront cart endpoint.
type HTTPCartSink struct {
	endpoint string
	client   *http.Client
}

// NewHTTPCartSink creates a sink posting to endpoint.
func NewHTTPCartSink(endpoint string, client *http.Client) *HTTPCartSink {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPCartSink{endpoint: endpoint, client: client}
}

// Append posts one cart line.
func (s *HTTPCartSink) Append(ctx context.Context, line provider.CartLine) error {
	body, err := json.Marshal(line)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint+"/lines", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("appending cart line: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("appending cart line: status %d", resp.StatusCode)
	}
	return nil
}
