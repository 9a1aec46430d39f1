package gateway

import (
	"context"
	"net/http"

	"medibook/models"
)

// CatalogClient implements booking.CatalogSource against the medical API's
// service catalog. The flow uses it to recompute the payment amount at
// redirect time so last-moment price changes are charged correctly.
type CatalogClient struct {
	*Client
}

// NewCatalogClient returns a catalog source for the given API base URL.
func NewCatalogClient(baseURL string) *CatalogClient {
	return &CatalogClient{Client: NewClient(baseURL)}
}

type serviceResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	DiscountPrice float64 `json:"discount_price"`
	Time          int     `json:"time"`
}

// GetService fetches the current service record.
func (c *CatalogClient) GetService(ctx context.Context, serviceID string) (*models.ServiceInfo, error) {
	var resp serviceResponse
	if err := c.doJSON(ctx, http.MethodGet, "/services/"+serviceID, "", nil, &resp); err != nil {
		return nil, err
	}
	return &models.ServiceInfo{
		ID:              resp.ID,
		Name:            resp.Name,
		Price:           resp.Price,
		DiscountPrice:   resp.DiscountPrice,
		DurationMinutes: resp.Time,
	}, nil
}
