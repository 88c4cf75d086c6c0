package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/petersg83/trackdechets/internal/bsda/validation/ports"
)

// HTTPClient queries the company registry service over HTTP. A 404 maps to
// ports.ErrCompanyNotFound; any other non-2xx status or transport failure is
// a lookup error that fails the parse.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type companyPayload struct {
	OrgID     string   `json:"orgId"`
	Siret     string   `json:"siret"`
	VatNumber string   `json:"vatNumber"`
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Contact   string   `json:"contact"`
	Profiles  []string `json:"companyTypes"`

	TransporterReceipt *struct {
		ReceiptNumber string    `json:"receiptNumber"`
		Department    string    `json:"department"`
		ValidityLimit time.Time `json:"validityLimit"`
	} `json:"transporterReceipt"`
}

func (c *HTTPClient) Lookup(ctx context.Context, orgID string) (*ports.CompanyInfo, error) {
	endpoint := c.baseURL + "/companies/" + url.PathEscape(orgID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build registry request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("registry request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ports.ErrCompanyNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("registry returned status %d for %s", resp.StatusCode, orgID)
	}

	var payload companyPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode registry response: %w", err)
	}
	return payload.toCompanyInfo(), nil
}

func (p *companyPayload) toCompanyInfo() *ports.CompanyInfo {
	info := &ports.CompanyInfo{
		OrgID:     p.OrgID,
		Siret:     p.Siret,
		VatNumber: p.VatNumber,
		Name:      p.Name,
		Address:   p.Address,
		Contact:   p.Contact,
	}
	for _, profile := range p.Profiles {
		info.Profiles = append(info.Profiles, ports.CompanyProfile(profile))
	}
	if p.TransporterReceipt != nil {
		info.TransporterReceipt = &ports.TransporterReceipt{
			ReceiptNumber: p.TransporterReceipt.ReceiptNumber,
			Department:    p.TransporterReceipt.Department,
			ValidityLimit: p.TransporterReceipt.ValidityLimit,
		}
	}
	return info
}
