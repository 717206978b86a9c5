package sellauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Jacobbrewer1/invoicer/pkg/custom"
	"github.com/Jacobbrewer1/invoicer/pkg/entities"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the base URL of the SellAuth API.
const DefaultBaseURL = "https://api.sellauth.com/v1"

// DefaultTimeout bounds a single request, including reading the response body.
const DefaultTimeout = 10 * time.Second

const (
	endpointInvoice  = "invoice"
	endpointInvoices = "invoices"
	endpointShop     = "shop"
)

// errNotFound is internal; callers see a found=false result instead.
var errNotFound = errors.New("not found")

// InvoiceFetcher fetches a single invoice. found is false when the storefront does not know the invoice.
type InvoiceFetcher interface {
	Invoice(ctx context.Context, invoiceID string) (inv *entities.Invoice, found bool, err error)
}

// Shop is the storefront shop.
type Shop struct {
	ID   custom.Text `json:"id"`
	Name string      `json:"name"`
}

// Client is a client for the storefront API of a single shop.
type Client struct {
	apiKey  string
	shopID  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	l       *slog.Logger
}

// New creates a new storefront client.
func New(apiKey, shopID string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		shopID:  shopID,
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: DefaultTimeout},
		limiter: rate.NewLimiter(rate.Limit(5), 5),
		l:       slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	c.baseURL = strings.TrimRight(c.baseURL, "/")
	return c
}

// ShopID returns the shop the client is bound to.
func (c *Client) ShopID() string {
	return c.shopID
}

// Invoice gets a single invoice by ID.
func (c *Client) Invoice(ctx context.Context, invoiceID string) (*entities.Invoice, bool, error) {
	invoiceID = strings.TrimSpace(invoiceID)
	if invoiceID == "" {
		return nil, false, &LookupError{Message: "invoice id is empty"}
	}

	inv := new(entities.Invoice)
	path := fmt.Sprintf("/shops/%s/invoices/%s", url.PathEscape(c.shopID), url.PathEscape(invoiceID))
	err := c.doJSON(ctx, endpointInvoice, path, inv)
	switch {
	case errors.Is(err, errNotFound):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}
	return inv, true, nil
}

// Invoices lists the most recent invoices of the shop.
func (c *Client) Invoices(ctx context.Context) ([]*entities.Invoice, error) {
	var page struct {
		Data []*entities.Invoice `json:"data"`
	}
	path := fmt.Sprintf("/shops/%s/invoices", url.PathEscape(c.shopID))
	if err := c.doJSON(ctx, endpointInvoices, path, &page); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, &LookupError{StatusCode: http.StatusNotFound, Message: "shop not found"}
		}
		return nil, err
	}
	return page.Data, nil
}

// Shop gets the shop the client is bound to. It is used to validate the credentials.
func (c *Client) Shop(ctx context.Context) (*Shop, error) {
	shop := new(Shop)
	path := fmt.Sprintf("/shops/%s", url.PathEscape(c.shopID))
	if err := c.doJSON(ctx, endpointShop, path, shop); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, &LookupError{StatusCode: http.StatusNotFound, Message: "shop not found"}
		}
		return nil, err
	}
	return shop, nil
}

func (c *Client) doJSON(ctx context.Context, endpoint, path string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &LookupError{Message: "rate limiter", Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &LookupError{Message: "building request", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	c.l.Debug("Requesting storefront API", slog.String("endpoint", endpoint), slog.String("path", path))

	t := prometheus.NewTimer(APILatency.WithLabelValues(endpoint))
	defer t.ObserveDuration()

	res, err := c.http.Do(req)
	if err != nil {
		APITotalRequests.WithLabelValues(endpoint, "0").Inc()
		return &LookupError{Message: "request failed", Err: err}
	}
	defer res.Body.Close()

	APITotalRequests.WithLabelValues(endpoint, strconv.Itoa(res.StatusCode)).Inc()

	if res.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return &LookupError{StatusCode: res.StatusCode, Message: strings.TrimSpace(string(b))}
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return &LookupError{StatusCode: res.StatusCode, Message: "malformed response body", Err: err}
	}
	return nil
}
