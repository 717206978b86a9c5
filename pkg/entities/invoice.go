package entities

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/Jacobbrewer1/invoicer/pkg/custom"
)

// UnknownProduct is shown when no product name can be resolved.
const UnknownProduct = "Unknown"

// Invoice is an invoice from the storefront.
type Invoice struct {
	// ID is the identifier of the invoice.
	ID custom.Text `json:"id"`

	// Status is the free-form payment status, compared case-insensitively.
	Status string `json:"status"`

	// Price is the amount of the invoice.
	Price custom.Text `json:"price"`

	// Currency is the currency of the price.
	Currency string `json:"currency"`

	// CreatedAt is when the invoice was created.
	CreatedAt custom.Text `json:"created_at"`

	// CompletedAt is when the invoice was completed, if it was.
	CompletedAt custom.Text `json:"completed_at,omitempty"`

	// Product is either a product object or a bare product name.
	Product json.RawMessage `json:"product,omitempty"`

	// ProductID is the ID of the product.
	ProductID custom.Text `json:"product_id,omitempty"`

	// ProductName is the name of the product, when the API flattens it.
	ProductName string `json:"product_name,omitempty"`

	// Items are the line items of the invoice.
	Items []InvoiceItem `json:"items,omitempty"`
}

// InvoiceItem is a line item of an invoice.
type InvoiceItem struct {
	Product json.RawMessage `json:"product,omitempty"`
}

// productResolver extracts a product name from an invoice, reporting false when it has nothing to offer.
type productResolver func(inv *Invoice) (string, bool)

// productResolvers are applied in order; the first match wins.
var productResolvers = []productResolver{
	func(inv *Invoice) (string, bool) { return productFromRaw(inv.Product) },
	func(inv *Invoice) (string, bool) { return inv.ProductName, inv.ProductName != "" },
	func(inv *Invoice) (string, bool) {
		if len(inv.Items) == 0 {
			return "", false
		}
		return productFromRaw(inv.Items[0].Product)
	},
	func(inv *Invoice) (string, bool) {
		if inv.ProductID == "" {
			return "", false
		}
		return "Product ID: " + inv.ProductID.String(), true
	},
}

// ResolveProductName returns the product name of the invoice, or UnknownProduct.
func (inv *Invoice) ResolveProductName() string {
	for _, resolve := range productResolvers {
		if name, ok := resolve(inv); ok {
			return name
		}
	}
	return UnknownProduct
}

// NormalizedStatus returns the status lower-cased and trimmed.
func (inv *Invoice) NormalizedStatus() string {
	return strings.ToLower(strings.TrimSpace(inv.Status))
}

func productFromRaw(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false
	}

	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return name, name != ""
	}

	var obj struct {
		Name  string `json:"name"`
		Title string `json:"title"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", false
	}
	switch {
	case obj.Name != "":
		return obj.Name, true
	case obj.Title != "":
		return obj.Title, true
	default:
		return "", false
	}
}
