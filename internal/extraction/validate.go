package extraction

import (
	"strings"

	"github.com/weihan/ordertask-api/internal/domain"
)

// Product is one extracted order line. Price and Remark are nullable
// and serialize as explicit nulls so the callback receiver can
// distinguish "absent" from "zero" or "empty".
type Product struct {
	Name     string   `json:"name"`
	Quantity float64  `json:"quantity"`
	Unit     string   `json:"unit"`
	Price    *float64 `json:"price"`
	Remark   *string  `json:"remark"`
}

// ValidateDocument checks the parsed model output against the expected
// shape and returns the normalized product list. The document must
// carry a products array; an empty array is valid and means no items
// were recognized. Every element must have a non-empty string name, a
// numeric quantity strictly greater than zero, and a non-empty string
// unit; price must be numeric or null and remark a string or null.
func ValidateDocument(doc map[string]any) ([]Product, error) {
	raw, ok := doc["products"]
	if !ok {
		return nil, domain.NewError(domain.CodeOutputFormat,
			"output missing required field 'products'")
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, domain.NewError(domain.CodeOutputFormat,
			"field 'products' must be an array")
	}

	products := make([]Product, 0, len(list))
	for i, element := range list {
		obj, ok := element.(map[string]any)
		if !ok {
			return nil, domain.NewErrorf(domain.CodeOutputFormat,
				"products[%d] must be an object", i)
		}
		product, err := validateProduct(i, obj)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}

func validateProduct(index int, obj map[string]any) (Product, error) {
	name, ok := obj["name"].(string)
	if !ok || strings.TrimSpace(name) == "" {
		return Product{}, domain.NewErrorf(domain.CodeOutputFormat,
			"products[%d]: 'name' must be a non-empty string", index)
	}

	quantity, ok := asNumber(obj["quantity"])
	if !ok {
		return Product{}, domain.NewErrorf(domain.CodeOutputFormat,
			"products[%d]: 'quantity' must be a number", index)
	}
	if quantity <= 0 {
		return Product{}, domain.NewErrorf(domain.CodeOutputFormat,
			"products[%d]: 'quantity' must be greater than zero", index)
	}

	unit, ok := obj["unit"].(string)
	if !ok || strings.TrimSpace(unit) == "" {
		return Product{}, domain.NewErrorf(domain.CodeOutputFormat,
			"products[%d]: 'unit' must be a non-empty string", index)
	}

	product := Product{
		Name:     strings.TrimSpace(name),
		Quantity: quantity,
		Unit:     strings.TrimSpace(unit),
	}

	if raw, present := obj["price"]; present && raw != nil {
		price, ok := asNumber(raw)
		if !ok {
			return Product{}, domain.NewErrorf(domain.CodeOutputFormat,
				"products[%d]: 'price' must be a number or null", index)
		}
		product.Price = &price
	}

	if raw, present := obj["remark"]; present && raw != nil {
		remark, ok := raw.(string)
		if !ok {
			return Product{}, domain.NewErrorf(domain.CodeOutputFormat,
				"products[%d]: 'remark' must be a string or null", index)
		}
		product.Remark = &remark
	}

	return product, nil
}

// asNumber accepts the numeric shapes json.Unmarshal can produce.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
