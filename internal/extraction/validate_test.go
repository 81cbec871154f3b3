package extraction

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weihan/ordertask-api/internal/domain"
)

func mustDoc(t *testing.T, raw string) map[string]any {
	t.Helper()
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

func TestValidateDocument_Valid(t *testing.T) {
	t.Parallel()

	doc := mustDoc(t, `{"products": [
		{"name": "苹果", "quantity": 2, "unit": "个", "price": null, "remark": null},
		{"name": "牛肉", "quantity": 1.5, "unit": "斤", "price": 45.5, "remark": "要新鲜的"}
	]}`)
	products, err := ValidateDocument(doc)
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "苹果", products[0].Name)
	assert.Equal(t, 2.0, products[0].Quantity)
	assert.Equal(t, "个", products[0].Unit)
	assert.Nil(t, products[0].Price)
	assert.Nil(t, products[0].Remark)

	require.NotNil(t, products[1].Price)
	assert.Equal(t, 45.5, *products[1].Price)
	require.NotNil(t, products[1].Remark)
	assert.Equal(t, "要新鲜的", *products[1].Remark)
}

func TestValidateDocument_EmptyListIsValid(t *testing.T) {
	t.Parallel()

	products, err := ValidateDocument(mustDoc(t, `{"products": []}`))
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestValidateDocument_OmittedOptionalFields(t *testing.T) {
	t.Parallel()

	products, err := ValidateDocument(mustDoc(t, `{"products": [{"name": "苹果", "quantity": 1, "unit": "个"}]}`))
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Nil(t, products[0].Price)
	assert.Nil(t, products[0].Remark)
}

func TestValidateDocument_TrimsNameAndUnit(t *testing.T) {
	t.Parallel()

	products, err := ValidateDocument(mustDoc(t, `{"products": [{"name": " 苹果 ", "quantity": 1, "unit": " 个 "}]}`))
	require.NoError(t, err)
	assert.Equal(t, "苹果", products[0].Name)
	assert.Equal(t, "个", products[0].Unit)
}

func TestValidateDocument_Rejections(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		raw     string
		wantSub string
	}{
		"missing products field": {`{"items": []}`, "products"},
		"products not an array":  {`{"products": "none"}`, "array"},
		"element not an object":  {`{"products": ["apple"]}`, "object"},
		"missing name":           {`{"products": [{"quantity": 1, "unit": "个"}]}`, "name"},
		"blank name":             {`{"products": [{"name": "  ", "quantity": 1, "unit": "个"}]}`, "name"},
		"missing quantity":       {`{"products": [{"name": "苹果", "unit": "个"}]}`, "quantity"},
		"string quantity":        {`{"products": [{"name": "苹果", "quantity": "2", "unit": "个"}]}`, "quantity"},
		"zero quantity":          {`{"products": [{"name": "苹果", "quantity": 0, "unit": "个"}]}`, "quantity"},
		"negative quantity":      {`{"products": [{"name": "苹果", "quantity": -1, "unit": "个"}]}`, "quantity"},
		"missing unit":           {`{"products": [{"name": "苹果", "quantity": 1}]}`, "unit"},
		"string price":           {`{"products": [{"name": "苹果", "quantity": 1, "unit": "个", "price": "十元"}]}`, "price"},
		"numeric remark":         {`{"products": [{"name": "苹果", "quantity": 1, "unit": "个", "remark": 5}]}`, "remark"},
	}
	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := ValidateDocument(mustDoc(t, tc.raw))
			require.Error(t, err)
			appErr, ok := domain.AsError(err)
			require.True(t, ok, "shape violations must be classified")
			assert.Equal(t, domain.CodeOutputFormat, appErr.Code)
			assert.Contains(t, appErr.Message, tc.wantSub, "error should name the offending field")
		})
	}
}

func TestProduct_JSONNulls(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Product{Name: "苹果", Quantity: 2, Unit: "个"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"苹果","quantity":2,"unit":"个","price":null,"remark":null}`, string(data))
}
