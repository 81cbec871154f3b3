package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weihan/ordertask-api/internal/domain"
)

const validDoc = `{"products": [{"name": "苹果", "quantity": 2, "unit": "个", "price": null, "remark": null}]}`

func TestParseResponse_Strategies(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"bare document":        validDoc,
		"bare with whitespace": "\n  " + validDoc + "  \n",
		"labeled fence":        "好的，提取结果如下：\n```json\n" + validDoc + "\n```\n",
		"unlabeled fence":      "```\n" + validDoc + "\n```",
		"embedded in prose":    "根据您的输入，我提取到以下商品信息：" + validDoc + " 希望对您有帮助。",
	}
	for name, raw := range cases {
		raw := raw
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			doc, err := ParseResponse(raw)
			require.NoError(t, err)
			products, ok := doc["products"].([]any)
			require.True(t, ok)
			require.Len(t, products, 1)
			first, ok := products[0].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, "苹果", first["name"])
		})
	}
}

func TestParseResponse_NestedBraces(t *testing.T) {
	t.Parallel()

	raw := `prefix {"outer": {"inner": {"deep": 1}}, "products": []} suffix {"ignored": true}`
	doc, err := ParseResponse(raw)
	require.NoError(t, err)
	assert.Contains(t, doc, "outer")
	assert.NotContains(t, doc, "ignored", "only the first balanced span is taken")
}

func TestParseResponse_RepairsNearJSON(t *testing.T) {
	t.Parallel()

	// Trailing comma and single quotes are not strict JSON but are
	// recoverable for fenced candidates.
	raw := "```json\n{\"products\": [{\"name\": \"苹果\", \"quantity\": 2, \"unit\": \"个\",}]}\n```"
	doc, err := ParseResponse(raw)
	require.NoError(t, err)
	assert.Contains(t, doc, "products")
}

func TestParseResponse_NoDocumentFails(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"plain prose":     "很抱歉，我无法从这段文字中提取商品信息。",
		"empty":           "",
		"unbalanced span": `{"products": [`,
	}
	for name, raw := range cases {
		raw := raw
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseResponse(raw)
			require.Error(t, err)
			appErr, ok := domain.AsError(err)
			require.True(t, ok, "extraction failure must be classified")
			assert.Equal(t, domain.CodeExtractionFailed, appErr.Code)
		})
	}
}

func TestFirstBraceSpan(t *testing.T) {
	t.Parallel()

	span, ok := firstBraceSpan(`text {"a": {"b": 2}} more`)
	require.True(t, ok)
	assert.Equal(t, `{"a": {"b": 2}}`, span)

	_, ok = firstBraceSpan("no braces here")
	assert.False(t, ok)

	_, ok = firstBraceSpan(`{"unclosed": 1`)
	assert.False(t, ok)
}
