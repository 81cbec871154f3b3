package extraction

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
)

func loadEncoding() *tiktoken.Tiktoken {
	encodingOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err == nil {
			encoding = enc
		}
	})
	return encoding
}

// EstimateTokens returns a token count for the given text using the
// cl100k_base encoding when available. The fallback deliberately
// overestimates at 1.5 tokens per rune because the expected input is
// CJK-heavy, where characters cost more tokens than Latin text.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	if enc := loadEncoding(); enc != nil {
		return len(enc.Encode(text, nil, nil))
	}
	return int(float64(len([]rune(text)))*1.5) + 1
}
