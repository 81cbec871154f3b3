package extraction

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/weihan/ordertask-api/internal/domain"
)

var (
	labeledFencePattern   = regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```")
	unlabeledFencePattern = regexp.MustCompile("(?s)```\\s*(\\{.*?\\})\\s*```")
)

// ParseResponse extracts the structured document from a raw model
// response. Strategies are tried in order: the whole trimmed response,
// the first ```json fenced block, the first unlabeled fenced block,
// then the first balanced brace span. Fenced and brace candidates that
// fail strict parsing get one repair attempt before being rejected.
// When every strategy fails the error is classified as extraction
// failure.
func ParseResponse(raw string) (map[string]any, error) {
	trimmed := strings.TrimSpace(raw)

	if doc, ok := parseObject(trimmed); ok {
		return doc, nil
	}

	for _, pattern := range []*regexp.Regexp{labeledFencePattern, unlabeledFencePattern} {
		for _, match := range pattern.FindAllStringSubmatch(raw, -1) {
			if doc, ok := parseCandidate(match[1]); ok {
				return doc, nil
			}
		}
	}

	if span, ok := firstBraceSpan(raw); ok {
		if doc, ok := parseCandidate(span); ok {
			return doc, nil
		}
	}

	return nil, domain.NewError(domain.CodeExtractionFailed,
		"no valid structured document found in model response")
}

// parseObject strictly parses text as a JSON object.
func parseObject(text string) (map[string]any, bool) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &doc); err != nil {
		return nil, false
	}
	if doc == nil {
		return nil, false
	}
	return doc, true
}

// parseCandidate parses an extracted span, falling back to a single
// repair pass for near-JSON output (unquoted keys, trailing commas,
// single quotes).
func parseCandidate(text string) (map[string]any, bool) {
	if doc, ok := parseObject(text); ok {
		return doc, true
	}
	repaired, err := jsonrepair.JSONRepair(text)
	if err != nil {
		return nil, false
	}
	return parseObject(repaired)
}

// firstBraceSpan returns the first balanced {...} span in text,
// tracking nested depth to locate the matching close brace.
func firstBraceSpan(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start == -1 {
		return "", false
	}
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
