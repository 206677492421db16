package enhance

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoResult is returned by ExtractResult when neither response shape carries text.
var ErrNoResult = errors.New("response has no rephrased text")

// rephraseResponse covers both shapes the service has returned over time:
//
//	{"text": "..."}
//	{"rephrased": {"text": "..."}}
type rephraseResponse struct {
	Text      string `json:"text"`
	Rephrased *struct {
		Text string `json:"text"`
	} `json:"rephrased"`
}

// ExtractResult pulls the rephrased text out of a response body. The top-level
// "text" field wins over "rephrased.text"; empty strings count as missing.
func ExtractResult(body []byte) (string, error) {
	var resp rephraseResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.Text != "" {
		return resp.Text, nil
	}
	if resp.Rephrased != nil && resp.Rephrased.Text != "" {
		return resp.Rephrased.Text, nil
	}
	return "", ErrNoResult
}
