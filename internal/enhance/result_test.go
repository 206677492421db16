package enhance

import (
	"encoding/json"
	"errors"
	"testing"

	"pgregory.net/rapid"
)

func TestExtractResult(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{name: "direct", body: `{"text":"A"}`, want: "A"},
		{name: "nested", body: `{"rephrased":{"text":"B"}}`, want: "B"},
		{name: "direct wins", body: `{"text":"A","rephrased":{"text":"B"}}`, want: "A"},
		{name: "empty direct falls through", body: `{"text":"","rephrased":{"text":"B"}}`, want: "B"},
		{name: "null nested", body: `{"rephrased":null}`, wantErr: true},
		{name: "empty object", body: `{}`, wantErr: true},
		{name: "wrong type", body: `{"text":42}`, wantErr: true},
		{name: "not json", body: `nope`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractResult([]byte(tt.body))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractResultMissingIsErrNoResult(t *testing.T) {
	_, err := ExtractResult([]byte(`{"rephrased":{}}`))
	if !errors.Is(err, ErrNoResult) {
		t.Errorf("expected ErrNoResult, got %v", err)
	}
}

// Feature: promptperfect, Property 5: the direct field always wins when populated
func TestExtractResultPrecedence(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		direct := rapid.String().Draw(t, "direct")
		nested := rapid.String().Draw(t, "nested")

		body, err := json.Marshal(map[string]any{
			"text":      direct,
			"rephrased": map[string]string{"text": nested},
		})
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}

		got, err := ExtractResult(body)
		switch {
		case direct != "":
			if err != nil || got != direct {
				t.Fatalf("got %q (%v), want direct %q", got, err, direct)
			}
		case nested != "":
			if err != nil || got != nested {
				t.Fatalf("got %q (%v), want nested %q", got, err, nested)
			}
		default:
			if !errors.Is(err, ErrNoResult) {
				t.Fatalf("expected ErrNoResult, got %q (%v)", got, err)
			}
		}
	})
}
