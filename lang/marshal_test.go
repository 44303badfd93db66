package lang

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDocumentNode_ToMap(t *testing.T) {
	doc := mustParse(t, `hi {$ FOR i 1 n 0.5 $}{$= @f i "s" - $}{$END$}{$FOR j 1 2$}{$END$}`)

	want := map[string]any{
		"type": "document",
		"children": []any{
			map[string]any{"type": "text", "text": "hi "},
			map[string]any{
				"type":     "for",
				"variable": "i",
				"start":    map[string]any{"type": "integer", "value": int64(1)},
				"end":      map[string]any{"type": "variable", "value": "n"},
				"step":     map[string]any{"type": "double", "value": 0.5},
				"children": []any{
					map[string]any{
						"type": "echo",
						"elements": []any{
							map[string]any{"type": "function", "value": "f"},
							map[string]any{"type": "variable", "value": "i"},
							map[string]any{"type": "string", "value": "s"},
							map[string]any{"type": "operator", "value": "-"},
						},
					},
				},
			},
			map[string]any{
				"type":     "for",
				"variable": "j",
				"start":    map[string]any{"type": "integer", "value": int64(1)},
				"end":      map[string]any{"type": "integer", "value": int64(2)},
				"children": []any{},
			},
		},
	}

	if diff := cmp.Diff(want, doc.ToMap()); diff != "" {
		t.Errorf("ToMap() mismatch (-want +got):\n%s", diff)
	}
}

func TestDocumentNode_MarshalJSON(t *testing.T) {
	doc := mustParse(t, `{$= x 3 $}`)

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}

	want := `{"children":[{"elements":[{"type":"variable","value":"x"},` +
		`{"type":"integer","value":3}],"type":"echo"}],"type":"document"}`

	if got := string(data); got != want {
		t.Errorf("MarshalJSON() =\n%s\nwant\n%s", got, want)
	}
}
