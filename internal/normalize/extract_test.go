package normalize

import "testing"

func TestExtractArrayWrapperShapes(t *testing.T) {
	rows := []any{map[string]any{"id": 1.0}, map[string]any{"id": 2.0}}

	for _, key := range []string{"items", "data", "results", "list"} {
		got := ExtractArray(map[string]any{key: rows})
		if len(got) != 2 {
			t.Fatalf("wrapper %q: got %d rows", key, len(got))
		}
	}

	if got := ExtractArray(rows); len(got) != 2 {
		t.Fatalf("bare array: got %d rows", len(got))
	}
}

func TestExtractArrayWrapperPriority(t *testing.T) {
	payload := map[string]any{
		"data":  []any{"second"},
		"items": []any{"first"},
	}
	got := ExtractArray(payload)
	if len(got) != 1 || got[0] != "first" {
		t.Fatalf("items should win over data, got %v", got)
	}
}

func TestExtractArraySkipsNonArrayWrapperValue(t *testing.T) {
	payload := map[string]any{
		"items": "not a collection",
		"data":  []any{"row"},
	}
	got := ExtractArray(payload)
	if len(got) != 1 || got[0] != "row" {
		t.Fatalf("expected data to be probed after non-array items, got %v", got)
	}
}

func TestExtractArrayMalformedInput(t *testing.T) {
	for _, input := range []any{nil, "text", 42.0, true, map[string]any{"other": []any{1.0}}} {
		if got := ExtractArray(input); len(got) != 0 {
			t.Fatalf("input %v: expected empty, got %v", input, got)
		}
	}
}

func TestExtractArrayRewrapIdempotence(t *testing.T) {
	rows := []any{map[string]any{"id": 1.0}, map[string]any{"id": 2.0}, map[string]any{"id": 3.0}}
	first := ExtractArray(map[string]any{"results": rows})

	for _, key := range []string{"items", "data", "results", "list"} {
		again := ExtractArray(map[string]any{key: first})
		if len(again) != len(first) {
			t.Fatalf("rewrap under %q changed length: %d vs %d", key, len(again), len(first))
		}
		for i := range again {
			if again[i].(map[string]any)["id"] != first[i].(map[string]any)["id"] {
				t.Fatalf("rewrap under %q changed element %d", key, i)
			}
		}
	}
}
