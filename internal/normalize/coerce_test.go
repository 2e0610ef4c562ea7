package normalize

import (
	"strings"
	"testing"
)

func TestSafeString(t *testing.T) {
	cases := []struct {
		input any
		want  string
	}{
		{nil, ""},
		{"text", "text"},
		{42.0, "42"},
		{3.5, "3.5"},
		{true, "true"},
		{false, "false"},
		{map[string]any{"a": 1.0}, `{"a":1}`},
		{[]any{"x"}, `["x"]`},
	}
	for _, tc := range cases {
		if got := SafeString(tc.input); got != tc.want {
			t.Fatalf("input %v: got %q want %q", tc.input, got, tc.want)
		}
	}
}

func TestBuildImageSrc(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"whitespace", "   ", ""},
		{"bare base64", "iVBORw0KGgo=", "data:image/jpeg;base64,iVBORw0KGgo="},
		{"blocked cdn", "https://media.licdn.com/x.jpg", ""},
		{"blocked cdn apex", "https://licdn.com/x.jpg", ""},
		{"allowed url", "https://cdn.example.com/x.jpg", "https://cdn.example.com/x.jpg"},
		{"data uri passthrough", "data:image/png;base64,abc", "data:image/png;base64,abc"},
		{"data uri uppercase", "DATA:image/png;base64,abc", "DATA:image/png;base64,abc"},
		{"unrecognized shape", "logo x.png", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := BuildImageSrc(tc.input); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestCleanBracedList(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{`{"Fund A","Fund B"}`, "Fund A, Fund B"},
		{`{Fund A,Fund B}`, "Fund A, Fund B"},
		{`{"Solo"}`, "Solo"},
		{`{,, "A" ,}`, "A"},
		{"Plain Buyer", "Plain Buyer"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := CleanBracedList(tc.input); got != tc.want {
			t.Fatalf("input %q: got %q want %q", tc.input, got, tc.want)
		}
	}
}

func TestFlattenHTML(t *testing.T) {
	got := FlattenHTML("<p>Builds <b>widgets</b></p><p>worldwide</p>")
	if got != "Builds widgets worldwide" {
		t.Fatalf("got %q", got)
	}
	if got := FlattenHTML("  plain text  "); got != "plain text" {
		t.Fatalf("got %q", got)
	}
	if strings.Contains(FlattenHTML("<div>a</div>"), "<") {
		t.Fatal("markup survived")
	}
}
