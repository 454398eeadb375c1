package sanitize

import (
	"reflect"
	"regexp"
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "hello world", "hello world"},
		{"trims whitespace", "  padded  ", "padded"},
		{"strips angle brackets", "<script>alert(1)</script>", "scriptalert(1)/script"},
		{"strips javascript uri", "javascript:alert(1)", "alert(1)"},
		{"strips javascript uri case-insensitive", "JaVaScRiPt:alert(1)", "alert(1)"},
		{"strips event handler", `" onclick=steal()`, `" steal()`},
		{"strips event handler with spaces", "onmouseover = x", "x"},
		{"spliced javascript uri", "jonx=avascript:alert(1)", "alert(1)"},
		{"spliced event handler", "oonabc=nclick=steal()", "steal()"},
		{"empty stays empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := String(tt.in); got != tt.want {
				t.Errorf("String(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValueSafety(t *testing.T) {
	payloads := []string{
		"<script>alert('xss')</script>",
		"click javascript:evil() here",
		"<img src=x onerror=alert(1)>",
		"ONLOAD=pwn",
		"jonx=avascript:alert(1)",
		"oonabc=nclick=steal()",
		"jav<script></script>ascript:x",
	}
	reHandler := regexp.MustCompile(`(?i)on\w+=`)
	for _, p := range payloads {
		got, ok := Value(p).(string)
		if !ok {
			t.Fatalf("Value(%q) did not return a string", p)
		}
		if strings.ContainsAny(got, "<>") {
			t.Errorf("Value(%q) = %q still contains angle brackets", p, got)
		}
		if strings.Contains(strings.ToLower(got), "javascript:") {
			t.Errorf("Value(%q) = %q still contains javascript:", p, got)
		}
		if reHandler.MatchString(got) {
			t.Errorf("Value(%q) = %q still contains an event handler", p, got)
		}
	}
}

func TestValueRecursion(t *testing.T) {
	in := map[string]any{
		"name":    "  <b>Bob</b>  ",
		"tags":    []any{"<a>", "safe", float64(3)},
		"nested":  map[string]any{"deep": "javascript:x"},
		"count":   float64(7),
		"checked": true,
		"nothing": nil,
	}
	want := map[string]any{
		"name":    "bBob/b",
		"tags":    []any{"a", "safe", float64(3)},
		"nested":  map[string]any{"deep": "x"},
		"count":   float64(7),
		"checked": true,
		"nothing": nil,
	}
	got := Value(in)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Value() = %#v, want %#v", got, want)
	}
}

func TestKeyStripping(t *testing.T) {
	in := map[string]any{
		"bad key!":     "a",
		"$.injection":  "b",
		"ok_key-1":     "c",
		"<weird>":      "d",
	}
	got, ok := Value(in).(map[string]any)
	if !ok {
		t.Fatal("Value did not return a map")
	}
	for key := range got {
		if regexp.MustCompile(`[^A-Za-z0-9_-]`).MatchString(key) {
			t.Errorf("key %q survived sanitization", key)
		}
	}
	if got["ok_key-1"] != "c" {
		t.Errorf("safe key was altered: %#v", got)
	}
	if got["badkey"] != "a" {
		t.Errorf("stripped key lost its value: %#v", got)
	}
}

func TestValueIdempotence(t *testing.T) {
	inputs := []any{
		"<script>javascript:alert(1)</script> onclick=x",
		"jonx=avascript:alert(1)",
		"oonabc=nclick=steal()",
		[]any{"jav<b></b>ascript:x", map[string]any{"k": "oonx=nclick=y"}},
		map[string]any{"a b": []any{" <i> ", map[string]any{"c?d": "javascript:e"}}},
		[]any{float64(1), true, nil, "plain"},
		float64(9.5),
		nil,
	}
	for _, in := range inputs {
		once := Value(in)
		twice := Value(once)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("Value not idempotent for %#v: first %#v, second %#v", in, once, twice)
		}
	}
}
