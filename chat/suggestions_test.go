package chat

import (
	"reflect"
	"testing"
)

func TestParseSuggestionsValidFence(t *testing.T) {
	raw := "Claro, aquí tienes:\n```json\n{\"suggestions\": [\"Q1\", \"Q2\", \"Q3\"]}\n```\nEspero que ayuden."

	got := ParseSuggestions(raw)
	want := []string{"Q1", "Q2", "Q3"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestParseSuggestionsUsesFirstFence(t *testing.T) {
	raw := "```json\n{\"suggestions\": [\"first\"]}\n```\n```json\n{\"suggestions\": [\"second\"]}\n```"

	got := ParseSuggestions(raw)
	if len(got) != 1 || got[0] != "first" {
		t.Fatalf("expected the first fenced block to win, got %v", got)
	}
}

func TestParseSuggestionsIsTotal(t *testing.T) {
	cases := map[string]string{
		"empty input":       "",
		"no fence":          "here are some ideas: ask about pricing",
		"unclosed fence":    "```json\n{\"suggestions\": [\"Q1\"]}",
		"malformed json":    "```json\n{\"suggestions\": [\"Q1\",]}\n```",
		"missing key":       "```json\n{\"questions\": [\"Q1\"]}\n```",
		"non-string values": "```json\n{\"suggestions\": [1, 2, 3]}\n```",
		"not an object":     "```json\n[\"Q1\"]\n```",
	}

	for name, raw := range cases {
		if got := ParseSuggestions(raw); len(got) != 0 {
			t.Errorf("%s: expected empty list, got %v", name, got)
		}
	}
}

func TestParseSuggestionsIdempotent(t *testing.T) {
	raw := "```json\n{\"suggestions\": [\"Q1\", \"Q2\"]}\n```"

	first := ParseSuggestions(raw)
	second := ParseSuggestions(raw)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results, got %v then %v", first, second)
	}
}
