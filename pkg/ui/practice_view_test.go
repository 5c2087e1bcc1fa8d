package ui

import (
	"strings"
	"testing"
)

func TestRenderWordPrompt(t *testing.T) {
	text, keyboard, err := RenderWordPrompt(testWordID, "sundar", "adjectives")
	if err != nil {
		t.Fatalf("RenderWordPrompt returned error: %v", err)
	}
	if text != "Give a synonym for *sundar* \\(adjectives\\)" {
		t.Fatalf("unexpected prompt %q", text)
	}
	row := keyboard.InlineKeyboard[0]
	if len(row) != 2 || row[0].CallbackData != "p:hint:"+testWordID || row[1].CallbackData != "p:skip:"+testWordID {
		t.Fatalf("unexpected keyboard: %+v", row)
	}
}

func TestRenderWordPromptWithoutCategory(t *testing.T) {
	text, _, err := RenderWordPrompt(testWordID, "sundar", "")
	if err != nil {
		t.Fatalf("RenderWordPrompt returned error: %v", err)
	}
	if strings.Contains(text, "(") {
		t.Fatalf("expected no category, got %q", text)
	}
}

func TestRenderAfterAnswer(t *testing.T) {
	text, keyboard, err := RenderAfterAnswer("Correct!")
	if err != nil {
		t.Fatalf("RenderAfterAnswer returned error: %v", err)
	}
	if text != "Correct!" {
		t.Fatalf("unexpected text %q", text)
	}
	row := keyboard.InlineKeyboard[0]
	if row[0].CallbackData != "p:next" || row[1].CallbackData != "p:sum" {
		t.Fatalf("unexpected keyboard: %+v", row)
	}
}

func TestFormatHints(t *testing.T) {
	got := FormatHints([]string{"starts with k", "khoobsurat"}, 1)
	want := "Hints:\n2. starts with k\n3. khoobsurat"
	if got != want {
		t.Fatalf("FormatHints = %q, want %q", got, want)
	}
}

func TestFormatStats(t *testing.T) {
	got := FormatStats(3, 1, 2, 10)
	if !strings.Contains(got, "Words learned: 2 of 10") {
		t.Fatalf("unexpected stats %q", got)
	}
}
