package service

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestRenderMarkdownSanitizesScripts(t *testing.T) {
	out, err := RenderMarkdown("# Safe rides\n\n<script>alert(1)</script>\n\n**bold**")
	if err != nil {
		t.Fatalf("RenderMarkdown returned error: %v", err)
	}
	html := string(out)
	if strings.Contains(html, "<script>") {
		t.Fatalf("expected script tag to be stripped, got %s", html)
	}
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "<strong>bold</strong>") {
		t.Fatalf("expected rendered markdown, got %s", html)
	}
}

func TestSummarizeContent(t *testing.T) {
	if got := summarizeContent("# Title\n\n*Pool* your `ride`"); got != "Title Pool your ride" {
		t.Fatalf("unexpected summary %q", got)
	}

	long := strings.Repeat("commute ", 60)
	got := summarizeContent(long)
	if utf8.RuneCountInString(got) > excerptLimit+1 {
		t.Fatalf("expected truncated summary, got %d runes", utf8.RuneCountInString(got))
	}
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("expected ellipsis, got %q", got)
	}
}

func TestCalculateReadingTime(t *testing.T) {
	if calculateReadingTime("   ") != 0 {
		t.Fatal("expected zero minutes for blank content")
	}
	if calculateReadingTime("one two three") != 1 {
		t.Fatal("expected one minute for short content")
	}
	if got := calculateReadingTime(strings.Repeat("w ", 401)); got != 3 {
		t.Fatalf("expected 3 minutes, got %d", got)
	}
}
