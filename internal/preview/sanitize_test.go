package preview

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeText_StripsMarkup(t *testing.T) {
	got := SanitizeText(`<b>Bold</b> and <script>alert(1)</script>plain`)

	if strings.Contains(got, "<") || strings.Contains(got, ">") {
		t.Errorf("SanitizeText() = %q, want no markup", got)
	}
	if !strings.Contains(got, "Bold") {
		t.Errorf("SanitizeText() = %q, want text content preserved", got)
	}
	if strings.Contains(got, "alert") {
		t.Errorf("SanitizeText() = %q, want script content removed", got)
	}
}

func TestSanitizeText_UnescapesEntities(t *testing.T) {
	got := SanitizeText("Fish &amp; Chips")
	if got != "Fish & Chips" {
		t.Errorf("SanitizeText() = %q, want %q", got, "Fish & Chips")
	}
}

func TestSanitizeText_TrimsWhitespace(t *testing.T) {
	got := SanitizeText("  padded  ")
	if got != "padded" {
		t.Errorf("SanitizeText() = %q, want %q", got, "padded")
	}
}

func TestSanitizeText_TruncatesLongInput(t *testing.T) {
	long := strings.Repeat("あ", 500)
	got := SanitizeText(long)

	if n := utf8.RuneCountInString(got); n != maxFieldLen {
		t.Errorf("rune count = %d, want %d", n, maxFieldLen)
	}
	// rune境界で切り詰めるため、出力は常に正しいUTF-8
	if !utf8.ValidString(got) {
		t.Error("expected valid UTF-8 output")
	}
}

func TestSanitizeText_EmptyInput(t *testing.T) {
	if got := SanitizeText(""); got != "" {
		t.Errorf("SanitizeText(\"\") = %q, want empty", got)
	}
}
