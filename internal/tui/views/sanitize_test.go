package views

import "testing"

func TestSanitizeForTerminal(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"plain", "hello", "hello"},
		{"newline kept", "a\nb\tc", "a\nb\tc"},
		{"ansi color", "\x1b[31mred\x1b[0m", "red"},
		{"bare escape", "a\x1bcb", "ab"},
		{"bell and nul", "a\x07b\x00c", "abc"},
		{"skin tone", "\U0001F44D\U0001F3FB", "\U0001F44D"},
		{"zwj", "\U0001F468\u200D\U0001F469", "\U0001F468\U0001F469"},
		{"variation selector", "\u2764\uFE0F", "\u2764"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeForTerminal(tt.in); got != tt.want {
				t.Errorf("sanitizeForTerminal(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
