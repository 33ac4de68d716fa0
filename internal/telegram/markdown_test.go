package telegram

import "testing"

func TestEscapeMarkdownV2(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "whitespace_only", in: "   ", want: "   "},
		{name: "plain_text", in: "hello world", want: "hello world"},
		{name: "dot_and_bang", in: "done. next!", want: "done\\. next\\!"},
		{name: "underscore_and_star", in: "_em_ *strong*", want: "\\_em\\_ \\*strong\\*"},
		{name: "link_syntax", in: "[Site Link](https://nexsync.vercel.app)", want: "\\[Site Link\\]\\(https://nexsync\\.vercel\\.app\\)"},
		{name: "backslash_doubled", in: `a\b`, want: `a\\b`},
		{name: "tag_hash", in: "#TGAF done", want: "\\#TGAF done"},
		{name: "dash_list", in: "- item", want: "\\- item"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := EscapeMarkdownV2(tt.in); got != tt.want {
				t.Fatalf("EscapeMarkdownV2(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
