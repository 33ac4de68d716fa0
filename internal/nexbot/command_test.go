package nexbot

import "testing"

func TestSplitCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       string
		wantCmd  string
		wantRest string
	}{
		{name: "empty", in: "", wantCmd: "", wantRest: ""},
		{name: "bare", in: "/help", wantCmd: "/help", wantRest: ""},
		{name: "with_args", in: "/task #tgaf fix", wantCmd: "/task", wantRest: "#tgaf fix"},
		{name: "newline_separator", in: "/note\nsome text", wantCmd: "/note", wantRest: "some text"},
		{name: "surrounding_space", in: "  /update  ", wantCmd: "/update", wantRest: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cmd, rest := SplitCommand(tt.in)
			if cmd != tt.wantCmd || rest != tt.wantRest {
				t.Fatalf("SplitCommand(%q) = (%q, %q), want (%q, %q)", tt.in, cmd, rest, tt.wantCmd, tt.wantRest)
			}
		})
	}
}

func TestNormalizeCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "/task", want: "/task"},
		{name: "bot_suffix", in: "/task@NexsyncBot", want: "/task"},
		{name: "uppercase", in: "/TASK", want: "/task"},
		{name: "not_a_command", in: "task", want: ""},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeCommand(tt.in); got != tt.want {
				t.Fatalf("NormalizeCommand(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
