package nexbot

import "testing"

func TestExtractTask(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		in           string
		wantTag      string
		wantPriority string
		wantBody     string
	}{
		{
			name:         "tag_and_priority",
			in:           "/task #tgaf P1 Fix login button",
			wantTag:      "TGAF",
			wantPriority: "P1",
			wantBody:     "Fix login button",
		},
		{
			name:         "priority_before_tag",
			in:           "/task P2 #proj do thing",
			wantTag:      "PROJ",
			wantPriority: "P2",
			wantBody:     "do thing",
		},
		{
			name:         "no_tag_no_priority",
			in:           "/task fix the build",
			wantTag:      "",
			wantPriority: "P3",
			wantBody:     "fix the build",
		},
		{
			name:         "unknown_uppercase_token_stays_in_body",
			in:           "/task bad priority XX text",
			wantTag:      "",
			wantPriority: "P3",
			wantBody:     "bad priority XX text",
		},
		{
			name:         "lowercase_priority_not_recognized",
			in:           "/task p1 fix it",
			wantTag:      "",
			wantPriority: "P3",
			wantBody:     "p1 fix it",
		},
		{
			name:         "mixed_case_tag_uppercased",
			in:           "/task #TgAf BUG broken header",
			wantTag:      "TGAF",
			wantPriority: "BUG",
			wantBody:     "broken header",
		},
		{
			name:         "bot_mention_in_command_word",
			in:           "/task@NexsyncBot #tgaf UX polish onboarding",
			wantTag:      "TGAF",
			wantPriority: "UX",
			wantBody:     "polish onboarding",
		},
		{
			name:         "mentions_stripped",
			in:           "/task @alice #tgaf P2 review the PR",
			wantTag:      "TGAF",
			wantPriority: "P2",
			wantBody:     "review the PR",
		},
		{
			name:         "empty_body_after_stripping",
			in:           "/task #tgaf P1",
			wantTag:      "TGAF",
			wantPriority: "P1",
			wantBody:     "",
		},
		{
			name:         "bare_command",
			in:           "/task",
			wantTag:      "",
			wantPriority: "P3",
			wantBody:     "",
		},
		{
			name:         "priority_substring_not_matched",
			in:           "/task #tgaf BUGFIX release",
			wantTag:      "TGAF",
			wantPriority: "P3",
			wantBody:     "BUGFIX release",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Extract(tt.in, true)
			if got.Tag != tt.wantTag {
				t.Fatalf("Tag = %q, want %q", got.Tag, tt.wantTag)
			}
			if got.Priority != tt.wantPriority {
				t.Fatalf("Priority = %q, want %q", got.Priority, tt.wantPriority)
			}
			if got.Body != tt.wantBody {
				t.Fatalf("Body = %q, want %q", got.Body, tt.wantBody)
			}
		})
	}
}

func TestExtractWithoutPriority(t *testing.T) {
	t.Parallel()

	// Notes and auth keys never treat priority tokens specially: the token
	// stays in the body.
	got := Extract("/note #tgaf P1 is the new deadline marker", false)
	if got.Tag != "TGAF" {
		t.Fatalf("Tag = %q, want TGAF", got.Tag)
	}
	if got.Priority != DefaultPriority {
		t.Fatalf("Priority = %q, want %q", got.Priority, DefaultPriority)
	}
	if got.Body != "P1 is the new deadline marker" {
		t.Fatalf("Body = %q", got.Body)
	}
	if got.Raw != "#tgaf P1 is the new deadline marker" {
		t.Fatalf("Raw = %q", got.Raw)
	}
}

func TestExtractDeterministic(t *testing.T) {
	t.Parallel()

	const in = "/task @bob #Alpha P2 ship the thing"
	first := Extract(in, true)
	for i := 0; i < 3; i++ {
		if got := Extract(in, true); got != first {
			t.Fatalf("extraction not deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestValidPriority(t *testing.T) {
	t.Parallel()

	for _, p := range []string{"P1", "P2", "P3", "UI", "UX", "BUG"} {
		if !ValidPriority(p) {
			t.Fatalf("ValidPriority(%q) = false", p)
		}
	}
	for _, p := range []string{"", "P4", "XX", "p1", "bug"} {
		if ValidPriority(p) {
			t.Fatalf("ValidPriority(%q) = true", p)
		}
	}
}
