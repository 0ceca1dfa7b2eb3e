package transcript

import (
	"strings"
	"testing"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		post string
		want string
	}{
		{
			name: "reactions",
			post: "1. Go :+1: 2\n3. testing :tada:",
			want: "1. Go \n3. testing",
		},
		{
			name: "link preview dropped",
			post: "名前：Bob\nhttps://github.com/bob\nGitHub - bob/profile\nBob's repositories\n1. roster\n3. testing",
			want: "名前：Bob\nhttps://github.com/bob\n1. roster\n3. testing",
		},
		{
			name: "preview stops at next url",
			post: "http://a.example\npreview a\nhttps://b.example\npreview b\n２. AI",
			want: "http://a.example\nhttps://b.example\n２. AI",
		},
		{
			name: "url on last line",
			post: "名前：Bob\nhttps://github.com/bob",
			want: "名前：Bob\nhttps://github.com/bob",
		},
		{
			name: "blank runs collapsed",
			post: "a\n\n\n\nb\n  \n \nc",
			want: "a\n\nb\n\nc",
		},
		{
			name: "edit markers",
			post: "foo（編集済み）\nbar (編集済み)\nbaz (edited)",
			want: "foo\nbar \nbaz",
		},
		{
			name: "edit marker alone on a line",
			post: "foo\n\n（編集済み）\n\nbar",
			want: "foo\n\nbar",
		},
		{
			name: "trimmed",
			post: "  \n名前：Bob\n  ",
			want: "名前：Bob",
		},
		{
			name: "empty",
			post: "",
			want: "",
		},
		{
			name: "only urls",
			post: "https://a.example\nhttps://b.example",
			want: "https://a.example\nhttps://b.example",
		},
		{
			name: "no urls",
			post: "名前：Bob\n1. roster\n3. testing",
			want: "名前：Bob\n1. roster\n3. testing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.post); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.post, got, tt.want)
			}
		})
	}
}

func TestClean_Idempotent(t *testing.T) {
	inputs := []string{
		"名前：Bob :wave:\n\n\nhttps://github.com/bob\nunfurl title\nunfurl body\n\n1. roster（編集済み）\n２. AI\n3. testing :tada: 4",
		"",
		"plain",
		"https://only.example",
		"foo\n\n（編集済み）\n\nbar",
	}
	for _, in := range inputs {
		once := Clean(in)
		if twice := Clean(once); twice != once {
			t.Errorf("Clean not idempotent for %q:\nonce  %q\ntwice %q", in, once, twice)
		}
	}
}

func TestClean_NoBlankRuns(t *testing.T) {
	out := Clean("a\n\n\n（編集済み）\n\n\nb :x:\n\n\n\nc")
	if strings.Contains(out, "\n\n\n") {
		t.Errorf("blank run survived: %q", out)
	}
}
