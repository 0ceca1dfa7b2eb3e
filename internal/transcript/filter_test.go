package transcript

import (
	"reflect"
	"testing"
)

func TestIsIntroduction(t *testing.T) {
	tests := []struct {
		name string
		post string
		want bool
	}{
		{"numbered template", "名前：Bob\n興味：AI\n1.foo\n3.testing", true},
		{"full-width digits", "名前 ボブ\n１．x\n２. AI\n３. テスト", true},
		{"keywords only", "ボブ：自己紹介です\nプロジェクトはroster\n得意なことはGo", true},
		{"missing name marker", "1. intro\n2. ...\n3. good at testing\nBob joined", false},
		{"missing third item", "名前：Bob\n1. roster", false},
		{"missing first item", "名前：Bob\n3. testing", false},
		{"plain chatter", "Alice", false},
		{"join notice", JoinNotice, false},
		{"intro with join notice line", "名前：Bob\n1. a\n3. b\n  " + JoinNotice, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsIntroduction(tt.post); got != tt.want {
				t.Errorf("IsIntroduction(%q) = %v, want %v", tt.post, got, tt.want)
			}
			if again := IsIntroduction(tt.post); again != tt.want {
				t.Errorf("second call disagreed: %v", again)
			}
		})
	}
}

func TestFilterIntroductions_SampleTranscript(t *testing.T) {
	got := FilterIntroductions(Segment(sampleTranscript))
	want := []string{"名前：Bob\n興味：AI\n1.foo\n3.testing"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FilterIntroductions() = %q, want %q", got, want)
	}
}

func TestFilterIntroductions_KeepsOrder(t *testing.T) {
	posts := []string{
		"名前：A\n1. x\n3. y",
		"noise",
		"名前：B\n1. x\n3. y",
	}
	got := FilterIntroductions(posts)
	want := []string{posts[0], posts[2]}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFilterIntroductions_Empty(t *testing.T) {
	if got := FilterIntroductions(nil); len(got) != 0 {
		t.Errorf("expected no posts, got %q", got)
	}
}
