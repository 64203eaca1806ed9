package moderation

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMatchFindsCaseInsensitiveSubstring(t *testing.T) {
	words := []string{"scam", "fraud"}

	cases := []struct {
		name    string
		text    string
		want    string
		flagged bool
	}{
		{"exact word", "this is a scam", "scam", true},
		{"mixed case", "ScAm alert", "scam", true},
		{"embedded in longer word", "that was scammy of you", "scam", true},
		{"upper case banned list entry matched lowered", "FRAUD!", "fraud", true},
		{"clean text", "let's schedule a session", "", false},
		{"empty text", "", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			word, flagged := Match(tc.text, words)
			if flagged != tc.flagged {
				t.Fatalf("Match(%q) flagged = %v, want %v", tc.text, flagged, tc.flagged)
			}
			if word != tc.want {
				t.Fatalf("Match(%q) word = %q, want %q", tc.text, word, tc.want)
			}
		})
	}
}

func TestMatchNormalizesWordListEntries(t *testing.T) {
	word, flagged := Match("contact me on PayPal", []string{"  PAYPAL  "})
	if !flagged || word != "paypal" {
		t.Fatalf("expected paypal match, got (%q, %v)", word, flagged)
	}
}

func TestMatchEmptyWordSetNeverFlags(t *testing.T) {
	if _, flagged := Match("anything at all", nil); flagged {
		t.Fatal("empty word set must not flag")
	}
	if _, flagged := Match("anything at all", []string{"", "   "}); flagged {
		t.Fatal("blank entries must not flag")
	}
}

type stubWordLister struct {
	words []string
	err   error
	calls int
}

func (s *stubWordLister) ListWords(context.Context) ([]string, error) {
	s.calls++
	return s.words, s.err
}

func TestFilterCachesWordList(t *testing.T) {
	lister := &stubWordLister{words: []string{"scam"}}
	filter := NewFilter(lister, time.Minute)

	for i := 0; i < 3; i++ {
		if _, _, err := filter.Screen(context.Background(), "no problems here"); err != nil {
			t.Fatalf("Screen: %v", err)
		}
	}

	if lister.calls != 1 {
		t.Fatalf("expected a single storage load, got %d", lister.calls)
	}
}

func TestFilterInvalidateForcesReload(t *testing.T) {
	lister := &stubWordLister{words: []string{"scam"}}
	filter := NewFilter(lister, time.Minute)

	if _, flagged, _ := filter.Screen(context.Background(), "total scam"); !flagged {
		t.Fatal("expected first screen to flag")
	}

	lister.words = nil
	filter.Invalidate()

	if _, flagged, _ := filter.Screen(context.Background(), "total scam"); flagged {
		t.Fatal("expected screen after invalidate to use the reloaded empty set")
	}
	if lister.calls != 2 {
		t.Fatalf("expected reload after invalidate, got %d calls", lister.calls)
	}
}

func TestFilterPropagatesStorageError(t *testing.T) {
	wantErr := errors.New("connection refused")
	filter := NewFilter(&stubWordLister{err: wantErr}, time.Minute)

	if _, _, err := filter.Screen(context.Background(), "hello"); !errors.Is(err, wantErr) {
		t.Fatalf("expected storage error, got %v", err)
	}
}
