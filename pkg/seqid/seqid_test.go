package seqid

import (
	"regexp"
	"testing"
	"time"
)

func TestNew_Shape(t *testing.T) {
	re := regexp.MustCompile(`^b_\d{17}$`)
	id := New("b")
	if !re.MatchString(id) {
		t.Errorf("unexpected id shape: %q", id)
	}
}

func TestAt_ZeroPadding(t *testing.T) {
	at := time.Date(2024, time.March, 5, 7, 8, 9, 4*1e6, time.UTC)
	got := At("doc", at)
	want := "doc_20240305070809004"
	if got != want {
		t.Errorf("At = %q, want %q", got, want)
	}
}

func TestAt_OrderedAcrossMilliseconds(t *testing.T) {
	base := time.Date(2024, time.March, 5, 7, 8, 9, 0, time.UTC)
	prev := At("p", base)
	for i := 1; i < 50; i++ {
		next := At("p", base.Add(time.Duration(i)*time.Millisecond))
		if next <= prev {
			t.Fatalf("expected %q > %q", next, prev)
		}
		prev = next
	}
}

func TestNew_Increases(t *testing.T) {
	a := New("x")
	time.Sleep(2 * time.Millisecond)
	b := New("x")
	if b <= a {
		t.Errorf("expected %q > %q", b, a)
	}
}

func TestValid(t *testing.T) {
	ok := At("doc", time.Date(2024, time.March, 5, 7, 8, 9, 4*1e6, time.UTC))

	cases := []struct {
		id     string
		prefix string
		want   bool
	}{
		{ok, "doc", true},
		{ok, "", true},
		{ok, "pat", false},
		{"doc_2024030507080", "doc", false},
		{"doc_202403050708090041", "doc", false},
		{"doc20240305070809004", "doc", false},
		{"DOC_20240305070809004", "doc", false},
		{"", "", false},
	}
	for _, tc := range cases {
		if got := Valid(tc.id, tc.prefix); got != tc.want {
			t.Errorf("Valid(%q, %q) = %v, want %v", tc.id, tc.prefix, got, tc.want)
		}
	}
}
