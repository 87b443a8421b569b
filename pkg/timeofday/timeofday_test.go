package timeofday

import "testing"

func TestIsValid_Accepts(t *testing.T) {
	for _, s := range []string{"9:00 AM", "12:30 PM", "9:00am", "09:15 pm", "1:05PM"} {
		if !IsValid(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}
}

func TestIsValid_Rejects(t *testing.T) {
	for _, s := range []string{"13:00 AM", "9:60 AM", "9:00", "25:00 PM", "", "0:30 AM", "9:5 AM"} {
		if IsValid(s) {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestHour24_AM(t *testing.T) {
	cases := map[string]int{
		"1:00 AM":  1,
		"9:30 AM":  9,
		"11:59 AM": 11,
	}
	for in, want := range cases {
		if got := Hour24(in); got != want {
			t.Errorf("Hour24(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestHour24_PM(t *testing.T) {
	cases := map[string]int{
		"1:00 PM":  13,
		"2:00 PM":  14,
		"11:45 PM": 23,
	}
	for in, want := range cases {
		if got := Hour24(in); got != want {
			t.Errorf("Hour24(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestHour24_TwelveIsTwelveEitherMeridiem(t *testing.T) {
	if got := Hour24("12:00 PM"); got != 12 {
		t.Errorf("Hour24(12:00 PM) = %d, want 12", got)
	}
	if got := Hour24("12:30 AM"); got != 12 {
		t.Errorf("Hour24(12:30 AM) = %d, want 12", got)
	}
}

func TestHour24_MalformedReturnsZero(t *testing.T) {
	if got := Hour24("13:00"); got != 0 {
		t.Errorf("expected 0 for malformed input, got %d", got)
	}
}
