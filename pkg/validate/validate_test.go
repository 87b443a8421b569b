package validate

import (
	"regexp"
	"testing"
)

func TestCheck_RequiredMissing(t *testing.T) {
	rules := Rules{"name": {Required: true, Kind: String}}
	res := Check(map[string]interface{}{}, rules)
	if res.Valid {
		t.Fatal("expected invalid result")
	}
	if res.First() != "name is required" {
		t.Errorf("unexpected message: %q", res.First())
	}
}

func TestCheck_OptionalMissing(t *testing.T) {
	rules := Rules{"remark": {Kind: String}}
	res := Check(map[string]interface{}{}, rules)
	if !res.Valid {
		t.Errorf("expected valid, got %v", res.Errors)
	}
}

func TestCheck_EmptyString(t *testing.T) {
	rules := Rules{"name": {Required: true, Kind: String}}
	res := Check(map[string]interface{}{"name": ""}, rules)
	if res.Valid {
		t.Error("expected empty required string to fail")
	}

	rules = Rules{"remark": {Required: true, Kind: String, AllowEmpty: true}}
	res = Check(map[string]interface{}{"remark": ""}, rules)
	if !res.Valid {
		t.Errorf("expected AllowEmpty to pass, got %v", res.Errors)
	}
}

func TestCheck_StringBoundsAndPattern(t *testing.T) {
	rules := Rules{
		"username": {Required: true, Kind: String, MinLen: IntPtr(3), MaxLen: IntPtr(8)},
		"time":     {Required: true, Kind: String, Pattern: regexp.MustCompile(`^\d{1,2}:\d{2}`)},
	}
	res := Check(map[string]interface{}{"username": "ab", "time": "nope"}, rules)
	if res.Valid {
		t.Fatal("expected invalid result")
	}
	if len(res.Errors) != 2 {
		t.Errorf("expected 2 errors, got %d: %v", len(res.Errors), res.Errors)
	}
}

func TestCheck_NumberRange(t *testing.T) {
	rules := Rules{"day": {Required: true, Kind: Number, Min: FloatPtr(0), Max: FloatPtr(6)}}

	if res := Check(map[string]interface{}{"day": 3}, rules); !res.Valid {
		t.Errorf("expected 3 to pass, got %v", res.Errors)
	}
	if res := Check(map[string]interface{}{"day": float64(7)}, rules); res.Valid {
		t.Error("expected 7 to fail")
	}
	if res := Check(map[string]interface{}{"day": "monday"}, rules); res.Valid {
		t.Error("expected non-number to fail")
	}
}

func TestCheck_Enum(t *testing.T) {
	rules := Rules{"order": {Required: true, Kind: String, Enum: []string{"1", "-1"}}}
	if res := Check(map[string]interface{}{"order": "-1"}, rules); !res.Valid {
		t.Errorf("expected -1 to pass, got %v", res.Errors)
	}
	if res := Check(map[string]interface{}{"order": "2"}, rules); res.Valid {
		t.Error("expected 2 to fail")
	}
}

func TestCheck_DeterministicOrder(t *testing.T) {
	rules := Rules{
		"b": {Required: true, Kind: String},
		"a": {Required: true, Kind: String},
	}
	res := Check(map[string]interface{}{}, rules)
	if len(res.Errors) != 2 || res.Errors[0].Field != "a" || res.Errors[1].Field != "b" {
		t.Errorf("expected sorted field order, got %v", res.Errors)
	}
}

func TestSearchTerm(t *testing.T) {
	for _, q := range []string{"para", "aspirin 500", "o'neil"} {
		if !SearchTerm(q) {
			t.Errorf("SearchTerm(%q) = false, want true", q)
		}
	}
	for _, q := range []string{"", "a&b", "a?b", "a=b"} {
		if SearchTerm(q) {
			t.Errorf("SearchTerm(%q) = true, want false", q)
		}
	}
}
