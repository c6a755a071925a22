package envutil

import (
	"reflect"
	"testing"
)

func TestStringFallsThroughNames(t *testing.T) {
	t.Setenv("ENVUTIL_A", "")
	t.Setenv("ENVUTIL_B", " second ")
	if got := String("def", "ENVUTIL_A", "ENVUTIL_B"); got != "second" {
		t.Fatalf("String: got %q", got)
	}
	if got := String("def", "ENVUTIL_MISSING"); got != "def" {
		t.Fatalf("String default: got %q", got)
	}
}

func TestNumericAndBoolParsing(t *testing.T) {
	t.Setenv("ENVUTIL_INT", "42")
	t.Setenv("ENVUTIL_BADINT", "x")
	t.Setenv("ENVUTIL_FLOAT", "0.5")
	t.Setenv("ENVUTIL_BOOL", "on")

	if got := Int("ENVUTIL_INT", 1); got != 42 {
		t.Fatalf("Int: got %d", got)
	}
	if got := Int("ENVUTIL_BADINT", 7); got != 7 {
		t.Fatalf("Int bad value: got %d", got)
	}
	if got := Float("ENVUTIL_FLOAT", 1); got != 0.5 {
		t.Fatalf("Float: got %v", got)
	}
	if !Bool("ENVUTIL_BOOL", false) {
		t.Fatalf("Bool: expected true")
	}
	if Bool("ENVUTIL_BOOL_MISSING", false) {
		t.Fatalf("Bool default: expected false")
	}
}

func TestSplitCSV(t *testing.T) {
	got := SplitCSV(" hiking, ,music,")
	want := []string{"hiking", "music"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SplitCSV: got %v want %v", got, want)
	}
	if got := SplitCSV(""); got == nil || len(got) != 0 {
		t.Fatalf("SplitCSV empty: got %#v", got)
	}
}
