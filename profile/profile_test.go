package profile

import "testing"

func TestKindForGlobalKnownAndUnknown(t *testing.T) {
	if got := KindForGlobal(MesgRecord); got != KindRecord {
		t.Fatalf("got %v, want %v", got, KindRecord)
	}
	if got := KindForGlobal(9999); got != KindOther {
		t.Fatalf("got %v, want %v", got, KindOther)
	}
}

func TestFieldNameFallback(t *testing.T) {
	if got := FieldName(MesgRecord, 3); got != "heart_rate" {
		t.Fatalf("got %q, want heart_rate", got)
	}
	if got := FieldName(MesgRecord, 250); got != "field_250" {
		t.Fatalf("got %q, want field_250", got)
	}
}

func TestConversionApply(t *testing.T) {
	c, ok := ConversionFor(MesgRecord, "altitude")
	if !ok {
		t.Fatalf("expected altitude conversion")
	}
	got := c.Apply(2600)
	want := 2600.0/5 - 500
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}

	if _, ok := ConversionFor(MesgRecord, "heart_rate"); ok {
		t.Fatalf("expected no conversion for heart_rate")
	}
}

func TestGlobalMessageNameFallback(t *testing.T) {
	if got := GlobalMessageName(MesgLap); got != "lap" {
		t.Fatalf("got %q, want lap", got)
	}
	if got := GlobalMessageName(65000); got != "global_65000" {
		t.Fatalf("got %q, want global_65000", got)
	}
}
