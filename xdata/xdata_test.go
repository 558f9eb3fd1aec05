package xdata

import "testing"

func TestRegistryPutGet(t *testing.T) {
	r := NewRegistry()
	defer r.Close()

	r.Put("27dfb7e5900f4c2d80abc57015f42124-1", Metadata{Units: "watts", DisplayName: "eE"})

	meta, ok := r.Get("27dfb7e5900f4c2d80abc57015f42124-1")
	if !ok {
		t.Fatalf("expected a hit for a known key")
	}
	if meta.Units != "watts" || meta.DisplayName != "eE" {
		t.Fatalf("got %+v, want units=watts displayName=eE", meta)
	}

	if _, ok := r.Get("unknown-key"); ok {
		t.Fatalf("expected a miss for an unknown key")
	}
}

func TestRegistryResetFlushesEverything(t *testing.T) {
	r := NewRegistry()
	defer r.Close()

	r.Put("k1", Metadata{Units: "bpm"})
	r.Reset()

	if _, ok := r.Get("k1"); ok {
		t.Fatalf("expected Reset to flush all entries")
	}
}
