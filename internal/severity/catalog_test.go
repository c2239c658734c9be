package severity

import "testing"

func TestResolveKnownCodes(t *testing.T) {
	t.Parallel()

	want := []string{
		"EMERGENCY", "ALERT", "CRITICAL", "ERROR",
		"WARNING", "NOTICE", "INFO", "DEBUG",
	}

	catalog := NewCatalog()
	for code, label := range want {
		level := catalog.Resolve(uint8(code))
		if level.Label != label {
			t.Errorf("Resolve(%d).Label = %q, want %q", code, level.Label, label)
		}
		if level.StyleKey == "" {
			t.Errorf("Resolve(%d) has empty style key", code)
		}
	}
}

func TestResolveFallback(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog()
	for _, code := range []uint8{8, 9, 100, 255} {
		level := catalog.Resolve(code)
		if level.Label != "UNKNOWN" {
			t.Errorf("Resolve(%d).Label = %q, want UNKNOWN", code, level.Label)
		}
		if level.StyleKey != DefaultStyleKey {
			t.Errorf("Resolve(%d).StyleKey = %q, want %q", code, level.StyleKey, DefaultStyleKey)
		}
	}
}

func TestStyleKeysCoversScale(t *testing.T) {
	t.Parallel()

	keys := NewCatalog().StyleKeys()
	if len(keys) != 8 {
		t.Fatalf("StyleKeys has %d entries, want 8", len(keys))
	}
	for code := uint8(0); code < 8; code++ {
		if _, ok := keys[code]; !ok {
			t.Errorf("StyleKeys missing code %d", code)
		}
	}
}
