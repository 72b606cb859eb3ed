package paint

import (
	"encoding/json"
	"testing"
)

func TestHex_RoundTrip(t *testing.T) {
	cases := []string{"#fd8d3c", "#000000", "#ffffff", "#6ea8fe"}
	for _, s := range cases {
		c, err := Hex(s)
		if err != nil {
			t.Fatalf("Hex(%q): %v", s, err)
		}
		if got := c.Hex(); got != s {
			t.Errorf("round trip %q -> %q", s, got)
		}
		if c.A != 1 {
			t.Errorf("%q should parse opaque, alpha=%v", s, c.A)
		}
	}
}

func TestHex_WithAlphaChannel(t *testing.T) {
	c, err := Hex("#ff000080")
	if err != nil {
		t.Fatal(err)
	}
	if c.R != 1 || c.G != 0 || c.B != 0 {
		t.Errorf("rgb = %v,%v,%v", c.R, c.G, c.B)
	}
	if c.A < 0.49 || c.A > 0.52 {
		t.Errorf("alpha = %v, want ~0.5", c.A)
	}
}

func TestHex_Invalid(t *testing.T) {
	for _, s := range []string{"", "red", "#12", "fd8d3c"} {
		if _, err := Hex(s); err == nil {
			t.Errorf("Hex(%q) should fail", s)
		}
	}
}

func TestBlend_Linear(t *testing.T) {
	black := RGB(0, 0, 0)
	white := RGB(1, 1, 1)
	mid := black.Blend(white, 0.5)
	if mid.R != 0.5 || mid.G != 0.5 || mid.B != 0.5 {
		t.Errorf("midpoint = %+v", mid)
	}
	// t clamps, so channels can never overshoot.
	over := black.Blend(white, 1.5)
	if over != white {
		t.Errorf("clamped blend = %+v, want white", over)
	}
}

func TestColor_JSON(t *testing.T) {
	c := MustHex("#fd8d3c")
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"#fd8d3c"` {
		t.Errorf("marshal = %s", data)
	}
	var back Color
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back != c {
		t.Errorf("round trip = %+v, want %+v", back, c)
	}

	var empty Color
	if err := json.Unmarshal([]byte(`""`), &empty); err != nil {
		t.Fatal(err)
	}
	if !empty.IsZero() {
		t.Error("empty string should leave the color unset")
	}
}

func TestIsZero(t *testing.T) {
	if !(Color{}).IsZero() {
		t.Error("zero value should be unset")
	}
	if RGB(0, 0, 0).IsZero() {
		t.Error("opaque black is a real color, not unset")
	}
}
