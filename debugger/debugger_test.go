package debugger

import "testing"

func TestFlagString(t *testing.T) {
	cases := []struct {
		flags uint8
		want  string
	}{
		{0x00, "------"},
		{0x80, "N-----"},
		{0xFC, "NZCVHI"},
		{0x24, "--C--I"},
	}
	for _, c := range cases {
		if got := flagString(c.flags); got != c.want {
			t.Fatalf("flagString(0x%02X) = %q, want %q", c.flags, got, c.want)
		}
	}
}

func TestParseAddr(t *testing.T) {
	cases := []struct {
		in   string
		want uint16
	}{
		{"0x100", 0x100},
		{"100", 0x100},
		{"FFFF", 0xFFFF},
	}
	for _, c := range cases {
		got, err := parseAddr(c.in)
		if err != nil {
			t.Fatalf("parseAddr(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("parseAddr(%q) = 0x%04X, want 0x%04X", c.in, got, c.want)
		}
	}
}

func TestParseAddrRejectsGarbage(t *testing.T) {
	if _, err := parseAddr("not-hex"); err == nil {
		t.Fatalf("expected an error for non-hex input")
	}
}
