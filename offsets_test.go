package bdoc

import "testing"

func TestOffsetMapperRoundTrip(t *testing.T) {
	m := newOffsetMapper("a\U0001F600b")

	// code point -> utf16 unit
	tests := []struct{ p, j int }{
		{0, 0}, {1, 1}, {2, 3}, {3, 4},
	}
	for _, tt := range tests {
		j, err := m.toJava(tt.p)
		if err != nil {
			t.Fatalf("toJava(%d) error: %v", tt.p, err)
		}
		if j != tt.j {
			t.Errorf("toJava(%d) = %d, want %d", tt.p, j, tt.j)
		}
		p, err := m.toCodepoint(tt.j)
		if err != nil {
			t.Fatalf("toCodepoint(%d) error: %v", tt.j, err)
		}
		if p != tt.p {
			t.Errorf("toCodepoint(%d) = %d, want %d", tt.j, p, tt.p)
		}
	}
}

func TestOffsetMapperInsideSurrogate(t *testing.T) {
	m := newOffsetMapper("\U0001F600")
	if _, err := m.toCodepoint(1); err == nil {
		t.Error("offset inside a surrogate pair should not resolve")
	}
}

func TestOffsetMapperOutOfRange(t *testing.T) {
	m := newOffsetMapper("ab")
	if _, err := m.toJava(3); err == nil {
		t.Error("toJava past end of text should fail")
	}
	if _, err := m.toJava(-1); err == nil {
		t.Error("toJava of negative offset should fail")
	}
}

func TestOffsetMapperASCIIIdentity(t *testing.T) {
	m := newOffsetMapper("plain ascii")
	for i := 0; i <= len("plain ascii"); i++ {
		j, err := m.toJava(i)
		if err != nil || j != i {
			t.Errorf("toJava(%d) = %d, %v; want identity", i, j, err)
		}
	}
}

func TestConvertRangeSameType(t *testing.T) {
	m := newOffsetMapper("\U0001F600")
	s, e, err := m.convertRange(7, 9, OffsetJava, OffsetJava)
	if err != nil || s != 7 || e != 9 {
		t.Errorf("identical conventions must pass through: got %d,%d,%v", s, e, err)
	}
}
