package bdoc

import "fmt"

// offsetMapper converts annotation offsets between the two supported unit
// conventions over a fixed text: Unicode code points ("p") and UTF-16 code
// units ("j"). Built once per conversion pass and discarded.
type offsetMapper struct {
	p2j []int // code point index -> utf16 unit offset, len = #runes + 1
	j2p []int // utf16 unit offset -> code point index, -1 inside a surrogate pair
}

func newOffsetMapper(text string) *offsetMapper {
	runes := []rune(text)
	p2j := make([]int, len(runes)+1)
	units := 0
	for i, r := range runes {
		p2j[i] = units
		if r >= 0x10000 {
			units += 2
		} else {
			units++
		}
	}
	p2j[len(runes)] = units

	j2p := make([]int, units+1)
	for i := range j2p {
		j2p[i] = -1
	}
	for i, u := range p2j {
		j2p[u] = i
	}
	return &offsetMapper{p2j: p2j, j2p: j2p}
}

// toJava converts a code point offset to a utf16 unit offset.
func (m *offsetMapper) toJava(off int) (int, error) {
	if off < 0 || off >= len(m.p2j) {
		return 0, fmt.Errorf("offset %d out of range [0,%d]", off, len(m.p2j)-1)
	}
	return m.p2j[off], nil
}

// toCodepoint converts a utf16 unit offset to a code point offset.
func (m *offsetMapper) toCodepoint(off int) (int, error) {
	if off < 0 || off >= len(m.j2p) {
		return 0, fmt.Errorf("offset %d out of range [0,%d]", off, len(m.j2p)-1)
	}
	p := m.j2p[off]
	if p < 0 {
		return 0, fmt.Errorf("offset %d falls inside a surrogate pair", off)
	}
	return p, nil
}

// convertRange converts a start/end pair between conventions. Identical
// conventions pass the pair through unchanged.
func (m *offsetMapper) convertRange(start, end int, from, to OffsetType) (int, int, error) {
	if from == to {
		return start, end, nil
	}
	convert := m.toJava
	if to == OffsetCodepoint {
		convert = m.toCodepoint
	}
	s, err := convert(start)
	if err != nil {
		return 0, 0, err
	}
	e, err := convert(end)
	if err != nil {
		return 0, 0, err
	}
	return s, e, nil
}
