package space

import (
	"strconv"
	"strings"
)

// The canonical text forms are
//
//	point:  [x0,x1,...]
//	box:    [[lower...],[upper...]]
//	sphere: [[centre...],radius]
//
// Numbers use the shortest representation that parses back to the same
// float64, so Parse(Format(v)) reproduces v exactly.

func FormatPoint(p Point) string {
	var buf strings.Builder
	appendPoint(&buf, p)
	return buf.String()
}

func FormatBox(b Box) string {
	var buf strings.Builder

	buf.WriteByte('[')
	appendPoint(&buf, b.Lower)
	buf.WriteByte(',')
	appendPoint(&buf, b.Upper)
	buf.WriteByte(']')

	return buf.String()
}

func FormatSphere(s Sphere) string {
	var buf strings.Builder

	buf.WriteByte('[')
	appendPoint(&buf, s.Centre)
	buf.WriteByte(',')
	buf.WriteString(strconv.FormatFloat(s.Radius, 'g', -1, 64))
	buf.WriteByte(']')

	return buf.String()
}

func appendPoint(buf *strings.Builder, p Point) {
	buf.WriteByte('[')
	for i, x := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
	}
	buf.WriteByte(']')
}

func ParsePoint(s string) (Point, error) {
	elems, err := SplitList(s)
	if err != nil {
		return nil, err
	}

	p := make(Point, len(elems))
	for i, elem := range elems {
		if p[i], err = strconv.ParseFloat(elem, 64); err != nil {
			return nil, Wrap(KindParse, "point", err, "coordinate %d", i)
		}
	}
	if err := p.Validate(); err != nil {
		return nil, Wrap(KindParse, "point", err, "%q", s)
	}

	return p, nil
}

func ParseBox(s string) (Box, error) {
	elems, err := SplitList(s)
	if err != nil {
		return Box{}, err
	}
	if len(elems) != 2 {
		return Box{}, Errorf(KindParse, "box", "expected 2 corners, got %d", len(elems))
	}

	lower, err := ParsePoint(elems[0])
	if err != nil {
		return Box{}, Wrap(KindParse, "box", err, "lower corner")
	}
	upper, err := ParsePoint(elems[1])
	if err != nil {
		return Box{}, Wrap(KindParse, "box", err, "upper corner")
	}

	b := Box{Lower: lower, Upper: upper}
	if err := b.Validate(); err != nil {
		return Box{}, Wrap(KindParse, "box", err, "%q", s)
	}

	return b, nil
}

func ParseSphere(s string) (Sphere, error) {
	elems, err := SplitList(s)
	if err != nil {
		return Sphere{}, err
	}
	if len(elems) != 2 {
		return Sphere{}, Errorf(KindParse, "sphere", "expected centre and radius, got %d elements", len(elems))
	}

	centre, err := ParsePoint(elems[0])
	if err != nil {
		return Sphere{}, Wrap(KindParse, "sphere", err, "centre")
	}
	radius, err := strconv.ParseFloat(elems[1], 64)
	if err != nil {
		return Sphere{}, Wrap(KindParse, "sphere", err, "radius")
	}

	sp := Sphere{Centre: centre, Radius: radius}
	if err := sp.Validate(); err != nil {
		return Sphere{}, Wrap(KindParse, "sphere", err, "%q", s)
	}

	return sp, nil
}

// SplitList strips the outer brackets of a list and returns its top-level
// elements with surrounding blanks removed. "[1,[2,3]]" gives "1" and "[2,3]".
func SplitList(s string) ([]string, error) {
	s = strings.TrimSpace(s)

	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, Errorf(KindParse, "list", "%q is not a bracketed list", s)
	}

	var (
		body  = s[1 : len(s)-1]
		elems []string
		depth int
		start int
	)

	if strings.TrimSpace(body) == "" {
		return nil, Errorf(KindParse, "list", "%q is empty", s)
	}

	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth < 0 {
				return nil, Errorf(KindParse, "list", "unbalanced ']' in %q", s)
			}
		case ',':
			if depth == 0 {
				elems = append(elems, strings.TrimSpace(body[start:i]))
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, Errorf(KindParse, "list", "unbalanced '[' in %q", s)
	}
	elems = append(elems, strings.TrimSpace(body[start:]))

	for i, elem := range elems {
		if elem == "" {
			return nil, Errorf(KindParse, "list", "element %d of %q is empty", i, s)
		}
	}

	return elems, nil
}
