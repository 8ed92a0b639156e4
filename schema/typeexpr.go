package schema

import (
	"fmt"
	"strconv"
	"unicode"
)

var primitiveNames = map[string]Kind{
	"bool":     KindBool,
	"u8":       KindU8,
	"u16":      KindU16,
	"u32":      KindU32,
	"u64":      KindU64,
	"i8":       KindI8,
	"i16":      KindI16,
	"i32":      KindI32,
	"i64":      KindI64,
	"f32":      KindF32,
	"f64":      KindF64,
	"string":   KindString,
	"duration": KindDuration,
	"isize":    KindIsize,
	"usize":    KindUsize,
}

// ParseType parses a type expression such as "list<map<string,i32>>",
// "array<u8,4>", "nonzero<u32>", "option<Point>" or "Point".
func ParseType(expr string) (*Type, error) {
	p := &typeParser{src: expr}
	t, err := p.parse()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errorf("unexpected %q", p.src[p.pos:])
	}
	return t, nil
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) errorf(format string, args ...any) error {
	return fmt.Errorf("type %q at offset %d: %s", p.src, p.pos, fmt.Sprintf(format, args...))
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *typeParser) ident() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		r := rune(p.src[p.pos])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *typeParser) expect(c byte) error {
	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != c {
		return p.errorf("expected %q", c)
	}
	p.pos++
	return nil
}

func (p *typeParser) parse() (*Type, error) {
	name := p.ident()
	if name == "" {
		return nil, p.errorf("expected type name")
	}

	if k, ok := primitiveNames[name]; ok {
		return Prim(k), nil
	}

	switch name {
	case "list", "option", "nonzero":
		if err := p.expect('<'); err != nil {
			return nil, err
		}
		elem, err := p.parse()
		if err != nil {
			return nil, err
		}
		if err := p.expect('>'); err != nil {
			return nil, err
		}
		switch name {
		case "list":
			return List(elem), nil
		case "option":
			return Option(elem), nil
		}
		return NonZero(elem), nil

	case "map":
		if err := p.expect('<'); err != nil {
			return nil, err
		}
		key, err := p.parse()
		if err != nil {
			return nil, err
		}
		if err := p.expect(','); err != nil {
			return nil, err
		}
		val, err := p.parse()
		if err != nil {
			return nil, err
		}
		if err := p.expect('>'); err != nil {
			return nil, err
		}
		return Map(key, val), nil

	case "array":
		if err := p.expect('<'); err != nil {
			return nil, err
		}
		elem, err := p.parse()
		if err != nil {
			return nil, err
		}
		if err := p.expect(','); err != nil {
			return nil, err
		}
		digits := p.ident()
		n, err := strconv.Atoi(digits)
		if err != nil || n < 0 {
			return nil, p.errorf("invalid array length %q", digits)
		}
		if err := p.expect('>'); err != nil {
			return nil, err
		}
		return Array(elem, n), nil
	}

	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == '<' {
		return nil, p.errorf("%s is not a generic type", name)
	}
	if !unicode.IsUpper(rune(name[0])) {
		return nil, p.errorf("unknown type %s", name)
	}
	return Named(name), nil
}

// MustParseType is ParseType for expressions known to be valid.
func MustParseType(expr string) *Type {
	t, err := ParseType(expr)
	if err != nil {
		panic(err)
	}
	return t
}
