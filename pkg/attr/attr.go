// Package attr provides typed access to the raw attribute store of model nodes.
//
// The supported keys form a fixed enumeration. Each key maps to one codec in a
// static table that knows the raw storage key, how to decode the stored value
// and how to validate and encode a new one.
package attr

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/aretw0/archiscript/pkg/domain"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mitchellh/mapstructure"
)

// ErrUnknownKey is returned when setting a key outside the enumeration.
var ErrUnknownKey = errors.New("unknown attribute key")

// ErrInvalidValue is returned when a value cannot be encoded for its key.
var ErrInvalidValue = errors.New("invalid attribute value")

// Key identifies a typed attribute.
type Key int

const (
	KeyUnknown Key = iota
	KeyBounds
	KeyFont
	KeyFontColor
	KeyLineColor
	KeyFillColor
	KeyLineWidth
	KeyAlpha
	KeyTextAlignment
)

// Text alignment values stored under KeyTextAlignment.
const (
	TextAlignLeft   = 1
	TextAlignCenter = 2
	TextAlignRight  = 4
)

// Bounds is the geometry of a diagram object.
type Bounds struct {
	X      int `json:"x" mapstructure:"x"`
	Y      int `json:"y" mapstructure:"y"`
	Width  int `json:"width" mapstructure:"width"`
	Height int `json:"height" mapstructure:"height"`
}

type codec struct {
	name     string
	raw      string
	fallback any
	decode   func(raw any) any
	encode   func(v any) (any, error)
}

var codecs = map[Key]codec{
	KeyBounds:        {name: "BOUNDS", raw: "bounds", decode: decodeBounds, encode: encodeBounds},
	KeyFont:          {name: "FONT", raw: "font", decode: decodeString, encode: encodeString},
	KeyFontColor:     {name: "FONT_COLOR", raw: "fontColor", decode: decodeColor, encode: encodeColor},
	KeyLineColor:     {name: "LINE_COLOR", raw: "lineColor", decode: decodeColor, encode: encodeColor},
	KeyFillColor:     {name: "FILL_COLOR", raw: "fillColor", decode: decodeColor, encode: encodeColor},
	KeyLineWidth:     {name: "LINE_WIDTH", raw: "lineWidth", fallback: 1, decode: decodeInt, encode: encodeIntRange(1, 3)},
	KeyAlpha:         {name: "ALPHA", raw: "alpha", fallback: 255, decode: decodeInt, encode: encodeIntRange(0, 255)},
	KeyTextAlignment: {name: "TEXT_ALIGNMENT", raw: "textAlignment", fallback: TextAlignCenter, decode: decodeInt, encode: encodeAlignment},
}

// Keys returns every supported key in declaration order.
func Keys() []Key {
	return []Key{KeyBounds, KeyFont, KeyFontColor, KeyLineColor, KeyFillColor, KeyLineWidth, KeyAlpha, KeyTextAlignment}
}

// ParseKey resolves a key name such as "FILL_COLOR". Matching ignores case.
func ParseKey(name string) (Key, bool) {
	for k, c := range codecs {
		if strings.EqualFold(c.name, name) {
			return k, true
		}
	}
	return KeyUnknown, false
}

func (k Key) String() string {
	if c, ok := codecs[k]; ok {
		return c.name
	}
	return "UNKNOWN"
}

// RawKey returns the storage key used in domain.Node.Attrs.
func (k Key) RawKey() string {
	return codecs[k].raw
}

// Default returns the type default of a key, if it has one.
func Default(k Key) (any, bool) {
	c, ok := codecs[k]
	if !ok || c.fallback == nil {
		return nil, false
	}
	return c.fallback, true
}

// Get decodes the value stored on n. It returns nil when the key is unknown,
// nothing is stored, or the stored value cannot be decoded.
func Get(n *domain.Node, k Key) any {
	c, ok := codecs[k]
	if !ok {
		return nil
	}
	raw, ok := n.Attr(c.raw)
	if !ok {
		return nil
	}
	return c.decode(raw)
}

// Set encodes value and stores it on n. A nil value (or an empty string)
// removes the override so the node falls back to its type default.
// Set does not check the model's write guard; callers do.
func Set(n *domain.Node, k Key, value any) error {
	c, ok := codecs[k]
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnknownKey, k)
	}
	if value == nil {
		n.SetAttr(c.raw, nil)
		return nil
	}
	if s, ok := value.(string); ok && s == "" {
		n.SetAttr(c.raw, nil)
		return nil
	}

	encoded, err := c.encode(value)
	if err != nil {
		return fmt.Errorf("%s: %w", c.name, err)
	}
	n.SetAttr(c.raw, encoded)
	return nil
}

func decodeBounds(raw any) any {
	var b Bounds
	if err := mapstructure.WeakDecode(raw, &b); err != nil {
		return nil
	}
	return b
}

func encodeBounds(v any) (any, error) {
	var b Bounds
	switch t := v.(type) {
	case Bounds:
		b = t
	case *Bounds:
		b = *t
	default:
		if err := mapstructure.WeakDecode(v, &b); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
	}
	if b.Width < -1 || b.Height < -1 {
		return nil, fmt.Errorf("%w: negative size %dx%d", ErrInvalidValue, b.Width, b.Height)
	}
	return map[string]any{"x": b.X, "y": b.Y, "width": b.Width, "height": b.Height}, nil
}

func decodeString(raw any) any {
	s, ok := raw.(string)
	if !ok || s == "" {
		return nil
	}
	return s
}

func encodeString(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%w: expected string, got %T", ErrInvalidValue, v)
	}
	return s, nil
}

func decodeColor(raw any) any {
	s, ok := raw.(string)
	if !ok || s == "" {
		return nil
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return nil
	}
	return c.Hex()
}

func encodeColor(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%w: expected color string, got %T", ErrInvalidValue, v)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a #rrggbb color", ErrInvalidValue, s)
	}
	return c.Hex(), nil
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case bool:
		return 0, fmt.Errorf("%w: expected integer, got %T", ErrInvalidValue, v)
	case float32:
		if float64(n) != math.Trunc(float64(n)) {
			return 0, fmt.Errorf("%w: expected integer, got %v", ErrInvalidValue, n)
		}
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("%w: expected integer, got %v", ErrInvalidValue, n)
		}
	}
	var i int
	if err := mapstructure.WeakDecode(v, &i); err != nil {
		return 0, fmt.Errorf("%w: expected integer, got %T", ErrInvalidValue, v)
	}
	return i, nil
}

func decodeInt(raw any) any {
	i, err := toInt(raw)
	if err != nil {
		return nil
	}
	return i
}

func encodeIntRange(lo, hi int) func(any) (any, error) {
	return func(v any) (any, error) {
		i, err := toInt(v)
		if err != nil {
			return nil, err
		}
		if i < lo || i > hi {
			return nil, fmt.Errorf("%w: %d outside [%d, %d]", ErrInvalidValue, i, lo, hi)
		}
		return i, nil
	}
}

func encodeAlignment(v any) (any, error) {
	i, err := toInt(v)
	if err != nil {
		return nil, err
	}
	switch i {
	case TextAlignLeft, TextAlignCenter, TextAlignRight:
		return i, nil
	}
	return nil, fmt.Errorf("%w: text alignment %d", ErrInvalidValue, i)
}
