package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Datatype names the value domain of an attribute.
type Datatype string

// Supported datatypes.
const (
	DatatypeString  Datatype = "String"
	DatatypeInteger Datatype = "Integer"
	DatatypeDecimal Datatype = "Decimal"
	DatatypeMoney   Datatype = "Money"
	DatatypeBoolean Datatype = "Boolean"
	DatatypeDate    Datatype = "Date"
)

// DateLayout is the persisted form of Date values and generation valid-from dates.
const DateLayout = "2006-01-02"

// Datatype errors.
var (
	ErrUnknownDatatype = errors.New("unknown datatype")
	ErrNotParsable     = errors.New("value not parsable")
	ErrNotComparable   = errors.New("datatype values are not comparable")
)

// IsValid reports whether d is a known datatype.
func (d Datatype) IsValid() bool {
	switch d {
	case DatatypeString, DatatypeInteger, DatatypeDecimal, DatatypeMoney, DatatypeBoolean, DatatypeDate:
		return true
	}
	return false
}

// IsNumeric reports whether values of d can bound a range.
func (d Datatype) IsNumeric() bool {
	return d == DatatypeInteger || d == DatatypeDecimal || d == DatatypeMoney
}

// IsOrdered reports whether Compare is defined for d.
func (d Datatype) IsOrdered() bool {
	return d.IsNumeric() || d == DatatypeDate
}

// Parse checks that s is a valid literal of d. The empty datatype behaves
// like String.
func (d Datatype) Parse(s string) error {
	switch d {
	case "", DatatypeString:
		return nil
	case DatatypeInteger:
		if _, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err != nil {
			return fmt.Errorf("%w: %q is not an Integer", ErrNotParsable, s)
		}
	case DatatypeDecimal:
		if _, err := decimal.NewFromString(strings.TrimSpace(s)); err != nil {
			return fmt.Errorf("%w: %q is not a Decimal", ErrNotParsable, s)
		}
	case DatatypeMoney:
		if _, err := parseMoney(s); err != nil {
			return fmt.Errorf("%w: %q is not a Money amount", ErrNotParsable, s)
		}
	case DatatypeBoolean:
		if _, err := strconv.ParseBool(strings.TrimSpace(s)); err != nil {
			return fmt.Errorf("%w: %q is not a Boolean", ErrNotParsable, s)
		}
	case DatatypeDate:
		if _, err := time.Parse(DateLayout, strings.TrimSpace(s)); err != nil {
			return fmt.Errorf("%w: %q is not a Date", ErrNotParsable, s)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownDatatype, d)
	}
	return nil
}

// Compare returns -1, 0 or 1 ordering a and b. Both must parse.
func (d Datatype) Compare(a, b string) (int, error) {
	switch d {
	case DatatypeInteger, DatatypeDecimal:
		x, err := decimal.NewFromString(strings.TrimSpace(a))
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNotParsable, a)
		}
		y, err := decimal.NewFromString(strings.TrimSpace(b))
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNotParsable, b)
		}
		return x.Cmp(y), nil
	case DatatypeMoney:
		x, err := parseMoney(a)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNotParsable, a)
		}
		y, err := parseMoney(b)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNotParsable, b)
		}
		return x.Cmp(y), nil
	case DatatypeDate:
		x, err := time.Parse(DateLayout, strings.TrimSpace(a))
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNotParsable, a)
		}
		y, err := time.Parse(DateLayout, strings.TrimSpace(b))
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNotParsable, b)
		}
		return x.Compare(y), nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrNotComparable, d)
	}
}

// parseMoney accepts an amount with an optional trailing currency code,
// e.g. "12.50 EUR".
func parseMoney(s string) (decimal.Decimal, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 2 {
		return decimal.Decimal{}, ErrNotParsable
	}
	if len(fields) == 2 && len(fields[1]) != 3 {
		return decimal.Decimal{}, ErrNotParsable
	}
	return decimal.NewFromString(fields[0])
}

// onStep reports whether v - lower is a whole multiple of step. A zero
// step accepts every value.
func onStep(v, lower, step string) bool {
	x, err := parseMoney(v)
	if err != nil {
		return false
	}
	lo, err := parseMoney(lower)
	if err != nil {
		return false
	}
	st, err := decimal.NewFromString(strings.TrimSpace(step))
	if err != nil {
		return false
	}
	if st.IsZero() {
		return true
	}
	return x.Sub(lo).Mod(st).IsZero()
}
