package models

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// decimal128Digits is the coefficient precision of a BSON Decimal128.
const decimal128Digits = 34

// Money is an exact decimal amount. It is stored as Decimal128 and
// rendered in JSON as a number with two fraction digits.
type Money struct {
	decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

// ParseMoney parses a non-negative decimal amount that fits a Decimal128.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q", s)
	}
	if d.IsNegative() {
		return Money{}, fmt.Errorf("amount must not be negative")
	}
	m := Money{Decimal: d}
	if !m.Representable() {
		return Money{}, fmt.Errorf("amount %q is out of range", s)
	}
	return m, nil
}

// Representable reports whether m can be stored as a Decimal128 without
// rounding. The exponent is bounded before m is ever rendered as text.
func (m Money) Representable() bool {
	exp := int(m.Exponent())
	if exp < -decimal128Digits {
		return false
	}
	intDigits := m.NumDigits()
	if exp > 0 {
		intDigits += exp
	}
	if intDigits > decimal128Digits {
		return false
	}
	_, err := primitive.ParseDecimal128(m.String())
	return err == nil
}

func (m Money) Times(quantity int) Money {
	return Money{Decimal: m.Mul(decimal.NewFromInt(int64(quantity)))}
}

func (m Money) Plus(other Money) Money {
	return Money{Decimal: m.Add(other.Decimal)}
}

func (m Money) Equal(other Money) bool {
	return m.Decimal.Equal(other.Decimal)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.StringFixed(2)), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	return m.Decimal.UnmarshalJSON(data)
}

func (m Money) MarshalBSONValue() (bsontype.Type, []byte, error) {
	d, err := primitive.ParseDecimal128(m.String())
	if err != nil {
		return 0, nil, err
	}
	return bson.MarshalValue(d)
}

func (m *Money) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeDecimal128:
		d, err := decimal.NewFromString(raw.Decimal128().String())
		if err != nil {
			return err
		}
		m.Decimal = d
	case bson.TypeDouble:
		m.Decimal = decimal.NewFromFloat(raw.Double())
	case bson.TypeInt32:
		m.Decimal = decimal.NewFromInt32(raw.Int32())
	case bson.TypeInt64:
		m.Decimal = decimal.NewFromInt(raw.Int64())
	case bson.TypeNull:
		m.Decimal = decimal.Zero
	default:
		return fmt.Errorf("cannot decode %s into Money", t)
	}
	return nil
}
