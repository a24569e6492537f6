package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatatypeParse(t *testing.T) {
	tests := []struct {
		datatype Datatype
		value    string
		ok       bool
	}{
		{DatatypeString, "anything", true},
		{"", "anything", true},
		{DatatypeInteger, "42", true},
		{DatatypeInteger, "4.2", false},
		{DatatypeDecimal, "4.2", true},
		{DatatypeDecimal, "four", false},
		{DatatypeMoney, "12.50 EUR", true},
		{DatatypeMoney, "12.50", true},
		{DatatypeMoney, "12.50 EURO", false},
		{DatatypeBoolean, "true", true},
		{DatatypeBoolean, "yes", false},
		{DatatypeDate, "2024-02-29", true},
		{DatatypeDate, "2023-02-29", false},
		{"Complex", "1", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.datatype)+"/"+tt.value, func(t *testing.T) {
			err := tt.datatype.Parse(tt.value)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestDatatypeCompare(t *testing.T) {
	c, err := DatatypeDecimal.Compare("1.50", "1.5")
	assert.NoError(t, err)
	assert.Equal(t, 0, c)

	c, err = DatatypeInteger.Compare("2", "10")
	assert.NoError(t, err)
	assert.Equal(t, -1, c)

	_, err = DatatypeString.Compare("a", "b")
	assert.ErrorIs(t, err, ErrNotComparable)

	_, err = DatatypeInteger.Compare("a", "1")
	assert.ErrorIs(t, err, ErrNotParsable)
}
