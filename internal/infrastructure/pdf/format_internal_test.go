package pdf

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":         "$0,00",
		"5.5":       "$5,50",
		"1234.56":   "$1.234,56",
		"1234567.5": "$1.234.567,50",
		"-250":      "-$250,00",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}
