package money

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Money
	}{
		{"12.34", 1234},
		{"12,34", 1234},
		{" 300 ", 30000},
		{"0.005", 1},
		{"12.344", 1234},
		{"12.345", 1235},
		{"-4.50", -450},
		{"1e2", 10000},
	}
	for _, tc := range cases {
		got, err := Parse(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "abc", "12.3.4", "1,2,3", "$5", "99999999999999999999999"} {
		_, err := Parse(in)
		assert.ErrorIs(t, err, ErrInvalidAmount, in)
	}
}

func TestParseRejectsHugeExponent(t *testing.T) {
	inputs := []string{"1e999999999", "1e-999999999", "-1E2147483647", "0.1e33", "1e-33"}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, in := range inputs {
			_, err := Parse(in)
			assert.ErrorIs(t, err, ErrInvalidAmount, in)
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Parse did not return for large exponents")
	}
}

func TestParseBoundsMagnitude(t *testing.T) {
	got, err := Parse("10000000000000")
	require.NoError(t, err)
	assert.Equal(t, MaxAmount, got)

	got, err = Parse("-10000000000000.00")
	require.NoError(t, err)
	assert.Equal(t, -MaxAmount, got)

	for _, in := range []string{"10000000000000.01", "92233720368547758.07", "1e14", "-1e14"} {
		_, err := Parse(in)
		assert.ErrorIs(t, err, ErrInvalidAmount, in)
	}

	_, err = Parse(strings.Repeat("1", 65))
	assert.ErrorIs(t, err, ErrInvalidAmount)

	var payload struct {
		Amount Money `json:"amount"`
	}
	assert.Error(t, json.Unmarshal([]byte(`{"amount": 1e999999999}`), &payload))
}

func TestCheckedArithmetic(t *testing.T) {
	sum, err := FromMajor(300).CheckedAdd(FromMajor(50))
	require.NoError(t, err)
	assert.Equal(t, FromMajor(350), sum)

	diff, err := FromMajor(300).CheckedSub(FromMajor(350))
	require.NoError(t, err)
	assert.Equal(t, FromMajor(-50), diff)

	got, err := MaxAmount.CheckedAdd(1)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, MaxAmount, got, "receiver is returned unchanged on error")

	_, err = (-MaxAmount).CheckedSub(1)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = Money(math.MaxInt64).CheckedAdd(1)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = Money(0).CheckedSub(math.MinInt64)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestStringKeepsTwoDecimals(t *testing.T) {
	assert.Equal(t, "0.00", Money(0).String())
	assert.Equal(t, "1200.50", FromMinor(120050).String())
	assert.Equal(t, "-0.05", FromMinor(-5).String())
}

func TestFromFloatRounds(t *testing.T) {
	assert.Equal(t, Money(120050), FromFloat(1200.5))
	assert.Equal(t, Money(45025), FromFloat(450.25))
	assert.Equal(t, Money(30), FromFloat(0.1+0.2))
}

func TestJSONRoundTripFormats(t *testing.T) {
	type payload struct {
		Amount Money `json:"amount"`
	}

	var fromNumber payload
	require.NoError(t, json.Unmarshal([]byte(`{"amount": 350}`), &fromNumber))
	assert.Equal(t, FromMajor(350), fromNumber.Amount)

	var fromString payload
	require.NoError(t, json.Unmarshal([]byte(`{"amount": "19.99"}`), &fromString))
	assert.Equal(t, Money(1999), fromString.Amount)

	var bad payload
	assert.Error(t, json.Unmarshal([]byte(`{"amount": "ten"}`), &bad))

	out, err := json.Marshal(payload{Amount: 1050})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount": 10.50}`, string(out))
}

func TestArithmeticStaysInMinorUnits(t *testing.T) {
	a := FromFloat(0.1)
	b := FromFloat(0.2)
	assert.Equal(t, FromFloat(0.3), a.Add(b))
	assert.Equal(t, Money(-50), FromMajor(300).Sub(FromMajor(350)).Add(FromMajor(50)).Sub(50))
	assert.True(t, Max(1, 2) == 2 && Min(1, 2) == 1)
}
