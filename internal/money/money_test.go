package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversionsUseConfiguredRate(t *testing.T) {
	SetExchangeRate(4100)

	assert.Equal(t, 20500.0, ToKHR(5))
	assert.Equal(t, 5.0, ToUSD(20500))

	// Non-positive rates are ignored.
	SetExchangeRate(0)
	assert.Equal(t, 20500.0, ToKHR(5))
}

func TestToKHRRoundsToWholeRiel(t *testing.T) {
	SetExchangeRate(4100)

	assert.Equal(t, 10209.0, ToKHR(2.49))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "23,000 KHR", Format(23000, "KHR"))
	assert.Equal(t, "1,234,500 KHR", Format(1234500, ""))
	assert.Equal(t, "5.50 USD", Format(5.5, "usd"))
	assert.Equal(t, "-3,000 KHR", Format(-3000, "KHR"))
	assert.Equal(t, "950 KHR", Format(950, "KHR"))
}

func TestStringShortestForm(t *testing.T) {
	assert.Equal(t, "20", String(20.00))
	assert.Equal(t, "4.5", String(4.5))
}
