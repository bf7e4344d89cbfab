package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("", "anything"))
	assert.True(t, ContainsFold("", ""))
	assert.True(t, ContainsFold("btc", "Bitcoin", "BTC"))
	assert.True(t, ContainsFold("POUND", "GBP", "Pound Sterling"))
	assert.False(t, ContainsFold("eth", "Bitcoin", "BTC"))
	assert.False(t, ContainsFold("eth"))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, Clamp(-4, 0, 10))
	assert.Equal(t, 10, Clamp(14, 0, 10))
	assert.Equal(t, 3, Clamp(3, 0, 10))
	assert.Equal(t, 5, Clamp(9, 5, 5))
}
