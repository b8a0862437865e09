package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrice(t *testing.T) {
	assert.Equal(t, 3990, Price(SizeSmall))
	assert.Equal(t, 5990, Price(SizeMedium))
	assert.Equal(t, 7990, Price(SizeLarge))

	// все остальное стоит 0
	assert.Equal(t, 0, Price(""))
	assert.Equal(t, 0, Price("huge"))
	assert.Equal(t, 0, Price("SMALL"))
}
