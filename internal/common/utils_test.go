package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("New York", "york"))
	assert.True(t, ContainsFold("London", "LON"))
	assert.False(t, ContainsFold("Paris", "lon"))
	assert.True(t, ContainsFold("anything", ""))
}

func TestHasAny(t *testing.T) {
	assert.True(t, HasAny("maps.googleapis.com: ZERO_RESULTS", "zero_results", "not_found"))
	assert.False(t, HasAny("OVER_QUERY_LIMIT", "zero_results"))
	assert.False(t, HasAny("text"))
}
