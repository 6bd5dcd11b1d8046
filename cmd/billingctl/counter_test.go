package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCounter(t *testing.T) {
	v, err := parseCounter("120")
	require.NoError(t, err)
	assert.Equal(t, int64(120), v)

	v, err = parseCounter("B00007")
	require.NoError(t, err)
	assert.Equal(t, int64(100_007), v)

	_, err = parseCounter("-1")
	assert.Error(t, err)
	_, err = parseCounter("abc")
	assert.Error(t, err)
}

func TestCounterKey(t *testing.T) {
	assert.Equal(t, "custom", counterKey("custom"))
	assert.NotEmpty(t, counterKey(""))
}
