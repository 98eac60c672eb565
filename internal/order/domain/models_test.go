package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextOrderNumber(t *testing.T) {
	cases := map[string]string{
		"":        "RK0001",
		"RK0005":  "RK0006",
		"RK9999":  "RK10000",
		"RK10000": "RK10001",
		"legacy":  "RK0001",
	}
	for last, want := range cases {
		assert.Equal(t, want, NextOrderNumber(last), last)
	}
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("WIP")
	require.NoError(t, err)
	assert.Equal(t, StatusWIP, st)

	st, err = ParseStatus("")
	require.NoError(t, err)
	assert.Equal(t, StatusIssued, st)

	_, err = ParseStatus("lost")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
