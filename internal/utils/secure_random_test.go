package utils

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccountNumber(t *testing.T) {
	for i := 0; i < 200; i++ {
		number, err := GenerateAccountNumber(1002003000, 1000, 10)
		require.NoError(t, err)
		require.Len(t, number, 10)

		n, err := strconv.ParseInt(number, 10, 64)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, int64(1002003000))
		assert.Less(t, n, int64(1002004000))
	}
}

func TestGenerateAccountNumber_Padding(t *testing.T) {
	number, err := GenerateAccountNumber(7, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, "0007", number)
}

func TestGenerateAccountNumber_InvalidRange(t *testing.T) {
	_, err := GenerateAccountNumber(0, 0, 10)
	assert.Error(t, err)

	_, err = GenerateAccountNumber(100000, 1, 3)
	assert.Error(t, err)
}
