package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "authgate/pkg/domain-errors"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	require.NoError(t, Verify("correct horse battery staple", hash))

	err = Verify("wrong password", hash)
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
}

func TestHashRejectsEmpty(t *testing.T) {
	_, err := Hash("")
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeInvalidInput))
}

func TestHashRandomNeverVerifies(t *testing.T) {
	hash, err := HashRandom()
	require.NoError(t, err)

	// The placeholder is unusable: common guesses must not match.
	for _, guess := range []string{"", "password", "admin", hash} {
		if guess == "" {
			continue
		}
		assert.Error(t, Verify(guess, hash))
	}
}

func TestHashRandomIsUnique(t *testing.T) {
	a, err := HashRandom()
	require.NoError(t, err)
	b, err := HashRandom()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
