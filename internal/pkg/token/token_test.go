// internal/pkg/token/token_test.go
package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tocpharma/packing-be/internal/pkg/token"
)

func TestMaker_IssueAndVerify(t *testing.T) {
	maker, err := token.NewMaker("test-secret", time.Hour)
	require.NoError(t, err)

	signed, err := maker.Issue("somchai")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := maker.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "somchai", claims.UserName)
}

func TestMaker_RejectsExpiredToken(t *testing.T) {
	maker, err := token.NewMaker("test-secret", time.Millisecond)
	require.NoError(t, err)

	signed, err := maker.Issue("somchai")
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond) // exp has second granularity

	_, err = maker.Verify(signed)
	assert.ErrorIs(t, err, token.ErrExpiredToken)
}

func TestMaker_RejectsForeignSignature(t *testing.T) {
	maker, err := token.NewMaker("test-secret", time.Hour)
	require.NoError(t, err)
	other, err := token.NewMaker("other-secret", time.Hour)
	require.NoError(t, err)

	signed, err := other.Issue("somchai")
	require.NoError(t, err)

	_, err = maker.Verify(signed)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestMaker_RejectsGarbage(t *testing.T) {
	maker, err := token.NewMaker("test-secret", time.Hour)
	require.NoError(t, err)

	_, err = maker.Verify("not.a.token")
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestNewMaker_RequiresSecret(t *testing.T) {
	_, err := token.NewMaker("", time.Hour)
	assert.Error(t, err)
}
