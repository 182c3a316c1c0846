package adminauth_test

import (
	"regexp"
	"testing"
	"time"

	adminauth "github.com/dkportfolio/go-admin-auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keyCodePattern = regexp.MustCompile(`^DKADMIN-[0-9A-F]{8}-[0-9A-F]{8}-[0-9A-F]{8}-[0-9A-F]{4}$`)

func TestGenerateKeyCode(t *testing.T) {
	code, err := adminauth.GenerateKeyCode("")
	require.NoError(t, err)
	assert.Regexp(t, keyCodePattern, code)
}

func TestGenerateKeyCodeCustomPrefix(t *testing.T) {
	code, err := adminauth.GenerateKeyCode("STAGING")
	require.NoError(t, err)
	assert.Regexp(t, `^STAGING-[0-9A-F]{8}-[0-9A-F]{8}-[0-9A-F]{8}-[0-9A-F]{4}$`, code)
}

func TestMintKeys(t *testing.T) {
	expiry := time.Now().Add(24 * time.Hour)
	keys, err := adminauth.MintKeys("", 25, &expiry, "launch batch")
	require.NoError(t, err)
	require.Len(t, keys, 25)

	seen := map[string]bool{}
	for _, key := range keys {
		assert.Regexp(t, keyCodePattern, key.Code)
		assert.False(t, seen[key.Code], "duplicate code in batch: %s", key.Code)
		seen[key.Code] = true

		assert.Equal(t, adminauth.KeyStatusUnused, key.Status)
		assert.Equal(t, "launch batch", key.Description)
		require.NotNil(t, key.ExpiresAt)
		assert.True(t, key.ExpiresAt.Equal(expiry))
	}
}

func TestMintKeysZero(t *testing.T) {
	keys, err := adminauth.MintKeys("", 0, nil, "")
	require.NoError(t, err)
	assert.Empty(t, keys)
}
