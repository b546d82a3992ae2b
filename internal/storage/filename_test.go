package storage

import (
	"crypto/md5"
	"crypto/sha256"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sha256Name = regexp.MustCompile(`^[0-9a-f]{64}\.jpg$`)

func TestBuildFilenameSHA256(t *testing.T) {
	name, err := BuildFilename("jpg", sha256.New)
	require.NoError(t, err)
	assert.Regexp(t, sha256Name, name)
}

func TestBuildFilenameUsesGivenDigest(t *testing.T) {
	name, err := BuildFilename("png", md5.New)
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9a-f]{32}\.png$`, name)
}

func TestBuildFilenameIsPracticallyUnique(t *testing.T) {
	seen := make(map[string]struct{}, 500)
	for i := 0; i < 500; i++ {
		name, err := BuildFilename("webp", sha256.New)
		require.NoError(t, err)
		_, dup := seen[name]
		require.False(t, dup, "duplicate name %s", name)
		seen[name] = struct{}{}
	}
}
