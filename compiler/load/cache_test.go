package load

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFingerprint(t *testing.T) {
	a := Fingerprint(map[string][]byte{
		"user.xml": []byte("<entity name=\"User\"/>"),
		"pet.xml":  []byte("<entity name=\"Pet\"/>"),
	})
	b := Fingerprint(map[string][]byte{
		"pet.xml":  []byte("<entity name=\"Pet\"/>"),
		"user.xml": []byte("<entity name=\"User\"/>"),
	})
	// Independent of map iteration order.
	require.Equal(t, a, b)

	c := Fingerprint(map[string][]byte{
		"user.xml": []byte("<entity name=\"Account\"/>"),
		"pet.xml":  []byte("<entity name=\"Pet\"/>"),
	})
	require.NotEqual(t, a, c)
}

func TestCache(t *testing.T) {
	cache := NewCache(t.TempDir())
	key := Fingerprint(map[string][]byte{"user.xml": []byte("<entity/>")})

	_, ok, err := cache.Load(key)
	require.NoError(t, err)
	require.False(t, ok)

	schemas := []*Schema{{Name: "User"}, {Name: "Pet"}}
	require.NoError(t, cache.Store(key, schemas))

	snap, ok, err := cache.Load(key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, key, snap.Fingerprint)
	require.Len(t, snap.Schemas, 2)
	require.Equal(t, "User", snap.Schemas[0].Name)
	require.False(t, snap.CreatedAt.IsZero())

	require.NoError(t, cache.Invalidate(key))
	_, ok, err = cache.Load(key)
	require.NoError(t, err)
	require.False(t, ok)
	// Invalidating a missing entry is not an error.
	require.NoError(t, cache.Invalidate(key))
}
