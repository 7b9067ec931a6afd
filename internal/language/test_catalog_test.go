package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	assert.Equal(t, "zh", c.Native().Tag)
	assert.Len(t, c.All(), 3)

	for _, key := range []string{"en", "EN", "English", "English (英文)"} {
		l, err := c.Lookup(key)
		require.NoError(t, err, key)
		assert.Equal(t, "en", l.Tag)
	}
	l, err := c.Lookup("")
	require.NoError(t, err)
	assert.True(t, l.Native)

	_, err = c.Lookup("klingon")
	assert.ErrorIs(t, err, ErrUnknown)
}

func TestParseRequiresOneNative(t *testing.T) {
	_, err := Parse([]byte("languages:\n  - tag: en\n  - tag: de\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("languages:\n  - tag: en\n    native: true\n  - tag: de\n    native: true\n"))
	assert.Error(t, err)

	c, err := Parse([]byte("languages:\n  - tag: de\n    native: true\n  - tag: fr\n    name: French\n"))
	require.NoError(t, err)
	assert.Equal(t, "de", c.Native().Tag)
	fr, err := c.Lookup("french")
	require.NoError(t, err)
	assert.Equal(t, "fr", fr.FileTag)
}
