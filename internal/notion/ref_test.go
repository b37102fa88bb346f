package notion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDatabaseRef(t *testing.T) {
	const want = "8a1b2c3d-4e5f-6789-0123-456789abcdef"

	cases := []struct {
		name string
		raw  string
	}{
		{"dashed id", "8a1b2c3d-4e5f-6789-0123-456789abcdef"},
		{"bare id", "8a1b2c3d4e5f67890123456789abcdef"},
		{"uppercase id", "8A1B2C3D4E5F67890123456789ABCDEF"},
		{"padded id", "  8a1b2c3d4e5f67890123456789abcdef\n"},
		{"plain url", "https://www.notion.so/8a1b2c3d4e5f67890123456789abcdef"},
		{"titled url", "https://www.notion.so/acme/Team-Wiki-8a1b2c3d4e5f67890123456789abcdef"},
		{"url with view", "https://www.notion.so/acme/Team-Wiki-8a1b2c3d4e5f67890123456789abcdef?v=1f2e3d4c"},
		{"url with dashed id", "https://www.notion.so/8a1b2c3d-4e5f-6789-0123-456789abcdef"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDatabaseRef(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParseDatabaseRefRejectsGarbage(t *testing.T) {
	for _, raw := range []string{
		"",
		"   ",
		"not-an-id",
		"https://www.notion.so/acme/Just-A-Title",
		"8a1b2c3d4e5f",
	} {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseDatabaseRef(raw)
			require.Error(t, err)
		})
	}
}
