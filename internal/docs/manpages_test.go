package docs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseWhatis(t *testing.T) {
	output := "ls (1)               - list directory contents\nlsattr (1)           - list file attributes\n"

	assert.Equal(t, "list directory contents", parseWhatis(output, "ls"))
	assert.Equal(t, "list file attributes", parseWhatis(output, "lsattr"))
	assert.Empty(t, parseWhatis(output, "cat"))
	assert.Empty(t, parseWhatis("", "ls"))
}

func TestFetchSummaryRejectsUnsafeNames(t *testing.T) {
	for _, name := range []string{"a;b", "a|b", "a b", "../bin/x", "a$(b)"} {
		_, err := fetchSummary(name)
		assert.Error(t, err, name)
	}
}
