package uploads

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitChunks(t *testing.T) {
	for name, tc := range map[string]struct {
		dataLen   int
		size      int
		wantLens  []int
		wantCount int
	}{
		"empty":          {0, 4, nil, 0},
		"exact-fit":      {8, 4, []int{4, 4}, 2},
		"with-remainder": {10, 4, []int{4, 4, 2}, 3},
		"single-small":   {3, 4, []int{3}, 1},
	} {
		t.Run(name, func(t *testing.T) {
			data := bytes.Repeat([]byte{0xAB}, tc.dataLen)
			chunks := splitChunks(data, tc.size)
			require.Len(t, chunks, tc.wantCount)
			for i, chunk := range chunks {
				assert.Len(t, chunk, tc.wantLens[i])
			}

			// chunks concatenate back to the original
			var joined []byte
			for _, chunk := range chunks {
				joined = append(joined, chunk...)
			}
			assert.True(t, bytes.Equal(data, joined))
		})
	}
}
