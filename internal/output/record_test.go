package output_test

import (
	"encoding/json"
	"testing"

	"github.com/dnitsch/s3-credentials/internal/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Record_Set_keeps_first_position(t *testing.T) {
	r := output.NewRecord("b", 1, "a", 2)
	r.Set("b", 3)
	assert.Equal(t, []string{"b", "a"}, r.Keys())
	v, ok := r.Get("b")
	require.True(t, ok)
	assert.Equal(t, 3, v)
}

func Test_ParseRecord_with(t *testing.T) {
	ttests := map[string]struct {
		input     string
		keys      []string
		expectErr error
	}{
		"order kept": {
			input: `{"Version": "2012-10-17", "Statement": [{"Effect": "Allow"}], "Id": 7}`,
			keys:  []string{"Version", "Statement", "Id"},
		},
		"empty object": {
			input: `{}`,
			keys:  nil,
		},
		"array is not an object": {
			input:     `["a"]`,
			expectErr: output.ErrNotAnObject,
		},
		"trailing data": {
			input:     `{"a": 1} {"b": 2}`,
			expectErr: output.ErrTrailingData,
		},
		"truncated": {
			input:     `{"a": `,
			expectErr: output.ErrMalformedJSON,
		},
	}
	for name, tt := range ttests {
		t.Run(name, func(t *testing.T) {
			got, err := output.ParseRecord([]byte(tt.input))
			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.keys, got.Keys())
		})
	}
}

func Test_ParseRecord_numbers_render_unchanged(t *testing.T) {
	r, err := output.ParseRecord([]byte(`{"big": 12345678901234567890, "f": 1.50}`))
	require.NoError(t, err)
	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"big":12345678901234567890,"f":1.50}`, string(b))
}
