package compiler

import (
	"errors"
	"testing"

	"github.com/aretw0/lexctrace/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeReplacement(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		wantInput  string
		wantOutput string
	}{
		{"Pair", "a:b", "a", "b"},
		{"Epsilon Input", "0:s", "", "s"},
		{"Epsilon Output", "%<pl%>:0", "%<pl%>", ""},
		{"Both Epsilon", "0:0", "", ""},
		{"Escaped Colon", "a%:b:c", "a%:b", "c"},
		{"Zero Inside Fragment", "10:20", "10", "20"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, out, err := DecodeReplacement(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.wantInput, in)
			assert.Equal(t, tt.wantOutput, out)
		})
	}
}

func TestDecodeReplacement_Malformed(t *testing.T) {
	for _, token := range []string{"abc", "a:b:c", "a%:b"} {
		t.Run(token, func(t *testing.T) {
			_, _, err := DecodeReplacement(token)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrReplacementDecode))

			var decodeErr *domain.ReplacementDecodeError
			require.ErrorAs(t, err, &decodeErr)
			assert.Equal(t, token, decodeErr.Token)
		})
	}
}
