package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "plain", input: "(a|b)*", want: "(a|b)*"},
		{name: "unicode operands", input: "aεØ", want: "aεØ"},
		{name: "ansi escape stripped", input: "a\x1b[31mb", want: "a[31mb"},
		{name: "null stripped", input: "a\x00b", want: "ab"},
		{name: "too large", input: strings.Repeat("a", MaxInputSize+1), wantErr: ErrInputTooLarge},
		{name: "invalid utf8", input: "a\xffb", wantErr: ErrInvalidUTF8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeInput(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
