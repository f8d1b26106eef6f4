package rest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractMessage(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "plain string",
			raw:  `"Something broke"`,
			want: "Something broke",
		},
		{
			name: "missing credentials sentence gets the login prompt",
			raw:  `"Authentication credentials were not provided."`,
			want: loginPrompt,
		},
		{
			name: "detail wrapping the credentials sentence",
			raw:  `{"detail": ["Authentication credentials were not provided."]}`,
			want: loginPrompt,
		},
		{
			name: "detail string",
			raw:  `{"detail": "Invalid credentials"}`,
			want: "Invalid credentials",
		},
		{
			name: "field errors take the first key's first message",
			raw:  `{"field": ["Required"]}`,
			want: "Required",
		},
		{
			name: "first key by sorted order",
			raw:  `{"b": ["second"], "a": ["first"]}`,
			want: "first",
		},
		{
			name: "array of strings",
			raw:  `["first problem", "second problem"]`,
			want: "first problem",
		},
		{
			name: "nested arrays",
			raw:  `[["deep"]]`,
			want: "deep",
		},
		{
			name: "empty object falls through",
			raw:  `{}`,
			want: "",
		},
		{
			name: "empty array falls through",
			raw:  `[]`,
			want: "",
		},
		{
			name: "number falls through",
			raw:  `42`,
			want: "",
		},
		{
			name: "not json falls through",
			raw:  `<html>Bad Gateway</html>`,
			want: "",
		},
		{
			name: "empty body falls through",
			raw:  ``,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, extractMessage([]byte(tt.raw)))
		})
	}
}
