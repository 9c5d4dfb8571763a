package ingestion

import (
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/require"
)

func normalize(t *testing.T, r io.Reader) string {
	t.Helper()
	out, err := io.ReadAll(NewQuoteStrippingReader(r, '"'))
	require.NoError(t, err)
	return string(out)
}

func TestQuoteStrippingReader(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "fully wrapped line is stripped",
			in:   "\"MARCIA;17;150.50;34191\"\n",
			want: "MARCIA;17;150.50;34191\n",
		},
		{
			name: "unwrapped line passes through",
			in:   "MARCIA;17;150.50;34191\n",
			want: "MARCIA;17;150.50;34191\n",
		},
		{
			name: "leading quote only passes through",
			in:   "\"MARCIA;17\n",
			want: "\"MARCIA;17\n",
		},
		{
			name: "trailing quote only passes through",
			in:   "MARCIA;17\"\n",
			want: "MARCIA;17\"\n",
		},
		{
			name: "single quote character is unchanged",
			in:   "\"\n",
			want: "\"\n",
		},
		{
			name: "bare quote pair becomes empty line",
			in:   "\"\"\n",
			want: "\n",
		},
		{
			name: "only one pair is stripped",
			in:   "\"\"double\"\"\n",
			want: "\"double\"\n",
		},
		{
			name: "last line without newline",
			in:   "\"a;b\"",
			want: "a;b",
		},
		{
			name: "crlf is preserved outside the quotes",
			in:   "\"a;b\"\r\n\"c;d\"\r\n",
			want: "a;b\r\nc;d\r\n",
		},
		{
			name: "mixed lines keep order",
			in:   "header\n\"one\"\ntwo\n\"three\"\n",
			want: "header\none\ntwo\nthree\n",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalize(t, strings.NewReader(tt.in))
			require.Equal(t, tt.want, got)
		})
	}
}

func TestQuoteStrippingReaderChunkBoundaries(t *testing.T) {
	// One byte per Read forces every line across chunk boundaries.
	in := "\"MARCIA;17;150.50;34191\"\n\"JOSE;18;20.00;999\"\n"
	got := normalize(t, iotest.OneByteReader(strings.NewReader(in)))
	require.Equal(t, "MARCIA;17;150.50;34191\nJOSE;18;20.00;999\n", got)
}

func TestQuoteStrippingReaderSmallDestination(t *testing.T) {
	r := NewQuoteStrippingReader(strings.NewReader("\"abcdef\"\n"), '"')

	var out []byte
	buf := make([]byte, 3)
	for {
		n, err := r.Read(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}
	require.Equal(t, "abcdef\n", string(out))
}
