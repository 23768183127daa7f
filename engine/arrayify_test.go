package engine

import "testing"

func TestArrayify(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "[]"},
		{"single object", `{"status":"ok"}`, `[{"status":"ok"}]`},
		{"newline delimited", "{\"a\":1}\n{\"b\":2}\n", `[{"a":1},{"b":2}]`},
		{"crlf delimited", "{\"a\":1}\r\n{\"b\":2}", `[{"a":1},{"b":2}]`},
		{"concatenated", `{"a":1}{"b":2}`, `[{"a":1},{"b":2}]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := string(arrayify([]byte(tc.in))); got != tc.want {
				t.Errorf("arrayify(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
