package textextract

import "testing"

func TestFromHTML(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "hello   world", "hello world"},
		{"tags", "<h1>Title</h1><p>Body <b>bold</b></p>", "Title Body bold"},
		{"script", "<p>a</p><script type=\"text/javascript\">var x = '<p>';</script><p>b</p>", "a b"},
		{"style", "<STYLE>p { color: red }</STYLE>text", "text"},
		{"unclosed tag", "<p>keep <b unterminated", "keep <b unterminated"},
		{"nbsp", "a\u00a0 b\n\tc", "a b c"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FromHTML(tc.in); got != tc.want {
				t.Fatalf("FromHTML: want=%q got=%q", tc.want, got)
			}
		})
	}
}
