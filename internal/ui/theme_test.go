package ui

import "testing"

func TestThemeCycle(t *testing.T) {
	names := ThemeNames()
	if len(names) == 0 {
		t.Fatalf("no themes")
	}
	for i, name := range names {
		want := names[(i+1)%len(names)]
		if got := NextTheme(name); got != want {
			t.Fatalf("NextTheme(%q) = %q, want %q", name, got, want)
		}
		if GetTheme(name).Name != name {
			t.Fatalf("GetTheme(%q) returned %q", name, GetTheme(name).Name)
		}
	}
	if got := NextTheme("missing"); got != names[0] {
		t.Fatalf("NextTheme(missing) = %q, want %q", got, names[0])
	}
	if got := GetTheme("missing").Name; got != DefaultThemeName {
		t.Fatalf("GetTheme(missing) = %q, want %q", got, DefaultThemeName)
	}
}

func TestStrengthColor(t *testing.T) {
	th := GetTheme(DefaultThemeName)
	cases := []struct {
		score int
		want  string
	}{
		{0, th.Danger},
		{2, th.Danger},
		{3, th.Warning},
		{4, th.Success},
		{5, th.Success},
	}
	for _, tc := range cases {
		if got := th.strengthColor(tc.score); got != tc.want {
			t.Fatalf("strengthColor(%d) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestWrapLines(t *testing.T) {
	got := wrapLines("one two three four five six", 9, 2)
	if len(got) != 2 {
		t.Fatalf("lines = %q, want 2", got)
	}
	if got[0] != "one two" {
		t.Fatalf("first line = %q", got[0])
	}
	if got := wrapLines("", 10, 2); len(got) != 0 {
		t.Fatalf("empty text wrapped to %q", got)
	}
}

func TestFormatBytes(t *testing.T) {
	cases := map[int64]string{
		512:             "512 B",
		2048:            "2.0 KB",
		5 * 1024 * 1024: "5.0 MB",
	}
	for in, want := range cases {
		if got := formatBytes(in); got != want {
			t.Fatalf("formatBytes(%d) = %q, want %q", in, got, want)
		}
	}
}
