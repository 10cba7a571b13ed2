package diagnostic_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JaimeStill/regtriage/internal/diagnostic"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestFirstErrorLine(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantOK  bool
	}{
		{
			name:    "first flagged line wins",
			content: "< expected\n> WARNING: ignore me\n  > ERROR: first (ABC-1)\n> ERROR: second (ABC-2)\n",
			want:    "> ERROR: first (ABC-1)",
			wantOK:  true,
		},
		{
			name:    "error without marker ignored",
			content: "ERROR: no marker\n< ERROR: expected side\n",
			wantOK:  false,
		},
		{
			name:    "lowercase error ignored",
			content: "> error: lowercase\n",
			wantOK:  false,
		},
		{
			name:    "empty file",
			content: "",
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "step.diff.bak", tt.content)

			got, ok := diagnostic.FirstErrorLine(path)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("line = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFirstErrorLineMissingFile(t *testing.T) {
	if _, ok := diagnostic.FirstErrorLine(filepath.Join(t.TempDir(), "absent.diff.bak")); ok {
		t.Error("missing file should yield no line")
	}
}

func TestFirstErrorLineLongLines(t *testing.T) {
	long := "> " + strings.Repeat("x", 200*1024) + "\n"
	path := writeFile(t, t.TempDir(), "big.diff.bak", long+"> ERROR: after long line (BIG-1)\n")

	e := diagnostic.Extractor{MaxLineSize: 1024 * 1024}
	got, ok := e.FirstErrorLine(path)
	if !ok {
		t.Fatal("expected a line past the long one")
	}
	if got != "> ERROR: after long line (BIG-1)" {
		t.Errorf("line = %q", got)
	}
}

func TestExtractTag(t *testing.T) {
	tests := []struct {
		line   string
		want   string
		wantOK bool
	}{
		{"> Error: bad parameter (TTM-004)", "TTM-004", true},
		{"> ERROR: license check failed (LIC-002)", "LIC-002", true},
		{"> ERROR: two tags (AB-1) (ABCD-22) (XYZ-3)", "ABCD-22", true},
		{"> ERROR: five letters (ABCDE-1)", "", false},
		{"> ERROR: no parens TTM-004", "", false},
		{"> ERROR: lowercase (ttm-004)", "", false},
		{"> ERROR: nothing here", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := diagnostic.ExtractTag(tt.line)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ExtractTag() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	valid := []string{"TTM-004", "ABCD-1"}
	invalid := []string{"", "ttm-004", "TT-1", "ABCDE-1", "TTM-004; rm -rf /", " TTM-004", "TTM-"}

	for _, s := range valid {
		if err := diagnostic.Validate(s); err != nil {
			t.Errorf("Validate(%q) = %v, want nil", s, err)
		}
	}
	for _, s := range invalid {
		if err := diagnostic.Validate(s); !errors.Is(err, diagnostic.ErrInvalidTag) {
			t.Errorf("Validate(%q) = %v, want ErrInvalidTag", s, err)
		}
	}
}

func TestTruncate(t *testing.T) {
	exact := strings.Repeat("a", 45)
	if got := diagnostic.Truncate(exact, diagnostic.MessageLimit); got != exact {
		t.Errorf("45-char line modified: %q", got)
	}

	over := strings.Repeat("b", 46)
	got := diagnostic.Truncate(over, diagnostic.MessageLimit)
	if got != strings.Repeat("b", 42)+"..." {
		t.Errorf("46-char line = %q", got)
	}
	if len(got) != 45 {
		t.Errorf("truncated length = %d, want 45", len(got))
	}

	short := "> ERROR: license check failed (LIC-002)"
	if got := diagnostic.Truncate(short, diagnostic.MessageLimit); got != short {
		t.Errorf("short line modified: %q", got)
	}
}

func TestTruncateCountsCharacters(t *testing.T) {
	line := strings.Repeat("é", 46)
	got := diagnostic.Truncate(line, diagnostic.MessageLimit)
	if want := strings.Repeat("é", 42) + "..."; got != want {
		t.Errorf("Truncate() = %q, want %q", got, want)
	}
}
