package diagfmt

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"solfront/internal/config"
	"solfront/internal/diag"
	"solfront/internal/driver"
	"solfront/internal/lexer"
	"solfront/internal/source"
)

func sampleBag(t *testing.T, path, text string, start, end uint32) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual(path, text)
	bag := diag.NewBag(10)
	d := diag.New(diag.SevError, diag.LexUnterminatedString,
		source.Span{File: id, Start: start, End: end}, "unterminated string literal")
	d = d.WithNote(source.Span{File: id, Start: 0, End: 6}, "inside this contract")
	bag.Add(d)
	return bag, fs
}

func TestPrettyHeaderAndCaret(t *testing.T) {
	text := "contract C {\n\tstring s = \"abc;\n}\n"
	bag, fs := sampleBag(t, "/very/long/absolute/path/to/some/nested/dir/c.sol", text, 25, 30)

	tests := []struct {
		name   string
		mode   PathMode
		header string
	}{
		{"auto shortens long absolute paths", PathModeAuto, "c.sol:2:13: ERROR LEX1002: unterminated string literal"},
		{"as is", PathModeAsIs, "/very/long/absolute/path/to/some/nested/dir/c.sol:2:13:"},
		{"basename", PathModeBasename, "c.sol:2:13:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode}); err != nil {
				t.Fatalf("Pretty: %v", err)
			}
			if !strings.HasPrefix(buf.String(), tt.header) {
				t.Fatalf("output:\n%s\nwant prefix %q", buf.String(), tt.header)
			}
		})
	}

	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("output too short:\n%s", buf.String())
	}
	if lines[1] != "2 | \tstring s = \"abc;" {
		t.Fatalf("source line = %q", lines[1])
	}
	if lines[2] != "  | \t"+strings.Repeat(" ", 11)+"^~~~~" {
		t.Fatalf("caret line = %q", lines[2])
	}
	if strings.Contains(buf.String(), "note:") {
		t.Fatalf("notes shown without ShowNotes")
	}
}

func TestPrettyContextAndNotes(t *testing.T) {
	text := "contract C {\n\tstring s = \"abc;\n}\n"
	bag, fs := sampleBag(t, "c.sol", text, 25, 30)
	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{Context: 1, ShowNotes: true}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"1 | contract C {", "3 | }", "note: c.sol:1:1: inside this contract"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestPrettyWideRunes(t *testing.T) {
	text := "string s = \"日本\" + x;\n"
	fs := source.NewFileSet()
	id := fs.AddVirtual("w.sol", text)
	bag := diag.NewBag(0)
	off := uint32(strings.Index(text, "x"))
	bag.Add(diag.New(diag.SevWarning, diag.TypMismatch, source.Span{File: id, Start: off, End: off + 1}, "bad"))
	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	// each CJK rune takes two cells
	if want := "  | " + strings.Repeat(" ", 20) + "^"; lines[2] != want {
		t.Fatalf("caret line = %q, want %q", lines[2], want)
	}
	if !strings.Contains(lines[0], "WARNING TYP5001") {
		t.Fatalf("header = %q", lines[0])
	}
}

func TestPrettyColor(t *testing.T) {
	bag, fs := sampleBag(t, "c.sol", "contract C {\n\tstring s = \"abc;\n}\n", 25, 30)
	var plain, colored bytes.Buffer
	_ = Pretty(&plain, bag, fs, PrettyOpts{})
	_ = Pretty(&colored, bag, fs, PrettyOpts{Color: true})
	if strings.Contains(plain.String(), "\x1b[") {
		t.Fatalf("escape codes without Color")
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Fatalf("no escape codes with Color")
	}
}

func TestJSON(t *testing.T) {
	bag, fs := sampleBag(t, "c.sol", "contract C {\n\tstring s = \"abc;\n}\n", 25, 30)
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludeNotes: true}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Count != 1 || out.Errors != 1 {
		t.Fatalf("count=%d errors=%d", out.Count, out.Errors)
	}
	d := out.Diagnostics[0]
	if d.Code != "LEX1002" || d.Category != "LexicalError" || d.Severity != "error" {
		t.Fatalf("unexpected %+v", d)
	}
	if d.Location.StartLine != 2 || d.Location.StartCol != 13 || len(d.Notes) != 1 {
		t.Fatalf("unexpected location %+v notes %v", d.Location, d.Notes)
	}
}

func TestResultRendering(t *testing.T) {
	res, err := driver.Analyze(context.Background(), []driver.Source{
		{Path: "a.sol", Text: "contract A {\n\tfunction f() public pure { uint8 y = 300; }\n}\n"},
	}, driver.Options{Config: config.Default()})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	var buf bytes.Buffer
	if err := PrettyResult(&buf, res, PrettyOpts{}); err != nil {
		t.Fatalf("PrettyResult: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "a.sol:2:") || !strings.Contains(buf.String(), "uint8 y = 300;") {
		t.Fatalf("output:\n%s", buf.String())
	}
	buf.Reset()
	if err := JSONResult(&buf, res, JSONOpts{Max: 1}); err != nil {
		t.Fatalf("JSONResult: %v", err)
	}
	if !strings.Contains(buf.String(), `"count": 1`) {
		t.Fatalf("json:\n%s", buf.String())
	}
}

func TestFormatTokens(t *testing.T) {
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("t.sol", "// hi\ncontract C {}"))
	toks := lexer.Tokenize(f, lexer.Options{Version: config.Default().Version})
	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, toks, fs); err != nil {
		t.Fatalf("FormatTokensPretty: %v", err)
	}
	first := strings.SplitN(buf.String(), "\n", 2)[0]
	if !strings.Contains(first, "contract") || !strings.Contains(first, "at 2:1-2:9") || !strings.Contains(first, "line_comment") {
		t.Fatalf("first line = %q", first)
	}
	buf.Reset()
	if err := FormatTokensJSON(&buf, toks); err != nil {
		t.Fatalf("FormatTokensJSON: %v", err)
	}
	var out []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != len(toks) || out[len(out)-1].Kind != "end of file" {
		t.Fatalf("tokens = %+v", out)
	}
}
