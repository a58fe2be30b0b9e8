package source

import "testing"

func TestFileSetLatestPathWins(t *testing.T) {
	fs := NewFileSet()
	id1 := fs.AddVirtual("a/Token.sol", "contract A {}")
	id2 := fs.AddVirtual("a/./Token.sol", "contract B {}")
	if id1 == id2 {
		t.Fatalf("expected distinct ids, got %d twice", id1)
	}
	got, ok := fs.Lookup("a/Token.sol")
	if !ok || got != id2 {
		t.Fatalf("Lookup = %d,%v; want %d,true", got, ok, id2)
	}
	if string(fs.Get(id1).Content) != "contract A {}" {
		t.Fatalf("first file content lost: %q", fs.Get(id1).Content)
	}
}

func TestFileSetNormalizesCRLFAndBOM(t *testing.T) {
	fs := NewFileSet()
	id := fs.Add("x.sol", []byte("\xEF\xBB\xBFa\r\nb\rc\r\n"), 0)
	f := fs.Get(id)
	if string(f.Content) != "a\nb\rc\n" {
		t.Fatalf("content = %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("flags = %b", f.Flags)
	}
}

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("x.sol", "ab\ncd\n\nef")
	tests := []struct {
		off  uint32
		line uint32
		col  uint32
	}{
		{0, 1, 1},
		{2, 1, 3}, // the newline itself
		{3, 2, 1},
		{4, 2, 2},
		{6, 3, 1},
		{7, 4, 1},
		{9, 4, 3},
	}
	for _, tt := range tests {
		start, _ := fs.Resolve(ZeroAt(id, tt.off))
		if start.Line != tt.line || start.Col != tt.col {
			t.Errorf("offset %d: got %d:%d, want %d:%d", tt.off, start.Line, start.Col, tt.line, tt.col)
		}
	}
}

func TestFileLine(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("x.sol", "first\nsecond\nthird"))
	for i, want := range []string{"", "first", "second", "third", ""} {
		if got := f.Line(uint32(i)); got != want {
			t.Errorf("Line(%d) = %q, want %q", i, got, want)
		}
	}
}

func TestNormalizePath(t *testing.T) {
	tests := map[string]string{
		"./a.sol":         "a.sol",
		"lib/../b.sol":    "b.sol",
		"../up/c.sol":     "../up/c.sol",
		`dir\win.sol`:     "dir/win.sol",
		"@oz/token/E.sol": "@oz/token/E.sol",
	}
	for in, want := range tests {
		if got := NormalizePath(in); got != want {
			t.Errorf("NormalizePath(%q) = %q, want %q", in, got, want)
		}
	}
}
