package validation

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/hcl/v2"
	"github.com/txtx/txtx-sub001/lint"
)

func numberedLines(prefix string, n int) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "# %s %d\n", prefix, i)
	}
	return b.String()
}

func TestFileBoundaryMap_MapLine(t *testing.T) {
	m := NewFileBoundaryMap()
	m.AddFile("flows.tx", []byte(numberedLines("flows", 10)))
	m.AddFile("deploy.tx", []byte(numberedLines("deploy", 15)))

	tests := []struct {
		line     int
		wantPath string
		wantLine int
		wantOK   bool
	}{
		{1, "flows.tx", 1, true},
		{10, "flows.tx", 10, true},
		{11, "deploy.tx", 1, true},
		{15, "deploy.tx", 5, true},
		{25, "deploy.tx", 15, true},
		{0, "", 0, false},
		{26, "", 26, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.line), func(t *testing.T) {
			path, line, ok := m.MapLine(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("MapLine(%d) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if path != tt.wantPath || line != tt.wantLine {
				t.Errorf("MapLine(%d) = %s:%d, want %s:%d", tt.line, path, line, tt.wantPath, tt.wantLine)
			}
		})
	}

	if got := m.Lines(); got != 25 {
		t.Errorf("Lines() = %d, want 25", got)
	}
	if got := m.FileCount(); got != 2 {
		t.Errorf("FileCount() = %d, want 2", got)
	}
}

// Every combined line maps back to exactly the file and line it came
// from, with no gaps or overlaps.
func TestFileBoundaryMap_RoundTrip(t *testing.T) {
	files := []struct {
		path   string
		source string
	}{
		{"a.tx", numberedLines("a", 3)},
		{"empty.tx", ""},
		{"b.tx", "variable \"x\" {\n  value = 1\n}"},
		{"c.tx", numberedLines("c", 1)},
		{"blank.tx", "\n\n"},
		{"d.tx", numberedLines("d", 4)},
	}

	m := NewFileBoundaryMap()
	type origin struct {
		path string
		line int
	}
	var want []origin
	for _, f := range files {
		m.AddFile(f.path, []byte(f.source))
		n := strings.Count(f.source, "\n")
		if f.source != "" && !strings.HasSuffix(f.source, "\n") {
			n++
		}
		for i := 1; i <= n; i++ {
			want = append(want, origin{f.path, i})
		}
	}

	var got []origin
	for line := 1; line <= m.Lines(); line++ {
		path, orig, ok := m.MapLine(line)
		if !ok {
			t.Fatalf("MapLine(%d) not found", line)
		}
		got = append(got, origin{path, orig})
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(origin{})); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	combined := strings.Split(strings.TrimSuffix(string(m.Combined()), "\n"), "\n")
	if len(combined) != m.Lines() {
		t.Errorf("combined buffer has %d lines, Lines() = %d", len(combined), m.Lines())
	}
}

func TestFileBoundaryMap_MapRange(t *testing.T) {
	m := NewFileBoundaryMap()
	first := "variable \"a\" {\n  value = 1\n}\n"
	m.AddFile("a.tx", []byte(first))
	m.AddFile("b.tx", []byte("variable \"b\" {\n  value = 2\n}"))

	pos := func(line, col, b int) hcl.Pos { return hcl.Pos{Line: line, Column: col, Byte: b} }
	offset := len(first)

	tests := []struct {
		name string
		in   hcl.Range
		want hcl.Range
	}{
		{
			name: "second file",
			in:   hcl.Range{Filename: CombinedFilename, Start: pos(5, 3, offset+17), End: pos(5, 8, offset+22)},
			want: hcl.Range{Filename: "b.tx", Start: pos(2, 3, 17), End: pos(2, 8, 22)},
		},
		{
			name: "end past final newline",
			in:   hcl.Range{Filename: CombinedFilename, Start: pos(1, 1, 0), End: pos(4, 1, offset)},
			want: hcl.Range{Filename: "a.tx", Start: pos(1, 1, 0), End: pos(4, 1, offset)},
		},
		{
			name: "spans files",
			in:   hcl.Range{Filename: CombinedFilename, Start: pos(3, 1, 27), End: pos(5, 4, offset+18)},
			want: hcl.Range{Filename: "a.tx", Start: pos(3, 1, 27), End: pos(3, 1, 27)},
		},
		{
			name: "end of input",
			in:   hcl.Range{Filename: CombinedFilename, Start: pos(7, 1, len(m.Combined())), End: pos(7, 1, len(m.Combined()))},
			want: hcl.Range{Filename: "b.tx", Start: pos(4, 1, len(m.Combined())-offset), End: pos(4, 1, len(m.Combined())-offset)},
		},
		{
			name: "other file",
			in:   hcl.Range{Filename: "other.tx", Start: pos(5, 1, 0)},
			want: hcl.Range{Filename: "other.tx", Start: pos(5, 1, 0)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, m.MapRange(tt.in)); diff != "" {
				t.Errorf("MapRange() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResult_Remap(t *testing.T) {
	m := NewFileBoundaryMap()
	m.AddFile("flows.tx", []byte(numberedLines("flows", 10)))
	m.AddFile("deploy.tx", []byte(numberedLines("deploy", 15)))

	at := func(line int) hcl.Range {
		return hcl.Range{Filename: CombinedFilename, Start: hcl.Pos{Line: line, Column: 5}, End: hcl.Pos{Line: line, Column: 9}}
	}
	r := &Result{}
	r.Add(Diagnostic{Message: "boom", Range: at(15), Related: []RelatedLocation{{Message: "see", Range: at(2)}}})
	r.Add(Diagnostic{Message: "hmm", Severity: lint.WARNING, Range: at(11)})
	r.Remap(m)

	if got := r.Errors[0].String(); got != "deploy.tx:5:5: boom" {
		t.Errorf("error = %q, want deploy.tx:5:5: boom", got)
	}
	if got := r.Errors[0].Related[0].Range; got.Filename != "flows.tx" || got.Start.Line != 2 {
		t.Errorf("related = %s, want flows.tx:2", got)
	}
	if got := r.Warnings[0].String(); got != "deploy.tx:1:5: hmm" {
		t.Errorf("warning = %q, want deploy.tx:1:5: hmm", got)
	}
}
