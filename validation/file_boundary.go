package validation

import (
	"bytes"
	"sort"

	"github.com/hashicorp/hcl/v2"
)

// CombinedFilename is the file name given to ranges inside the
// concatenated buffer of a multi-file runbook.
const CombinedFilename = "<runbook>"

// FileBoundaryMap records how the files of a multi-file runbook were
// concatenated, and maps combined coordinates back to them.
//
// Files are appended with no separator. A file that does not end with a
// newline gets one, so every file starts on a fresh line and the segments
// cover the combined buffer exactly once.
type FileBoundaryMap struct {
	segments []segment
	combined bytes.Buffer
	lines    int
}

type segment struct {
	path      string
	startLine int
	lineCount int
	startByte int
}

// NewFileBoundaryMap returns an empty map.
func NewFileBoundaryMap() *FileBoundaryMap {
	return &FileBoundaryMap{}
}

// AddFile appends source as the next file.
func (m *FileBoundaryMap) AddFile(path string, source []byte) {
	seg := segment{
		path:      path,
		startLine: m.lines + 1,
		startByte: m.combined.Len(),
	}
	m.combined.Write(source)
	if len(source) > 0 && source[len(source)-1] != '\n' {
		m.combined.WriteByte('\n')
	}
	seg.lineCount = bytes.Count(m.combined.Bytes()[seg.startByte:], []byte{'\n'})
	m.lines += seg.lineCount
	m.segments = append(m.segments, seg)
}

// Combined returns the concatenated buffer.
func (m *FileBoundaryMap) Combined() []byte {
	return m.combined.Bytes()
}

// Lines returns the number of lines of the combined buffer.
func (m *FileBoundaryMap) Lines() int {
	return m.lines
}

// FileCount returns the number of files added.
func (m *FileBoundaryMap) FileCount() int {
	return len(m.segments)
}

// find returns the segment containing combined line, skipping empty files.
func (m *FileBoundaryMap) find(line int) (segment, bool) {
	i := sort.Search(len(m.segments), func(i int) bool {
		s := m.segments[i]
		return s.startLine+s.lineCount > line
	})
	for ; i < len(m.segments); i++ {
		s := m.segments[i]
		if s.lineCount == 0 {
			continue
		}
		if line >= s.startLine && line < s.startLine+s.lineCount {
			return s, true
		}
		break
	}
	return segment{}, false
}

func (m *FileBoundaryMap) last() (segment, bool) {
	for i := len(m.segments) - 1; i >= 0; i-- {
		if m.segments[i].lineCount > 0 {
			return m.segments[i], true
		}
	}
	return segment{}, false
}

// MapLine maps a 1-based combined line to its file and 1-based line in
// that file.
func (m *FileBoundaryMap) MapLine(line int) (path string, original int, ok bool) {
	s, ok := m.find(line)
	if !ok {
		return "", line, false
	}
	return s.path, line - s.startLine + 1, true
}

// MapRange rewrites a range of the combined buffer to original file
// coordinates. Ranges of other files, and lines outside every segment,
// are returned unchanged. The file name comes from the start position.
func (m *FileBoundaryMap) MapRange(rng hcl.Range) hcl.Range {
	if rng.Filename != CombinedFilename {
		return rng
	}
	start, ok := m.find(rng.Start.Line)
	if !ok && rng.Start.Line == m.lines+1 {
		// End of input, as reported by parse errors at EOF.
		start, ok = m.last()
	}
	if !ok {
		return rng
	}
	mapped := hcl.Range{
		Filename: start.path,
		Start:    m.mapPos(start, rng.Start),
		End:      rng.End,
	}
	switch {
	case rng.End.Line < start.startLine+start.lineCount,
		rng.End.Line == start.startLine+start.lineCount && rng.End.Column <= 1:
		// The second case is an end just past the final newline.
		mapped.End = m.mapPos(start, rng.End)
	default:
		// The range runs into the next file; clamp it to the start.
		mapped.End = mapped.Start
	}
	return mapped
}

func (m *FileBoundaryMap) mapPos(s segment, pos hcl.Pos) hcl.Pos {
	return hcl.Pos{
		Line:   pos.Line - s.startLine + 1,
		Column: pos.Column,
		Byte:   pos.Byte - s.startByte,
	}
}
