// Package bitstream converts the fuse rows of a textual MachXO2 bitstream
// into 16-byte configuration frames.
//
// Lines before the first row starting with '0' or '1' are header lines and
// are skipped. Every following row supplies one frame as 128 binary digits,
// MSB first. The first line not starting with '0' or '1' after the rows ends
// the data section, and the remaining input is ignored.
package bitstream

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"os"
	"strconv"
	"strings"
)

// PageSize is the number of bytes in one configuration frame.
const PageSize = 16

// LineLen is the minimum number of binary digits in a data line.
const LineLen = PageSize * 8

// Frame is one page of configuration memory.
type Frame [PageSize]byte

// Bitstream is the ordered list of frames. Pages are addressed implicitly,
// so the order is the order of the source rows.
type Bitstream []Frame

// MalformedError reports a data line that is not a valid fuse row.
type MalformedError struct {
	Line   int    // 1-based line number
	Offset int    // character offset of Text within the line
	Text   string // offending group
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("line %d: malformed fuse group %q at offset %d", e.Line, e.Text, e.Offset)
}

type state int

const (
	initial state = iota
	inData
)

func isData(line string) bool {
	return line != "" && (line[0] == '0' || line[0] == '1')
}

// ParseLines frames a sequence of lines.
func ParseLines(lines iter.Seq[string]) (Bitstream, error) {
	var (
		bs Bitstream
		st = initial
		n  = 0
	)
	for line := range lines {
		n++
		line = strings.TrimRight(line, "\r")
		if !isData(line) {
			if st == initial {
				continue
			}
			break
		}
		st = inData

		f, err := parseRow(line, n)
		if err != nil {
			return nil, err
		}
		bs = append(bs, f)
	}
	return bs, nil
}

func parseRow(line string, n int) (f Frame, err error) {
	for i := range PageSize {
		off := i * 8
		group := line[min(off, len(line)):min(off+8, len(line))]
		b, ok := parseGroup(group)
		if !ok {
			return f, &MalformedError{Line: n, Offset: off, Text: group}
		}
		f[i] = b
	}
	return f, nil
}

func parseGroup(s string) (byte, bool) {
	if len(s) != 8 || strings.Trim(s, "01") != "" {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 2, 8)
	if err != nil {
		return 0, false
	}
	return byte(v), true
}

// Parse frames the lines read from r.
func Parse(r io.Reader) (Bitstream, error) {
	scanner := bufio.NewScanner(r)
	bs, err := ParseLines(func(yield func(string) bool) {
		for scanner.Scan() {
			if !yield(scanner.Text()) {
				return
			}
		}
	})
	if err != nil {
		return nil, err
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bitstream: %w", err)
	}
	return bs, nil
}

// ParseFile frames the bitstream stored at path.
func ParseFile(path string) (Bitstream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Parse(f)
}

// WriteTo writes the frames back to back as raw bytes.
func (bs Bitstream) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, f := range bs {
		n, err := w.Write(f[:])
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Size returns the number of bytes in the bitstream.
func (bs Bitstream) Size() int { return len(bs) * PageSize }
