package twinstudy

import (
	"bufio"
	"io"
	"strings"
)

// CSVQuoteFixReader transparently replaces the backslash-escaped quote \" that
// some SAS and Stata CSV exports emit with the RFC 4180 form "".
type CSVQuoteFixReader struct {
	r        *bufio.Reader
	leftover *strings.Reader
	err      error
}

func NewCSVQuoteFixReader(r io.Reader) *CSVQuoteFixReader {
	return &CSVQuoteFixReader{r: bufio.NewReader(r), leftover: &strings.Reader{}}
}

func (m *CSVQuoteFixReader) Read(p []byte) (int, error) {
	for m.leftover.Len() == 0 {
		if m.err != nil {
			return 0, m.err
		}

		var line string
		line, m.err = m.r.ReadString('\n')
		m.leftover = strings.NewReader(strings.ReplaceAll(line, "\\\"", "\"\""))
	}

	return m.leftover.Read(p)
}
