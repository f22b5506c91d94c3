package rules

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// WordSource lazily yields the whitespace- and delimiter-separated words of a
// rule stream. NextWord returns io.EOF once the input is exhausted. The
// configuration parser owns its word source for the duration of a parse and
// closes it on every exit path.
type WordSource interface {
	NextWord() (string, error)
	LocationDescription() string
	Close() error
}

// ArgumentSource yields words from an in-memory list, as when rules arrive on
// the command line.
type ArgumentSource struct {
	args []string
	pos  int
}

func NewArgumentSource(args []string) *ArgumentSource {
	return &ArgumentSource{args: args}
}

func (s *ArgumentSource) NextWord() (string, error) {
	if s.pos >= len(s.args) {
		return "", io.EOF
	}
	word := s.args[s.pos]
	s.pos++
	return word, nil
}

func (s *ArgumentSource) LocationDescription() string {
	return fmt.Sprintf("argument number %d", s.pos)
}

func (s *ArgumentSource) Close() error {
	return nil
}

// ReaderSource yields words from a line-oriented reader. '#' starts a comment
// running to the end of the line. The characters '{', '}', '(', ')', ',', ';'
// and '@' are always words of their own. Single- or double-quoted sequences
// form one word with the quotes stripped. Occurrences of <name> are replaced
// from the property table; names not in the table are left verbatim, which
// keeps the reserved words <fields>, <methods>, <clinit> and <init> intact.
type ReaderSource struct {
	name       string
	scanner    *bufio.Scanner
	closer     io.Closer
	properties map[string]string

	line    []rune
	pos     int
	lineNum int
}

func NewReaderSource(r io.Reader, name string, properties map[string]string) *ReaderSource {
	s := &ReaderSource{
		name:       name,
		scanner:    bufio.NewScanner(r),
		properties: properties,
	}
	if closer, ok := r.(io.Closer); ok {
		s.closer = closer
	}
	return s
}

// NewStringSource reads rules from an in-memory string, as when a build file
// embeds rule text directly.
func NewStringSource(rules string, properties map[string]string) *ReaderSource {
	s := NewReaderSource(strings.NewReader(rules), "rule string", properties)
	return s
}

// NewFileSource reads rules from a file on disk.
func NewFileSource(path string, properties map[string]string) (*ReaderSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rules file: %w", err)
	}
	s := NewReaderSource(f, fmt.Sprintf("file '%s'", path), properties)
	return s, nil
}

func isWordDelimiter(ch rune) bool {
	switch ch {
	case '{', '}', '(', ')', ',', ';', '@':
		return true
	}
	return false
}

func isSpace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
}

func (s *ReaderSource) nextLine() error {
	for s.scanner.Scan() {
		s.lineNum++
		line := s.scanner.Text()
		if s.properties != nil {
			line = substituteProperties(line, s.properties)
		}
		s.line = []rune(line)
		s.pos = 0
		return nil
	}
	if err := s.scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", s.name, err)
	}
	return io.EOF
}

func (s *ReaderSource) NextWord() (string, error) {
	for {
		for s.pos < len(s.line) && isSpace(s.line[s.pos]) {
			s.pos++
		}
		if s.pos >= len(s.line) || s.line[s.pos] == '#' {
			if err := s.nextLine(); err != nil {
				return "", err
			}
			continue
		}

		ch := s.line[s.pos]
		if isWordDelimiter(ch) {
			s.pos++
			return string(ch), nil
		}
		if ch == '\'' || ch == '"' {
			return s.scanQuoted(ch)
		}

		start := s.pos
		for s.pos < len(s.line) {
			ch := s.line[s.pos]
			if isSpace(ch) || isWordDelimiter(ch) || ch == '#' {
				break
			}
			s.pos++
		}
		return string(s.line[start:s.pos]), nil
	}
}

func (s *ReaderSource) scanQuoted(quote rune) (string, error) {
	s.pos++
	start := s.pos
	for s.pos < len(s.line) && s.line[s.pos] != quote {
		s.pos++
	}
	if s.pos >= len(s.line) {
		return "", &ParseError{
			Message:  "unterminated quoted word",
			Token:    string(s.line[start-1:]),
			Location: s.LocationDescription(),
		}
	}
	word := string(s.line[start:s.pos])
	s.pos++
	return word, nil
}

func (s *ReaderSource) LocationDescription() string {
	return fmt.Sprintf("line %d of %s", s.lineNum, s.name)
}

func (s *ReaderSource) Close() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}

// substituteProperties replaces every <name> whose name appears in the table.
// Unknown names stay verbatim because the rule grammar itself uses angle
// brackets for reserved member words.
func substituteProperties(line string, properties map[string]string) string {
	if !strings.ContainsRune(line, '<') {
		return line
	}
	var sb strings.Builder
	for i := 0; i < len(line); {
		open := strings.IndexByte(line[i:], '<')
		if open < 0 {
			sb.WriteString(line[i:])
			break
		}
		open += i
		end := strings.IndexByte(line[open:], '>')
		if end < 0 {
			sb.WriteString(line[i:])
			break
		}
		end += open
		name := line[open+1 : end]
		if value, ok := properties[name]; ok {
			sb.WriteString(line[i:open])
			sb.WriteString(value)
		} else {
			sb.WriteString(line[i : end+1])
		}
		i = end + 1
	}
	return sb.String()
}
