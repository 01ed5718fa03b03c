package ingest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cognicore/wordharvest/pkg/wordharvest/internalerr"
	"github.com/cognicore/wordharvest/pkg/wordharvest/stoplist"
)

// DefaultMaxTokenLen is the longest token emitted unless configured otherwise.
const DefaultMaxTokenLen = 29

// Tokenizer splits byte streams into ASCII alphanumeric tokens.
type Tokenizer struct {
	maxLen int
	stops  *stoplist.Manager // Optional: tokens to drop
}

// NewTokenizer creates a tokenizer emitting tokens of at most maxLen bytes.
// stops may be nil.
func NewTokenizer(maxLen int, stops *stoplist.Manager) (*Tokenizer, error) {
	if maxLen < 1 {
		return nil, fmt.Errorf("max token length %d: %w", maxLen, internalerr.ErrInvalidConfig)
	}
	return &Tokenizer{maxLen: maxLen, stops: stops}, nil
}

// MaxLen returns the configured token length limit.
func (t *Tokenizer) MaxLen() int { return t.maxLen }

// NewScanner returns a scanner over r. Scanners are single use; open a new
// one for every file.
func (t *Tokenizer) NewScanner(r io.Reader) *Scanner {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Scanner{
		r:     br,
		max:   t.maxLen,
		stops: t.stops,
		buf:   make([]byte, 0, t.maxLen),
	}
}

// Tokenize splits text into tokens in source order.
func (t *Tokenizer) Tokenize(text string) []string {
	var tokens []string
	sc := t.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		tokens = append(tokens, sc.Token())
	}
	return tokens
}

// Scanner yields tokens lazily, in the manner of bufio.Scanner.
//
// Each step discards a run of non-alphanumeric bytes and then reads up to max
// alphanumeric bytes as the token. A longer run is cut at max and its
// remainder becomes the next token.
type Scanner struct {
	r     *bufio.Reader
	max   int
	stops *stoplist.Manager
	buf   []byte
	token string
	done  bool
	err   error
}

// Scan advances to the next token. It returns false at end of stream or on
// a read error.
func (s *Scanner) Scan() bool {
	for !s.done {
		s.skipSeparators()
		s.readRun()
		if len(s.buf) == 0 {
			break
		}
		tok := string(s.buf)
		if s.stops.IsStop(tok) {
			continue
		}
		s.token = tok
		return true
	}
	s.token = ""
	return false
}

// Token returns the token produced by the last successful Scan.
func (s *Scanner) Token() string { return s.token }

// Err returns the first read error other than io.EOF.
func (s *Scanner) Err() error { return s.err }

func (s *Scanner) skipSeparators() {
	for !s.done {
		c, err := s.r.ReadByte()
		if err != nil {
			s.fail(err)
			return
		}
		if isAlnum(c) {
			_ = s.r.UnreadByte()
			return
		}
	}
}

func (s *Scanner) readRun() {
	s.buf = s.buf[:0]
	for !s.done && len(s.buf) < s.max {
		c, err := s.r.ReadByte()
		if err != nil {
			s.fail(err)
			return
		}
		if !isAlnum(c) {
			_ = s.r.UnreadByte()
			return
		}
		s.buf = append(s.buf, c)
	}
}

func (s *Scanner) fail(err error) {
	s.done = true
	if !errors.Is(err, io.EOF) {
		s.err = err
	}
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
