package lexer

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"unicode"

	. "go.spiff.io/bind/token"
)

// ErrUnexpectedEOF is returned by the Lexer when EOF is encountered mid-token where a valid token
// cannot be cut off.
var ErrUnexpectedEOF = errors.New("unexpected EOF")

const eof rune = -1

type scanResult struct {
	r    rune
	size int
	err  error
}

// NamedReader is an optional interface that an io.Reader can implement to provide a name for its
// data source.
type NamedReader interface {
	io.Reader

	// Name returns a non-empty string identifying the reader's data source. This may be a file,
	// URL, resource ID, or some other thing. If the returned string is empty, it will be
	// treated as unnamed.
	Name() string
}

var noToken Token

// Special lexer runes
const (
	rNewline     = '\n'
	rSemicolon   = ';'
	rColon       = ':'
	rDoubleQuote = '"'
	rComment     = '#'
	rEscape      = '\\'
	rPlaceholder = '_'
)

// Lexer takes an input sequence of runes and constructs Tokens from it.
type Lexer struct {
	// Name is the name of the token source currently being lexed. It is used to identify the
	// source of a location by name. It is not necessarily a filename, but usually is.
	//
	// If the reader provided to the Lexer implements NamedReader, the reader's name takes
	// priority.
	Name string

	scanner io.RuneReader

	pending  bool
	lastScan scanResult
	lastPos  Location

	startPos Location
	pos      Location

	next consumerFunc

	buf    bytes.Buffer
	strbuf bytes.Buffer
}

// NewLexer allocates a new Lexer that reads runes from r.
func NewLexer(r io.Reader) *Lexer {
	return &Lexer{
		scanner: runeReader(r),
		pos:     Location{Line: 1, Column: 1},
	}
}

type nameRuneReader struct {
	*bufio.Reader
	namefn func() string
}

func (n nameRuneReader) Name() string {
	return n.namefn()
}

func runeReader(r io.Reader) io.RuneReader {
	switch r := r.(type) {
	case io.RuneReader:
		return r
	case NamedReader:
		return nameRuneReader{bufio.NewReader(r), r.Name}
	default:
		return bufio.NewReader(r)
	}
}

// ReadToken returns a token or an error. If EOF occurs, an EOF token is returned without an error,
// and will be returned by all subsequent calls to ReadToken.
func (l *Lexer) ReadToken() (tok Token, err error) {
	l.reset()
	if l.next == nil {
		l.next = l.lexSegment
	}

	if l.pos == (Location{Line: 1, Column: 1}) {
		l.pos.Name = l.posName()
	}
	l.startPos = l.scanPos()

	var r rune
	for {
		r, err = l.readRune()
		if err != nil {
			return tok, err
		}

		tok, l.next, err = l.next(r)
		if err != nil || tok.Kind != Invalid {
			return tok, err
		}
	}
}

type convertFunc func(Token) (Token, error)

func (l *Lexer) valueToken(kind TokenKind, convert convertFunc) (tok Token, err error) {
	tok = l.token(kind, true)
	if convert != nil {
		tok, err = convert(tok)
	}
	return tok, err
}

var rawColon = []byte{rColon}

func (l *Lexer) token(kind TokenKind, takeBuffer bool) Token {
	var txt []byte
	if buflen := l.buf.Len(); buflen > 0 && takeBuffer {
		txt = make([]byte, buflen)
		copy(txt, l.buf.Bytes())
	} else if takeBuffer {
		txt = []byte{}
	} else if kind == Colon {
		txt = rawColon
	}
	l.buf.Reset()
	tok := Token{
		Start: l.startPos,
		End:   l.scanPos(),
		Kind:  kind,
		Raw:   txt,
	}
	if takeBuffer {
		tok.Value = l.strbuf.String()
		l.strbuf.Reset()
	}
	return tok
}

func (l *Lexer) readRune() (r rune, err error) {
	const invalid rune = '\uFFFD'

	if l.pending {
		l.pending = false
		return l.lastScan.r, l.lastScan.err
	}

	var size int
	l.pos.Name = l.posName()
	r, size, err = l.scanner.ReadRune()
	if err == io.EOF {
		r, size, err = eof, 0, nil
	}
	res := scanResult{r: r, size: size, err: err}
	l.lastScan, l.lastPos = res, l.pos
	if size > 0 {
		l.pos = l.pos.AdvancedBy(r, size)
	}

	if r == invalid && err == nil {
		err = fmt.Errorf("invalid UTF-8 at %v", l.pos)
	}

	return
}

func (l *Lexer) posName() string {
	if named, ok := l.scanner.(NamedReader); ok {
		if name := named.Name(); name != "" {
			return name
		}
	}
	return l.Name
}

// unread takes the last-scanned rune and tells the lexer to return it on the next call to readRune.
// This can be used to walk back a single readRune call.
func (l *Lexer) unread() {
	if l.pending {
		panic("unread() called with pending rune")
	}
	l.pending = true
}

func (l *Lexer) reset() {
	l.buf.Reset()
	l.strbuf.Reset()
}

func (l *Lexer) buffer(raw, str rune) {
	if raw >= 0 {
		l.buf.WriteRune(raw)
	}
	if str >= 0 {
		l.strbuf.WriteRune(str)
	}
}

func (l *Lexer) scanPos() Location {
	if l.pending {
		return l.lastPos
	}
	return l.pos
}

// Rune cases

var barewordTables = []*unicode.RangeTable{
	unicode.L, // Letters
	unicode.M, // Marks
	unicode.N, // Numbers
	unicode.P, // Punctuation
	unicode.S, // Symbols
}

func isSpace(r rune) bool {
	return r != rNewline && unicode.IsSpace(r)
}

func isWordSep(r rune) bool {
	return r == eof ||
		r == rSemicolon ||
		r == rColon ||
		r == rDoubleQuote ||
		unicode.IsSpace(r)
}

// classify converts a Word token to an Integer or Placeholder token if its text is one.
func classify(tok Token) (Token, error) {
	text, _ := tok.Value.(string)
	if len(text) > 1 && text[0] == rPlaceholder && text[1] != '0' && isDigits(text[1:]) {
		pos, err := strconv.Atoi(text[1:])
		if err != nil {
			return tok, fmt.Errorf("invalid placeholder %q at %v: %w", text, tok.Start, err)
		}
		tok.Kind, tok.Value = Placeholder, pos
		return tok, nil
	}

	digits := text
	if len(digits) > 1 && (digits[0] == '-' || digits[0] == '+') {
		digits = digits[1:]
	}
	if isDigits(digits) {
		n, err := strconv.Atoi(text)
		if err != nil {
			return tok, fmt.Errorf("invalid integer %q at %v: %w", text, tok.Start, err)
		}
		tok.Kind, tok.Value = Integer, n
	}
	return tok, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Branches

type consumerFunc func(rune) (Token, consumerFunc, error)

func (l *Lexer) lexSpace(r rune, next consumerFunc) consumerFunc {
	var spaceConsumer consumerFunc
	l.buffer(r, -1)
	spaceConsumer = func(r rune) (Token, consumerFunc, error) {
		if !isSpace(r) {
			l.unread()
			return l.token(Whitespace, true), next, nil
		}
		l.buffer(r, -1)
		return noToken, spaceConsumer, nil
	}
	return spaceConsumer
}

func (l *Lexer) lexComment(next consumerFunc) consumerFunc {
	var commentConsumer consumerFunc
	l.buffer(rComment, -1)
	commentConsumer = func(r rune) (Token, consumerFunc, error) {
		if r == rNewline || r == eof {
			l.unread()
			return l.token(Comment, true), next, nil
		}
		l.buffer(r, r)
		return noToken, commentConsumer, nil
	}
	return commentConsumer
}

func (l *Lexer) lexSegment(r rune) (Token, consumerFunc, error) {
	switch {
	// EOF
	case r == eof:
		return l.token(EOF, false), l.lexSegment, nil

	// Newline or semicolon (stop)
	case r == rNewline, r == rSemicolon:
		l.buffer(r, -1)
		return l.token(Stop, true), l.lexSegment, nil

	// Whitespace (word separator)
	case isSpace(r):
		return noToken, l.lexSpace(r, l.lexSegment), nil

	// Bound / call-site argument separator
	case r == rColon:
		return l.token(Colon, false), l.lexSegment, nil

	// "String"
	case r == rDoubleQuote:
		l.buffer(r, -1)
		return noToken, l.lexString, nil

	// Comment (comments may only be found at the start of a segment,
	// #s are valid inside words)
	case r == rComment:
		return noToken, l.lexComment(l.lexSegment), nil

	// Word, integer, or placeholder
	case unicode.IsOneOf(barewordTables, r):
		return l.lexWord(r)
	}

	return noToken, nil, fmt.Errorf("unexpected character %q at %v", r, l.pos)
}

func (l *Lexer) lexWord(r rune) (Token, consumerFunc, error) {
	if isWordSep(r) || !unicode.IsOneOf(barewordTables, r) {
		if r != eof {
			l.unread()
		}
		tok, err := l.valueToken(Word, classify)
		return tok, l.lexSegment, err
	}

	l.buffer(r, r)
	return noToken, l.lexWord, nil
}

func (l *Lexer) lexString(r rune) (Token, consumerFunc, error) {
	switch r {
	case eof:
		return noToken, l.lexString, fmt.Errorf(`expected closing " of string: %w`, ErrUnexpectedEOF)
	case rEscape:
		l.buffer(r, -1)
		return noToken, l.lexEscape, nil
	case rDoubleQuote:
		l.buffer(r, -1)
		return l.token(QuotedString, true), l.lexSegment, nil
	}
	l.buffer(r, r)
	return noToken, l.lexString, nil
}

func (l *Lexer) lexEscape(r rune) (Token, consumerFunc, error) {
	var esc rune
	switch r {
	case eof:
		return noToken, l.lexEscape, fmt.Errorf("expected escape character: %w", ErrUnexpectedEOF)
	case 'n':
		esc = '\n'
	case 't':
		esc = '\t'
	case 'r':
		esc = '\r'
	default:
		esc = r
	}
	l.buffer(r, esc)
	return noToken, l.lexString, nil
}
