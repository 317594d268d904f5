package script

import (
	"errors"
	"fmt"
	"io"
	"strings"

	perrors "github.com/pkg/errors"
	"go.spiff.io/bind"
	"go.spiff.io/bind/token"
)

// TokenReader is anything that produces tokens, usually a *lexer.Lexer.
type TokenReader interface {
	ReadToken() (token.Token, error)
}

// Line is a single parsed bind trace line:
//
//	fn bound... [: call...]
//
// Bound holds literal values and bind.Placeholders. Call holds call-site values.
type Line struct {
	Start token.Location `json:"start"`
	Fn    string         `json:"fn"`
	Bound []any          `json:"bound"`
	Call  []any          `json:"call"`
}

func (l *Line) String() string {
	var out strings.Builder
	out.WriteString(l.Fn)
	for _, v := range l.Bound {
		out.WriteByte(' ')
		out.WriteString(literal(v))
	}
	if len(l.Call) > 0 {
		out.WriteString(" :")
		for _, v := range l.Call {
			out.WriteByte(' ')
			out.WriteString(literal(v))
		}
	}
	return out.String()
}

func literal(v any) string {
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprint(v)
}

// Parser reads Lines from a TokenReader.
type Parser struct {
	r   TokenReader
	tok token.Token

	// LogFunc, if set, receives debug messages for each token read.
	LogFunc func(...any)
}

func NewParser(r TokenReader) *Parser {
	return &Parser{r: r}
}

func (p *Parser) logf(format string, args ...any) {
	if p.LogFunc == nil {
		return
	}
	p.LogFunc("[" + p.tok.Start.String() + "]: " + fmt.Sprintf(format, args...))
}

// next reads the next token into p.tok. If the reader returns a token along with an error, the
// token could not be converted to a value and the error is an *UnexpectedTokenError.
func (p *Parser) next() error {
	tok, err := p.r.ReadToken()
	if err != nil && tok.Kind != token.Invalid {
		p.tok = tok
		return wrapUnexpected(tok, err)
	} else if err != nil {
		return perrors.WithStack(err)
	}
	p.tok = tok
	p.logf("read %v", tok)
	return nil
}

// ParseLine returns the next non-empty line. It returns io.EOF once all input is consumed.
func (p *Parser) ParseLine() (*Line, error) {
	var line *Line
	call := false
	for {
		if err := p.next(); err != nil {
			var unexpected *UnexpectedTokenError
			if errors.As(err, &unexpected) {
				return nil, p.skip(err)
			}
			return nil, err
		}

		tok := p.tok
		switch tok.Kind {
		case token.Whitespace, token.Comment:
			continue

		case token.EOF, token.Stop:
			if line != nil {
				return line, nil
			} else if tok.Kind == token.EOF {
				return nil, io.EOF
			}
			continue

		case token.Colon:
			if line == nil {
				return nil, p.skip(unexpected(tok, "expected function name"))
			} else if call {
				return nil, p.skip(unexpected(tok, "call-site arguments already started"))
			}
			call = true
			continue
		}

		if line == nil {
			if tok.Kind != token.Word {
				return nil, p.skip(unexpected(tok, "expected function name"))
			}
			line = &Line{Start: tok.Start, Fn: tok.Value.(string)}
			continue
		}

		v, err := value(tok)
		if err != nil {
			return nil, p.skip(err)
		}
		if !call {
			line.Bound = append(line.Bound, v)
			continue
		}
		if _, ok := v.(bind.Placeholder); ok {
			return nil, p.skip(unexpected(tok, "placeholders are not allowed in call-site arguments"))
		}
		line.Call = append(line.Call, v)
	}
}

// skip discards tokens through the end of the current line so that the next call to ParseLine
// starts on a new line, then returns err.
func (p *Parser) skip(err error) error {
	for p.tok.Kind != token.Stop && p.tok.Kind != token.EOF {
		if p.next() != nil {
			break
		}
	}
	return err
}

// Parse reads all remaining lines.
func (p *Parser) Parse() ([]*Line, error) {
	var lines []*Line
	for {
		line, err := p.ParseLine()
		if errors.Is(err, io.EOF) {
			return lines, nil
		} else if err != nil {
			return lines, err
		}
		lines = append(lines, line)
	}
}

func value(tok token.Token) (any, error) {
	switch tok.Kind {
	case token.Integer:
		return tok.Value.(int), nil
	case token.Placeholder:
		return bind.Nth(tok.Value.(int)), nil
	case token.Word, token.QuotedString:
		return tok.Value.(string), nil
	}
	return nil, unexpected(tok, "expected value")
}

type UnexpectedTokenError struct {
	Token token.Token
	Err   error
}

func wrapUnexpected(tok token.Token, err error) *UnexpectedTokenError {
	return &UnexpectedTokenError{
		Token: tok,
		Err:   perrors.WithStack(err),
	}
}

func unexpected(tok token.Token, msg string) *UnexpectedTokenError {
	return wrapUnexpected(tok, errors.New(msg))
}

func (e *UnexpectedTokenError) Error() string {
	if len(e.Token.Raw) == 0 {
		return fmt.Sprintf("%v unexpected token %v: %v",
			e.Token.Start, e.Token.Kind, e.Err)
	}
	return fmt.Sprintf("%v unexpected token %v %q: %v",
		e.Token.Start, e.Token.Kind, e.Token.Raw, e.Err)
}

func (e *UnexpectedTokenError) Unwrap() error {
	return e.Err
}
