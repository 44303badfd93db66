package lang

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/smartscript/lang/lexer"
	"github.com/ardnew/smartscript/lang/token"
	"github.com/ardnew/smartscript/log"
	"github.com/ardnew/smartscript/pkg"
)

// TokenHook observes each token read by the parser together with the lexer
// mode it was produced under.
type TokenHook func(mode lexer.Mode, tok token.Token)

// options holds the parse configuration built from [Option] values.
type options struct {
	logger log.Logger // zero value is a no-op logger
	hook   TokenHook
}

// Option configures parsing behavior.
type Option func(*options)

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithTokenHook sets a function called with every token the parser reads.
// Parses with a token hook are never served from the parse cache.
func WithTokenHook(hook TokenHook) Option {
	return func(o *options) {
		o.hook = hook
	}
}

func makeOptions(opts ...Option) options {
	var o options

	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

// Parse parses template text and returns its document tree.
//
// Parsing stops at the first error. On failure no tree is returned and the
// error satisfies errors.Is(err, [ErrParse]).
func Parse(ctx context.Context, text string, opts ...Option) (*DocumentNode, error) {
	o := makeOptions(opts...)
	o.logger = o.logger.Component("parser")

	o.logger.TraceContext(ctx, "parse start",
		slog.Int("source_length", len(text)))

	p := &parser{
		lex:    lexer.New(text),
		logger: o.logger,
		hook:   o.hook,
	}

	doc, err := p.parseDocument(ctx)
	if err != nil {
		o.logger.TraceContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	o.logger.TraceContext(ctx, "parse complete",
		slog.Int("top_level_nodes", len(doc.Children)))

	return doc, nil
}

// parser holds the state of a single parse. It owns the lexer mode and the
// stack of containers currently accepting children.
type parser struct {
	lex    *lexer.Lexer
	stack  []container
	logger log.Logger
	hook   TokenHook
}

// top returns the container currently accepting children.
func (p *parser) top() container { return p.stack[len(p.stack)-1] }

// next reads one token in the given mode.
func (p *parser) next(mode lexer.Mode) (token.Token, error) {
	p.lex.SetMode(mode)

	tok, err := p.lex.Next()
	if err != nil {
		return token.Token{}, ErrParse.Wrap(err)
	}

	if p.hook != nil {
		p.hook(mode, tok)
	}

	return tok, nil
}

// errorAt attaches the start of the most recent token to e.
func (p *parser) errorAt(e *pkg.Error) *pkg.Error {
	pos := p.lex.Start()

	return e.At(pos.Line, pos.Column)
}

// unexpected reports tok where something else was expected.
func (p *parser) unexpected(tok token.Token, expected string) error {
	return p.errorAt(ErrUnexpectedToken).With(
		slog.String("token", tok.String()),
		slog.String("expected", expected),
	)
}

// parseDocument parses text and tags until end of input.
func (p *parser) parseDocument(ctx context.Context) (*DocumentNode, error) {
	doc := new(DocumentNode)
	p.stack = []container{doc}

	for {
		if err := ctx.Err(); err != nil {
			return nil, ErrParse.Wrap(err)
		}

		tok, err := p.next(lexer.ModeText)
		if err != nil {
			return nil, err
		}

		switch tok.Kind() {
		case token.EOF:
			if open := len(p.stack) - 1; open != 0 {
				return nil, p.errorAt(ErrMissingEnd).
					With(slog.Int("open_blocks", open))
			}

			return doc, nil

		case token.Text:
			p.top().appendChild(&TextNode{Text: tok.Text()})

		case token.TagOpen:
			if err := p.parseTag(ctx); err != nil {
				return nil, err
			}

		default:
			return nil, p.unexpected(tok, "text or tag")
		}
	}
}

// parseTag parses one tag following its opening sequence.
func (p *parser) parseTag(ctx context.Context) error {
	tok, err := p.next(lexer.ModeTagName)
	if err != nil {
		return err
	}

	switch tok.Kind() {
	case token.TagName:

	case token.EOF:
		return p.errorAt(ErrUnclosedTag)

	default:
		return p.unexpected(tok, "tag name")
	}

	name, pos := tok.Text(), p.lex.Start()

	p.logger.TraceContext(ctx, "parse tag",
		slog.String("tag", name),
		slog.String("position", pos.String()),
		slog.Int("depth", len(p.stack)-1))

	switch {
	case name == "=":
		return p.parseEcho(pos)

	case strings.EqualFold(name, "FOR"):
		return p.parseFor(pos)

	case strings.EqualFold(name, "END"):
		return p.parseEnd(pos)

	default:
		return ErrUnknownTag.At(pos.Line, pos.Column).
			With(slog.String("tag", name))
	}
}

// parseEcho parses the elements of an echo tag up to its closing sequence.
func (p *parser) parseEcho(pos token.Position) error {
	var elems []Element

	for {
		tok, err := p.next(lexer.ModeTagBody)
		if err != nil {
			return err
		}

		switch tok.Kind() {
		case token.TagClose:
			if len(elems) == 0 {
				return ErrEmptyEcho.At(pos.Line, pos.Column)
			}

			p.top().appendChild(&EchoNode{Elements: elems})

			return nil

		case token.EOF:
			return ErrUnclosedTag.At(pos.Line, pos.Column).
				With(slog.String("tag", "="))

		case token.Function:
			elems = append(elems, FunctionRef{Name: tok.Text()})

		case token.Operator:
			if !isEchoOperator(tok.Op()) {
				return p.errorAt(ErrInvalidOperator).
					With(slog.String("operator", string(tok.Op())))
			}

			elems = append(elems, Operator{Symbol: tok.Op()})

		default:
			e, ok := operand(tok)
			if !ok {
				return p.unexpected(tok, "echo element")
			}

			elems = append(elems, e)
		}
	}
}

// parseFor parses the header of a FOR tag and opens its loop body.
func (p *parser) parseFor(pos token.Position) error {
	tok, err := p.next(lexer.ModeTagBody)
	if err != nil {
		return err
	}

	if tok.Is(token.EOF) {
		return ErrUnclosedTag.At(pos.Line, pos.Column).
			With(slog.String("tag", "FOR"))
	}

	if !tok.Is(token.Variable) {
		return p.errorAt(ErrForVariable).
			With(slog.String("token", tok.String()))
	}

	loop := &ForLoopNode{Variable: Variable{Name: tok.Text()}}

	// Arguments are numbered from 1, the loop variable being the first.
	args := make([]Operand, 0, 3)

	for {
		tok, err := p.next(lexer.ModeTagBody)
		if err != nil {
			return err
		}

		if tok.Is(token.EOF) {
			return ErrUnclosedTag.At(pos.Line, pos.Column).
				With(slog.String("tag", "FOR"))
		}

		if tok.Is(token.TagClose) && len(args) >= 2 {
			break
		}

		if len(args) == 3 {
			return p.errorAt(ErrForArity).
				With(slog.String("token", tok.String()))
		}

		e, ok := operand(tok)
		if !ok {
			return p.errorAt(ErrForArgument).With(
				slog.Int("argument", len(args)+2),
				slog.String("token", tok.String()),
			)
		}

		args = append(args, e)
	}

	loop.Start, loop.End = args[0], args[1]
	if len(args) == 3 {
		loop.Step = args[2]
	}

	p.top().appendChild(loop)
	p.stack = append(p.stack, loop)

	return nil
}

// parseEnd parses an END tag and closes the innermost loop body.
func (p *parser) parseEnd(pos token.Position) error {
	tok, err := p.next(lexer.ModeTagBody)
	if err != nil {
		return err
	}

	switch tok.Kind() {
	case token.TagClose:

	case token.EOF:
		return ErrUnclosedTag.At(pos.Line, pos.Column).
			With(slog.String("tag", "END"))

	default:
		return p.errorAt(ErrEndArguments).
			With(slog.String("token", tok.String()))
	}

	p.stack = p.stack[:len(p.stack)-1]
	if len(p.stack) == 0 {
		return ErrUnmatchedEnd.At(pos.Line, pos.Column)
	}

	return nil
}

// operand converts tok to the [Operand] it denotes.
func operand(tok token.Token) (Operand, bool) {
	switch tok.Kind() {
	case token.Variable:
		return Variable{Name: tok.Text()}, true

	case token.String:
		return StringLiteral{Value: tok.Text()}, true

	case token.Integer:
		return IntegerConstant{Value: tok.Int()}, true

	case token.Double:
		return DoubleConstant{Value: tok.Float()}, true

	default:
		return nil, false
	}
}
