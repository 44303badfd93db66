package lang

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/smartscript/lang/lexer"
	"github.com/ardnew/smartscript/lang/token"
	"github.com/ardnew/smartscript/log"
)

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *DocumentNode
	}{
		{
			name:  "empty input",
			input: "",
			want:  &DocumentNode{},
		},
		{
			name:  "text only",
			input: "Hello, world!\nSecond line.",
			want: &DocumentNode{Children: []Node{
				&TextNode{Text: "Hello, world!\nSecond line."},
			}},
		},
		{
			name:  "escaped tag open",
			input: `\{$`,
			want: &DocumentNode{Children: []Node{
				&TextNode{Text: "{$"},
			}},
		},
		{
			name:  "escaped backslash",
			input: `a\\{$= x $}`,
			want: &DocumentNode{Children: []Node{
				&TextNode{Text: `a\`},
				&EchoNode{Elements: []Element{Variable{Name: "x"}}},
			}},
		},
		{
			name:  "echo expression",
			input: "{$= i + 1 $}",
			want: &DocumentNode{Children: []Node{
				&EchoNode{Elements: []Element{
					Variable{Name: "i"},
					Operator{Symbol: '+'},
					IntegerConstant{Value: 1},
				}},
			}},
		},
		{
			name:  "echo all element kinds",
			input: `{$= a @sin "s\"q" 2 -3.25 * / ^ - $}`,
			want: &DocumentNode{Children: []Node{
				&EchoNode{Elements: []Element{
					Variable{Name: "a"},
					FunctionRef{Name: "sin"},
					StringLiteral{Value: `s"q`},
					IntegerConstant{Value: 2},
					DoubleConstant{Value: -3.25},
					Operator{Symbol: '*'},
					Operator{Symbol: '/'},
					Operator{Symbol: '^'},
					Operator{Symbol: '-'},
				}},
			}},
		},
		{
			name:  "empty for loop",
			input: "{$ FOR i 1 10 1 $}{$END$}",
			want: &DocumentNode{Children: []Node{
				&ForLoopNode{
					Variable: Variable{Name: "i"},
					Start:    IntegerConstant{Value: 1},
					End:      IntegerConstant{Value: 10},
					Step:     IntegerConstant{Value: 1},
				},
			}},
		},
		{
			name:  "for loop without step",
			input: `{$for x "a" y$}body{$end$}`,
			want: &DocumentNode{Children: []Node{
				&ForLoopNode{
					Variable: Variable{Name: "x"},
					Start:    StringLiteral{Value: "a"},
					End:      Variable{Name: "y"},
					Children: []Node{&TextNode{Text: "body"}},
				},
			}},
		},
		{
			name:  "nested loops",
			input: "A{$FOR i 0 2$}B{$ For j 1.5 i 0.5 $}{$= i j $}{$ENd$}C{$END$}D",
			want: &DocumentNode{Children: []Node{
				&TextNode{Text: "A"},
				&ForLoopNode{
					Variable: Variable{Name: "i"},
					Start:    IntegerConstant{Value: 0},
					End:      IntegerConstant{Value: 2},
					Children: []Node{
						&TextNode{Text: "B"},
						&ForLoopNode{
							Variable: Variable{Name: "j"},
							Start:    DoubleConstant{Value: 1.5},
							End:      Variable{Name: "i"},
							Step:     DoubleConstant{Value: 0.5},
							Children: []Node{
								&EchoNode{Elements: []Element{
									Variable{Name: "i"},
									Variable{Name: "j"},
								}},
							},
						},
						&TextNode{Text: "C"},
					},
				},
				&TextNode{Text: "D"},
			}},
		},
		{
			name:  "whitespace inside tags",
			input: "{$\n=\ti\n$}",
			want: &DocumentNode{Children: []Node{
				&EchoNode{Elements: []Element{Variable{Name: "i"}}},
			}},
		},
		{
			name:  "close sequence in text",
			input: "a $} b",
			want: &DocumentNode{Children: []Node{
				&TextNode{Text: "a $} b"},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   error
		lexer  bool // wraps a lexer error
		line   int
		column int
	}{
		{"unmatched end", "{$END$}", ErrUnmatchedEnd, false, 1, 3},
		{"extra end", "{$FOR i 1 2$}{$END$}\n{$END$}", ErrUnmatchedEnd, false, 2, 3},
		{"missing end", "{$FOR i 1 2$}text", ErrMissingEnd, false, 1, 18},
		{"missing nested end", "{$FOR i 1 2$}{$FOR j 1 2$}{$END$}", ErrMissingEnd, false, 1, 34},
		{"empty echo", "{$= $}", ErrEmptyEcho, false, 1, 3},
		{"unknown tag", "{$ IF x $}", ErrUnknownTag, false, 1, 4},
		{"invalid operator", "{$= a % b $}", ErrInvalidOperator, false, 1, 7},
		{"tag open in echo", "{$= a {$", ErrInvalidOperator, false, 1, 7},
		{"unclosed echo", "{$= a b", ErrUnclosedTag, false, 1, 3},
		{"unclosed tag name", "text {$  ", ErrUnclosedTag, false, 1, 10},
		{"unclosed for", "{$FOR i 1", ErrUnclosedTag, false, 1, 3},
		{"unclosed end", "{$FOR i 1 2$}{$END", ErrUnclosedTag, false, 1, 16},
		{"for without variable", "{$FOR 1 2 3$}", ErrForVariable, false, 1, 7},
		{"for with function", "{$FOR i @f 3$}", ErrForArgument, false, 1, 9},
		{"for with operator", "{$FOR i 1 +$}", ErrForArgument, false, 1, 11},
		{"for with too few arguments", "{$FOR i 1$}", ErrForArgument, false, 1, 10},
		{"for with too many arguments", "{$FOR i 1 2 3 4$}", ErrForArity, false, 1, 15},
		{"for with trailing operator", "{$FOR i 1 2 3 *$}", ErrForArity, false, 1, 15},
		{"end with argument", "{$FOR i 1 2$}{$END i$}", ErrEndArguments, false, 1, 20},
		{"unterminated string", `{$= "abc $}`, lexer.ErrUnterminatedString, true, 1, 5},
		{"invalid text escape", `ab\c`, lexer.ErrInvalidEscape, true, 1, 3},
		{"invalid tag name", "{$ 9 $}", lexer.ErrInvalidTagName, true, 1, 4},
		{"bad function name", "{$= @ $}", lexer.ErrInvalidFunctionName, true, 1, 5},
		{"integer overflow", "{$= 99999999999999999999 $}", lexer.ErrInvalidNumber, true, 1, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(context.Background(), tt.input)
			if err == nil {
				t.Fatalf("expected error, got tree %v", doc)
			}

			if doc != nil {
				t.Errorf("expected nil tree on error, got %v", doc)
			}

			if !errors.Is(err, tt.want) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.want)
			}

			if !errors.Is(err, ErrParse) {
				t.Errorf("error %v is not a parse error", err)
			}

			if got := errors.Is(err, lexer.ErrLexer); got != tt.lexer {
				t.Errorf("errors.Is(%v, lexer.ErrLexer) = %v, want %v", err, got, tt.lexer)
			}

			var pos interface{ Position() (int, int) }
			if !errors.As(err, &pos) {
				t.Fatalf("error %T has no position", err)
			}

			if line, col := pos.Position(); line != tt.line || col != tt.column {
				t.Errorf("position = %d:%d, want %d:%d", line, col, tt.line, tt.column)
			}
		})
	}
}

func TestParse_LexerErrorMessage(t *testing.T) {
	_, err := Parse(context.Background(), `{$= "abc $}`)
	if err == nil {
		t.Fatal("expected error")
	}

	msg := err.Error()

	for _, want := range []string{"parse error", "unterminated string literal", "line 1, column 5"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message %q does not contain %q", msg, want)
		}
	}

	if n := strings.Count(msg, "line 1"); n != 1 {
		t.Errorf("position repeated %d times in %q", n, msg)
	}
}

func TestParse_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Parse(ctx, "text")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}

	if !errors.Is(err, ErrParse) {
		t.Errorf("error %v is not a parse error", err)
	}
}

func TestParse_TokenHook(t *testing.T) {
	type seen struct {
		Mode  lexer.Mode
		Token token.Token
	}

	var got []seen

	_, err := Parse(context.Background(), "a{$= i $}",
		WithTokenHook(func(mode lexer.Mode, tok token.Token) {
			got = append(got, seen{mode, tok})
		}))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	want := []seen{
		{lexer.ModeText, token.PlainText("a")},
		{lexer.ModeText, token.Open()},
		{lexer.ModeTagName, token.Name("=")},
		{lexer.ModeTagBody, token.Var("i")},
		{lexer.ModeTagBody, token.Close()},
		{lexer.ModeText, token.EndOfInput()},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("hook tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_WithLogger(t *testing.T) {
	var buf strings.Builder

	logger := log.Make(&buf,
		log.WithLevel(log.LevelTrace),
		log.WithFormat(log.FormatJSON),
		log.WithPretty(false))

	if _, err := Parse(context.Background(), "{$= x $}", WithLogger(logger)); err != nil {
		t.Fatalf("parse error: %v", err)
	}

	var got []string

	for line := range strings.Lines(buf.String()) {
		var rec struct {
			Level     string `json:"level"`
			Msg       string `json:"msg"`
			Component string `json:"component"`
		}

		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("invalid log record %q: %v", line, err)
		}

		got = append(got, rec.Level+" "+rec.Component+": "+rec.Msg)
	}

	want := []string{
		"TRACE parser: parse start",
		"TRACE parser: parse tag",
		"TRACE parser: parse complete",
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("trace records mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_NilOption(t *testing.T) {
	if _, err := Parse(context.Background(), "x", nil); err != nil {
		t.Fatalf("parse error: %v", err)
	}
}
