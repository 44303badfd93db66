package lexer

import (
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/ardnew/smartscript/lang/token"
)

// FuzzLexer drives the lexer through random inputs with parser-style mode
// switching and checks that it never panics and always terminates.
func FuzzLexer(f *testing.F) {
	f.Add("plain text")
	f.Add(`\{$ escaped`)
	f.Add("{$= i @sin \"x\\n\" -1.5 * $}")
	f.Add("{$ FOR i 1 10 2 $}body{$END$}")
	f.Add("{$ FOR")
	f.Add(`{$= "unterminated`)
	f.Add("{$= 99999999999999999999 $}")
	f.Add("\\")

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		defer func() {
			if r := recover(); r != nil {
				t.Errorf("lexer panicked on input %q: %v", input, r)
			}
		}()

		toks, err := drive(input)
		if err != nil {
			if !errors.Is(err, ErrLexer) {
				t.Errorf("error %v is not a lexer error", err)
			}

			return
		}

		if len(toks) == 0 || !toks[len(toks)-1].Is(token.EOF) {
			t.Fatalf("token stream does not end with EOF: %v", toks)
		}

		for i, tok := range toks[:len(toks)-1] {
			if tok.Is(token.EOF) {
				t.Errorf("EOF produced early at token %d", i)
			}
		}
	})
}
