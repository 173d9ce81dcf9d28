package token

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func lexAll(t *testing.T, src string) []Token {
	t.Helper()

	lx := NewLexer("test.aaa", strings.NewReader(src))

	var toks []Token

	for {
		tok, err := lx.Token()
		if err != nil {
			t.Fatalf("unexpected lexer error: %v", err)
		}

		toks = append(toks, tok)

		if tok.Kind == EOF {
			return toks
		}
	}
}

func lexErr(t *testing.T, src string) error {
	t.Helper()

	lx := NewLexer("test.aaa", strings.NewReader(src))

	for {
		tok, err := lx.Token()
		if err != nil {
			return err
		}

		if tok.Kind == EOF {
			t.Fatalf("expected an error, got clean EOF")
		}
	}
}

func kinds(toks []Token) []Kind {
	out := make([]Kind, 0, len(toks))
	for _, tok := range toks {
		out = append(out, tok.Kind)
	}

	return out
}

func assertKinds(t *testing.T, toks []Token, want ...Kind) {
	t.Helper()

	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("kind count mismatch: got %v want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("kind[%d] = %v, want %v (full: got %v want %v)", i, got[i], want[i], got, want)
		}
	}
}

func TestLexerEmpty(t *testing.T) {
	toks := lexAll(t, "")
	assertKinds(t, toks, EOF)
}

func TestLexerKeywordsAndIdent(t *testing.T) {
	toks := lexAll(t, "fn main args foo")
	assertKinds(t, toks, KwFn, Whitespace, Ident, Whitespace, KwArgs, Whitespace, Ident, EOF)
}

func TestLexerPunctuation(t *testing.T) {
	toks := lexAll(t, "{}[]:,!?.<-")
	assertKinds(t, toks, BraceOpen, BraceClose, BracketOpen, BracketClose, Colon, Comma, Bang, Question, Dot, Arrow, EOF)
}

func TestLexerIntLiteral(t *testing.T) {
	toks := lexAll(t, "3 -5 0")
	assertKinds(t, toks, IntLiteral, Whitespace, IntLiteral, Whitespace, IntLiteral, EOF)

	if toks[0].Value.(int64) != 3 {
		t.Fatalf("got %v want 3", toks[0].Value)
	}

	if toks[2].Value.(int64) != -5 {
		t.Fatalf("got %v want -5", toks[2].Value)
	}
}

func TestLexerStringLiteralEscapes(t *testing.T) {
	toks := lexAll(t, `"hello\nworld\x41B"`)
	assertKinds(t, toks, StringLiteral, EOF)

	want := "hello\nworldAB"
	if toks[0].Value.(string) != want {
		t.Fatalf("got %q want %q", toks[0].Value, want)
	}

	if toks[0].Lexeme != `"hello\nworld\x41B"` {
		t.Fatalf("lexeme round-trip broken: %q", toks[0].Lexeme)
	}
}

func TestLexerCharLiteral(t *testing.T) {
	toks := lexAll(t, `'a' '\n' '\t'`)
	assertKinds(t, toks, CharLiteral, Whitespace, CharLiteral, Whitespace, CharLiteral, EOF)

	if toks[0].Value.(rune) != 'a' {
		t.Fatalf("got %v want 'a'", toks[0].Value)
	}

	if toks[2].Value.(rune) != '\n' {
		t.Fatalf("got %v want '\\n'", toks[2].Value)
	}
}

func TestLexerComment(t *testing.T) {
	toks := lexAll(t, "// a comment\nfn")
	assertKinds(t, toks, Comment, Whitespace, KwFn, EOF)

	if toks[0].Lexeme != "// a comment" {
		t.Fatalf("got %q", toks[0].Lexeme)
	}
}

func TestLexerUnterminatedString(t *testing.T) {
	err := lexErr(t, `"hello`)

	var posErr *PosError
	if !errors.As(err, &posErr) {
		t.Fatalf("expected a *PosError, got %T: %v", err, err)
	}
}

func TestLexerIllegalEscape(t *testing.T) {
	err := lexErr(t, `"\q"`)

	var posErr *PosError
	if !errors.As(err, &posErr) {
		t.Fatalf("expected a *PosError, got %T: %v", err, err)
	}
}

func TestLexerIllegalCharacter(t *testing.T) {
	err := lexErr(t, "$")

	var posErr *PosError
	if !errors.As(err, &posErr) {
		t.Fatalf("expected a *PosError, got %T: %v", err, err)
	}
}

// TestLexerRoundTrip exercises the §8 "token round-trip" property:
// concatenating lexemes in order reproduces the source byte-for-byte.
func TestLexerRoundTrip(t *testing.T) {
	srcs := []string{
		"fn main { 3 3 + drop }",
		"struct Foo[T] { x: T, y: int }\n// trailing comment\n",
		`enum E { a, b as int }`,
		"   \t\n  ",
	}

	for _, src := range srcs {
		toks := lexAll(t, src)

		var sb strings.Builder
		for _, tok := range toks {
			if tok.Kind == EOF {
				continue
			}

			sb.WriteString(tok.Lexeme)
		}

		if sb.String() != src {
			t.Fatalf("round trip mismatch:\n got: %q\nwant: %q", sb.String(), src)
		}
	}
}

func TestLexerPositions(t *testing.T) {
	toks := lexAll(t, "fn\nmain")

	fn := toks[0]
	if fn.Begin().Line != 1 || fn.Begin().Col != 1 {
		t.Fatalf("fn begin = %v, want 1:1", fn.Begin())
	}

	// toks[1] is the whitespace/newline, toks[2] is "main" on line 2.
	main := toks[2]
	if main.Begin().Line != 2 || main.Begin().Col != 1 {
		t.Fatalf("main begin = %v, want 2:1", main.Begin())
	}
}

func TestTokenize(t *testing.T) {
	toks, err := Tokenize("test.aaa", strings.NewReader("fn main {}"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if toks[len(toks)-1].Kind != EOF {
		t.Fatalf("last token must be EOF")
	}
}

func TestTokenizeError(t *testing.T) {
	_, err := Tokenize("test.aaa", strings.NewReader(`"unterminated`))
	if err == nil {
		t.Fatalf("expected an error")
	}

	if errors.Is(err, io.EOF) {
		t.Fatalf("unterminated string must not surface as a bare io.EOF")
	}
}
