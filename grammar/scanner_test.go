package grammar

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func kinds(toks []Token) []TokenKind {
	k := make([]TokenKind, len(toks))
	for i, t := range toks {
		k[i] = t.Kind
	}
	return k
}

func TestScanKinds(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mlang.grammar")
	defer teardown()
	//
	for i, x := range []struct {
		src   string
		kinds []TokenKind
	}{
		{src: "A = zeros(3);", kinds: []TokenKind{Ident, Assign, Zeros, LParen, Int, RParen, Semicolon}},
		{src: "x += 1.5e3", kinds: []TokenKind{Ident, AddAssign, Float}},
		{src: "A .+ B .* C' ", kinds: []TokenKind{Ident, DotPlus, Ident, DotTimes, Ident, Tick}},
		{src: "a <= b != c >= d", kinds: []TokenKind{Ident, LessEq, Ident, NotEq, Ident, GreaterEq, Ident}},
		{src: "for i = 0:10 {}", kinds: []TokenKind{For, Ident, Assign, Int, Colon, Int, LBrace, RBrace}},
		{src: "print \"hello\", -.5;", kinds: []TokenKind{Print, String, Comma, Float, Semicolon}},
		{src: "ifx if iff else_ else", kinds: []TokenKind{Ident, If, Ident, Ident, Else}},
		{src: "x # comment ;;;\n y", kinds: []TokenKind{Ident, Ident}},
		{src: "3. 3 +3 -3.0", kinds: []TokenKind{Float, Int, Int, Float}},
		{src: "break continue return eye ones while", kinds: []TokenKind{Break, Continue, Return, Eye, Ones, While}},
	} {
		toks, err := Tokens(x.src)
		if err != nil {
			t.Errorf("test %d: unexpected error: %v", i, err)
			continue
		}
		if diff := cmp.Diff(x.kinds, kinds(toks)); diff != "" {
			t.Errorf("test %d: token kinds differ (-want +got):\n%s", i, diff)
		}
	}
}

func TestScanLexemes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mlang.grammar")
	defer teardown()
	//
	toks, err := Tokens(`s = "a b"; n = -42; f = +1.e-2;`)
	if err != nil {
		t.Fatal(err)
	}
	lexemes := make([]string, len(toks))
	for i, tok := range toks {
		lexemes[i] = tok.Lexeme
	}
	want := []string{"s", "=", "a b", ";", "n", "=", "-42", ";", "f", "=", "+1.e-2", ";"}
	if diff := cmp.Diff(want, lexemes); diff != "" {
		t.Errorf("lexemes differ (-want +got):\n%s", diff)
	}
}

func TestScanLineNumbers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mlang.grammar")
	defer teardown()
	//
	toks, err := Tokens("a\n# comment\nb\n\n  c")
	if err != nil {
		t.Fatal(err)
	}
	lines := []int{}
	for _, tok := range toks {
		lines = append(lines, tok.Line)
	}
	if diff := cmp.Diff([]int{1, 3, 5}, lines); diff != "" {
		t.Errorf("line numbers differ (-want +got):\n%s", diff)
	}
}

func TestLexError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mlang.grammar")
	defer teardown()
	//
	ts, err := Tokenize("x = 1;\ny = $;")
	if err != nil {
		t.Fatal(err)
	}
	var lexErr error
	for i := 0; i < 10; i++ {
		tok, err := ts.Next()
		if err != nil {
			lexErr = err
			break
		}
		if tok.Kind == EOF {
			break
		}
	}
	if lexErr == nil {
		t.Fatalf("expected lexical error for '$'")
	}
	var le *LexError
	if !errors.As(lexErr, &le) {
		t.Fatalf("expected *LexError, got %T", lexErr)
	}
	if le.Char != '$' || le.Line != 2 {
		t.Errorf("expected illegal '$' in line 2, got %q in line %d", le.Char, le.Line)
	}
	if _, err := ts.Next(); !errors.Is(err, ErrLex) {
		t.Errorf("expected lexical error to be sticky, got %v", err)
	}
}

func TestTokenStreamEOF(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mlang.grammar")
	defer teardown()
	//
	ts, err := Tokenize("x")
	if err != nil {
		t.Fatal(err)
	}
	if tok, _ := ts.Next(); tok.Kind != Ident {
		t.Errorf("expected identifier, got %v", tok)
	}
	for i := 0; i < 2; i++ {
		if tok, err := ts.Next(); err != nil || tok.Kind != EOF {
			t.Errorf("expected EOF, got %v / %v", tok, err)
		}
	}
}
