// Package parser implements a recursive-descent parser from tokens to one
// AST per file. It reports diagnostics in bulk through a diag.Reporter
// rather than aborting at the first error, recovering by skipping to the
// next plausible top-level boundary (fn, struct, enum, from) so a single
// syntax error doesn't cascade into a wall of noise.
package parser

import (
	"fmt"
	"io"

	"github.com/golangee/aaa/ast"
	"github.com/golangee/aaa/diag"
	"github.com/golangee/aaa/token"
)

// Parser consumes a pre-lexed, whitespace/comment-filtered token stream for
// one file and produces its ast.File.
type Parser struct {
	path string
	toks []token.Token
	pos  int
	rep  *diag.Reporter
	// failed is set once any diagnostic is reported while parsing this
	// file; ParseFile uses it to tell the driver the file's declarations
	// should be omitted from resolution (errors never leak
	// partial ASTs into the cross-reference table").
	failed bool
}

// ParseFile lexes and parses one file. The returned bool is false if any
// diagnostic was reported while parsing, in which case the caller should
// omit the file's declarations from subsequent phases.
func ParseFile(path string, r io.Reader, rep *diag.Reporter) (*ast.File, bool) {
	all, lexErr := token.Tokenize(path, r)

	if lexErr != nil {
		rep.Add(lexErr)
		// Still parse whatever was tokenized before the failure so other
		// diagnostics in the same file can surface; the caller will omit
		// the file regardless since ok is forced false below.
	}

	toks := make([]token.Token, 0, len(all))

	for _, t := range all {
		if t.Kind == token.Whitespace || t.Kind == token.Comment {
			continue
		}

		toks = append(toks, t)
	}

	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
		toks = append(toks, token.Token{Kind: token.EOF})
	}

	p := &Parser{path: path, toks: toks, rep: rep}

	file := p.parseFile()

	if lexErr != nil {
		p.failed = true
	}

	return file, !p.failed
}

func (p *Parser) cur() token.Token {
	return p.toks[p.pos]
}

func (p *Parser) peekKind(offset int) token.Kind {
	i := p.pos + offset
	if i >= len(p.toks) {
		return token.EOF
	}

	return p.toks[i].Kind
}

func (p *Parser) advance() token.Token {
	t := p.toks[p.pos]
	if t.Kind != token.EOF {
		p.pos++
	}

	return t
}

func (p *Parser) at(k token.Kind) bool {
	return p.cur().Kind == k
}

// expect consumes the current token if it matches k, else reports a
// diagnostic and returns the zero Token with ok=false.
func (p *Parser) expect(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}

	p.errorf("expected %s, found %s", k, p.cur().Kind)

	return token.Token{}, false
}

func (p *Parser) errorf(format string, args ...any) {
	p.failed = true
	p.rep.Add(token.NewPosError(p.node(), fmt.Sprintf(format, args...)))
}

func (p *Parser) node() token.Node {
	return token.NewNode(p.cur().Begin(), p.cur().End())
}

// recover skips tokens until the next top-level boundary keyword or EOF.
func (p *Parser) recover() {
	for {
		switch p.cur().Kind {
		case token.KwFn, token.KwStruct, token.KwEnum, token.KwFrom, token.EOF:
			return
		default:
			p.advance()
		}
	}
}

func (p *Parser) parseFile() *ast.File {
	file := &ast.File{Path: p.path}

	for !p.at(token.EOF) {
		startPos := p.cur().Begin()

		kind := p.cur().Kind
		if kind == token.KwBuiltin && p.peekKind(1) == token.KwStruct {
			kind = token.KwStruct
		}

		switch kind {
		case token.KwFrom:
			if imp := p.parseImport(); imp != nil {
				file.Items = append(file.Items, &ast.TopLevel{
					Position: spanPos(startPos, p.lastEnd()),
					Kind:     ast.TopImport,
					Import:   imp,
				})
			} else {
				p.recover()
			}
		case token.KwBuiltin, token.KwFn:
			if fn := p.parseFunc(); fn != nil {
				file.Items = append(file.Items, &ast.TopLevel{
					Position: spanPos(startPos, p.lastEnd()),
					Kind:     ast.TopFunc,
					Func:     fn,
				})
			} else {
				p.recover()
			}
		case token.KwStruct:
			if st := p.parseStruct(false); st != nil {
				file.Items = append(file.Items, &ast.TopLevel{
					Position: spanPos(startPos, p.lastEnd()),
					Kind:     ast.TopStruct,
					Struct:   st,
				})
			} else {
				p.recover()
			}
		case token.KwEnum:
			if en := p.parseEnum(); en != nil {
				file.Items = append(file.Items, &ast.TopLevel{
					Position: spanPos(startPos, p.lastEnd()),
					Kind:     ast.TopEnum,
					Enum:     en,
				})
			} else {
				p.recover()
			}
		default:
			p.errorf("expected a top-level item (fn, struct, enum, from), found %s", p.cur().Kind)
			p.advance()
			p.recover()
		}
	}

	return file
}

func (p *Parser) lastEnd() token.Pos {
	if p.pos == 0 {
		return p.toks[0].Begin()
	}

	return p.toks[p.pos-1].End()
}

func spanPos(begin, end token.Pos) token.Position {
	return token.Position{BeginPos: begin, EndPos: end}
}

func (p *Parser) parseImport() *ast.Import {
	begin := p.cur().Begin()
	p.advance() // 'from'

	pathTok, ok := p.expect(token.StringLiteral)
	if !ok {
		return nil
	}

	if _, ok := p.expect(token.KwImport); !ok {
		return nil
	}

	var names []string

	for {
		nameTok, ok := p.expect(token.Ident)
		if !ok {
			return nil
		}

		names = append(names, nameTok.Lexeme)

		if p.at(token.Comma) {
			p.advance()
			continue
		}

		break
	}

	return &ast.Import{
		Position: spanPos(begin, p.lastEnd()),
		Path:     pathTok.Value.(string),
		Names:    names,
	}
}
