package parser

import (
	"github.com/golangee/aaa/ast"
	"github.com/golangee/aaa/token"
)

// parseTypeExpr parses the grammar:
//
//	typeExpr := 'never'
//	          | 'fn' '[' typeExprList ']' '[' typeExprList ']'
//	          | Ident ['[' typeExprList ']']
func (p *Parser) parseTypeExpr() *ast.TypeExpr {
	begin := p.cur().Begin()

	switch p.cur().Kind {
	case token.KwNever:
		p.advance()

		return &ast.TypeExpr{Position: spanPos(begin, p.lastEnd()), Kind: ast.TypeNever}
	case token.KwFn:
		p.advance()

		if _, ok := p.expect(token.BracketOpen); !ok {
			return nil
		}

		args := p.parseTypeExprList()

		if _, ok := p.expect(token.BracketClose); !ok {
			return nil
		}

		if _, ok := p.expect(token.BracketOpen); !ok {
			return nil
		}

		rets := p.parseTypeExprList()

		if _, ok := p.expect(token.BracketClose); !ok {
			return nil
		}

		return &ast.TypeExpr{
			Position: spanPos(begin, p.lastEnd()),
			Kind:     ast.TypeFn,
			FnArgs:   args,
			FnRets:   rets,
		}
	case token.Ident:
		nameTok := p.advance()

		te := &ast.TypeExpr{Position: spanPos(begin, p.lastEnd()), Kind: ast.TypeNamed, Name: nameTok.Lexeme}

		if p.at(token.BracketOpen) {
			p.advance()

			te.Args = p.parseTypeExprList()

			if _, ok := p.expect(token.BracketClose); !ok {
				return nil
			}

			te.Position = spanPos(begin, p.lastEnd())
		}

		return te
	default:
		p.errorf("expected a type expression, found %s", p.cur().Kind)

		return nil
	}
}

func (p *Parser) parseTypeExprList() []*ast.TypeExpr {
	if p.at(token.BracketClose) {
		return nil
	}

	var out []*ast.TypeExpr

	for {
		te := p.parseTypeExpr()
		if te == nil {
			return out
		}

		out = append(out, te)

		if p.at(token.Comma) {
			p.advance()
			continue
		}

		break
	}

	return out
}
