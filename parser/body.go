package parser

import (
	"github.com/golangee/aaa/ast"
	"github.com/golangee/aaa/token"
)

// parseBlock parses '{' item* '}'.
func (p *Parser) parseBlock() *ast.Block {
	begin := p.cur().Begin()

	if _, ok := p.expect(token.BraceOpen); !ok {
		return nil
	}

	block := &ast.Block{}

	for !p.at(token.BraceClose) {
		if p.at(token.EOF) {
			p.errorf("unexpected end of file, expected %s", token.BraceClose)

			return nil
		}

		item := p.parseItem()
		if item == nil {
			return nil
		}

		block.Items = append(block.Items, item)
	}

	p.advance()

	block.Position = spanPos(begin, p.lastEnd())

	return block
}

// parseItem parses one function-body item.
func (p *Parser) parseItem() ast.Item {
	begin := p.cur().Begin()

	switch p.cur().Kind {
	case token.IntLiteral:
		tok := p.advance()

		return &ast.LitInt{Base: newBase(begin, tok.End()), Value: tok.Value.(int64)}
	case token.KwTrue:
		p.advance()

		return &ast.LitBool{Base: newBase(begin, p.lastEnd()), Value: true}
	case token.KwFalse:
		p.advance()

		return &ast.LitBool{Base: newBase(begin, p.lastEnd()), Value: false}
	case token.CharLiteral:
		tok := p.advance()

		return &ast.LitChar{Base: newBase(begin, tok.End()), Value: tok.Value.(rune)}
	case token.StringLiteral:
		return p.parseStringLedItem()
	case token.Ident:
		return p.parseIdentRef()
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwForeach:
		return p.parseForeach()
	case token.KwUse:
		return p.parseUse()
	case token.KwMatch:
		return p.parseMatch()
	case token.KwCall:
		p.advance()

		return &ast.CallPtr{Base: newBase(begin, p.lastEnd())}
	case token.KwReturn:
		p.advance()

		return &ast.Return{Base: newBase(begin, p.lastEnd())}
	default:
		p.errorf("unexpected %s in function body", p.cur().Kind)

		return nil
	}
}

func newBase(begin, end token.Pos) ast.Base {
	return ast.Base{Position: spanPos(begin, end)}
}

// parseStringLedItem disambiguates the four forms that start with a string
// literal: a plain string-literal push, get-field ("name" ?), set-field
// ("name" { expr } !), and function-pointer literal ("name" fn).
func (p *Parser) parseStringLedItem() ast.Item {
	begin := p.cur().Begin()
	tok := p.advance()
	name := tok.Value.(string)

	switch p.cur().Kind {
	case token.Question:
		p.advance()

		return &ast.GetField{Base: newBase(begin, p.lastEnd()), Name: name}
	case token.BraceOpen:
		expr := p.parseBlock()
		if expr == nil {
			return nil
		}

		if _, ok := p.expect(token.Bang); !ok {
			return nil
		}

		return &ast.SetField{Base: newBase(begin, p.lastEnd()), Name: name, Expr: expr}
	case token.KwFn:
		p.advance()

		return &ast.FnLit{Base: newBase(begin, p.lastEnd()), Name: name}
	default:
		return &ast.LitString{Base: newBase(begin, tok.End()), Value: name}
	}
}

// parseIdentRef parses a bare identifier reference, the assignment form
// `name <- { expr }`, and the qualified `Type:method` spelling used to refer
// to associated functions.
func (p *Parser) parseIdentRef() ast.Item {
	begin := p.cur().Begin()
	nameTok := p.advance()
	name := nameTok.Lexeme

	if p.at(token.Colon) {
		p.advance()

		methodTok, ok := p.expect(token.Ident)
		if !ok {
			return nil
		}

		name = name + ":" + methodTok.Lexeme
	}

	if p.at(token.Arrow) {
		p.advance()

		expr := p.parseBlock()
		if expr == nil {
			return nil
		}

		return &ast.Assign{Base: newBase(begin, p.lastEnd()), Name: name, Expr: expr}
	}

	return &ast.IdentRef{Base: newBase(begin, p.lastEnd()), Name: name}
}

func (p *Parser) parseIf() ast.Item {
	begin := p.cur().Begin()
	p.advance() // 'if'

	cond := p.parseBlock()
	if cond == nil {
		return nil
	}

	then := p.parseBlock()
	if then == nil {
		return nil
	}

	var elseBlock *ast.Block

	if p.at(token.KwElse) {
		p.advance()

		elseBlock = p.parseBlock()
		if elseBlock == nil {
			return nil
		}
	}

	return &ast.If{Base: newBase(begin, p.lastEnd()), Cond: cond, Then: then, Else: elseBlock}
}

func (p *Parser) parseWhile() ast.Item {
	begin := p.cur().Begin()
	p.advance() // 'while'

	cond := p.parseBlock()
	if cond == nil {
		return nil
	}

	body := p.parseBlock()
	if body == nil {
		return nil
	}

	return &ast.While{Base: newBase(begin, p.lastEnd()), Cond: cond, Body: body}
}

func (p *Parser) parseForeach() ast.Item {
	begin := p.cur().Begin()
	p.advance() // 'foreach'

	body := p.parseBlock()
	if body == nil {
		return nil
	}

	return &ast.Foreach{Base: newBase(begin, p.lastEnd()), Body: body}
}

// parseUse parses `use name1 name2 ... { body }`.
func (p *Parser) parseUse() ast.Item {
	begin := p.cur().Begin()
	p.advance() // 'use'

	var names []string

	for p.at(token.Ident) {
		names = append(names, p.advance().Lexeme)
	}

	if len(names) == 0 {
		p.errorf("expected at least one name after 'use'")

		return nil
	}

	body := p.parseBlock()
	if body == nil {
		return nil
	}

	return &ast.Use{Base: newBase(begin, p.lastEnd()), Names: names, Body: body}
}

// parseMatch parses `match { case Enum:Variant [as names...] { body } ... [default { body }] }`.
func (p *Parser) parseMatch() ast.Item {
	begin := p.cur().Begin()
	p.advance() // 'match'

	if _, ok := p.expect(token.BraceOpen); !ok {
		return nil
	}

	match := &ast.Match{}

	for p.at(token.KwCase) {
		caseBegin := p.cur().Begin()
		p.advance() // 'case'

		enumTok, ok := p.expect(token.Ident)
		if !ok {
			return nil
		}

		if _, ok := p.expect(token.Colon); !ok {
			return nil
		}

		variantTok, ok := p.expect(token.Ident)
		if !ok {
			return nil
		}

		var names []string

		if p.at(token.KwAs) {
			p.advance()

			for p.at(token.Ident) {
				names = append(names, p.advance().Lexeme)
			}

			if len(names) == 0 {
				p.errorf("expected at least one name after 'as'")

				return nil
			}
		}

		body := p.parseBlock()
		if body == nil {
			return nil
		}

		match.Cases = append(match.Cases, &ast.Case{
			Position: spanPos(caseBegin, p.lastEnd()),
			Enum:     enumTok.Lexeme,
			Variant:  variantTok.Lexeme,
			Names:    names,
			Body:     body,
		})
	}

	if p.at(token.KwDefault) {
		p.advance()

		body := p.parseBlock()
		if body == nil {
			return nil
		}

		match.Default = body
	}

	if _, ok := p.expect(token.BraceClose); !ok {
		return nil
	}

	match.Position = spanPos(begin, p.lastEnd())

	return match
}
