package parser

import (
	"github.com/golangee/aaa/ast"
	"github.com/golangee/aaa/token"
)

// parseGenericParams parses an optional '[' Ident (',' Ident)* ']' list,
// rejecting syntactically duplicate type-parameter names.
func (p *Parser) parseGenericParams() []string {
	if !p.at(token.BracketOpen) {
		return nil
	}

	p.advance()

	seen := map[string]bool{}

	var out []string

	for {
		nameTok, ok := p.expect(token.Ident)
		if !ok {
			return out
		}

		if seen[nameTok.Lexeme] {
			p.errorf("duplicate type parameter %q", nameTok.Lexeme)
		} else {
			seen[nameTok.Lexeme] = true
			out = append(out, nameTok.Lexeme)
		}

		if p.at(token.Comma) {
			p.advance()
			continue
		}

		break
	}

	if _, ok := p.expect(token.BracketClose); !ok {
		return out
	}

	return out
}

// parseFunc parses:
//
//	funcDecl := ['builtin'] 'fn' Ident [':' Ident] [genericParams]
//	            ['args' '{' argItem (',' argItem)* '}']
//	            ('return' '{' typeExpr (',' typeExpr)* '}' | 'never')?
//	            (block)?   -- absent when builtin
//	argItem := Ident ':' ['const'] typeExpr
func (p *Parser) parseFunc() *ast.Func {
	begin := p.cur().Begin()

	builtin := false
	if p.at(token.KwBuiltin) {
		builtin = true
		p.advance()
	}

	if _, ok := p.expect(token.KwFn); !ok {
		return nil
	}

	nameTok, ok := p.expect(token.Ident)
	if !ok {
		return nil
	}

	fn := &ast.Func{Name: nameTok.Lexeme, Builtin: builtin}

	if p.at(token.Colon) {
		p.advance()

		methodTok, ok := p.expect(token.Ident)
		if !ok {
			return nil
		}

		fn.Owner = nameTok.Lexeme
		fn.Name = methodTok.Lexeme
	}

	fn.TypeParams = p.parseGenericParams()

	if p.at(token.KwArgs) {
		p.advance()

		if _, ok := p.expect(token.BraceOpen); !ok {
			return nil
		}

		if !p.at(token.BraceClose) {
			for {
				argNameTok, ok := p.expect(token.Ident)
				if !ok {
					return nil
				}

				if _, ok := p.expect(token.Colon); !ok {
					return nil
				}

				isConst := false
				if p.at(token.KwConst) {
					isConst = true
					p.advance()
				}

				typeExpr := p.parseTypeExpr()
				if typeExpr == nil {
					return nil
				}

				fn.Args = append(fn.Args, &ast.Argument{
					Position: spanPos(argNameTok.Begin(), p.lastEnd()),
					Name:     argNameTok.Lexeme,
					Type:     typeExpr,
					Const:    isConst,
				})

				if p.at(token.Comma) {
					p.advance()
					continue
				}

				break
			}
		}

		if _, ok := p.expect(token.BraceClose); !ok {
			return nil
		}
	}

	switch {
	case p.at(token.KwReturn):
		p.advance()

		if _, ok := p.expect(token.BraceOpen); !ok {
			return nil
		}

		fn.Rets = p.parseRetList()

		if _, ok := p.expect(token.BraceClose); !ok {
			return nil
		}
	case p.at(token.KwNever):
		p.advance()

		fn.Never = true
	}

	if builtin {
		fn.Position = spanPos(begin, p.lastEnd())

		return fn
	}

	body := p.parseBlock()
	if body == nil {
		return nil
	}

	fn.Body = body
	fn.Position = spanPos(begin, p.lastEnd())

	return fn
}

func (p *Parser) parseRetList() []*ast.TypeExpr {
	if p.at(token.BraceClose) {
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

// parseStruct parses:
//
//	structDecl := ['builtin'] 'struct' Ident [genericParams] ['{' field (',' field)* '}']
//	field := Ident ':' typeExpr
func (p *Parser) parseStruct(_ bool) *ast.Struct {
	begin := p.cur().Begin()

	builtin := false
	if p.at(token.KwBuiltin) {
		builtin = true
		p.advance()
	}

	if _, ok := p.expect(token.KwStruct); !ok {
		return nil
	}

	nameTok, ok := p.expect(token.Ident)
	if !ok {
		return nil
	}

	st := &ast.Struct{Name: nameTok.Lexeme, Builtin: builtin}
	st.TypeParams = p.parseGenericParams()

	if !p.at(token.BraceOpen) {
		st.Position = spanPos(begin, p.lastEnd())

		return st
	}

	p.advance()

	if !p.at(token.BraceClose) {
		for {
			fieldNameTok, ok := p.expect(token.Ident)
			if !ok {
				return nil
			}

			if _, ok := p.expect(token.Colon); !ok {
				return nil
			}

			typeExpr := p.parseTypeExpr()
			if typeExpr == nil {
				return nil
			}

			st.Fields = append(st.Fields, &ast.Field{
				Position: spanPos(fieldNameTok.Begin(), p.lastEnd()),
				Name:     fieldNameTok.Lexeme,
				Type:     typeExpr,
			})

			if p.at(token.Comma) {
				p.advance()

				if p.at(token.BraceClose) {
					break
				}

				continue
			}

			break
		}
	}

	if _, ok := p.expect(token.BraceClose); !ok {
		return nil
	}

	st.Position = spanPos(begin, p.lastEnd())

	return st
}

// parseEnum parses:
//
//	enumDecl := 'enum' Ident [genericParams] '{' variant (',' variant)* '}'
//	variant := Ident ['as' (typeExpr | '[' typeExpr (',' typeExpr)* ']')]
func (p *Parser) parseEnum() *ast.Enum {
	begin := p.cur().Begin()

	if _, ok := p.expect(token.KwEnum); !ok {
		return nil
	}

	nameTok, ok := p.expect(token.Ident)
	if !ok {
		return nil
	}

	en := &ast.Enum{Name: nameTok.Lexeme}
	en.TypeParams = p.parseGenericParams()

	if _, ok := p.expect(token.BraceOpen); !ok {
		return nil
	}

	if !p.at(token.BraceClose) {
		for {
			variantNameTok, ok := p.expect(token.Ident)
			if !ok {
				return nil
			}

			variant := &ast.Variant{Name: variantNameTok.Lexeme}

			if p.at(token.KwAs) {
				p.advance()

				if p.at(token.BracketOpen) {
					p.advance()

					variant.Data = p.parseTypeExprList()

					if _, ok := p.expect(token.BracketClose); !ok {
						return nil
					}
				} else {
					te := p.parseTypeExpr()
					if te == nil {
						return nil
					}

					variant.Data = []*ast.TypeExpr{te}
				}
			}

			variant.Position = spanPos(variantNameTok.Begin(), p.lastEnd())
			en.Variants = append(en.Variants, variant)

			if p.at(token.Comma) {
				p.advance()

				if p.at(token.BraceClose) {
					break
				}

				continue
			}

			break
		}
	}

	if _, ok := p.expect(token.BraceClose); !ok {
		return nil
	}

	en.Position = spanPos(begin, p.lastEnd())

	return en
}
