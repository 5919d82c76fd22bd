package syntax

// Parse tokenizes and parses one compilation unit. It returns the concrete
// tree, or the first syntax error encountered; there is no error recovery.
func Parse(file, src string) (*File, error) {
	tokens, lexErr := newLexer(file, src).Lex()
	if lexErr != nil {
		return nil, lexErr
	}
	p := &parser{file: file, tokens: tokens}
	return p.parseFile()
}

type parser struct {
	file   string
	tokens []Token
	pos    int
}

func (p *parser) cur() Token {
	return p.tokens[p.pos]
}

func (p *parser) advance() Token {
	tok := p.tokens[p.pos]
	if tok.Kind != TokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) expect(kind TokenKind) (Token, error) {
	if p.cur().Kind != kind {
		return Token{}, p.errExpected(kind.String())
	}
	return p.advance(), nil
}

func (p *parser) errExpected(expected string) error {
	tok := p.cur()
	return &SyntaxError{
		Pos:      Position{File: p.file, Line: tok.Line, Column: tok.Column},
		Expected: expected,
		Found:    tok.describe(),
	}
}

func (p *parser) parseFile() (*File, error) {
	f := &File{Name: p.file}
	for p.cur().Kind != TokenEOF {
		decl, err := p.parseDecl()
		if err != nil {
			return nil, err
		}
		f.Decls = append(f.Decls, decl)
	}
	return f, nil
}

func (p *parser) parseDoc() *DocComment {
	if p.cur().Kind != TokenDoc {
		return nil
	}
	tok := p.advance()
	return &DocComment{Text: tok.Text, Line: tok.Line, Column: tok.Column}
}

func (p *parser) parseDecl() (Decl, error) {
	doc := p.parseDoc()
	switch p.cur().Kind {
	case TokenStruct:
		return p.parseStruct(doc)
	case TokenEnum:
		return p.parseEnum(doc)
	case TokenService:
		return p.parseService(doc)
	default:
		return nil, p.errExpected("'struct', 'enum', or 'service'")
	}
}

func (p *parser) parseIdent() (Ident, error) {
	tok, err := p.expect(TokenIdent)
	if err != nil {
		return Ident{}, err
	}
	return Ident{Name: tok.Text, Line: tok.Line, Column: tok.Column}, nil
}

func (p *parser) parseStruct(doc *DocComment) (*StructDecl, error) {
	p.advance() // struct
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	fields, err := p.parseFieldBlock()
	if err != nil {
		return nil, err
	}
	return &StructDecl{Doc: doc, Name: name, Fields: fields}, nil
}

// parseFieldBlock parses '{' field (',' field)* ','? '}'.
func (p *parser) parseFieldBlock() ([]FieldDecl, error) {
	if _, err := p.expect(TokenLBrace); err != nil {
		return nil, err
	}
	var fields []FieldDecl
	for p.cur().Kind != TokenRBrace {
		field, err := p.parseField()
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
		if p.cur().Kind != TokenComma {
			break
		}
		p.advance()
	}
	if _, err := p.expect(TokenRBrace); err != nil {
		return nil, err
	}
	return fields, nil
}

func (p *parser) parseField() (FieldDecl, error) {
	doc := p.parseDoc()

	// ".. Other" embeds the fields of Other.
	if p.cur().Kind == TokenDotDot {
		p.advance()
		name, err := p.parseIdent()
		if err != nil {
			return FieldDecl{}, err
		}
		return FieldDecl{Doc: doc, Name: name, Type: &NamedType{Name: name}, Embed: true}, nil
	}

	name, err := p.parseIdent()
	if err != nil {
		return FieldDecl{}, err
	}
	if _, err := p.expect(TokenColon); err != nil {
		return FieldDecl{}, err
	}
	typ, err := p.parseType()
	if err != nil {
		return FieldDecl{}, err
	}
	return FieldDecl{Doc: doc, Name: name, Type: typ}, nil
}

func (p *parser) parseEnum(doc *DocComment) (*EnumDecl, error) {
	p.advance() // enum
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenLBrace); err != nil {
		return nil, err
	}
	var variants []VariantDecl
	for p.cur().Kind != TokenRBrace {
		variant, err := p.parseVariant()
		if err != nil {
			return nil, err
		}
		variants = append(variants, variant)
		if p.cur().Kind != TokenComma {
			break
		}
		p.advance()
	}
	if _, err := p.expect(TokenRBrace); err != nil {
		return nil, err
	}
	return &EnumDecl{Doc: doc, Name: name, Variants: variants}, nil
}

func (p *parser) parseVariant() (VariantDecl, error) {
	doc := p.parseDoc()
	name, err := p.parseIdent()
	if err != nil {
		return VariantDecl{}, err
	}
	v := VariantDecl{Doc: doc, Name: name, Form: FormSimple}

	switch p.cur().Kind {
	case TokenLParen:
		p.advance()
		v.Form = FormTuple
		for {
			typ, err := p.parseType()
			if err != nil {
				return VariantDecl{}, err
			}
			v.Tuple = append(v.Tuple, typ)
			if p.cur().Kind != TokenComma {
				break
			}
			p.advance()
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return VariantDecl{}, err
		}
	case TokenLBrace:
		v.Form = FormStruct
		fields, err := p.parseFieldBlock()
		if err != nil {
			return VariantDecl{}, err
		}
		v.Fields = fields
	}
	return v, nil
}

func (p *parser) parseService(doc *DocComment) (*ServiceDecl, error) {
	p.advance() // service
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenLBrace); err != nil {
		return nil, err
	}
	var methods []MethodDecl
	for p.cur().Kind != TokenRBrace {
		method, err := p.parseMethod()
		if err != nil {
			return nil, err
		}
		methods = append(methods, method)
		if p.cur().Kind != TokenComma {
			break
		}
		p.advance()
	}
	if _, err := p.expect(TokenRBrace); err != nil {
		return nil, err
	}
	return &ServiceDecl{Doc: doc, Name: name, Methods: methods}, nil
}

func (p *parser) parseMethod() (MethodDecl, error) {
	doc := p.parseDoc()
	name, err := p.parseIdent()
	if err != nil {
		return MethodDecl{}, err
	}
	if _, err := p.expect(TokenLParen); err != nil {
		return MethodDecl{}, err
	}
	req, err := p.parseType()
	if err != nil {
		return MethodDecl{}, err
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return MethodDecl{}, err
	}
	if _, err := p.expect(TokenArrow); err != nil {
		return MethodDecl{}, err
	}
	resp, err := p.parseType()
	if err != nil {
		return MethodDecl{}, err
	}
	return MethodDecl{Doc: doc, Name: name, Request: req, Response: resp}, nil
}

func (p *parser) parseType() (TypeExpr, error) {
	tok := p.cur()

	// Parenthesized types: () is the unit type, (T, U, ...) a tuple.
	if tok.Kind == TokenLParen {
		p.advance()
		if p.cur().Kind == TokenRParen {
			p.advance()
			return &EmptyType{Line: tok.Line, Column: tok.Column}, nil
		}
		var elems []TypeExpr
		for {
			typ, err := p.parseType()
			if err != nil {
				return nil, err
			}
			elems = append(elems, typ)
			if p.cur().Kind != TokenComma {
				break
			}
			p.advance()
			if p.cur().Kind == TokenRParen {
				break
			}
		}
		// A single parenthesized type is neither a tuple nor a grouping.
		if len(elems) < 2 {
			return nil, p.errExpected("','")
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return &TupleType{Elems: elems, Line: tok.Line, Column: tok.Column}, nil
	}

	if tok.Kind != TokenIdent {
		return nil, p.errExpected("type")
	}

	// option, list, and map are contextual keywords: they only act as
	// container constructors when used in type position.
	switch tok.Text {
	case "option":
		p.advance()
		elem, err := p.parseTypeArgs(1)
		if err != nil {
			return nil, err
		}
		return &OptionType{Elem: elem[0]}, nil
	case "list":
		p.advance()
		elem, err := p.parseTypeArgs(1)
		if err != nil {
			return nil, err
		}
		return &ListType{Elem: elem[0]}, nil
	case "map":
		p.advance()
		args, err := p.parseTypeArgs(2)
		if err != nil {
			return nil, err
		}
		return &MapType{Key: args[0], Value: args[1]}, nil
	}

	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	return &NamedType{Name: name}, nil
}

// parseTypeArgs parses '<' type (',' type)* '>' with exactly n arguments.
func (p *parser) parseTypeArgs(n int) ([]TypeExpr, error) {
	if _, err := p.expect(TokenLAngle); err != nil {
		return nil, err
	}
	args := make([]TypeExpr, 0, n)
	for i := 0; i < n; i++ {
		if i > 0 {
			if _, err := p.expect(TokenComma); err != nil {
				return nil, err
			}
		}
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		args = append(args, typ)
	}
	if _, err := p.expect(TokenRAngle); err != nil {
		return nil, err
	}
	return args, nil
}
