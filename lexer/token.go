package lexer

import (
	"fmt"
	"maps"
	"slices"

	"modernc.org/token"
)

// Kind identifies the type of a token.
type Kind int

const (
	EOF Kind = iota
	Newline
	Indent
	Dedent

	// Literals
	Ident
	Number
	String
	Template // f"..."; Parts holds the literal and expression segments

	// Keywords
	Def
	Return
	If
	Elif
	Else
	For
	In
	While
	Break
	Continue
	Class
	Self
	Pass
	Try
	Except
	Import
	From
	As
	Export
	And
	Or
	Not
	True
	False
	None
	Print
	Server
	Get
	Post
	Put
	Delete
	Patch
	Respond
	Fetch

	// Operators and punctuation
	Assign     // =
	Eq         // ==
	NotEq      // !=
	Plus       // +
	PlusEq     // +=
	Minus      // -
	MinusEq    // -=
	Star       // *
	StarEq     // *=
	Power      // **
	Slash      // /
	SlashEq    // /=
	FloorDiv   // //
	Percent    // %
	Less       // <
	LessEq     // <=
	Greater    // >
	GreaterEq  // >=
	Dot        // .
	Colon      // :
	Comma      // ,
	LParen     // (
	RParen     // )
	LBracket   // [
	RBracket   // ]
	LBrace     // {
	RBrace     // }
	kindsCount // sentinel
)

var kindNames = [kindsCount]string{
	EOF:      "end of file",
	Newline:  "newline",
	Indent:   "indent",
	Dedent:   "dedent",
	Ident:    "identifier",
	Number:   "number",
	String:   "string",
	Template: "template string",
	Def:      "'def'",
	Return:   "'return'",
	If:       "'if'",
	Elif:     "'elif'",
	Else:     "'else'",
	For:      "'for'",
	In:       "'in'",
	While:    "'while'",
	Break:    "'break'",
	Continue: "'continue'",
	Class:    "'class'",
	Self:     "'self'",
	Pass:     "'pass'",
	Try:      "'try'",
	Except:   "'except'",
	Import:   "'import'",
	From:     "'from'",
	As:       "'as'",
	Export:   "'export'",
	And:      "'and'",
	Or:       "'or'",
	Not:      "'not'",
	True:     "'True'",
	False:    "'False'",
	None:     "'None'",
	Print:    "'print'",
	Server:   "'server'",
	Get:      "'get'",
	Post:     "'post'",
	Put:      "'put'",
	Delete:   "'delete'",
	Patch:    "'patch'",
	Respond:  "'respond'",
	Fetch:    "'fetch'",

	Assign:    "'='",
	Eq:        "'=='",
	NotEq:     "'!='",
	Plus:      "'+'",
	PlusEq:    "'+='",
	Minus:     "'-'",
	MinusEq:   "'-='",
	Star:      "'*'",
	StarEq:    "'*='",
	Power:     "'**'",
	Slash:     "'/'",
	SlashEq:   "'/='",
	FloorDiv:  "'//'",
	Percent:   "'%'",
	Less:      "'<'",
	LessEq:    "'<='",
	Greater:   "'>'",
	GreaterEq: "'>='",
	Dot:       "'.'",
	Colon:     "':'",
	Comma:     "','",
	LParen:    "'('",
	RParen:    "')'",
	LBracket:  "'['",
	RBracket:  "']'",
	LBrace:    "'{'",
	RBrace:    "'}'",
}

func (k Kind) String() string {
	if k >= 0 && k < kindsCount && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool { return k >= Def && k <= Fetch }

// IsMethod reports whether k is one of the route method keywords.
func (k Kind) IsMethod() bool { return k >= Get && k <= Patch }

// keywords maps reserved words to their kinds. True/False have lowercase
// aliases.
var keywords = map[string]Kind{
	"def":      Def,
	"return":   Return,
	"if":       If,
	"elif":     Elif,
	"else":     Else,
	"for":      For,
	"in":       In,
	"while":    While,
	"break":    Break,
	"continue": Continue,
	"class":    Class,
	"self":     Self,
	"pass":     Pass,
	"try":      Try,
	"except":   Except,
	"import":   Import,
	"from":     From,
	"as":       As,
	"export":   Export,
	"and":      And,
	"or":       Or,
	"not":      Not,
	"True":     True,
	"true":     True,
	"False":    False,
	"false":    False,
	"None":     None,
	"print":    Print,
	"server":   Server,
	"get":      Get,
	"post":     Post,
	"put":      Put,
	"delete":   Delete,
	"patch":    Patch,
	"respond":  Respond,
	"fetch":    Fetch,
}

// Keywords returns the reserved words in sorted order.
func Keywords() []string {
	return slices.Sorted(maps.Keys(keywords))
}

// Segment is one piece of a template string: literal text, or the raw
// source of an embedded expression.
type Segment struct {
	Text string
	Expr bool
	Pos  token.Position // start of the expression text; zero for literal text
}

// Token is a single lexical token.
type Token struct {
	Kind  Kind
	Text  string    // identifier, keyword or operator spelling; string contents; number lexeme
	Num   float64   // value of a Number
	Parts []Segment // segments of a Template
	Pos   token.Position
}

// Describe renders the token for "found ..." messages.
func (t Token) Describe() string {
	switch t.Kind {
	case Ident:
		return fmt.Sprintf("identifier %q", t.Text)
	case Number:
		return "number " + t.Text
	case String:
		return fmt.Sprintf("string %q", t.Text)
	}
	return t.Kind.String()
}
