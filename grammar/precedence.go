package grammar

// Assoc is the associativity of an operator.
type Assoc int8

// Associativities
const (
	LeftAssoc Assoc = iota
	RightAssoc
)

// Precedence is an entry in the precedence table. Higher levels bind tighter.
type Precedence struct {
	Level int
	Assoc Assoc
}

// Levels of the precedence table, lowest first.
const (
	RelationalLevel = iota + 1
	AdditiveLevel
	MatrixAdditiveLevel
	MultiplicativeLevel
	MatrixMultiplicativeLevel
	UnaryLevel
	PostfixLevel
)

// precedenceTable is the single global table of precedences for binary
// operators. Unary minus and postfix transpose are parsed at UnaryLevel and
// PostfixLevel.
var precedenceTable = map[TokenKind]Precedence{
	Eq:        {RelationalLevel, LeftAssoc},
	NotEq:     {RelationalLevel, LeftAssoc},
	Less:      {RelationalLevel, LeftAssoc},
	LessEq:    {RelationalLevel, LeftAssoc},
	Greater:   {RelationalLevel, LeftAssoc},
	GreaterEq: {RelationalLevel, LeftAssoc},
	Plus:      {AdditiveLevel, LeftAssoc},
	Minus:     {AdditiveLevel, LeftAssoc},
	DotPlus:   {MatrixAdditiveLevel, LeftAssoc},
	DotMinus:  {MatrixAdditiveLevel, LeftAssoc},
	Times:     {MultiplicativeLevel, LeftAssoc},
	Divide:    {MultiplicativeLevel, LeftAssoc},
	DotTimes:  {MatrixMultiplicativeLevel, LeftAssoc},
	DotDivide: {MatrixMultiplicativeLevel, LeftAssoc},
}

// PrecedenceOf returns the table entry for an infix operator token.
func PrecedenceOf(kind TokenKind) (Precedence, bool) {
	prec, ok := precedenceTable[kind]
	return prec, ok
}
