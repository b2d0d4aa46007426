package cppname

// OperatorKind identifies an overloadable C++ operator.
type OperatorKind int

const (
	OpNew OperatorKind = iota + 1
	OpDelete
	OpArrayNew
	OpArrayDelete
	OpPlus
	OpMinus
	OpStar
	OpSlash
	OpPercent
	OpCaret
	OpAmp
	OpPipe
	OpTilde
	OpExclaim
	OpAssign
	OpLess
	OpGreater
	OpPlusAssign
	OpMinusAssign
	OpStarAssign
	OpSlashAssign
	OpPercentAssign
	OpCaretAssign
	OpAmpAssign
	OpPipeAssign
	OpShiftLeft
	OpShiftRight
	OpShiftLeftAssign
	OpShiftRightAssign
	OpEqual
	OpNotEqual
	OpLessEqual
	OpGreaterEqual
	OpSpaceship
	OpAndAnd
	OpOrOr
	OpIncrement
	OpDecrement
	OpComma
	OpArrowStar
	OpArrow
	OpCall
	OpSubscript
)

type operatorInfo struct {
	symbol string
	token  string
}

// operators is the single source of both lookup directions. Tokens must stay
// pairwise distinct; they are emitted into C identifiers.
var operators = map[OperatorKind]operatorInfo{
	OpNew:              {"new", "new"},
	OpDelete:           {"delete", "delete"},
	OpArrayNew:         {"new[]", "new_array"},
	OpArrayDelete:      {"delete[]", "delete_array"},
	OpPlus:             {"+", "add"},
	OpMinus:            {"-", "sub"},
	OpStar:             {"*", "mul"},
	OpSlash:            {"/", "div"},
	OpPercent:          {"%", "mod"},
	OpCaret:            {"^", "xor"},
	OpAmp:              {"&", "bitand"},
	OpPipe:             {"|", "bitor"},
	OpTilde:            {"~", "compl"},
	OpExclaim:          {"!", "not"},
	OpAssign:           {"=", "assign"},
	OpLess:             {"<", "lt"},
	OpGreater:          {">", "gt"},
	OpPlusAssign:       {"+=", "add_assign"},
	OpMinusAssign:      {"-=", "sub_assign"},
	OpStarAssign:       {"*=", "mul_assign"},
	OpSlashAssign:      {"/=", "div_assign"},
	OpPercentAssign:    {"%=", "mod_assign"},
	OpCaretAssign:      {"^=", "xor_assign"},
	OpAmpAssign:        {"&=", "bitand_assign"},
	OpPipeAssign:       {"|=", "bitor_assign"},
	OpShiftLeft:        {"<<", "shl"},
	OpShiftRight:       {">>", "shr"},
	OpShiftLeftAssign:  {"<<=", "shl_assign"},
	OpShiftRightAssign: {">>=", "shr_assign"},
	OpEqual:            {"==", "eq"},
	OpNotEqual:         {"!=", "ne"},
	OpLessEqual:        {"<=", "le"},
	OpGreaterEqual:     {">=", "ge"},
	OpSpaceship:        {"<=>", "cmp"},
	OpAndAnd:           {"&&", "and"},
	OpOrOr:             {"||", "or"},
	OpIncrement:        {"++", "inc"},
	OpDecrement:        {"--", "dec"},
	OpComma:            {",", "comma"},
	OpArrowStar:        {"->*", "arrow_star"},
	OpArrow:            {"->", "arrow"},
	OpCall:             {"()", "call"},
	OpSubscript:        {"[]", "subscript"},
}

var bySymbol = func() map[string]OperatorKind {
	m := make(map[string]OperatorKind, len(operators))
	for kind, info := range operators {
		m[info.symbol] = kind
	}
	return m
}()

// OperatorFromSymbol maps source spelling (e.g. "==", "[]", "new[]") to its kind.
func OperatorFromSymbol(symbol string) (OperatorKind, bool) {
	kind, ok := bySymbol[symbol]
	return kind, ok
}

// Token returns the identifier-safe token for the operator, or "" for an unknown kind.
func (k OperatorKind) Token() string {
	return operators[k].token
}

// Symbol returns the C++ spelling of the operator.
func (k OperatorKind) Symbol() string {
	return operators[k].symbol
}

// OperatorKinds returns every known kind in declaration order.
func OperatorKinds() []OperatorKind {
	kinds := make([]OperatorKind, 0, len(operators))
	for k := OpNew; k <= OpSubscript; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}
