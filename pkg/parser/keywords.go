package parser

import (
	"strings"

	"github.com/leapstack-labs/sqlanalyser/pkg/token"
)

// Soft keywords are identifiers that have special meaning in specific contexts.
// They are not registered as tokens and stay usable as names elsewhere.
// Example: "ROWTYPE" only matters after "%" in a type reference, so a column
// called rowtype still parses.
const (
	SoftKeywordRowType     = "ROWTYPE"
	SoftKeywordRef         = "REF"
	SoftKeywordTable       = "TABLE"
	SoftKeywordNew         = "NEW"
	SoftKeywordOld         = "OLD"
	SoftKeywordParent      = "PARENT"
	SoftKeywordNo          = "NO"
	SoftKeywordTo          = "TO"
	SoftKeywordTime        = "TIME"
	SoftKeywordZone        = "ZONE"
	SoftKeywordLocal       = "LOCAL"
	SoftKeywordNoWait      = "NOWAIT"
	SoftKeywordWait        = "WAIT"
	SoftKeywordSkip        = "SKIP"
	SoftKeywordLocked      = "LOCKED"
	SoftKeywordTies        = "TIES"
	SoftKeywordPercent     = "PERCENT"
	SoftKeywordXML         = "XML"
	SoftKeywordInclude     = "INCLUDE"
	SoftKeywordExclude     = "EXCLUDE"
	SoftKeywordNoCycle     = "NOCYCLE"
	SoftKeywordSiblings    = "SIBLINGS"
	SoftKeywordIndices     = "INDICES"
	SoftKeywordSave        = "SAVE"
	SoftKeywordExceptions  = "EXCEPTIONS"
	SoftKeywordFollows     = "FOLLOWS"
	SoftKeywordEnable      = "ENABLE"
	SoftKeywordDisable     = "DISABLE"
	SoftKeywordLanguage    = "LANGUAGE"
	SoftKeywordExternal    = "EXTERNAL"
	SoftKeywordCompound    = "COMPOUND"
	SoftKeywordCharacter   = "CHARACTER"
	SoftKeywordLog         = "LOG"
	SoftKeywordErrors      = "ERRORS"
	SoftKeywordSample      = "SAMPLE"
	SoftKeywordLeading     = "LEADING"
	SoftKeywordTrailing    = "TRAILING"
	SoftKeywordBoth        = "BOTH"
	SoftKeywordCurrentUser = "CURRENT_USER"
	SoftKeywordDefiner     = "DEFINER"
)

// reserved tokens can never be used as identifiers.
var reserved = map[TokenType]bool{}

// aliasStop tokens end an expression where an alias could otherwise follow.
var aliasStop = map[TokenType]bool{}

func init() {
	for _, t := range []TokenType{
		TOKEN_ALL, TOKEN_AND, TOKEN_ANY, TOKEN_AS, TOKEN_BETWEEN, TOKEN_BY, TOKEN_CASE,
		TOKEN_CREATE, TOKEN_DELETE, TOKEN_DISTINCT, TOKEN_ELSE, TOKEN_END, TOKEN_EXISTS,
		TOKEN_FOR, TOKEN_FROM, TOKEN_GROUP, TOKEN_HAVING, TOKEN_IF, TOKEN_IN, TOKEN_INSERT,
		TOKEN_INTERSECT, TOKEN_INTO, TOKEN_IS, TOKEN_LIKE, TOKEN_NOT, TOKEN_NULL, TOKEN_OF,
		TOKEN_ON, TOKEN_OR, TOKEN_ORDER, TOKEN_SELECT, TOKEN_SET, TOKEN_THEN, TOKEN_UNION,
		TOKEN_UNIQUE, TOKEN_UPDATE, TOKEN_VALUES, TOKEN_WHEN, TOKEN_WHERE, TOKEN_WITH,
		TOKEN_TRUE, TOKEN_FALSE,
		TOKEN_BEGIN, TOKEN_DECLARE, TOKEN_EXCEPTION, TOKEN_ELSIF, TOKEN_LOOP, TOKEN_MINUS_KW,
		TOKEN_PRIOR, TOKEN_CONNECT, TOKEN_START, TOKEN_PROCEDURE, TOKEN_FUNCTION, TOKEN_CURSOR,
	} {
		reserved[t] = true
		aliasStop[t] = true
	}
	for _, t := range []TokenType{
		TOKEN_JOIN, TOKEN_LEFT, TOKEN_RIGHT, TOKEN_FULL, TOKEN_INNER, TOKEN_CROSS,
		TOKEN_NATURAL, TOKEN_OUTER, TOKEN_USING, TOKEN_PIVOT, TOKEN_UNPIVOT, TOKEN_FETCH,
		TOKEN_OFFSET, TOKEN_RETURNING, TOKEN_RETURN, TOKEN_BULK, TOKEN_PARTITION,
		TOKEN_EXCEPT, TOKEN_LIMIT, TOKEN_ASC, TOKEN_DESC, TOKEN_NULLS,
	} {
		aliasStop[t] = true
	}
}

// isIdentToken reports whether tok may name something.
func isIdentToken(tok Token) bool {
	if tok.Type == TOKEN_IDENT {
		return true
	}
	return token.IsKeyword(tok.Type) && !reserved[tok.Type]
}

// isAliasToken reports whether tok may serve as an implicit alias.
func isAliasToken(tok Token) bool {
	if tok.Type == TOKEN_IDENT {
		return !isSoftClauseWord(tok.Literal)
	}
	return token.IsKeyword(tok.Type) && !aliasStop[tok.Type]
}

// isSoftClauseWord lists soft keywords that start a clause right where an
// alias could appear.
func isSoftClauseWord(lit string) bool {
	switch strings.ToUpper(lit) {
	case SoftKeywordSample, SoftKeywordLog:
		return true
	}
	return false
}

// standardFunctions are built-in functions the grammar models as
// standard_function rather than user routine calls.
var standardFunctions = map[string]bool{}

func init() {
	for _, name := range []string{
		"ABS", "ADD_MONTHS", "ASCII", "AVG", "CAST", "CEIL", "CHR", "COALESCE", "CONCAT",
		"CORR", "COUNT", "COVAR_POP", "CUME_DIST", "DECODE", "DENSE_RANK", "EXTRACT",
		"FIRST_VALUE", "FLOOR", "GREATEST", "INITCAP", "INSTR", "LAG", "LAST_DAY",
		"LAST_VALUE", "LEAD", "LEAST", "LENGTH", "LISTAGG", "LOWER", "LPAD", "LTRIM", "MAX",
		"MEDIAN", "MIN", "MOD", "MONTHS_BETWEEN", "NEXT_DAY", "NTILE", "NULLIF", "NVL",
		"NVL2", "PERCENT_RANK", "POWER", "RANK", "RATIO_TO_REPORT", "REGEXP_COUNT",
		"REGEXP_INSTR", "REGEXP_LIKE", "REGEXP_REPLACE", "REGEXP_SUBSTR", "REPLACE",
		"ROUND", "ROW_NUMBER", "RPAD", "RTRIM", "SIGN", "SQRT", "STDDEV", "SUBSTR", "SUM",
		"SYS_CONTEXT", "TO_CHAR", "TO_CLOB", "TO_DATE", "TO_NUMBER", "TO_TIMESTAMP",
		"TRANSLATE", "TRIM", "TRUNC", "UPPER", "VARIANCE", "XMLAGG",
	} {
		standardFunctions[name] = true
	}
}

// IsStandardFunction reports whether name is a built-in function the
// parser emits as a standard_function node.
func IsStandardFunction(name string) bool {
	return standardFunctions[strings.ToUpper(name)]
}
