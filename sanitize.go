package basedb

import (
	"regexp"
	"strings"
)

// injectPattern matches values that look like they carry SQL of their own.
var injectPattern = regexp.MustCompile(`(?i)select|insert|update|delete|'|/\*|\*|\.\./|\./|#|union|into|load_file|outfile|where`)

// numericPattern follows PHP's is_numeric grammar: optional surrounding
// whitespace, optional sign, decimal digits with an optional fraction and
// exponent. Hexadecimal and "inf"/"nan" are not numeric.
var numericPattern = regexp.MustCompile(`^\s*[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?\s*$`)

// QuoteIdentifier wraps a column or table name in backticks so that it
// can't collide with reserved words. The wildcard "*", function calls
// (anything with a "("), qualified names (anything with a ".") and
// already-quoted names are returned untouched.
func QuoteIdentifier(token string) string {
	if token == "*" ||
		strings.Contains(token, "(") ||
		strings.Contains(token, ".") ||
		strings.Contains(token, "`") {
		return token
	}

	return "`" + strings.TrimSpace(token) + "`"
}

// InjectCheck tests a value against a fixed blacklist of SQL keywords and
// comment/path characters. A value matching any of them is converted with
// InjectConvert; any other value is returned byte-identical, neither
// escaped nor quoted.
func InjectCheck(value string) string {
	if injectPattern.MatchString(value) {
		return InjectConvert(value)
	}
	return value
}

// InjectConvert escapes a non-numeric value and wraps it in single quotes.
// Numeric values are returned unchanged.
func InjectConvert(value string) string {
	if IsNumeric(value) {
		return value
	}
	return "'" + EscapeString(value) + "'"
}

// IsNumeric reports whether the value is a decimal number, optionally
// signed, with an optional fraction and exponent.
func IsNumeric(value string) bool {
	return numericPattern.MatchString(value)
}

// EscapeString backslash-escapes the characters MySQL requires escaped
// inside a quoted string literal (NUL, newline, carriage return,
// backslash, both quote characters and Ctrl-Z).
func EscapeString(value string) string {
	var b strings.Builder
	b.Grow(len(value) + 2)

	for i := 0; i < len(value); i++ {
		c := value[i]
		switch c {
		case '\x00':
			b.WriteString(`\0`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\x1a':
			b.WriteString(`\Z`)
		case '\'', '"', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}
