package ir

import "strings"

// SplitTerms tokenizes a written triple such as `Rex type Dog` or
// `Rex label "Good boy"`. Tokens are separated by whitespace; double quotes
// group a token containing spaces, and a backslash inside quotes escapes the
// next character.
func SplitTerms(line string) ([]string, error) {
	var (
		tokens  []string
		cur     strings.Builder
		started bool
		inQuote bool
		escaped bool
	)

	flush := func() {
		if started {
			tokens = append(tokens, cur.String())
			cur.Reset()
			started = false
		}
	}

	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case inQuote && r == '\\':
			escaped = true
		case r == '"':
			inQuote = !inQuote
			started = true
		case !inQuote && (r == ' ' || r == '\t' || r == '\n' || r == '\r'):
			flush()
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if inQuote || escaped {
		return nil, NewInvalidArgument("split terms", "unterminated quote in "+line)
	}
	flush()
	return tokens, nil
}

// ParseTripleString parses a written triple into a Triple.
// Anything other than exactly three tokens is an InvalidArgument.
func ParseTripleString(line string) (Triple, error) {
	tokens, err := SplitTerms(line)
	if err != nil {
		return Triple{}, err
	}
	return ParseTriple(tokens...)
}

// ParseTripleStrings parses several written triples, failing on the first
// malformed one.
func ParseTripleStrings(lines []string) ([]Triple, error) {
	triples := make([]Triple, 0, len(lines))
	for _, line := range lines {
		t, err := ParseTripleString(line)
		if err != nil {
			return nil, err
		}
		triples = append(triples, t)
	}
	return triples, nil
}
