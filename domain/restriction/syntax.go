package restriction

import (
	"fmt"
	"strconv"
	"strings"

	"radbound/domain/core"
)

// SplitList splits text on commas that are not nested inside parentheses.
// Each element is trimmed. An empty input yields no elements.
func SplitList(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	var parts []string
	depth, last := 0, 0
	for i, c := range text {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("%w: unbalanced ')' in %q", core.ErrParse, text)
			}
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(text[last:i]))
				last = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("%w: unbalanced '(' in %q", core.ErrParse, text)
	}
	return append(parts, strings.TrimSpace(text[last:])), nil
}

// ParseFunctionLike splits `Name(arg1, arg2, ...)` into a lower-cased name and
// its top-level arguments. Text without parentheses is a bare name.
func ParseFunctionLike(text string) (string, []string, error) {
	text = strings.TrimSpace(text)
	open := strings.IndexByte(text, '(')
	if open < 0 {
		return strings.ToLower(text), nil, nil
	}
	name := strings.ToLower(strings.TrimSpace(text[:open]))
	if !strings.HasSuffix(text, ")") {
		return "", nil, fmt.Errorf("%w: missing closing ')' in %q", core.ErrParse, text)
	}
	args, err := SplitList(text[open+1 : len(text)-1])
	if err != nil {
		return "", nil, err
	}
	return name, args, nil
}

// ParseTuple parses `(v1, v2, ...)` into floats.
func ParseTuple(text string) ([]float64, error) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "(") || !strings.HasSuffix(text, ")") {
		return nil, fmt.Errorf("%w: expected parenthesised list, got %q", core.ErrParse, text)
	}
	items, err := SplitList(text[1 : len(text)-1])
	if err != nil {
		return nil, err
	}
	values := make([]float64, 0, len(items))
	for _, item := range items {
		v, err := ParseFloat(item)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// ParseFloat parses a trimmed float argument.
func ParseFloat(text string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid number %q", core.ErrParse, text)
	}
	return v, nil
}

// ParseIndex parses a trimmed non-negative integer argument.
func ParseIndex(text string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: invalid index %q", core.ErrParse, text)
	}
	return v, nil
}

// ExpectArity fails unless args has exactly n elements.
func ExpectArity(name string, args []string, n int) error {
	if len(args) != n {
		return fmt.Errorf("%w: %s takes %d arguments, got %d", core.ErrArity, name, n, len(args))
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
