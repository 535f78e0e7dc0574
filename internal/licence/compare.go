package licence

import (
	"fmt"
	"strings"
)

type Operation string

const (
	Equal          Operation = "eq"
	NotEqual       Operation = "ne"
	Greater        Operation = "g"
	GreaterOrEqual Operation = "ge"
	Less           Operation = "l"
	LessOrEqual    Operation = "le"
)

// Operations is the closed set of comparison tokens accepted by the tools.
var Operations = []Operation{Equal, NotEqual, Greater, GreaterOrEqual, Less, LessOrEqual}

func ParseOperation(token string) (Operation, error) {
	op := Operation(token)
	if !op.Valid() {
		return "", unsupported(token)
	}
	return op, nil
}

func (op Operation) Valid() bool {
	for _, known := range Operations {
		if op == known {
			return true
		}
	}
	return false
}

// Compare evaluates candidate <op> reference.
func Compare(candidate int, op Operation, reference int) (bool, error) {
	switch op {
	case Equal:
		return candidate == reference, nil
	case NotEqual:
		return candidate != reference, nil
	case Greater:
		return candidate > reference, nil
	case GreaterOrEqual:
		return candidate >= reference, nil
	case Less:
		return candidate < reference, nil
	case LessOrEqual:
		return candidate <= reference, nil
	default:
		return false, unsupported(string(op))
	}
}

func unsupported(token string) error {
	tokens := make([]string, 0, len(Operations))
	for _, op := range Operations {
		tokens = append(tokens, string(op))
	}
	return fmt.Errorf("%w: %q (use %s)", ErrUnsupportedOperation, token, strings.Join(tokens, ", "))
}
