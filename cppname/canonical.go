package cppname

import (
	"strings"

	"github.com/teranos/jsbind/errors"
)

// Canonical rendering markers.
const (
	DestructorMarker = "~"
	OperatorPrefix   = "operator_"
	ConversionMarker = "operator_cast "
	ScopeSeparator   = "::"
	AnonymousToken   = "<anonymous>"
)

// Canonicalize renders n as its canonical token. The only failure is a
// variant this package does not know, including nil.
func Canonicalize(n Name) (string, error) {
	switch n := n.(type) {
	case Identifier:
		return n.Spelling, nil
	case TemplateId:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = NormalizeType(a)
		}
		return n.Base + "<" + strings.Join(args, ",") + ">", nil
	case Destructor:
		return DestructorMarker + n.Spelling, nil
	case Operator:
		token := n.Kind.Token()
		if token == "" {
			return "", errors.Wrapf(errors.ErrUnknownName, "operator kind %d", int(n.Kind))
		}
		return OperatorPrefix + token, nil
	case Conversion:
		return ConversionMarker + NormalizeType(n.Type), nil
	case Qualified:
		var sb strings.Builder
		for _, q := range n.Qualifiers {
			s, err := Canonicalize(q)
			if err != nil {
				return "", err
			}
			sb.WriteString(s)
			sb.WriteString(ScopeSeparator)
		}
		s, err := Canonicalize(n.Name)
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
		return sb.String(), nil
	case Selector:
		return strings.Join(n.Parts, ""), nil
	case Anonymous:
		return AnonymousToken, nil
	default:
		return "", errors.Wrapf(errors.ErrUnknownName, "%T", n)
	}
}

// MustCanonicalize is Canonicalize for names built by this program, where an
// unknown variant is a bug.
func MustCanonicalize(n Name) string {
	s, err := Canonicalize(n)
	if err != nil {
		panic(err)
	}
	return s
}

// Spelling returns the canonical form of the unqualified final component.
func Spelling(n Name) string {
	s, err := Canonicalize(Unqualified(n))
	if err != nil {
		return ""
	}
	return s
}

// NormalizeType collapses whitespace in a type spelling so that equivalent
// spellings compare equal: "const  Vector3 &" becomes "const Vector3&".
func NormalizeType(t string) string {
	fields := strings.Fields(t)
	var sb strings.Builder
	for i, f := range fields {
		if i > 0 && !isPunct(f[0]) && !isPunct(fields[i-1][len(fields[i-1])-1]) {
			sb.WriteByte(' ')
		}
		sb.WriteString(f)
	}
	return sb.String()
}

func isPunct(b byte) bool {
	switch b {
	case '*', '&', '<', '>', ',', ':', '(', ')', '[', ']':
		return true
	}
	return false
}
