package lexer

import (
	"strconv"
	"strings"

	lerrors "loom/internal/core/errors"
	"loom/internal/model"
)

// annotationPrefix is the identifier family recognized on property
// wrappers, matched case-insensitively. An optional digit suffix Pn
// declares the expected parameter count.
const annotationPrefix = "weaver"

// parsedAnnotation is the decoded body of one @Weaver(...) attribute.
type parsedAnnotation struct {
	HasKind        bool
	Kind           model.DependencyKind
	ParameterCount int
	Type           *model.CompositeType // from the type: argument
	Attributes     []model.ConfigurationAttribute
}

// parseAnnotation decodes an attribute text. The second return is false
// when the attribute does not belong to the annotation family and must be
// skipped silently. The annotation grammar is small and closed, so this
// is a purpose-built descent over the substring rather than a second trip
// through the structural decoder.
func parseAnnotation(text string) (parsedAnnotation, bool, error) {
	var out parsedAnnotation

	body := strings.TrimSpace(text)
	body = strings.TrimPrefix(body, "@")

	nameEnd := strings.IndexByte(body, '(')
	name := body
	args := ""
	if nameEnd >= 0 {
		name = body[:nameEnd]
		rest := strings.TrimSpace(body[nameEnd:])
		if !strings.HasSuffix(rest, ")") {
			return out, false, lerrors.InvalidAnnotation{Text: text}
		}
		args = rest[1 : len(rest)-1]
	}

	count, ok := matchAnnotationName(name)
	if !ok {
		return out, false, nil
	}
	out.ParameterCount = count

	if strings.TrimSpace(args) == "" {
		return out, true, nil
	}

	parts, err := splitArguments(args)
	if err != nil {
		return out, false, lerrors.InvalidAnnotation{Text: text}
	}

	for _, part := range parts {
		key, value, keyed := splitArgument(part)
		if !keyed || key == "kind" {
			kind, ok := model.ParseDependencyKind(value)
			if !ok || out.HasKind {
				return out, false, lerrors.InvalidAnnotation{Text: text}
			}
			out.HasKind = true
			out.Kind = kind
			continue
		}

		switch key {
		case "type":
			typeText := strings.TrimSuffix(strings.TrimSpace(value), ".self")
			parsed, err := model.ParseCompositeType(typeText)
			if err != nil {
				return out, false, lerrors.InvalidAnnotation{Text: text}
			}
			out.Type = &parsed
		case model.AttrScope:
			scope, ok := model.ParseScope(value)
			if !ok {
				return out, false, lerrors.InvalidScope{Text: value}
			}
			out.Attributes = append(out.Attributes, model.ScopeAttribute(scope))
		case model.AttrCustomBuilder:
			out.Attributes = append(out.Attributes, model.StringAttribute(model.AttrCustomBuilder, unquote(value)))
		case model.AttrDoesSupportObjc, model.AttrSetter, model.AttrEscaping, model.AttrProjected, model.AttrObjc, model.AttrIsIsolated:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return out, false, lerrors.InvalidAnnotation{Text: text}
			}
			out.Attributes = append(out.Attributes, model.BoolAttribute(key, b))
		default:
			return out, false, lerrors.InvalidAnnotation{Text: text}
		}
	}

	return out, true, nil
}

// matchAnnotationName matches Weaver, WeaverP1, weaverp2, … and returns
// the declared parameter count. A bare name and P0 are equivalent.
func matchAnnotationName(name string) (int, bool) {
	lowered := strings.ToLower(strings.TrimSpace(name))
	if !strings.HasPrefix(lowered, annotationPrefix) {
		return 0, false
	}
	suffix := lowered[len(annotationPrefix):]
	if suffix == "" {
		return 0, true
	}
	if suffix[0] != 'p' {
		return 0, false
	}
	count, err := strconv.Atoi(suffix[1:])
	if err != nil || count < 0 {
		return 0, false
	}
	return count, true
}

// splitArguments splits the argument list on top-level commas, honoring
// nested parentheses, angle brackets and string literals.
func splitArguments(args string) ([]string, error) {
	var parts []string
	depth := 0
	inString := false
	start := 0
	for i := 0; i < len(args); i++ {
		c := args[i]
		if inString {
			if c == '"' && args[i-1] != '\\' {
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '(', '<', '[':
			depth++
		case ')', '>', ']':
			if c == '>' && i > 0 && args[i-1] == '-' {
				continue
			}
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, args[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 || inString {
		return nil, lerrors.InvalidAnnotation{Text: args}
	}
	if trailing := strings.TrimSpace(args[start:]); trailing != "" {
		parts = append(parts, trailing)
	}
	return parts, nil
}

// splitArgument splits "key: value" at the first top-level colon.
func splitArgument(part string) (key, value string, keyed bool) {
	depth := 0
	for i := 0; i < len(part); i++ {
		switch part[i] {
		case '(', '<', '[':
			depth++
		case ')', '>', ']':
			if part[i] == '>' && i > 0 && part[i-1] == '-' {
				continue
			}
			depth--
		case ':':
			if depth == 0 {
				return strings.TrimSpace(part[:i]), strings.TrimSpace(part[i+1:]), true
			}
		}
	}
	return "", strings.TrimSpace(part), false
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
