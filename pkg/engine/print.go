package engine

import "strings"

// Rendering is pure: the same declaration and context always produce the
// same text, so marshalled fields are reproducible byte for byte.

// PrintTypeName renders a type's display name.
func PrintTypeName(t Type) string {
	return t.Name
}

// PrintTypeID renders a type's stable unique identifier.
func PrintTypeID(t Type) string {
	if t.Module == "" {
		return "t:" + t.Name
	}
	return "t:" + t.Module + "." + t.Name
}

// PrintDeclName renders a member's display name. Methods and initializers
// include their parameter labels, property names stand alone.
func PrintDeclName(d *Decl) string {
	if d.Kind == KindProperty {
		return d.Name
	}
	var sb strings.Builder
	sb.WriteString(d.Name)
	sb.WriteByte('(')
	for _, p := range d.Params {
		sb.WriteString(p.Label)
		sb.WriteByte(':')
	}
	sb.WriteByte(')')
	return sb.String()
}

// PrintDeclDescription renders a declaration against a contextual type.
// With usePlaceholder false the result is a human-readable description;
// with usePlaceholder true unfilled parameters become placeholder tokens
// and the text is suitable for literal insertion into a document.
func PrintDeclDescription(d *Decl, context Type, usePlaceholder bool) string {
	switch d.Kind {
	case KindProperty:
		if usePlaceholder {
			return d.Name
		}
		return d.Name + ": " + SubstSelf(d.ResultType, context)
	default:
		var sb strings.Builder
		sb.WriteString(d.Name)
		sb.WriteByte('(')
		for i, p := range d.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(p.Label)
			sb.WriteString(": ")
			ty := SubstSelf(p.Type, context)
			if usePlaceholder {
				sb.WriteString("<#")
				sb.WriteString(ty)
				sb.WriteString("#>")
			} else {
				sb.WriteString(ty)
			}
		}
		sb.WriteByte(')')
		if !usePlaceholder && d.Kind == KindMethod && d.ResultType != "" {
			sb.WriteString(" -> ")
			sb.WriteString(SubstSelf(d.ResultType, context))
		}
		return sb.String()
	}
}

// SubstSelf replaces Self references in a rendered type name with the
// contextual type's name.
func SubstSelf(typeName string, context Type) string {
	if typeName == "" {
		return typeName
	}
	return strings.ReplaceAll(typeName, "Self", context.Name)
}
