package rules

import (
	"fmt"
	"strings"
)

// The descriptor translator turns the external type words of a rule into JVM
// descriptor syntax. Wildcard words are not resolved: they are wrapped
// verbatim as the class-name portion and left for the matcher to interpret.

var primitiveDescriptors = map[string]string{
	"boolean": "Z",
	"byte":    "B",
	"char":    "C",
	"short":   "S",
	"int":     "I",
	"long":    "J",
	"float":   "F",
	"double":  "D",
	"void":    "V",
}

var primitiveNames = map[byte]string{
	'Z': "boolean",
	'B': "byte",
	'C': "char",
	'S': "short",
	'I': "int",
	'J': "long",
	'F': "float",
	'D': "double",
	'V': "void",
}

// TypeDescriptor translates one external type word into its descriptor.
// Trailing "[]" pairs become leading '[' markers; primitive keywords become
// their single-letter codes; '%' (any primitive) stays verbatim; everything
// else is a class name pattern, dots replaced by '/', wrapped as L...;.
func TypeDescriptor(word string) (string, error) {
	if word == "" {
		return "", fmt.Errorf("empty type")
	}

	dimensions := 0
	for strings.HasSuffix(word, "[]") {
		word = word[:len(word)-2]
		dimensions++
	}
	if word == "" {
		return "", fmt.Errorf("array without element type")
	}

	var desc string
	switch {
	case word == "%":
		desc = "%"
	case primitiveDescriptors[word] != "":
		desc = primitiveDescriptors[word]
		if word == "void" && dimensions > 0 {
			return "", fmt.Errorf("array of void")
		}
	default:
		desc = "L" + strings.ReplaceAll(word, ".", "/") + ";"
	}
	return strings.Repeat("[", dimensions) + desc, nil
}

// MethodDescriptor assembles "(<args>)<return>" from external type words.
func MethodDescriptor(argumentTypes []string, returnType string) (string, error) {
	ret, err := TypeDescriptor(returnType)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString("(")
	for _, arg := range argumentTypes {
		if arg == "void" {
			return "", fmt.Errorf("void argument type")
		}
		desc, err := TypeDescriptor(arg)
		if err != nil {
			return "", err
		}
		sb.WriteString(desc)
	}
	sb.WriteString(")")
	sb.WriteString(ret)
	return sb.String(), nil
}

// ExternalType renders one descriptor back to its external form, consuming a
// prefix of desc and returning the remainder. Wildcard class names come back
// verbatim.
func externalType(desc string) (string, string) {
	dimensions := 0
	for len(desc) > 0 && desc[0] == '[' {
		dimensions++
		desc = desc[1:]
	}
	if len(desc) == 0 {
		return "", ""
	}

	var name string
	if desc[0] == 'L' {
		end := strings.IndexByte(desc, ';')
		if end < 0 {
			return "", ""
		}
		name = strings.ReplaceAll(desc[1:end], "/", ".")
		desc = desc[end+1:]
	} else if desc[0] == '%' {
		name = "%"
		desc = desc[1:]
	} else if prim, ok := primitiveNames[desc[0]]; ok {
		name = prim
		desc = desc[1:]
	} else {
		return "", ""
	}
	return name + strings.Repeat("[]", dimensions), desc
}

// ExternalMethodTypes splits a method descriptor into external argument types
// and the external return type, for rendering a configuration back to rule
// text.
func ExternalMethodTypes(descriptor string) (args []string, ret string) {
	if !strings.HasPrefix(descriptor, "(") {
		return nil, ""
	}
	rest := descriptor[1:]
	for len(rest) > 0 && rest[0] != ')' {
		var arg string
		arg, rest = externalType(rest)
		if arg == "" {
			return nil, ""
		}
		args = append(args, arg)
	}
	if len(rest) == 0 {
		return nil, ""
	}
	ret, _ = externalType(rest[1:])
	return args, ret
}

// ExternalFieldType renders a field descriptor to its external form.
func ExternalFieldType(descriptor string) string {
	name, _ := externalType(descriptor)
	return name
}
