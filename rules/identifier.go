package rules

// Dalvik restricts the characters of a SimpleName more tightly than the JVM
// class file format does. When Dalvik identifier checking is enabled, every
// dot-separated segment of a class name pattern must consist of code points
// accepted by isDalvikIdentifierRune, wildcard syntax aside.

func isDalvikIdentifierRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '$', r == '-', r == '_':
		return true
	case r >= 0x00A1 && r <= 0x1FFF:
		return true
	case r >= 0x2010 && r <= 0x2027:
		return true
	case r >= 0x2030 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFEF:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}

// isWildcardRune reports whether r is part of the pattern syntax rather than
// an identifier character. Wildcards pass through identifier checking; what
// they ultimately match is the matcher's concern.
func isWildcardRune(r rune) bool {
	return r == '*' || r == '?' || r == '%'
}

// IsValidIdentifier reports whether every code point of a single name segment
// is legal in a Dalvik identifier. Wildcard characters are accepted.
func IsValidIdentifier(segment string) bool {
	if segment == "" {
		return false
	}
	for _, r := range segment {
		if isWildcardRune(r) {
			continue
		}
		if !isDalvikIdentifierRune(r) {
			return false
		}
	}
	return true
}

// invalidIdentifierRune returns the first offending code point of segment, or
// -1 when the segment is valid.
func invalidIdentifierRune(segment string) rune {
	for _, r := range segment {
		if isWildcardRune(r) || isDalvikIdentifierRune(r) {
			continue
		}
		return r
	}
	return -1
}
