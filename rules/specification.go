package rules

// ClassSpecification is the parsed representation of one class-level rule.
// It is created once while the directive is parsed and never mutated after.
// An empty ClassName matches any class, as if the rule said "class *".
type ClassSpecification struct {
	RequiredSetFlags   AccessFlags
	RequiredUnsetFlags AccessFlags

	// AnnotationType is the descriptor of the annotation that must be
	// present on the class, or "" when no annotation is required.
	AnnotationType string

	ClassName string

	// ExtendsAnnotationType and ExtendsClassName describe the optional
	// extends/implements clause.
	ExtendsAnnotationType string
	ExtendsClassName      string

	// Members holds the { ... } body in source order. Fields and methods
	// stay queryable independently through FieldSpecifications and
	// MethodSpecifications.
	Members []MemberSpecification

	// Condition is the -if predicate attached to the rule, if any.
	Condition *ClassSpecification

	// Keep modifiers, from the comma-separated list after the directive
	// keyword (-keep,allowshrinking,...). Meaningful on keep rules only.
	AllowShrinking           bool
	AllowOptimization        bool
	AllowObfuscation         bool
	IncludeDescriptorClasses bool
}

// MemberKind distinguishes the field and method variants of a member
// specification.
type MemberKind int

const (
	FieldMember MemberKind = iota
	MethodMember
)

// MemberSpecification is the parsed representation of one field or method
// pattern. An empty Name matches any member name; an empty Descriptor matches
// any descriptor of the member's kind. Both are empty for the whole-member
// wildcard forms (*, <fields>, <methods>).
type MemberSpecification struct {
	Kind               MemberKind
	RequiredSetFlags   AccessFlags
	RequiredUnsetFlags AccessFlags
	AnnotationType     string
	Name               string
	Descriptor         string
}

// FieldSpecifications returns the field members of the body in source order.
func (cs *ClassSpecification) FieldSpecifications() []MemberSpecification {
	return cs.membersOfKind(FieldMember)
}

// MethodSpecifications returns the method members of the body in source order.
func (cs *ClassSpecification) MethodSpecifications() []MemberSpecification {
	return cs.membersOfKind(MethodMember)
}

func (cs *ClassSpecification) membersOfKind(kind MemberKind) []MemberSpecification {
	var out []MemberSpecification
	for _, m := range cs.Members {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}
