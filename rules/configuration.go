package rules

// Configuration aggregates everything a parse produces. The caller owns it;
// the parser appends in place. Rule order is preserved because later rules may
// override or extend earlier ones downstream. After a failed parse the
// aggregate holds whatever was appended before the error and should be
// discarded.
type Configuration struct {
	Keep                       []*ClassSpecification
	KeepClassMembers           []*ClassSpecification
	KeepClassesWithMembers     []*ClassSpecification
	KeepNames                  []*ClassSpecification
	KeepClassMemberNames       []*ClassSpecification
	KeepClassesWithMemberNames []*ClassSpecification

	AssumeNoSideEffects          []*ClassSpecification
	AssumeNoExternalSideEffects  []*ClassSpecification
	AssumeNoEscapingParameters   []*ClassSpecification
	AssumeNoExternalReturnValues []*ClassSpecification
	AssumeValues                 []*ClassSpecification

	// Simple options.
	Verbose         bool
	KeepAttributes  []string
	DontWarnFilters []string
	DontNoteFilters []string

	// DalvikIdentifiers enables the Dalvik code-point legality check on
	// class and member names. Off by default.
	DalvikIdentifiers bool
}

// ClassSpecifications returns every stored class specification, keep family
// first, in bucket order. Useful for tooling that walks all rules.
func (c *Configuration) ClassSpecifications() []*ClassSpecification {
	var out []*ClassSpecification
	for _, bucket := range [][]*ClassSpecification{
		c.Keep,
		c.KeepClassMembers,
		c.KeepClassesWithMembers,
		c.KeepNames,
		c.KeepClassMemberNames,
		c.KeepClassesWithMemberNames,
		c.AssumeNoSideEffects,
		c.AssumeNoExternalSideEffects,
		c.AssumeNoEscapingParameters,
		c.AssumeNoExternalReturnValues,
		c.AssumeValues,
	} {
		out = append(out, bucket...)
	}
	return out
}
