package rules

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
)

// Parser reads one word at a time from its word source and appends parsed
// specifications to the caller's Configuration. A parser is single use and
// not safe for concurrent use; callers needing parallel parses construct
// independent parsers with independent Configurations.
type Parser struct {
	sources    []WordSource
	baseDir    string
	properties map[string]string

	config     *Configuration
	word       string
	pushedBack bool
	lastLoc    string

	warnings []string
	warned   map[string]bool
}

// NewParser wraps a caller-provided word source.
func NewParser(source WordSource) *Parser {
	return &Parser{
		sources: []WordSource{source},
		lastLoc: source.LocationDescription(),
		warned:  map[string]bool{},
	}
}

// NewStringParser parses rules from a raw string. Included files are resolved
// against baseDir, and <name> occurrences are substituted from properties.
func NewStringParser(rules string, baseDir string, properties map[string]string) *Parser {
	p := NewParser(NewStringSource(rules, properties))
	p.baseDir = baseDir
	p.properties = properties
	return p
}

// NewFileParser parses rules from a file, resolving included files against
// the file's directory.
func NewFileParser(path string, properties map[string]string) (*Parser, error) {
	src, err := NewFileSource(path, properties)
	if err != nil {
		return nil, err
	}
	p := NewParser(src)
	p.baseDir = filepath.Dir(path)
	p.properties = properties
	return p, nil
}

// Warnings returns the diagnostics buffered during the parse, one entry per
// warned option. The caller flushes them to its diagnostic sink.
func (p *Parser) Warnings() []string {
	return p.warnings
}

// Parse consumes the entire word stream, appending parsed specifications to
// config. The first grammatical or semantic violation aborts the parse with a
// *ParseError; config then holds whatever was appended before the error and
// should be discarded. The word source is closed on every exit path.
func (p *Parser) Parse(config *Configuration) (err error) {
	defer func() {
		for _, src := range p.sources {
			if closeErr := src.Close(); err == nil && closeErr != nil {
				err = closeErr
			}
		}
		p.sources = nil
	}()

	p.config = config
	for {
		ok, err := p.tryAdvance()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		keyword := p.word
		if keyword == "@" {
			if err := p.parseInclude(); err != nil {
				return err
			}
			continue
		}

		d, known := directiveTable[keyword]
		if !known {
			return &ParseError{Message: "unknown option", Token: keyword, Location: p.location()}
		}
		if err := d.run(p); err != nil {
			return err
		}
		if d.kind == delegatedDirective {
			p.warnOnce(keyword, d.tool)
		}
	}
}

// --- word pump -------------------------------------------------------------

func (p *Parser) tryAdvance() (bool, error) {
	if p.pushedBack {
		p.pushedBack = false
		return true, nil
	}
	for len(p.sources) > 0 {
		top := p.sources[len(p.sources)-1]
		word, err := top.NextWord()
		if err == io.EOF {
			p.sources = p.sources[:len(p.sources)-1]
			if closeErr := top.Close(); closeErr != nil {
				return false, closeErr
			}
			continue
		}
		if err != nil {
			return false, err
		}
		p.word = word
		p.lastLoc = top.LocationDescription()
		return true, nil
	}
	p.word = ""
	return false, nil
}

// unread pushes the current word back so the next advance yields it again.
func (p *Parser) unread() {
	p.pushedBack = true
}

func (p *Parser) advanceExpect(expected string) error {
	ok, err := p.tryAdvance()
	if err != nil {
		return err
	}
	if !ok {
		return &ParseError{
			Message:  "expecting " + expected + " before end of input",
			Location: p.location(),
		}
	}
	return nil
}

func (p *Parser) errExpected(expected string) error {
	return &ParseError{
		Message:  "expecting " + expected,
		Token:    p.word,
		Location: p.location(),
	}
}

// isDelimiterWord reports whether word is one of the single-character
// structural words, which are never legal as names or types.
func isDelimiterWord(word string) bool {
	return len(word) == 1 && isWordDelimiter(rune(word[0]))
}

func (p *Parser) location() string {
	if len(p.sources) > 0 {
		return p.sources[len(p.sources)-1].LocationDescription()
	}
	return p.lastLoc
}

func (p *Parser) warnOnce(option, tool string) {
	if p.warned[option] {
		return
	}
	p.warned[option] = true
	p.warnings = append(p.warnings,
		fmt.Sprintf("Warning: option %s is only supported by %s\nIt will have no effect on the optimized artifact", option, tool))
}

// --- directive dispatch ----------------------------------------------------

type handlerKind int

const (
	normalDirective handlerKind = iota
	delegatedDirective
)

type directive struct {
	kind handlerKind
	tool string
	run  func(*Parser) error
}

// keepTargets maps the keep-family keywords to their Configuration buckets.
// These are also the only directives an -if condition may attach to.
var keepTargets = map[string]func(*Configuration) *[]*ClassSpecification{
	"-keep":                   func(c *Configuration) *[]*ClassSpecification { return &c.Keep },
	"-keepclassmembers":       func(c *Configuration) *[]*ClassSpecification { return &c.KeepClassMembers },
	"-keepclasseswithmembers": func(c *Configuration) *[]*ClassSpecification { return &c.KeepClassesWithMembers },
	"-keepnames":              func(c *Configuration) *[]*ClassSpecification { return &c.KeepNames },
	"-keepclassmembernames":   func(c *Configuration) *[]*ClassSpecification { return &c.KeepClassMemberNames },
	"-keepclasseswithmembernames": func(c *Configuration) *[]*ClassSpecification {
		return &c.KeepClassesWithMemberNames
	},
}

var assumeTargets = map[string]func(*Configuration) *[]*ClassSpecification{
	"-assumenosideeffects":         func(c *Configuration) *[]*ClassSpecification { return &c.AssumeNoSideEffects },
	"-assumenoexternalsideeffects": func(c *Configuration) *[]*ClassSpecification { return &c.AssumeNoExternalSideEffects },
	"-assumenoescapingparameters":  func(c *Configuration) *[]*ClassSpecification { return &c.AssumeNoEscapingParameters },
	"-assumenoexternalreturnvalues": func(c *Configuration) *[]*ClassSpecification {
		return &c.AssumeNoExternalReturnValues
	},
	"-assumevalues": func(c *Configuration) *[]*ClassSpecification { return &c.AssumeValues },
}

// directiveTable is the fixed keyword dispatch table, built once at startup.
var directiveTable = buildDirectiveTable()

func buildDirectiveTable() map[string]directive {
	table := map[string]directive{
		"-if": {run: (*Parser).parseIfDirective},
		"-verbose": {run: func(p *Parser) error {
			p.config.Verbose = true
			return nil
		}},
		"-basedirectory": {run: func(p *Parser) error {
			if err := p.advanceExpect("base directory"); err != nil {
				return err
			}
			p.baseDir = p.word
			return nil
		}},
		"-include": {run: (*Parser).parseInclude},
		"-keepattributes": {run: func(p *Parser) error {
			names, err := p.parseNameList()
			if err != nil {
				return err
			}
			p.config.KeepAttributes = append(p.config.KeepAttributes, names...)
			return nil
		}},
		"-dontwarn": {run: func(p *Parser) error {
			names, err := p.parseNameList()
			if err != nil {
				return err
			}
			p.config.DontWarnFilters = append(p.config.DontWarnFilters, names...)
			return nil
		}},
		"-dontnote": {run: func(p *Parser) error {
			names, err := p.parseNameList()
			if err != nil {
				return err
			}
			p.config.DontNoteFilters = append(p.config.DontNoteFilters, names...)
			return nil
		}},
	}

	for keyword, bucket := range keepTargets {
		bucket := bucket
		table[keyword] = directive{run: func(p *Parser) error {
			return p.parseKeepDirective(bucket, nil)
		}}
	}
	for keyword, bucket := range assumeTargets {
		bucket := bucket
		table[keyword] = directive{run: func(p *Parser) error {
			spec, err := p.parseClassSpecificationArgument()
			if err != nil {
				return err
			}
			slot := bucket(p.config)
			*slot = append(*slot, spec)
			return nil
		}}
	}

	// Options recognized for forward compatibility with R8: their grammar is
	// checked in full, a warning is buffered, and the result is discarded.
	delegatedClassSpec := func(p *Parser) error {
		_, err := p.parseClassSpecificationArgument()
		return err
	}
	for _, keyword := range []string{"-alwaysinline", "-identifiernamestring", "-checkdiscard"} {
		table[keyword] = directive{kind: delegatedDirective, tool: "R8", run: delegatedClassSpec}
	}
	table["-androidplatformbuild"] = directive{kind: delegatedDirective, tool: "R8",
		run: func(p *Parser) error { return nil }}
	table["-maximumremovedandroidloglevel"] = directive{kind: delegatedDirective, tool: "R8",
		run: func(p *Parser) error {
			if err := p.advanceExpect("log level"); err != nil {
				return err
			}
			if _, err := strconv.Atoi(p.word); err != nil {
				return p.errExpected("integer log level")
			}
			return nil
		}}

	return table
}

func (p *Parser) parseInclude() error {
	if err := p.advanceExpect("file name"); err != nil {
		return err
	}
	path := p.word
	if !filepath.IsAbs(path) && p.baseDir != "" {
		path = filepath.Join(p.baseDir, path)
	}
	src, err := NewFileSource(path, p.properties)
	if err != nil {
		return &ParseError{Message: err.Error(), Token: p.word, Location: p.location()}
	}
	p.sources = append(p.sources, src)
	return nil
}

// parseIfDirective parses the condition class specification and attaches it
// to the keep directive that must follow.
func (p *Parser) parseIfDirective() error {
	condition, err := p.parseClassSpecificationArgument()
	if err != nil {
		return err
	}
	if err := p.advanceExpect("keep option after '-if'"); err != nil {
		return err
	}
	bucket, ok := keepTargets[p.word]
	if !ok {
		return p.errExpected("keep option after '-if'")
	}
	return p.parseKeepDirective(bucket, condition)
}

func (p *Parser) parseKeepDirective(bucket func(*Configuration) *[]*ClassSpecification, condition *ClassSpecification) error {
	spec := &ClassSpecification{Condition: condition}
	if err := p.parseKeepModifiers(spec); err != nil {
		return err
	}
	if err := p.parseClassSpecification(spec); err != nil {
		return err
	}
	slot := bucket(p.config)
	*slot = append(*slot, spec)
	return nil
}

// parseKeepModifiers reads the ",modifier" list that may follow a keep
// keyword, leaving the first word of the class specification current.
func (p *Parser) parseKeepModifiers(spec *ClassSpecification) error {
	for {
		if err := p.advanceExpect("class specification"); err != nil {
			return err
		}
		if p.word != "," {
			return nil
		}
		if err := p.advanceExpect("keep modifier"); err != nil {
			return err
		}
		switch p.word {
		case "allowshrinking":
			spec.AllowShrinking = true
		case "allowoptimization":
			spec.AllowOptimization = true
		case "allowobfuscation":
			spec.AllowObfuscation = true
		case "includedescriptorclasses":
			spec.IncludeDescriptorClasses = true
		default:
			return p.errExpected("keep modifier")
		}
	}
}

// parseClassSpecificationArgument reads the mandatory class specification of
// a directive, starting from the word after the keyword.
func (p *Parser) parseClassSpecificationArgument() (*ClassSpecification, error) {
	if err := p.advanceExpect("class specification"); err != nil {
		return nil, err
	}
	spec := &ClassSpecification{}
	if err := p.parseClassSpecification(spec); err != nil {
		return nil, err
	}
	return spec, nil
}

// --- class specifications --------------------------------------------------

// parseClassSpecification parses one class specification into spec. The first
// word of the specification is current on entry; on return the parser is
// positioned so that the next advance yields the word after the specification.
func (p *Parser) parseClassSpecification(spec *ClassSpecification) error {
	if strings.HasPrefix(p.word, "-") {
		return p.errExpected("class specification")
	}

	// Optional @annotation. "@ interface" is the annotation-class keyword
	// instead.
	annotationKeyword := false
	if p.word == "@" {
		if err := p.advanceExpect("annotation type or 'interface'"); err != nil {
			return err
		}
		if p.word == "interface" {
			spec.RequiredSetFlags |= AccAnnotation | AccInterface
			annotationKeyword = true
		} else {
			desc, err := TypeDescriptor(p.word)
			if err != nil {
				return p.errExpected("annotation type")
			}
			spec.AnnotationType = desc
			if err := p.advanceExpect("class modifier or class keyword"); err != nil {
				return err
			}
		}
	}

	// Access modifiers ending in the class/interface/enum keyword.
	if !annotationKeyword {
	modifiers:
		for {
			word := p.word
			negated := strings.HasPrefix(word, "!")
			base := strings.TrimPrefix(word, "!")

			switch base {
			case "class":
				if negated {
					return p.errExpected("class keyword")
				}
				break modifiers
			case "interface":
				p.applyFlag(&spec.RequiredSetFlags, &spec.RequiredUnsetFlags, AccInterface, negated)
				break modifiers
			case "enum":
				p.applyFlag(&spec.RequiredSetFlags, &spec.RequiredUnsetFlags, AccEnum, negated)
				break modifiers
			case "@":
				// "public @interface Foo" and friends.
				if err := p.advanceExpect("'interface'"); err != nil {
					return err
				}
				if p.word != "interface" {
					return p.errExpected("'interface'")
				}
				p.applyFlag(&spec.RequiredSetFlags, &spec.RequiredUnsetFlags, AccAnnotation|AccInterface, negated)
				break modifiers
			}

			flag, ok := classModifiers[base]
			if !ok {
				return p.errExpected("class modifier or class keyword")
			}
			p.applyFlag(&spec.RequiredSetFlags, &spec.RequiredUnsetFlags, flag, negated)
			if err := p.advanceExpect("class keyword"); err != nil {
				return err
			}
		}
	}

	if err := p.advanceExpect("class name"); err != nil {
		return err
	}
	if isDelimiterWord(p.word) {
		return p.errExpected("class name")
	}
	if err := p.checkClassName(p.word); err != nil {
		return err
	}
	spec.ClassName = p.word

	ok, err := p.tryAdvance()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if p.word == "extends" || p.word == "implements" {
		if err := p.advanceExpect("class name"); err != nil {
			return err
		}
		if p.word == "@" {
			if err := p.advanceExpect("annotation type"); err != nil {
				return err
			}
			desc, err := TypeDescriptor(p.word)
			if err != nil {
				return p.errExpected("annotation type")
			}
			spec.ExtendsAnnotationType = desc
			if err := p.advanceExpect("class name"); err != nil {
				return err
			}
		}
		if isDelimiterWord(p.word) {
			return p.errExpected("class name")
		}
		if err := p.checkClassName(p.word); err != nil {
			return err
		}
		spec.ExtendsClassName = p.word

		ok, err := p.tryAdvance()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	if p.word == "{" {
		return p.parseMemberSpecifications(spec)
	}
	p.unread()
	return nil
}

func (p *Parser) applyFlag(set, unset *AccessFlags, flag AccessFlags, negated bool) {
	if negated {
		*unset |= flag
	} else {
		*set |= flag
	}
}

// --- member specifications -------------------------------------------------

func (p *Parser) parseMemberSpecifications(spec *ClassSpecification) error {
	for {
		if err := p.advanceExpect("member specification or '}'"); err != nil {
			return err
		}
		if p.word == "}" {
			return nil
		}
		if err := p.parseMemberSpecification(spec); err != nil {
			return err
		}
	}
}

func (p *Parser) parseMemberSpecification(spec *ClassSpecification) error {
	member := MemberSpecification{}

	if p.word == "@" {
		if err := p.advanceExpect("annotation type"); err != nil {
			return err
		}
		desc, err := TypeDescriptor(p.word)
		if err != nil {
			return p.errExpected("annotation type")
		}
		member.AnnotationType = desc
		if err := p.advanceExpect("member specification"); err != nil {
			return err
		}
	}

	for {
		word := p.word
		negated := strings.HasPrefix(word, "!")
		base := strings.TrimPrefix(word, "!")
		flag, ok := memberModifiers[base]
		if !ok {
			break
		}
		p.applyFlag(&member.RequiredSetFlags, &member.RequiredUnsetFlags, flag, negated)
		if err := p.advanceExpect("type or member name"); err != nil {
			return err
		}
	}

	first := p.word
	if isDelimiterWord(first) {
		return p.errExpected("member specification")
	}

	// <fields> and <methods> are atomic: only access modifiers may precede
	// them, and nothing but ';' may follow.
	if first == "<fields>" || first == "<methods>" {
		if err := p.advanceExpect("';'"); err != nil {
			return err
		}
		if p.word == "(" {
			return &ParseError{
				Message:  "explicit argument list not allowed with " + first,
				Token:    p.word,
				Location: p.location(),
			}
		}
		if p.word != ";" {
			return p.errExpected("';' after " + first)
		}
		kind := FieldMember
		if first == "<methods>" {
			kind = MethodMember
		}
		member.Kind = kind
		spec.Members = append(spec.Members, member)
		return nil
	}

	if err := p.advanceExpect("member name, ';' or '('"); err != nil {
		return err
	}

	switch p.word {
	case ";":
		// A single word before ';' is only legal as the whole-member
		// wildcard, which stands for one field and one method pattern.
		if first != "*" {
			return &ParseError{
				Message:  "expecting type before member name",
				Token:    first,
				Location: p.location(),
			}
		}
		field := member
		field.Kind = FieldMember
		method := member
		method.Kind = MethodMember
		spec.Members = append(spec.Members, field, method)
		return nil

	case "(":
		// <clinit>, constructor shorthand, or a method with wildcard name.
		return p.parseMethodTail(spec, member, "", first)
	}

	// General form: first is the type, the current word is the name.
	typeDesc, err := TypeDescriptor(first)
	if err != nil {
		return &ParseError{Message: err.Error(), Token: first, Location: p.location()}
	}
	name := p.word
	if isDelimiterWord(name) {
		return p.errExpected("member name")
	}
	switch name {
	case "<fields>", "<methods>":
		return &ParseError{
			Message:  "explicit type not allowed with " + name,
			Token:    first,
			Location: p.location(),
		}
	case "<clinit>", "<init>":
		return &ParseError{
			Message:  "explicit return type not allowed with " + name,
			Token:    first,
			Location: p.location(),
		}
	}
	if err := p.checkMemberName(name); err != nil {
		return err
	}

	if err := p.advanceExpect("';' or argument list"); err != nil {
		return err
	}
	switch p.word {
	case ";":
		if typeDesc == "V" {
			return &ParseError{
				Message:  "'void' not allowed as field type",
				Token:    first,
				Location: p.location(),
			}
		}
		member.Kind = FieldMember
		member.Name = name
		member.Descriptor = typeDesc
		spec.Members = append(spec.Members, member)
		return nil
	case "(":
		return p.parseMethodTail(spec, member, typeDesc, name)
	}
	return p.errExpected("';' or argument list")
}

// parseMethodTail finishes a method specification from its '(' onward.
// returnDesc is empty for the <clinit> and constructor-shorthand forms,
// whose descriptors are synthesized with a void return.
func (p *Parser) parseMethodTail(spec *ClassSpecification, member MemberSpecification, returnDesc, name string) error {
	if name == "<clinit>" {
		if err := p.advanceExpect("')'"); err != nil {
			return err
		}
		if p.word != ")" {
			return &ParseError{
				Message:  "arguments not allowed with <clinit>",
				Token:    p.word,
				Location: p.location(),
			}
		}
		if err := p.expectSemicolon(); err != nil {
			return err
		}
		member.Kind = MethodMember
		member.Name = "<clinit>"
		member.Descriptor = "()V"
		spec.Members = append(spec.Members, member)
		return nil
	}

	args, err := p.parseArgumentList()
	if err != nil {
		return err
	}
	if err := p.expectSemicolon(); err != nil {
		return err
	}

	member.Kind = MethodMember
	if returnDesc == "" {
		// Constructor shorthand: a bare class-name word before '('.
		if name != "<init>" {
			if err := p.checkClassName(name); err != nil {
				return err
			}
		}
		member.Name = "<init>"
		member.Descriptor = "(" + strings.Join(args, "") + ")V"
	} else {
		if err := p.checkMemberName(name); err != nil {
			return err
		}
		member.Name = name
		member.Descriptor = "(" + strings.Join(args, "") + ")" + returnDesc
	}
	spec.Members = append(spec.Members, member)
	return nil
}

// parseArgumentList reads the words between '(' and ')' as comma-separated
// argument types, returning their descriptors. The '(' is current on entry.
func (p *Parser) parseArgumentList() ([]string, error) {
	if err := p.advanceExpect("argument type or ')'"); err != nil {
		return nil, err
	}
	if p.word == ")" {
		return nil, nil
	}

	var args []string
	for {
		word := p.word
		if isDelimiterWord(word) {
			return nil, p.errExpected("argument type")
		}
		if strings.HasSuffix(word, "...") {
			word = strings.TrimSuffix(word, "...") + "[]"
		}
		desc, err := TypeDescriptor(word)
		if err != nil || desc == "V" {
			return nil, p.errExpected("argument type")
		}
		args = append(args, desc)

		if err := p.advanceExpect("',' or ')'"); err != nil {
			return nil, err
		}
		switch p.word {
		case ")":
			return args, nil
		case ",":
			if err := p.advanceExpect("argument type"); err != nil {
				return nil, err
			}
		default:
			return nil, p.errExpected("',' or ')'")
		}
	}
}

func (p *Parser) expectSemicolon() error {
	if err := p.advanceExpect("';'"); err != nil {
		return err
	}
	if p.word != ";" {
		return p.errExpected("';'")
	}
	return nil
}

// --- name lists and identifier checking ------------------------------------

// parseNameList reads an optional comma-separated list of names, stopping
// before the next directive keyword.
func (p *Parser) parseNameList() ([]string, error) {
	ok, err := p.tryAdvance()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	if strings.HasPrefix(p.word, "-") {
		p.unread()
		return nil, nil
	}

	names := []string{p.word}
	for {
		ok, err := p.tryAdvance()
		if err != nil {
			return nil, err
		}
		if !ok {
			return names, nil
		}
		if p.word != "," {
			p.unread()
			return names, nil
		}
		if err := p.advanceExpect("name"); err != nil {
			return nil, err
		}
		names = append(names, p.word)
	}
}

// checkClassName validates each dot-separated segment of a class name
// pattern when Dalvik identifier checking is enabled.
func (p *Parser) checkClassName(name string) error {
	if !p.config.DalvikIdentifiers {
		return nil
	}
	for _, segment := range strings.Split(name, ".") {
		if r := invalidIdentifierRune(segment); r >= 0 {
			return &ParseError{
				Message:  fmt.Sprintf("character '%c' (U+%04X) not allowed in class names", r, r),
				Token:    name,
				Location: p.location(),
			}
		}
	}
	return nil
}

func (p *Parser) checkMemberName(name string) error {
	if !p.config.DalvikIdentifiers {
		return nil
	}
	if r := invalidIdentifierRune(name); r >= 0 {
		return &ParseError{
			Message:  fmt.Sprintf("character '%c' (U+%04X) not allowed in member names", r, r),
			Token:    name,
			Location: p.location(),
		}
	}
	return nil
}
