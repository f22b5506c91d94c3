package rules

import (
	"fmt"
	"io"
	"strings"
)

// A Printer renders a parsed Configuration back to rule text with canonical
// spacing, one directive per rule. Useful for inspecting what a parse
// actually produced.
type Printer struct {
	w io.Writer
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (pr *Printer) Print(config *Configuration) error {
	if config.Verbose {
		fmt.Fprintln(pr.w, "-verbose")
	}
	if len(config.KeepAttributes) > 0 {
		fmt.Fprintf(pr.w, "-keepattributes %s\n", strings.Join(config.KeepAttributes, ","))
	}
	for _, filter := range config.DontWarnFilters {
		fmt.Fprintf(pr.w, "-dontwarn %s\n", filter)
	}
	for _, filter := range config.DontNoteFilters {
		fmt.Fprintf(pr.w, "-dontnote %s\n", filter)
	}

	buckets := []struct {
		keyword string
		specs   []*ClassSpecification
	}{
		{"-keep", config.Keep},
		{"-keepclassmembers", config.KeepClassMembers},
		{"-keepclasseswithmembers", config.KeepClassesWithMembers},
		{"-keepnames", config.KeepNames},
		{"-keepclassmembernames", config.KeepClassMemberNames},
		{"-keepclasseswithmembernames", config.KeepClassesWithMemberNames},
		{"-assumenosideeffects", config.AssumeNoSideEffects},
		{"-assumenoexternalsideeffects", config.AssumeNoExternalSideEffects},
		{"-assumenoescapingparameters", config.AssumeNoEscapingParameters},
		{"-assumenoexternalreturnvalues", config.AssumeNoExternalReturnValues},
		{"-assumevalues", config.AssumeValues},
	}
	for _, bucket := range buckets {
		for _, spec := range bucket.specs {
			if err := pr.printRule(bucket.keyword, spec); err != nil {
				return err
			}
		}
	}
	return nil
}

func (pr *Printer) printRule(keyword string, spec *ClassSpecification) error {
	if spec.Condition != nil {
		fmt.Fprintf(pr.w, "-if %s\n", classSpecificationHead(spec.Condition))
		if err := pr.printBody(spec.Condition); err != nil {
			return err
		}
	}

	keyword += keepModifierSuffix(spec)
	if _, err := fmt.Fprintf(pr.w, "%s %s\n", keyword, classSpecificationHead(spec)); err != nil {
		return err
	}
	return pr.printBody(spec)
}

func (pr *Printer) printBody(spec *ClassSpecification) error {
	if len(spec.Members) == 0 {
		return nil
	}
	fmt.Fprintln(pr.w, "{")
	for _, member := range spec.Members {
		fmt.Fprintf(pr.w, "    %s\n", memberSpecificationText(member))
	}
	_, err := fmt.Fprintln(pr.w, "}")
	return err
}

func keepModifierSuffix(spec *ClassSpecification) string {
	var sb strings.Builder
	if spec.IncludeDescriptorClasses {
		sb.WriteString(",includedescriptorclasses")
	}
	if spec.AllowShrinking {
		sb.WriteString(",allowshrinking")
	}
	if spec.AllowOptimization {
		sb.WriteString(",allowoptimization")
	}
	if spec.AllowObfuscation {
		sb.WriteString(",allowobfuscation")
	}
	return sb.String()
}

func classSpecificationHead(spec *ClassSpecification) string {
	var parts []string
	if spec.AnnotationType != "" {
		parts = append(parts, "@"+ExternalFieldType(spec.AnnotationType))
	}
	parts = append(parts, accessModifierText(spec.RequiredSetFlags, spec.RequiredUnsetFlags, classModifierOrder)...)
	parts = append(parts, classKeyword(spec))

	name := spec.ClassName
	if name == "" {
		name = "*"
	}
	parts = append(parts, name)

	if spec.ExtendsClassName != "" {
		parts = append(parts, "extends")
		if spec.ExtendsAnnotationType != "" {
			parts = append(parts, "@"+ExternalFieldType(spec.ExtendsAnnotationType))
		}
		parts = append(parts, spec.ExtendsClassName)
	}
	return strings.Join(parts, " ")
}

func classKeyword(spec *ClassSpecification) string {
	switch {
	case spec.RequiredSetFlags.Has(AccAnnotation):
		return "@interface"
	case spec.RequiredSetFlags.Has(AccInterface):
		return "interface"
	case spec.RequiredUnsetFlags.Has(AccInterface):
		return "!interface"
	case spec.RequiredSetFlags.Has(AccEnum):
		return "enum"
	case spec.RequiredUnsetFlags.Has(AccEnum):
		return "!enum"
	}
	return "class"
}

func memberSpecificationText(member MemberSpecification) string {
	var parts []string
	if member.AnnotationType != "" {
		parts = append(parts, "@"+ExternalFieldType(member.AnnotationType))
	}
	parts = append(parts, accessModifierText(member.RequiredSetFlags, member.RequiredUnsetFlags, memberModifierOrder)...)

	switch {
	case member.Name == "" && member.Kind == FieldMember:
		parts = append(parts, "<fields>")
	case member.Name == "" && member.Kind == MethodMember:
		parts = append(parts, "<methods>")
	case member.Kind == FieldMember:
		parts = append(parts, ExternalFieldType(member.Descriptor), member.Name)
	default:
		args, ret := ExternalMethodTypes(member.Descriptor)
		name := member.Name
		text := fmt.Sprintf("%s(%s)", name, strings.Join(args, ","))
		if name != "<init>" && name != "<clinit>" {
			text = ret + " " + text
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " ") + ";"
}

// Modifier rendering order follows the customary Java source order.
var classModifierOrder = []struct {
	name string
	flag AccessFlags
}{
	{"public", AccPublic},
	{"final", AccFinal},
	{"abstract", AccAbstract},
	{"synthetic", AccSynthetic},
}

var memberModifierOrder = []struct {
	name string
	flag AccessFlags
}{
	{"public", AccPublic},
	{"protected", AccProtected},
	{"private", AccPrivate},
	{"static", AccStatic},
	{"final", AccFinal},
	{"synchronized", AccSynchronized},
	{"volatile", AccVolatile},
	{"transient", AccTransient},
	{"native", AccNative},
	{"abstract", AccAbstract},
	{"strictfp", AccStrict},
	{"synthetic", AccSynthetic},
}

func accessModifierText(set, unset AccessFlags, order []struct {
	name string
	flag AccessFlags
}) []string {
	var parts []string
	for _, m := range order {
		if set.Has(m.flag) {
			parts = append(parts, m.name)
		}
		if unset.Has(m.flag) {
			parts = append(parts, "!"+m.name)
		}
	}
	return parts
}
