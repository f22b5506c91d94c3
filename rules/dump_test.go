package rules

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrinterRoundTrip(t *testing.T) {
	input := strings.Join([]string{
		"-verbose",
		"-keepattributes Signature,*Annotation*",
		"-keep,allowshrinking public class com.example.** extends java.lang.Object {",
		"    public static <fields>;",
		"    void run(int, java.lang.String);",
		"    Foo();",
		"}",
	}, "\n")

	config, _ := parseString(t, input)

	var out strings.Builder
	require.NoError(t, NewPrinter(&out).Print(config))
	got := out.String()

	expected := strings.Join([]string{
		"-verbose",
		"-keepattributes Signature,*Annotation*",
		"-keep,allowshrinking public class com.example.** extends java.lang.Object",
		"{",
		"    public static <fields>;",
		"    void run(int,java.lang.String);",
		"    <init>();",
		"}",
		"",
	}, "\n")
	require.Equal(t, expected, got)

	// Printed output parses back to an equivalent configuration.
	reparsed := &Configuration{}
	require.NoError(t, NewStringParser(got, "", nil).Parse(reparsed))
	require.Equal(t, config, reparsed)
}

func TestPrinterCondition(t *testing.T) {
	config, _ := parseString(t, "-if class com.Trigger -keepnames class com.Kept")

	var out strings.Builder
	require.NoError(t, NewPrinter(&out).Print(config))
	got := out.String()

	require.Equal(t, "-if class com.Trigger\n-keepnames class com.Kept\n", got)
}

func TestPrinterWildcardMembers(t *testing.T) {
	config, _ := parseString(t, "-assumenosideeffects class android.util.Log { *; }")

	var out strings.Builder
	require.NoError(t, NewPrinter(&out).Print(config))

	require.Contains(t, out.String(), "<fields>;")
	require.Contains(t, out.String(), "<methods>;")
}
