package lsp

import (
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckTextClean(t *testing.T) {
	diagnostics := CheckText("-keep class com.example.** { *; }", false)
	assert.Empty(t, diagnostics)
}

func TestCheckTextWarning(t *testing.T) {
	diagnostics := CheckText("-checkdiscard class Foo", false)
	require.Len(t, diagnostics, 1)
	assert.Equal(t, protocol.DiagnosticSeverityWarning, *diagnostics[0].Severity)
	assert.Contains(t, diagnostics[0].Message, "-checkdiscard")
}

func TestCheckTextParseError(t *testing.T) {
	text := "-keep class Good\n-keep class Bad { <methods>(); }"
	diagnostics := CheckText(text, false)
	require.Len(t, diagnostics, 1)
	assert.Equal(t, protocol.DiagnosticSeverityError, *diagnostics[0].Severity)
	assert.Equal(t, protocol.UInteger(1), diagnostics[0].Range.Start.Line)
}

func TestCheckTextDalvik(t *testing.T) {
	text := "-keep class com.ex ample.Main"
	require.Empty(t, CheckText(text, false))

	diagnostics := CheckText(text, true)
	require.Len(t, diagnostics, 1)
	assert.Contains(t, diagnostics[0].Message, "U+2028")
}
