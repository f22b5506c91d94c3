package rules

import "testing"

func TestTypeDescriptor(t *testing.T) {
	tests := []struct {
		word     string
		expected string
	}{
		{"int", "I"},
		{"boolean", "Z"},
		{"byte", "B"},
		{"char", "C"},
		{"short", "S"},
		{"long", "J"},
		{"float", "F"},
		{"double", "D"},
		{"void", "V"},
		{"int[]", "[I"},
		{"int[][]", "[[I"},
		{"java.lang.String", "Ljava/lang/String;"},
		{"java.lang.String[]", "[Ljava/lang/String;"},
		{"*", "L*;"},
		{"**", "L**;"},
		{"***", "L***;"},
		{"com.example.**", "Lcom/example/**;"},
		{"%", "%"},
		{"%[]", "[%"},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			got, err := TypeDescriptor(tt.word)
			if err != nil {
				t.Fatalf("TypeDescriptor(%q): %v", tt.word, err)
			}
			if got != tt.expected {
				t.Errorf("TypeDescriptor(%q) = %q, want %q", tt.word, got, tt.expected)
			}
		})
	}
}

func TestTypeDescriptorErrors(t *testing.T) {
	for _, word := range []string{"", "[]", "void[]"} {
		if _, err := TypeDescriptor(word); err == nil {
			t.Errorf("TypeDescriptor(%q): expected error", word)
		}
	}
}

func TestMethodDescriptor(t *testing.T) {
	tests := []struct {
		args     []string
		ret      string
		expected string
	}{
		{nil, "void", "()V"},
		{[]string{"int", "long"}, "void", "(IJ)V"},
		{[]string{"java.lang.String"}, "int", "(Ljava/lang/String;)I"},
		{[]string{"***"}, "***", "(L***;)L***;"},
	}

	for _, tt := range tests {
		got, err := MethodDescriptor(tt.args, tt.ret)
		if err != nil {
			t.Fatalf("MethodDescriptor(%v, %q): %v", tt.args, tt.ret, err)
		}
		if got != tt.expected {
			t.Errorf("MethodDescriptor(%v, %q) = %q, want %q", tt.args, tt.ret, got, tt.expected)
		}
	}

	if _, err := MethodDescriptor([]string{"void"}, "int"); err == nil {
		t.Error("expected error for void argument type")
	}
}

func TestExternalMethodTypes(t *testing.T) {
	args, ret := ExternalMethodTypes("(ILjava/lang/String;[J)L***;")
	if len(args) != 3 || args[0] != "int" || args[1] != "java.lang.String" || args[2] != "long[]" {
		t.Errorf("args: got %v", args)
	}
	if ret != "***" {
		t.Errorf("ret: got %q", ret)
	}
}

func TestExternalFieldType(t *testing.T) {
	tests := []struct {
		descriptor string
		expected   string
	}{
		{"I", "int"},
		{"[[Z", "boolean[][]"},
		{"Ljava/lang/String;", "java.lang.String"},
		{"L**;", "**"},
	}
	for _, tt := range tests {
		if got := ExternalFieldType(tt.descriptor); got != tt.expected {
			t.Errorf("ExternalFieldType(%q) = %q, want %q", tt.descriptor, got, tt.expected)
		}
	}
}
