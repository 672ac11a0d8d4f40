package engine

import (
	"fmt"
	"strings"

	"github.com/conjure-cli/conjure/internal/shape"
)

const callSystemPrompt = "Generate a Go function implementation based on the function name and argument types. " +
	"Return only the function code without explanations."

const declSystemPrompt = "Generate Go function code based on the function signature and doc comment. " +
	"Return only the function implementation without explanations or function calls."

const constSystemPrompt = "Generate a constant value based on the constant name. " +
	"Return only the value assignment without explanations. " +
	"Format: CONSTANT_NAME = value"

// callUserPrompt builds the prompt for immediate-mode generation from a call
// shape, prefixed with any accumulated context.
func callUserPrompt(prefix, name string, args []any, kwargs map[string]any) string {
	var b strings.Builder
	b.WriteString(prefix)
	fmt.Fprintf(&b, "Function name: %s, argument types: ", name)
	b.WriteString(shape.CallDescription(args, kwargs))
	return b.String()
}

// declUserPrompt builds the prompt for declared-mode generation from a
// signature line, optionally preceded by sibling-function context.
func declUserPrompt(signature, context string) string {
	if context == "" {
		return signature
	}
	return fmt.Sprintf("Context of related functions:\n%s\n\nGenerate code for:\n%s", context, signature)
}

// constUserPrompt builds the prompt for constant generation.
func constUserPrompt(prefix, name string) string {
	return prefix + "Constant name: " + name
}
