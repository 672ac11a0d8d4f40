package shape

import (
	"crypto/sha256"
	"fmt"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
)

// Param is a single declared parameter.
type Param struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Decl describes a function by name, signature, and doc comment. It is the
// input to declared-mode generation: no body, just the contract the generated
// implementation must satisfy.
type Decl struct {
	Name    string   `yaml:"name"`
	Doc     string   `yaml:"doc"`
	Params  []Param  `yaml:"params"`
	Returns []string `yaml:"returns"`
}

// Signature renders the declaration as the canonical one-line form used both
// as key material and as prompt text. Parameter order is declaration order.
func (d Decl) Signature() string {
	params := make([]string, 0, len(d.Params))
	for _, p := range d.Params {
		params = append(params, p.Name+" "+p.Type)
	}
	ret := "none"
	if len(d.Returns) > 0 {
		ret = strings.Join(d.Returns, ", ")
	}
	return fmt.Sprintf("Function: %s, Doc: %s, Args: [%s], Return: %s",
		d.Name, d.Doc, strings.Join(params, ", "), ret)
}

// SignatureKey derives the cache key for a declared function. Identical
// declarations with identical context always produce the same key.
func SignatureKey(d Decl, context string) string {
	return d.Signature() + context
}

// CallKey derives the cache key for a call shape: the function name plus the
// runtime types of its arguments. Values do not participate, only types, so
// two calls that differ only in value share a key. Keyword argument names are
// sorted to keep the key deterministic.
func CallKey(name string, args []any, kwargs map[string]any) string {
	argTypes := ArgTypes(args)
	kwargTypes := KwargTypes(kwargs)

	kw := make([]string, 0, len(kwargTypes))
	keys := make([]string, 0, len(kwargTypes))
	for k := range kwargTypes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		kw = append(kw, k+":"+kwargTypes[k])
	}

	return fmt.Sprintf("%s_[%s]_[%s]", name, strings.Join(argTypes, " "), strings.Join(kw, " "))
}

// ArgTypes returns the runtime type name of each positional argument.
func ArgTypes(args []any) []string {
	types := make([]string, 0, len(args))
	for _, a := range args {
		types = append(types, typeName(a))
	}
	return types
}

// KwargTypes returns the runtime type name of each keyword argument.
func KwargTypes(kwargs map[string]any) map[string]string {
	types := make(map[string]string, len(kwargs))
	for k, v := range kwargs {
		types[k] = typeName(v)
	}
	return types
}

// CallDescription renders a call shape as a human-readable context entry
// body, with keyword arguments in sorted order.
func CallDescription(args []any, kwargs map[string]any) string {
	kwargTypes := KwargTypes(kwargs)
	keys := make([]string, 0, len(kwargTypes))
	for k := range kwargTypes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	kw := make([]string, 0, len(keys))
	for _, k := range keys {
		kw = append(kw, k+":"+kwargTypes[k])
	}
	return fmt.Sprintf("args: [%s], kwargs: [%s]",
		strings.Join(ArgTypes(args), " "), strings.Join(kw, " "))
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}

// Hash returns the SHA-256 hex digest of the key material.
func Hash(key string) string {
	h := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%x", h)
}

// Path maps an identifier and its key to the artifact file inside dir.
func Path(dir, id, key string) string {
	return filepath.Join(dir, id+"_"+Hash(key)+".go")
}
