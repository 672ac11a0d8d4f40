// Package shape derives deterministic cache keys from function declarations
// and call shapes.
//
// Two key forms exist. A signature key covers declared-mode generation: the
// function name, doc comment, ordered parameter list, return types, and any
// free-text context. A call key covers immediate-mode generation: the function
// name plus the reflected runtime types of the actual arguments. In both forms
// the key string is hashed with SHA-256 and combined with the identifier to
// form the artifact path, so identical inputs always resolve to the same file
// and inputs differing only in argument type resolve to different files.
package shape
