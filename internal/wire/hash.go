package wire

import (
	"encoding/hex"
	"hash/fnv"

	"github.com/modellang/smtts-compiler/internal/ir"
)

// ContentHash derives the translation cache key for an elaborated program:
// the hex FNV-1a digest of its wire encoding. Translation is a pure
// function of the elaborated program and the fault configuration (§3), so
// two programs that encode identically translate identically under the
// same fault configuration; the key does not include the fault
// configuration.
func ContentHash(p ir.Program) string {
	data, err := EncodeElaboratedProgram(p)
	if err != nil {
		// Encoding failure means the program itself is malformed; the
		// caller's subsequent Translate call will surface the real
		// diagnostic. A degenerate but still content-derived key keeps the
		// cache from panicking on a program it can't hash.
		h := fnv.New128a()
		h.Write([]byte(p.System()))
		return hex.EncodeToString(h.Sum(nil))
	}
	h := fnv.New128a()
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
