package ir

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Domain prefix for statement content addressing.
// Version suffix enables future algorithm migration.
const DomainStatement = "minikb/statement/v1"

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte (0x00) separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// canonicalStrings encodes values as a JSON array of strings with HTML
// escaping disabled. The array framing makes field boundaries unambiguous:
// ("ab", "c") and ("a", "bc") never encode the same.
func canonicalStrings(values ...string) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a []string cannot fail.
	_ = enc.Encode(values)
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'})
}

// StatementHash computes the content hash of a statement. It is a pure
// function of (subject, predicate, object, model); timestamp and provenance
// never participate, so re-adding the same fact always collides.
func StatementHash(subject, predicate, object, model string) string {
	return hashWithDomain(DomainStatement, canonicalStrings(subject, predicate, object, model))
}

// HashTriple computes the content hash of a ground triple scoped to model.
func HashTriple(t Triple, model string) string {
	return StatementHash(t.Subject.Value(), t.Predicate.Value(), t.Object.Value(), model)
}
