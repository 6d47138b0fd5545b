package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed fingerprints.
// Version suffix enables future algorithm migration.
const (
	DomainDeclaration = "iogen/declaration/v1"
	DomainBatch       = "iogen/batch/v1"
	DomainOutput      = "iogen/output/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint computes the content-addressed identity of a declaration.
// Two declarations with the same fingerprint print identically.
func Fingerprint(d Declaration) (string, error) {
	canonical, err := MarshalCanonical(EncodeDeclaration(d))
	if err != nil {
		return "", fmt.Errorf("Fingerprint %s: %w", d.DeclarationName(), err)
	}
	return hashWithDomain(DomainDeclaration, canonical), nil
}

// BatchFingerprint computes the identity of an ordered batch of
// declarations. Order is significant: the same declarations in a
// different order produce a different fingerprint.
func BatchFingerprint(decls []Declaration) (string, error) {
	items := make([]any, len(decls))
	for i, d := range decls {
		items[i] = EncodeDeclaration(d)
	}
	canonical, err := MarshalCanonical(map[string]any{
		"ir_version":   IRVersion,
		"declarations": items,
	})
	if err != nil {
		return "", fmt.Errorf("BatchFingerprint: %w", err)
	}
	return hashWithDomain(DomainBatch, canonical), nil
}

// OutputFingerprint identifies a generated document.
func OutputFingerprint(text string) string {
	return hashWithDomain(DomainOutput, []byte(text))
}

// MustFingerprint is like Fingerprint but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustFingerprint(d Declaration) string {
	fp, err := Fingerprint(d)
	if err != nil {
		panic(err)
	}
	return fp
}
