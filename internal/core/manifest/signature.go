package manifest

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
)

const (
	// EnvVerifyKey overrides the built-in verification key when non-empty.
	EnvVerifyKey = "SKILLSTORE_VERIFY_KEY"

	// builtinVerifyKey is the marketplace's published manifest key.
	builtinVerifyKey = "skillstore-manifest-v1-7f3c9a2e5b8d4f1a6c0e9b3d7a2f5c8e"
)

const signatureField = "signature"

// VerificationKey returns the key from EnvVerifyKey when set, otherwise the
// built-in key.
func VerificationKey(getenv func(string) string) string {
	if getenv != nil {
		if k := getenv(EnvVerifyKey); k != "" {
			return k
		}
	}
	return builtinVerifyKey
}

// rawDocument is implemented by manifests that remember the bytes they were
// decoded from.
type rawDocument interface {
	Raw() []byte
}

// CanonicalPayload returns the bytes a manifest signature covers: the RFC 8785
// canonical JSON of the manifest with its signature field removed. A decoded
// manifest is canonicalized from its original document, so fields this
// package does not model stay covered.
func CanonicalPayload(v any) ([]byte, error) {
	if d, ok := v.(rawDocument); ok && len(d.Raw()) > 0 {
		return CanonicalDocument(d.Raw())
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshaling manifest: %w", err)
	}
	return CanonicalDocument(raw)
}

// CanonicalDocument canonicalizes a raw manifest document, dropping its
// top-level signature field.
func CanonicalDocument(raw []byte) ([]byte, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("manifest is not a JSON object: %w", err)
	}
	delete(fields, signatureField)

	stripped, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("marshaling manifest: %w", err)
	}
	canonical, err := jsoncanonicalizer.Transform(stripped)
	if err != nil {
		return nil, fmt.Errorf("canonicalizing manifest: %w", err)
	}
	return canonical, nil
}

// Sign returns the hex HMAC-SHA256 of the manifest's canonical payload.
func Sign(v any, key string) (string, error) {
	payload, err := CanonicalPayload(v)
	if err != nil {
		return "", err
	}
	return hmacHex(payload, key), nil
}

// SignDocument signs a raw manifest document as served, including fields
// that have no counterpart in PluginManifest or SkillManifest.
func SignDocument(raw []byte, key string) (string, error) {
	payload, err := CanonicalDocument(raw)
	if err != nil {
		return "", err
	}
	return hmacHex(payload, key), nil
}

func hmacHex(payload []byte, key string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// verifySignature checks signature against v's canonical payload.
func verifySignature(v any, signature, key string) Result {
	if signature == "" {
		return fail(ErrNoSignature)
	}
	expected, err := Sign(v, key)
	if err != nil {
		return fail(ErrSignatureMismatch)
	}
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return fail(ErrSignatureMismatch)
	}
	return Result{Valid: true}
}

// VerifySignature authenticates a plugin manifest with key.
func VerifySignature(m *PluginManifest, key string) Result {
	return verifySignature(m, m.Signature, key)
}

// VerifySkillSignature authenticates a skill manifest with key.
func VerifySkillSignature(m *SkillManifest, key string) Result {
	return verifySignature(m, m.Signature, key)
}
