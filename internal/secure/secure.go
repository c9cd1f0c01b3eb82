// Package secure provides memory-safe handling of secret values.
//
// New credential values live in memory from the moment the batch file is
// parsed until they are written into the vault item. This package wraps
// the memguard library so that window is spent in an encrypted enclave
// (XSalsa20Poly1305, mlock'd where available) instead of a plain string.
package secure

import (
	"github.com/awnumar/memguard"
)

// Value holds a secret encrypted at rest in memory.
type Value struct {
	enclave *memguard.Enclave
}

// Seal copies the secret into a protected enclave.
func Seal(secret string) *Value {
	return &Value{enclave: memguard.NewEnclave([]byte(secret))}
}

// Reveal decrypts the secret and returns a plaintext copy.
// The locked buffer backing the decryption is wiped before returning.
func (v *Value) Reveal() (string, error) {
	locked, err := v.enclave.Open()
	if err != nil {
		return "", err
	}
	defer locked.Destroy()
	return string(locked.Bytes()), nil
}

// String implements Stringer so a Value can never leak through logging.
func (v *Value) String() string {
	return "[REDACTED]"
}

// GoString implements GoStringer for %#v formatting.
func (v *Value) GoString() string {
	return "[REDACTED]"
}

// Purge wipes every enclave held by the process. Call it deferred in main.
func Purge() {
	memguard.Purge()
}
