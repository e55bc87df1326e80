// Package signature provides the hashing and key handling support for the
// blockchain. Every hash in the system is SHA-256 and every textual hash is
// its lowercase hex encoding.
package signature

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ZeroHash represents a hash code of zeros.
const ZeroHash = "0000000000000000000000000000000000000000000000000000000000000000"

// HashLen is the length of the textual form of a hash.
const HashLen = 64

// =============================================================================

// Hash returns the SHA-256 digest for the specified data.
func Hash(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// HashHex returns the lowercase hex encoding of the SHA-256 digest
// for the specified data.
func HashHex(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// =============================================================================

// GenerateKey creates a new ECDSA private key on the P-256 curve.
func GenerateKey() (*ecdsa.PrivateKey, error) {
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}

	return privateKey, nil
}

// PublicKeyHex returns the address form of the public key: the hex encoding
// of its SubjectPublicKeyInfo serialization.
func PublicKeyHex(publicKey *ecdsa.PublicKey) (string, error) {
	spki, err := x509.MarshalPKIXPublicKey(publicKey)
	if err != nil {
		return "", fmt.Errorf("marshal public key: %w", err)
	}

	return hex.EncodeToString(spki), nil
}

// ParsePublicKey converts the address form back into an ECDSA public key.
func ParsePublicKey(addressHex string) (*ecdsa.PublicKey, error) {
	spki, err := hex.DecodeString(addressHex)
	if err != nil {
		return nil, fmt.Errorf("decode public key: %w", err)
	}

	key, err := x509.ParsePKIXPublicKey(spki)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}

	publicKey, ok := key.(*ecdsa.PublicKey)
	if !ok {
		return nil, errors.New("public key is not ECDSA")
	}

	return publicKey, nil
}

// Sign signs the SHA-256 digest of the content with the private key. The
// signature is returned in ASN.1 DER form.
func Sign(privateKey *ecdsa.PrivateKey, content []byte) ([]byte, error) {
	digest := sha256.Sum256(content)

	sig, err := ecdsa.SignASN1(rand.Reader, privateKey, digest[:])
	if err != nil {
		return nil, fmt.Errorf("sign: %w", err)
	}

	return sig, nil
}

// Verify reports whether the signature was produced over the content by the
// private key matching the specified address. Malformed input of any kind
// reports false, never an error.
func Verify(addressHex string, content []byte, sig []byte) bool {
	publicKey, err := ParsePublicKey(addressHex)
	if err != nil {
		return false
	}

	digest := sha256.Sum256(content)

	return ecdsa.VerifyASN1(publicKey, digest[:], sig)
}

// =============================================================================

// SaveECDSA writes the private key to the named file as the hex encoding of
// its SEC1 DER serialization.
func SaveECDSA(path string, privateKey *ecdsa.PrivateKey) error {
	der, err := x509.MarshalECPrivateKey(privateKey)
	if err != nil {
		return fmt.Errorf("marshal private key: %w", err)
	}

	if err := os.WriteFile(path, []byte(hex.EncodeToString(der)), 0600); err != nil {
		return fmt.Errorf("write private key: %w", err)
	}

	return nil
}

// LoadECDSA reads a private key written by SaveECDSA.
func LoadECDSA(path string) (*ecdsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}

	der, err := hex.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("decode private key: %w", err)
	}

	privateKey, err := x509.ParseECPrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	return privateKey, nil
}
