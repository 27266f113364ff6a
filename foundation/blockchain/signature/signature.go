// Package signature provides helper functions for handling the blockchain
// hashing and signature needs.
package signature

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// ZeroHash represents a hash code of zeros.
const ZeroHash string = "0000000000000000000000000000000000000000000000000000000000000000"

// signedMessagePrefix is mixed into every digest that gets signed. This will
// make it clear that the signature comes from this blockchain and can't be
// replayed as a signature over some other kind of message.
const signedMessagePrefix = "\x19UTXO Signed Message:\n32"

// Set of errors for malformed key material.
var (
	ErrInvalidPrivateKey = errors.New("invalid private key")
	ErrInvalidPublicKey  = errors.New("invalid public key")
	ErrInvalidSignature  = errors.New("invalid signature encoding")
)

// =============================================================================

// Hash returns the hex encoded SHA-256 digest of the value. This is a single
// round of hashing with no salt.
func Hash(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:])
}

// DoubleHash returns the hash of the hash of the value.
func DoubleHash(value string) string {
	return Hash(Hash(value))
}

// PubKeyHash returns the address an output gets locked to for the
// specified public key.
func PubKeyHash(publicKey string) string {
	return DoubleHash(publicKey)
}

// =============================================================================

// GenerateKeyPair constructs a new secp256k1 key pair and returns both
// halves in their hex encoded string form.
func GenerateKeyPair() (privateKey string, publicKey string, err error) {
	pk, err := crypto.GenerateKey()
	if err != nil {
		return "", "", fmt.Errorf("generating key: %w", err)
	}

	return PrivateKeyHex(pk), PublicKeyHex(pk.PublicKey), nil
}

// PrivateKeyHex returns the hex encoded form of the private key.
func PrivateKeyHex(pk *ecdsa.PrivateKey) string {
	return hexutil.Encode(crypto.FromECDSA(pk))
}

// PublicKeyHex returns the hex encoded uncompressed form of the public key.
func PublicKeyHex(pk ecdsa.PublicKey) string {
	return hexutil.Encode(crypto.FromECDSAPub(&pk))
}

// PublicKeyFromPrivate derives the hex encoded public key for the
// hex encoded private key.
func PublicKeyFromPrivate(privateKey string) (string, error) {
	pk, err := toPrivateKey(privateKey)
	if err != nil {
		return "", err
	}

	return PublicKeyHex(pk.PublicKey), nil
}

// =============================================================================

// Sign uses the specified private key to sign the message.
func Sign(message string, privateKey string) (string, error) {
	pk, err := toPrivateKey(privateKey)
	if err != nil {
		return "", err
	}

	// Sign the stamped digest with the private key to produce a signature.
	sig, err := crypto.Sign(stamp(message), pk)
	if err != nil {
		return "", fmt.Errorf("signing message: %w", err)
	}

	return hexutil.Encode(sig), nil
}

// VerifySignature checks the signature was produced over the message by the
// private key that belongs to the specified public key. An error is only
// returned when the key or signature material can't be decoded.
func VerifySignature(message string, sig string, publicKey string) (bool, error) {
	pub, err := toPublicKeyBytes(publicKey)
	if err != nil {
		return false, err
	}

	sigBytes, err := hexutil.Decode(sig)
	if err != nil || len(sigBytes) != crypto.SignatureLength {
		return false, ErrInvalidSignature
	}

	// The recovery id is not part of the verification.
	rs := sigBytes[:crypto.RecoveryIDOffset]

	return crypto.VerifySignature(pub, stamp(message), rs), nil
}

// =============================================================================

// stamp returns a 32 byte digest that represents the message with the
// chain's stamp embedded into the final hash.
func stamp(message string) []byte {
	msgHash := crypto.Keccak256([]byte(message))
	return crypto.Keccak256([]byte(signedMessagePrefix), msgHash)
}

// toPrivateKey decodes the hex encoded private key.
func toPrivateKey(privateKey string) (*ecdsa.PrivateKey, error) {
	data, err := hexutil.Decode(privateKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPrivateKey, err)
	}

	pk, err := crypto.ToECDSA(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPrivateKey, err)
	}

	return pk, nil
}

// toPublicKeyBytes decodes the hex encoded public key and makes sure it
// represents a point on the curve.
func toPublicKeyBytes(publicKey string) ([]byte, error) {
	data, err := hexutil.Decode(publicKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPublicKey, err)
	}

	if _, err := crypto.UnmarshalPubkey(data); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPublicKey, err)
	}

	return data, nil
}
