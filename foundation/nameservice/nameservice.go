// Package nameservice reads a folder of key files and creates a name
// service lookup from pub key hash to the name of the key file.
package nameservice

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/utxolab/blockchain/foundation/blockchain/signature"
)

// NameService maintains a map of pub key hashes for name lookup.
type NameService struct {
	names map[string]string
}

// New constructs a name service with the keys found under root. Every file
// with an .ecdsa extension is loaded and named after its base name.
func New(root string) (*NameService, error) {
	ns := NameService{
		names: make(map[string]string),
	}

	fn := func(fileName string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walkdir failure: %w", err)
		}

		if d.IsDir() || filepath.Ext(fileName) != ".ecdsa" {
			return nil
		}

		privateKey, err := crypto.LoadECDSA(fileName)
		if err != nil {
			return fmt.Errorf("loading %s: %w", fileName, err)
		}

		pubKeyHash := signature.PubKeyHash(signature.PublicKeyHex(privateKey.PublicKey))
		ns.names[pubKeyHash] = strings.TrimSuffix(filepath.Base(fileName), ".ecdsa")

		return nil
	}

	if err := filepath.WalkDir(root, fn); err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return &ns, nil
}

// Lookup returns the name for the specified pub key hash. The hash itself
// is returned when no name is known.
func (ns *NameService) Lookup(pubKeyHash string) string {
	name, exists := ns.names[pubKeyHash]
	if !exists {
		return pubKeyHash
	}
	return name
}

// Copy returns a copy of the map of pub key hashes and names.
func (ns *NameService) Copy() map[string]string {
	cpy := make(map[string]string, len(ns.names))
	for pubKeyHash, name := range ns.names {
		cpy[pubKeyHash] = name
	}
	return cpy
}
