package database

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/crypto"
)

// PublicKeyToAccount converts the public key to the hex-encoded account
// name used on the ledger.
func PublicKeyToAccount(pk ecdsa.PublicKey) string {
	return crypto.PubkeyToAddress(pk).String()
}
