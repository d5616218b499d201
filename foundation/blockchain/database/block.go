package database

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// GenesisPrevHash is the previous hash recorded by the genesis block.
const GenesisPrevHash = "0"

// hashLength is the number of hex characters in a block hash.
const hashLength = 2 * sha256.Size

// cancelCheckInterval is how many nonce attempts are made between checks
// of the mining context.
const cancelCheckInterval = 4096

// ErrInvalidDifficulty is returned when mining is requested with a
// difficulty no hash could ever satisfy.
var ErrInvalidDifficulty = errors.New("invalid difficulty")

// =============================================================================

// Block represents a group of transactions batched together.
type Block struct {
	Index        uint64 `json:"index"`     // Position of the block in the chain.
	Timestamp    string `json:"timestamp"` // Time the block was constructed.
	PrevHash     string `json:"prev_hash"` // Hash of the previous block in the chain.
	Nonce        uint64 `json:"nonce"`     // Value identified to solve the hash solution.
	Hash         string `json:"hash"`      // Hash of this block's content.
	Transactions []Tx   `json:"transactions"`

	// Producer names the account or delegate that sealed the block. It is
	// not part of the hash input.
	Producer string `json:"producer,omitempty"`
}

// NewBlock constructs a new block with a nonce of zero and its hash
// already calculated.
func NewBlock(index uint64, trans []Tx, prevHash string) Block {
	if trans == nil {
		trans = []Tx{}
	}

	b := Block{
		Index:        index,
		Timestamp:    timestamp(),
		PrevHash:     prevHash,
		Nonce:        0,
		Transactions: trans,
	}
	b.Hash = b.CalculateHash()

	return b
}

// NewGenesisBlock constructs the first block of any chain.
func NewGenesisBlock() Block {
	return NewBlock(0, nil, GenesisPrevHash)
}

// CalculateHash returns the hex encoded sha256 digest of the block's index,
// timestamp, transactions, previous hash and nonce.
func (b Block) CalculateHash() string {
	var record strings.Builder
	record.WriteString(strconv.FormatUint(b.Index, 10))
	record.WriteString(b.Timestamp)
	record.Write(marshalTransactions(b.Transactions))
	record.WriteString(b.PrevHash)
	record.WriteString(strconv.FormatUint(b.Nonce, 10))

	hash := sha256.Sum256([]byte(record.String()))
	return hex.EncodeToString(hash[:])
}

// Mine does the work of finding a nonce that produces a hash with the
// specified number of leading zeros. Pointer semantics are being used since
// the nonce and hash are being mutated.
func (b *Block) Mine(ctx context.Context, difficulty uint, ev func(v string, args ...any)) error {
	if difficulty > hashLength {
		return fmt.Errorf("%w: %d exceeds the hash length of %d", ErrInvalidDifficulty, difficulty, hashLength)
	}

	if ev == nil {
		ev = func(string, ...any) {}
	}

	ev("database: Mine: MINING: started: blk[%d]: difficulty[%d]", b.Index, difficulty)
	defer ev("database: Mine: MINING: completed: blk[%d]", b.Index)

	var attempts uint64
	for !IsHashSolved(difficulty, b.Hash) {
		attempts++

		if attempts%cancelCheckInterval == 0 {
			if ctx.Err() != nil {
				ev("database: Mine: MINING: CANCELLED: attempts[%d]", attempts)
				return ctx.Err()
			}
		}

		if attempts%1_000_000 == 0 {
			ev("database: Mine: MINING: attempts[%d]", attempts)
		}

		b.Nonce++
		b.Hash = b.CalculateHash()
	}

	ev("database: Mine: MINING: SOLVED: blk[%s]: attempts[%d]", b.Hash, attempts)

	return nil
}

// IsHashSolved checks the hash starts with the difficulty number of 0's.
func IsHashSolved(difficulty uint, hash string) bool {
	if difficulty > uint(len(hash)) {
		return false
	}

	return strings.Count(hash[:difficulty], "0") == int(difficulty)
}

// =============================================================================

// marshalTransactions produces the canonical encoding of a batch of
// transactions. A nil and an empty batch encode the same.
func marshalTransactions(trans []Tx) []byte {
	if len(trans) == 0 {
		return []byte("[]")
	}

	data, err := json.Marshal(trans)
	if err != nil {
		return []byte("serialization_error")
	}

	return data
}
