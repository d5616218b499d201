// Package database handles the lower level support for maintaining the
// ordered chain of blocks, their hashing and proof of work.
package database

import (
	"errors"
	"fmt"
	"sync"
)

// ErrInvalidBlock is returned when a block does not link to the chain it is
// being added to.
var ErrInvalidBlock = errors.New("invalid block")

// ErrBlockNotFound is returned when a block number is outside the chain.
var ErrBlockNotFound = errors.New("block does not exist")

// Storage interface represents the behavior required to be implemented by any
// package providing support for storing and reading the blockchain.
type Storage interface {
	Write(block Block) error
	GetBlock(num uint64) (Block, error)
	ForEach() Iterator
	Close() error
	Reset() error
}

// Iterator interface represents the behavior required to be implemented by any
// package providing support to iterate over the blocks.
type Iterator interface {
	Next() (Block, error)
	Done() bool
}

// =============================================================================

// Blockchain manages the ordered set of blocks, starting with genesis.
type Blockchain struct {
	mu          sync.RWMutex
	storage     Storage
	latestBlock Block
	length      uint64
}

// New constructs a blockchain on top of the provided storage. An empty
// storage is seeded with the genesis block, otherwise the stored blocks are
// replayed and validated.
func New(storage Storage, evHandler func(v string, args ...any)) (*Blockchain, error) {
	if evHandler == nil {
		evHandler = func(string, ...any) {}
	}

	bc := Blockchain{
		storage: storage,
	}

	var prev *Block

	iter := storage.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return nil, err
		}

		if err := validateBlock(prev, block); err != nil {
			return nil, fmt.Errorf("replaying block %d: %w", block.Index, err)
		}

		bc.latestBlock = block
		bc.length++
		prev = &bc.latestBlock
	}

	if bc.length > 0 {
		evHandler("database: New: replayed: blocks[%d]: tip[%s]", bc.length, bc.latestBlock.Hash)
		return &bc, nil
	}

	genesis := NewGenesisBlock()
	if err := storage.Write(genesis); err != nil {
		return nil, fmt.Errorf("writing genesis: %w", err)
	}

	bc.latestBlock = genesis
	bc.length = 1

	evHandler("database: New: genesis: blk[%s]", genesis.Hash)

	return &bc, nil
}

// Close closes the underlying storage.
func (bc *Blockchain) Close() error {
	return bc.storage.Close()
}

// AddBlock appends the block to the end of the chain. No linkage checks
// are performed, see AddValidatedBlock.
func (bc *Blockchain) AddBlock(block Block) error {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	return bc.write(block)
}

// AddValidatedBlock appends the block only when its index follows the tip,
// its previous hash is the tip's hash and its hash matches its content.
func (bc *Blockchain) AddValidatedBlock(block Block) error {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	var prev *Block
	if bc.length > 0 {
		prev = &bc.latestBlock
	}

	if err := validateBlock(prev, block); err != nil {
		return err
	}

	return bc.write(block)
}

// LastHash returns the hash of the tip of the chain or an empty string when
// the chain holds no blocks.
func (bc *Blockchain) LastHash() string {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	if bc.length == 0 {
		return ""
	}

	return bc.latestBlock.Hash
}

// LatestBlock returns the tip of the chain.
func (bc *Blockchain) LatestBlock() Block {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	return bc.latestBlock
}

// Length returns the number of blocks in the chain.
func (bc *Blockchain) Length() uint64 {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	return bc.length
}

// GetBlock returns the block stored at the specified position.
func (bc *Blockchain) GetBlock(num uint64) (Block, error) {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	if num >= bc.length {
		return Block{}, fmt.Errorf("%w: %d", ErrBlockNotFound, num)
	}

	return bc.storage.GetBlock(num)
}

// Blocks returns every block in the chain in order.
func (bc *Blockchain) Blocks() ([]Block, error) {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	blocks := make([]Block, 0, bc.length)

	iter := bc.storage.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}

	return blocks, nil
}

// Validate walks the entire chain checking every block links to the block
// before it.
func (bc *Blockchain) Validate() error {
	blocks, err := bc.Blocks()
	if err != nil {
		return err
	}

	var prev *Block
	for i := range blocks {
		if err := validateBlock(prev, blocks[i]); err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
		prev = &blocks[i]
	}

	return nil
}

// =============================================================================

// write stores the block and moves the tip. The caller must hold the lock.
func (bc *Blockchain) write(block Block) error {
	if err := bc.storage.Write(block); err != nil {
		return err
	}

	bc.latestBlock = block
	bc.length++

	return nil
}

// validateBlock checks the block against the block that precedes it. A nil
// previous block means the block must be a genesis block.
func validateBlock(prev *Block, block Block) error {
	if hash := block.CalculateHash(); hash != block.Hash {
		return fmt.Errorf("%w: hash %s does not match content %s", ErrInvalidBlock, block.Hash, hash)
	}

	if prev == nil {
		if block.Index != 0 {
			return fmt.Errorf("%w: first block has index %d", ErrInvalidBlock, block.Index)
		}
		if block.PrevHash != GenesisPrevHash {
			return fmt.Errorf("%w: genesis prev hash %q", ErrInvalidBlock, block.PrevHash)
		}
		return nil
	}

	if block.Index != prev.Index+1 {
		return fmt.Errorf("%w: index %d does not follow %d", ErrInvalidBlock, block.Index, prev.Index)
	}

	if block.PrevHash != prev.Hash {
		return fmt.Errorf("%w: prev hash %s does not match tip %s", ErrInvalidBlock, block.PrevHash, prev.Hash)
	}

	return nil
}
