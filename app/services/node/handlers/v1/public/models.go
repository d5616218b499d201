package public

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/nameservice"
	"github.com/shopspring/decimal"
)

// NewTx is what clients submit to move value between accounts. Sender and
// recipient may be a raw account or a name known to the name service.
type NewTx struct {
	Sender    string          `json:"sender" validate:"required"`
	Recipient string          `json:"recipient" validate:"required"`
	Amount    decimal.Decimal `json:"amount"`
}

// NewVote is what clients submit to vote for a delegate.
type NewVote struct {
	DelegateID uint64 `json:"delegate_id" validate:"required"`
	Votes      uint64 `json:"votes" validate:"required,gt=0"`
}

// =============================================================================

type balance struct {
	Account string          `json:"account"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

type balances struct {
	LatestBlock string    `json:"latest_block"`
	Uncommitted int       `json:"uncommitted"`
	Balances    []balance `json:"balances"`
}

type tx struct {
	Sender        string          `json:"sender"`
	SenderName    string          `json:"sender_name"`
	Recipient     string          `json:"recipient"`
	RecipientName string          `json:"recipient_name"`
	Amount        decimal.Decimal `json:"amount"`
	Timestamp     string          `json:"timestamp"`
}

type block struct {
	Index        uint64 `json:"index"`
	Timestamp    string `json:"timestamp"`
	PrevHash     string `json:"prev_hash"`
	Nonce        uint64 `json:"nonce"`
	Hash         string `json:"hash"`
	Producer     string `json:"producer"`
	Transactions []tx   `json:"transactions"`
}

type delegate struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Votes uint64 `json:"votes"`
	InTop bool   `json:"in_top"`
}

type delegates struct {
	Consensus string     `json:"consensus"`
	Delegates []delegate `json:"delegates"`
}

// =============================================================================

func toTx(ns *nameservice.NameService, tran database.Tx) tx {
	return tx{
		Sender:        tran.Sender,
		SenderName:    ns.Lookup(tran.Sender),
		Recipient:     tran.Recipient,
		RecipientName: ns.Lookup(tran.Recipient),
		Amount:        tran.Amount,
		Timestamp:     tran.Timestamp,
	}
}

func toBlock(ns *nameservice.NameService, blk database.Block) block {
	trans := make([]tx, len(blk.Transactions))
	for i, tran := range blk.Transactions {
		trans[i] = toTx(ns, tran)
	}

	return block{
		Index:        blk.Index,
		Timestamp:    blk.Timestamp,
		PrevHash:     blk.PrevHash,
		Nonce:        blk.Nonce,
		Hash:         blk.Hash,
		Producer:     ns.Lookup(blk.Producer),
		Transactions: trans,
	}
}
