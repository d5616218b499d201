package cmd

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

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

var blocksAccount string

var blocksCmd = &cobra.Command{
	Use:   "blocks",
	Short: "Print the blocks in the chain.",
	RunE:  blocksRun,
}

func init() {
	rootCmd.AddCommand(blocksCmd)
	blocksCmd.Flags().StringVarP(&blocksAccount, "of", "o", "", "Only print blocks with a transaction for this account or name.")
}

func blocksRun(cmd *cobra.Command, args []string) error {
	path := "/v1/blocks/list"
	if blocksAccount != "" {
		path += "/" + blocksAccount
	}

	var blocks []block
	if err := call(http.MethodGet, path, nil, &blocks); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, blk := range blocks {
		fmt.Fprintf(out, "Block %d  %s\n", blk.Index, blk.Hash)
		fmt.Fprintf(out, "  prev: %s  nonce: %d  producer: %s  at: %s\n", blk.PrevHash, blk.Nonce, blk.Producer, blk.Timestamp)
		for _, tran := range blk.Transactions {
			fmt.Fprintf(out, "  %s -> %s: %s\n", tran.SenderName, tran.RecipientName, tran.Amount)
		}
	}

	return nil
}
