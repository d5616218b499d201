package cmd

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	from   string
	to     string
	amount string
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Submit a transfer to the node's mempool.",
	RunE:  sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&from, "from", "f", "", "Sending account or name, the key's account by default.")
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Receiving account or name.")
	sendCmd.Flags().StringVarP(&amount, "amount", "v", "", "Amount to send.")
}

func sendRun(cmd *cobra.Command, args []string) error {
	if to == "" {
		return errors.New("a recipient is required")
	}

	value, err := decimal.NewFromString(amount)
	if err != nil {
		return fmt.Errorf("parsing amount %q: %w", amount, err)
	}

	sender := from
	if sender == "" {
		privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
		if err != nil {
			return err
		}
		sender = database.PublicKeyToAccount(privateKey.PublicKey)
	}

	tx := struct {
		Sender    string          `json:"sender"`
		Recipient string          `json:"recipient"`
		Amount    decimal.Decimal `json:"amount"`
	}{
		Sender:    sender,
		Recipient: to,
		Amount:    value,
	}

	var resp struct {
		Status string `json:"status"`
	}
	if err := call(http.MethodPost, "/v1/tx/submit", tx, &resp); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), resp.Status)
	return nil
}
