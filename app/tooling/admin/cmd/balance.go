package cmd

import (
	"fmt"
	"net/http"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

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

var balanceAccount string

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print the balance for an account, the key's account by default.",
	RunE:  balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
	balanceCmd.Flags().StringVarP(&balanceAccount, "of", "o", "", "Account or name to look up instead of the key's account.")
}

func balanceRun(cmd *cobra.Command, args []string) error {
	account := balanceAccount
	if account == "" {
		privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
		if err != nil {
			return err
		}
		account = database.PublicKeyToAccount(privateKey.PublicKey)
	}

	var bals balances
	if err := call(http.MethodGet, "/v1/accounts/list/"+account, nil, &bals); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "For Account:", account)
	for _, bal := range bals.Balances {
		fmt.Fprintln(cmd.OutOrStdout(), bal.Balance.String())
	}

	return nil
}
