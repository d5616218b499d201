package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

var (
	delegateID uint64
	votes      uint64
)

var voteCmd = &cobra.Command{
	Use:   "vote",
	Short: "Cast votes for a delegate.",
	RunE:  voteRun,
}

func init() {
	rootCmd.AddCommand(voteCmd)
	voteCmd.Flags().Uint64VarP(&delegateID, "delegate", "d", 0, "Id of the delegate.")
	voteCmd.Flags().Uint64VarP(&votes, "votes", "n", 1, "Number of votes to cast.")
}

func voteRun(cmd *cobra.Command, args []string) error {
	nv := struct {
		DelegateID uint64 `json:"delegate_id"`
		Votes      uint64 `json:"votes"`
	}{
		DelegateID: delegateID,
		Votes:      votes,
	}

	var ds delegates
	if err := call(http.MethodPost, "/v1/delegates/vote", nv, &ds); err != nil {
		return err
	}

	printDelegates(cmd, ds)
	return nil
}
