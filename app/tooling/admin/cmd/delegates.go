package cmd

import (
	"fmt"
	"net/http"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

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

var delegatesCmd = &cobra.Command{
	Use:   "delegates",
	Short: "List the delegates registered with the node.",
	RunE:  delegatesRun,
}

func init() {
	rootCmd.AddCommand(delegatesCmd)
}

func delegatesRun(cmd *cobra.Command, args []string) error {
	var ds delegates
	if err := call(http.MethodGet, "/v1/delegates/list", nil, &ds); err != nil {
		return err
	}

	printDelegates(cmd, ds)
	return nil
}

func printDelegates(cmd *cobra.Command, ds delegates) {
	fmt.Fprintln(cmd.OutOrStdout(), "Consensus:", ds.Consensus)

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tVOTES\tTOP")
	for _, d := range ds.Delegates {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%t\n", d.ID, d.Name, d.Votes, d.InTop)
	}
	tw.Flush()
}
