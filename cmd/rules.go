package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cashplan-dev/cashplan/internal/cli"
	"github.com/cashplan-dev/cashplan/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage natural-language payment term rules",
	RunE:  runRulesList,
}

var rulesApplyCmd = &cobra.Command{
	Use:   "apply <rule text>",
	Short: `Apply a rule like "Acme Corp: flex delay 10 days"`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRulesApply,
}

var rulesRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Retry every pending rule",
	RunE:  runRulesRun,
}

func init() {
	rulesCmd.AddCommand(rulesApplyCmd)
	rulesCmd.AddCommand(rulesRunCmd)
	rootCmd.AddCommand(rulesCmd)
}

func runRulesList(_ *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	changes, err := st.ListRules()
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		fmt.Println("\n  No rules recorded yet. Try `cashplan rules apply \"Acme Corp: flex delay 10 days\"`.")
		return nil
	}

	rows := make([][]string, 0, len(changes))
	for _, rc := range changes {
		state := "pending"
		if rc.Applied {
			state = "applied"
		}
		rows = append(rows, []string{
			cli.FormatDateTime(rc.CreatedAt),
			rc.Text,
			state,
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Rule changes (%d)", len(changes)),
		Headers: []string{"Created", "Rule", "State"},
		Rows:    rows,
	}))
	return nil
}

func runRulesApply(_ *cobra.Command, args []string) error {
	text := strings.Join(args, " ")

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	applied, err := rules.New(st, log).Apply(text)
	if err != nil {
		return err
	}
	if applied {
		fmt.Printf("  Applied: %s\n", text)
	} else {
		fmt.Printf("  Recorded but not applied: %s\n", text)
		fmt.Println("  (unknown supplier or unparseable rule; `cashplan rules run` retries pending rules)")
	}
	return nil
}

func runRulesRun(_ *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	applied, failed, err := rules.New(st, log).ApplyPending()
	if err != nil {
		return err
	}
	fmt.Printf("  Pending rules: %d applied, %d still pending\n", applied, failed)
	return nil
}
