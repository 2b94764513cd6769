package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iho/caixa/internal/app"
	"github.com/iho/caixa/internal/domain"
	"github.com/iho/caixa/internal/usecase"
)

func newRootCmd(open opener) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "caixa",
		Short:         "Personal cashbook",
		Long:          `Record income and expenses, follow the month's balance and manage backups.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(
		newAddCmd(open),
		newSummaryCmd(open),
		newChartCmd(open),
		newExportCmd(open),
		newImportCmd(open),
		newResetCmd(open),
	)

	return rootCmd
}

func newAddCmd(open opener) *cobra.Command {
	var description, category string

	cmd := &cobra.Command{
		Use:   "add <income|expense> <amount>",
		Short: "Record a transaction",
		Example: `  caixa add income 1500 -d "Salário" -c Trabalho
  caixa add saida 87,35 -d Mercado -c Casa`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := domain.ParseType(args[0])
			if err != nil {
				return err
			}
			amount, err := domain.ParseAmount(args[1])
			if err != nil {
				return err
			}

			return withApp(cmd.Context(), open, func(a *app.App) error {
				added, err := a.Cashbook.Add(cmd.Context(), usecase.AddTransactionInput{
					Description: description,
					Category:    category,
					Amount:      amount,
					Type:        t,
				})
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Adicionado #%d: %s\n", added.ID, transactionLine(added, a.Clock.Location()))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Transaction description")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Transaction category")

	return cmd
}

func newSummaryCmd(open opener) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show this month's KPIs and the latest transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), open, func(a *app.App) error {
				renderSummary(cmd.OutOrStdout(), a.Cashbook.Dashboard(cmd.Context(), limit))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of recent transactions (default from CAIXA_RECENT_LIMIT)")

	return cmd
}

func newChartCmd(open opener) *cobra.Command {
	var height int

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Plot this month's daily balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if height < 2 {
				return fmt.Errorf("height must be at least 2, got %d", height)
			}
			return withApp(cmd.Context(), open, func(a *app.App) error {
				renderChart(cmd.OutOrStdout(), a.Cashbook.Dashboard(cmd.Context(), 0).Series, height)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&height, "height", 10, "Chart height in rows")

	return cmd
}

func newExportCmd(open opener) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a backup file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), open, func(a *app.App) error {
				file, err := a.Cashbook.Export(cmd.Context())
				if err != nil {
					return err
				}

				path := filepath.Join(dir, file.Name)
				if err := os.WriteFile(path, file.Data, 0o644); err != nil {
					return fmt.Errorf("failed to write backup: %w", err)
				}

				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "Directory for the backup file")

	return cmd
}

func newImportCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace every transaction with the content of a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			blob, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			return withApp(cmd.Context(), open, func(a *app.App) error {
				result, err := a.Cashbook.Import(cmd.Context(), blob)
				if err != nil {
					return fmt.Errorf("backup rejected: %w", err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Importadas %d transações (%d substituídas)\n", result.Imported, result.Replaced)
				return nil
			})
		},
	}
}

func newResetCmd(open opener) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), open, func(a *app.App) error {
				if !yes {
					count := a.Cashbook.Dashboard(cmd.Context(), 0).Count
					fmt.Fprintf(cmd.OutOrStdout(), "Apagar %d transações? [s/N] ", count)

					if !confirmed(bufio.NewReader(cmd.InOrStdin())) {
						fmt.Fprintln(cmd.OutOrStdout(), "Cancelado")
						return nil
					}
				}

				discarded, err := a.Cashbook.Reset(cmd.Context())
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%d transações apagadas\n", discarded)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func confirmed(r *bufio.Reader) bool {
	answer, _ := r.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "s", "sim", "y", "yes":
		return true
	}
	return false
}
