package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/naveenspark/tally/internal/output"
	"github.com/naveenspark/tally/pkg/domain"
)

func newTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transactions"},
		Short:   "List and manage transactions",
	}
	cmd.AddCommand(
		newTxListCmd(),
		newTxShowCmd(),
		newTxAddCmd(),
		newTxEditCmd(),
		newTxRmCmd(),
	)
	return cmd
}

func parseDay(flag, s string) (time.Time, error) {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: expected YYYY-MM-DD, got %q", flag, s)
	}
	return t, nil
}

// txFilter builds a listing filter from flags. --month expands to the whole month.
func txFilter(typ, category, from, to, month string) (domain.TransactionFilter, error) {
	f := domain.TransactionFilter{
		Type:     domain.TransactionType(strings.ToLower(typ)),
		Category: category,
	}
	if month != "" {
		if from != "" || to != "" {
			return f, fmt.Errorf("--month cannot be combined with --from or --to")
		}
		m, err := time.Parse("2006-01", month)
		if err != nil {
			return f, fmt.Errorf("--month: expected YYYY-MM, got %q", month)
		}
		f.StartDate, f.EndDate = domain.MonthRange(m.Year(), m.Month())
	}
	var err error
	if from != "" {
		if f.StartDate, err = parseDay("from", from); err != nil {
			return f, err
		}
	}
	if to != "" {
		if f.EndDate, err = parseDay("to", to); err != nil {
			return f, err
		}
	}
	return f, f.Validate()
}

func newTxListCmd() *cobra.Command {
	var typ, category, from, to, month string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List transactions, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := txFilter(typ, category, from, to, month)
			if err != nil {
				return err
			}
			return withSession(cmd, func(e *env) error {
				items, err := e.client.Transactions().List(cmd.Context(), f)
				if err != nil {
					return err
				}
				return output.Print(e.out, e.cfg.OutputFormat, output.Transactions(items))
			})
		},
	}
	cmd.Flags().StringVarP(&typ, "type", "t", "", "income or expense")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category name")
	cmd.Flags().StringVar(&from, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "end date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&month, "month", "m", "", "calendar month (YYYY-MM)")
	return cmd
}

func newTxShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(e *env) error {
				tx, err := e.client.Transactions().Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return output.Print(e.out, e.cfg.OutputFormat, output.Transactions{*tx})
			})
		},
	}
}

// txFlags are shared by add and edit. On edit only flags that were set are applied.
type txFlags struct {
	typ, amount, category, date, payment, description string
}

func (f *txFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.typ, "type", "t", string(domain.Expense), "income or expense")
	cmd.Flags().StringVarP(&f.amount, "amount", "a", "", "amount, e.g. 12.50")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "category name")
	cmd.Flags().StringVarP(&f.date, "date", "d", "", "date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVarP(&f.payment, "payment", "p", "", "payment method: "+paymentList())
	cmd.Flags().StringVar(&f.description, "description", "", "free-text note")
}

func paymentList() string {
	names := make([]string, len(domain.PaymentMethods))
	for i, m := range domain.PaymentMethods {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

// apply copies set flags onto in. all forces every flag, as on add.
func (f *txFlags) apply(cmd *cobra.Command, in *domain.TransactionInput, all bool) error {
	set := func(name string) bool { return all || cmd.Flags().Changed(name) }

	if set("type") {
		in.Type = domain.TransactionType(strings.ToLower(f.typ))
	}
	if set("amount") {
		m, err := domain.ParseMoney(f.amount)
		if err != nil {
			return fmt.Errorf("--amount: %w", err)
		}
		in.Amount = m
	}
	if set("category") {
		in.Category = strings.TrimSpace(f.category)
	}
	if set("date") && f.date != "" {
		in.Date = f.date
	}
	if set("payment") {
		in.PaymentMethod = domain.PaymentMethod(strings.ToLower(f.payment))
	}
	if set("description") {
		in.Description = f.description
	}
	return in.Validate()
}

func newTxAddCmd() *cobra.Command {
	var f txFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := domain.TransactionInput{Date: time.Now().Format(domain.DateLayout)}
			if err := f.apply(cmd, &in, true); err != nil {
				return err
			}
			return withSession(cmd, func(e *env) error {
				tx, err := e.client.Transactions().Create(cmd.Context(), in)
				if err != nil {
					return err
				}
				return output.Print(e.out, e.cfg.OutputFormat, output.Transactions{*tx})
			})
		},
	}
	f.register(cmd)
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func newTxEditCmd() *cobra.Command {
	var f txFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(e *env) error {
				txs := e.client.Transactions()
				current, err := txs.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				in := current.Input()
				if err := f.apply(cmd, &in, false); err != nil {
					return err
				}
				tx, err := txs.Update(cmd.Context(), current.ID, in)
				if err != nil {
					return err
				}
				return output.Print(e.out, e.cfg.OutputFormat, output.Transactions{*tx})
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newTxRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a transaction",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(e *env) error {
				if err := e.client.Transactions().Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(e.out, "Deleted %s.\n", args[0])
				return nil
			})
		},
	}
}
