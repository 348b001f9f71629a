// Package renderer produces markdown reports from a document: balance sheet,
// cash flow, schedules and account registers. Reports are plain markdown
// strings, meant to be piped through a terminal renderer.
package renderer

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/addone/moneyguru"
)

// reportBuilder accumulates markdown output.
type reportBuilder struct {
	*strings.Builder
}

// Printf formats according to a format specifier and writes to the report.
func (r *reportBuilder) Printf(format string, args ...any) {
	fmt.Fprintf(r, format, args...)
}

func typeTitle(typ moneyguru.AccountType) string {
	switch typ {
	case moneyguru.Asset:
		return "Assets"
	case moneyguru.Liability:
		return "Liabilities"
	case moneyguru.Income:
		return "Income"
	case moneyguru.Expense:
		return "Expenses"
	}
	return "Accounts"
}

// AccountsMarkdown renders the account chart: one table per account type.
// Empty types are skipped, inactive accounts are marked.
func AccountsMarkdown(doc *moneyguru.Document) string {
	r := &reportBuilder{Builder: &strings.Builder{}}
	r.Printf("# Accounts\n\n")

	for _, typ := range []moneyguru.AccountType{moneyguru.Asset, moneyguru.Liability, moneyguru.Income, moneyguru.Expense} {
		section := Header(func(w io.Writer) {
			fmt.Fprintf(w, "## %s\n\n", typeTitle(typ))
			fmt.Fprintf(w, "| Account | Currency | Group |\n")
			fmt.Fprintf(w, "|:---|:---|:---|\n")
		}).Footer(func(w io.Writer) {
			fmt.Fprintf(w, "\n")
		})
		for a := range doc.Accounts() {
			if a.Type() != typ {
				continue
			}
			name := a.DisplayName()
			if a.Inactive() {
				name += " (inactive)"
			}
			group := a.Group()
			if group == "" {
				group = "-"
			}
			section.PrintHeader(r)
			r.Printf("| %s | %s | %s |\n", name, accountCurrency(doc, a), group)
		}
		section.PrintFooter(r)
	}
	return r.String()
}

// BalancesMarkdown renders the balance sheet as of a given date: one table per
// account type, and the net worth per currency. Inactive accounts and empty
// sections are skipped.
func BalancesMarkdown(doc *moneyguru.Document, on moneyguru.Date) string {
	doc.EnsureCookedUntil(on)
	r := &reportBuilder{Builder: &strings.Builder{}}
	r.Printf("# Balance Sheet on %s\n\n", on)

	totals := make(map[string]moneyguru.Amount)
	for _, typ := range []moneyguru.AccountType{moneyguru.Asset, moneyguru.Liability} {
		ConditionalBlock(r, func(w io.Writer) bool {
			fmt.Fprintf(w, "## %s\n\n", typeTitle(typ))
			fmt.Fprintf(w, "| Account | Balance |\n")
			fmt.Fprintf(w, "|:---|---:|\n")
			written := false
			for a := range doc.Accounts() {
				if a.Type() != typ || a.Inactive() {
					continue
				}
				cur := accountCurrency(doc, a)
				balance := doc.EntriesFor(a).BalanceAsOf(on)
				if balance.IsZero() {
					balance = moneyguru.A(0, cur)
				}
				fmt.Fprintf(w, "| %s | %s |\n", a.DisplayName(), balance)
				totals[cur] = add(totals[cur], balance)
				written = true
			}
			fmt.Fprintf(w, "\n")
			return written
		})
	}

	ConditionalBlock(r, func(w io.Writer) bool {
		fmt.Fprintf(w, "## Net Worth\n\n")
		fmt.Fprintf(w, "| Currency | Net Worth |\n")
		fmt.Fprintf(w, "|:---|---:|\n")
		for _, cur := range slices.Sorted(maps.Keys(totals)) {
			fmt.Fprintf(w, "| %s | %s |\n", cur, totals[cur])
		}
		fmt.Fprintf(w, "\n")
		return len(totals) > 0
	})

	return r.String()
}

// NetWorthMarkdown renders the net worth at the end of each period covering
// the range, one column per currency.
func NetWorthMarkdown(doc *moneyguru.Document, rng moneyguru.Range, p moneyguru.Period) string {
	doc.EnsureCookedUntil(rng.To)
	r := &reportBuilder{Builder: &strings.Builder{}}
	r.Printf("# Net Worth by %s\n\n", p.Name())

	set := make(map[string]bool)
	for a := range doc.Accounts() {
		if a.Type().IsBalanceSheet() && !a.Inactive() {
			set[accountCurrency(doc, a)] = true
		}
	}
	currencies := slices.Sorted(maps.Keys(set))
	if len(currencies) == 0 {
		r.Printf("No balance sheet accounts.\n")
		return r.String()
	}

	// Header
	r.Printf("| As of |")
	for _, cur := range currencies {
		r.Printf(" %s |", cur)
	}
	r.Printf("\n")

	// Separator
	r.Printf("|:---|")
	for range currencies {
		r.Printf("---:|")
	}
	r.Printf("\n")

	for pr := range rng.Periods(p) {
		r.Printf("| %s |", pr.To)
		for _, cur := range currencies {
			total := moneyguru.A(0, cur)
			for a := range doc.Accounts() {
				if !a.Type().IsBalanceSheet() || a.Inactive() || accountCurrency(doc, a) != cur {
					continue
				}
				total = add(total, doc.EntriesFor(a).BalanceAsOf(pr.To))
			}
			r.Printf(" %s |", total)
		}
		r.Printf("\n")
	}
	return r.String()
}

// CashFlowMarkdown renders the money earned and spent over the range: one
// table per account type, and the net profit per currency. Income flows are
// credit-signed and shown positive. Accounts with no flow are skipped.
func CashFlowMarkdown(doc *moneyguru.Document, rng moneyguru.Range) string {
	doc.EnsureCookedUntil(rng.To)
	r := &reportBuilder{Builder: &strings.Builder{}}
	r.Printf("# Cash Flow from %s to %s\n\n", rng.From, rng.To)

	profit := make(map[string]moneyguru.Amount)
	for _, typ := range []moneyguru.AccountType{moneyguru.Income, moneyguru.Expense} {
		section := Header(func(w io.Writer) {
			fmt.Fprintf(w, "## %s\n\n", typeTitle(typ))
			fmt.Fprintf(w, "| Account | Flow |\n")
			fmt.Fprintf(w, "|:---|---:|\n")
		}).Footer(func(w io.Writer) {
			fmt.Fprintf(w, "\n")
		})
		for a := range doc.Accounts() {
			if a.Type() != typ || a.Inactive() {
				continue
			}
			flow := doc.EntriesFor(a).CashFlow(rng)
			if flow.IsZero() {
				continue
			}
			display := flow
			if typ.IsCredit() {
				display = flow.Neg()
			}
			section.PrintHeader(r)
			r.Printf("| %s | %s |\n", a.DisplayName(), display)
			profit[flow.Currency()] = add(profit[flow.Currency()], flow.Neg())
		}
		section.PrintFooter(r)
	}

	ConditionalBlock(r, func(w io.Writer) bool {
		fmt.Fprintf(w, "## Net Profit\n\n")
		fmt.Fprintf(w, "| Currency | Profit |\n")
		fmt.Fprintf(w, "|:---|---:|\n")
		for _, cur := range slices.Sorted(maps.Keys(profit)) {
			fmt.Fprintf(w, "| %s | %s |\n", cur, profit[cur].SignedString())
		}
		fmt.Fprintf(w, "\n")
		return len(profit) > 0
	})

	return r.String()
}

// SchedulesMarkdown renders the schedule table and the occurrences falling
// within the range.
func SchedulesMarkdown(doc *moneyguru.Document, rng moneyguru.Range) string {
	doc.EnsureCookedUntil(rng.To)
	r := &reportBuilder{Builder: &strings.Builder{}}
	r.Printf("# Schedules\n\n")

	count := 0
	for range doc.Schedules() {
		count++
	}
	if count == 0 {
		r.Printf("No schedules.\n")
		return r.String()
	}

	r.Printf("| ID | Description | Repeat | Every | Start | Stop |\n")
	r.Printf("|---:|:---|:---|---:|:---|:---|\n")
	for s := range doc.Schedules() {
		stop := "-"
		if !s.StopDate().IsZero() {
			stop = s.StopDate().String()
		}
		r.Printf("| %d | %s | %s | %d | %s | %s |\n", s.ID(), s.Ref().Description(), s.Repeat(), s.Every(), s.Start(), stop)
	}
	r.Printf("\n")

	section := Header(func(w io.Writer) {
		fmt.Fprintf(w, "## Upcoming from %s to %s\n\n", rng.From, rng.To)
		fmt.Fprintf(w, "| Date | Description | Amount |\n")
		fmt.Fprintf(w, "|:---|:---|---:|\n")
	})
	for _, t := range doc.CookedTransactions(moneyguru.In(rng)) {
		if !t.IsSpawn() {
			continue
		}
		section.PrintHeader(r)
		r.Printf("| %s | %s | %s |\n", t.Date(), t.Description(), t.Amount())
	}
	section.PrintFooter(r)
	return r.String()
}

// RegisterMarkdown renders the entries of one account over the range, with
// running balance. Reconciled entries carry a check mark next to their date.
func RegisterMarkdown(doc *moneyguru.Document, account *moneyguru.Account, rng moneyguru.Range) string {
	doc.EnsureCookedUntil(rng.To)
	r := &reportBuilder{Builder: &strings.Builder{}}
	r.Printf("# Register: %s\n\n", account.DisplayName())

	entries := doc.EntriesFor(account)
	section := Header(func(w io.Writer) {
		fmt.Fprintf(w, "| Date | Description | Transfer | Amount | Balance |\n")
		fmt.Fprintf(w, "|:---|:---|:---|---:|---:|\n")
	}).Footer(func(w io.Writer) {
		fmt.Fprintf(w, "\n")
	})
	for _, e := range entries.Entries(moneyguru.EntryIn(rng)) {
		date := e.Date().String()
		if e.Reconciled() {
			date += " ✓"
		}
		section.PrintHeader(r)
		r.Printf("| %s | %s | %s | %s | %s |\n", date, entryLabel(e), transferNames(e), e.Amount(), e.Balance())
	}
	section.PrintFooter(r)

	closing := entries.BalanceAsOf(rng.To)
	if closing.IsZero() {
		closing = moneyguru.A(0, accountCurrency(doc, account))
	}
	r.Printf("Balance on %s: %s\n", rng.To, closing)
	return r.String()
}

func entryLabel(e *moneyguru.Entry) string {
	if d := e.Description(); d != "" {
		return d
	}
	return e.Payee()
}

func transferNames(e *moneyguru.Entry) string {
	others := e.Transfer()
	if len(others) == 0 {
		return "-"
	}
	names := make([]string, 0, len(others))
	for _, a := range others {
		names = append(names, a.Name())
	}
	return strings.Join(names, ", ")
}

// Transaction renders a transaction to a one-line string.
func Transaction(t *moneyguru.Transaction) string {
	label := t.Description()
	if label == "" {
		label = t.Payee()
	}
	if label == "" {
		label = "(no description)"
	}
	suffix := ""
	if t.IsSpawn() {
		suffix = " (scheduled)"
	}
	if t.IsMCT() {
		return fmt.Sprintf("%s %s: multi-currency, %d splits%s", t.Date(), label, len(t.Splits()), suffix)
	}
	froms, tos := t.SplittedSplits()
	switch {
	case len(froms) > 0 && len(tos) > 0:
		return fmt.Sprintf("%s %s: %s from %s to %s%s", t.Date(), label, t.Amount(), sideNames(froms), sideNames(tos), suffix)
	case len(tos) > 0:
		return fmt.Sprintf("%s %s: %s to %s%s", t.Date(), label, t.Amount(), sideNames(tos), suffix)
	default:
		return fmt.Sprintf("%s %s: %s%s", t.Date(), label, t.Amount(), suffix)
	}
}

func sideNames(splits []*moneyguru.Split) string {
	names := make([]string, 0, len(splits))
	for _, s := range splits {
		if a := s.Account(); a != nil {
			names = append(names, a.Name())
		} else {
			names = append(names, "(unassigned)")
		}
	}
	return strings.Join(names, ", ")
}

// Transactions renders transactions as a numbered markdown list, keeping
// their order.
func Transactions(txns []*moneyguru.Transaction) string {
	r := &reportBuilder{Builder: &strings.Builder{}}
	r.Printf("# Transactions\n\n")
	if len(txns) == 0 {
		r.Printf("No transactions.\n")
		return r.String()
	}
	for i, t := range txns {
		r.Printf("%d. %s\n", i+1, Transaction(t))
	}
	return r.String()
}
