package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/addone/moneyguru"
)

func day(y int, m time.Month, d int) moneyguru.Date { return moneyguru.NewDate(y, m, d) }

func eur(v float64) moneyguru.Amount { return moneyguru.A(v, "EUR") }
func usd(v float64) moneyguru.Amount { return moneyguru.A(v, "USD") }

var january = moneyguru.NewRange(day(2025, time.January, 1), day(2025, time.January, 31))

func mustAccount(t *testing.T, doc *moneyguru.Document, name string, typ moneyguru.AccountType, currency string) *moneyguru.Account {
	t.Helper()
	a, err := doc.AddAccount(name, typ, currency)
	if err != nil {
		t.Fatalf("AddAccount(%q): %v", name, err)
	}
	return a
}

// reportDocument builds a small ledger: a salary coming in, groceries and a
// weekly rent schedule going out, and a dollar brokerage deposit.
func reportDocument(t *testing.T) *moneyguru.Document {
	t.Helper()
	doc := moneyguru.NewDocument()

	checking := mustAccount(t, doc, "Checking", moneyguru.Asset, "EUR")
	savings := mustAccount(t, doc, "Savings", moneyguru.Asset, "EUR")
	broker := mustAccount(t, doc, "Broker", moneyguru.Asset, "USD")
	salary := mustAccount(t, doc, "Salary", moneyguru.Income, "EUR")
	groceries := mustAccount(t, doc, "Groceries", moneyguru.Expense, "EUR")
	rent := mustAccount(t, doc, "Rent", moneyguru.Expense, "EUR")

	txns := []*moneyguru.Transaction{
		moneyguru.NewSimpleTransaction(day(2025, time.January, 6), "salary", salary, checking, eur(2000)),
		moneyguru.NewSimpleTransaction(day(2025, time.January, 10), "market", checking, groceries, eur(50)),
		moneyguru.NewSimpleTransaction(day(2025, time.January, 12), "stash", checking, savings, eur(300)),
		moneyguru.NewSimpleTransaction(day(2025, time.January, 20), "wire", nil, broker, usd(500)),
	}
	for _, tx := range txns {
		if err := doc.AddTransaction(tx); err != nil {
			t.Fatalf("AddTransaction(%q): %v", tx.Description(), err)
		}
	}

	ref := moneyguru.NewSimpleTransaction(day(2025, time.January, 7), "rent", checking, rent, eur(100))
	if _, err := doc.NewSchedule(ref, moneyguru.RepeatWeekly, 1, moneyguru.Date{}); err != nil {
		t.Fatalf("NewSchedule: %v", err)
	}

	var market *moneyguru.Entry
	for _, e := range doc.EntriesFor(checking).Entries() {
		if e.Date() == day(2025, time.January, 10) {
			market = e
		}
	}
	if market == nil {
		t.Fatal("no checking entry on 2025-01-10")
	}
	if err := doc.ToggleReconciled(market); err != nil {
		t.Fatalf("ToggleReconciled: %v", err)
	}
	return doc
}

func TestAccountsMarkdown(t *testing.T) {
	doc := reportDocument(t)

	group := "Banks"
	if err := doc.ChangeAccounts([]*moneyguru.Account{doc.FindAccount("Savings")}, &moneyguru.AccountPatch{Group: &group}); err != nil {
		t.Fatalf("ChangeAccounts: %v", err)
	}
	inactive := true
	if err := doc.ChangeAccounts([]*moneyguru.Account{doc.FindAccount("Broker")}, &moneyguru.AccountPatch{Inactive: &inactive}); err != nil {
		t.Fatalf("ChangeAccounts: %v", err)
	}

	got := AccountsMarkdown(doc)
	want := `# Accounts

## Assets

| Account | Currency | Group |
|:---|:---|:---|
| Checking | EUR | - |
| Savings | EUR | Banks |
| Broker (inactive) | USD | - |

## Income

| Account | Currency | Group |
|:---|:---|:---|
| Salary | EUR | - |

## Expenses

| Account | Currency | Group |
|:---|:---|:---|
| Groceries | EUR | - |
| Rent | EUR | - |

`
	if got != want {
		t.Errorf("AccountsMarkdown:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestBalancesMarkdown(t *testing.T) {
	doc := reportDocument(t)

	got := BalancesMarkdown(doc, day(2025, time.January, 31))
	want := `# Balance Sheet on 2025-01-31

## Assets

| Account | Balance |
|:---|---:|
| Checking | €1,250.00 |
| Savings | €300.00 |
| Broker | $500.00 |

## Net Worth

| Currency | Net Worth |
|:---|---:|
| EUR | €1,550.00 |
| USD | $500.00 |

`
	if got != want {
		t.Errorf("BalancesMarkdown:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestBalancesMarkdownEmptyDocument(t *testing.T) {
	doc := moneyguru.NewDocument()

	got := BalancesMarkdown(doc, day(2025, time.January, 31))
	want := "# Balance Sheet on 2025-01-31\n\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNetWorthMarkdown(t *testing.T) {
	doc := reportDocument(t)

	rng := moneyguru.NewRange(day(2025, time.January, 1), day(2025, time.February, 28))
	got := NetWorthMarkdown(doc, rng, moneyguru.Monthly)
	want := `# Net Worth by month

| As of | EUR | USD |
|:---|---:|---:|
| 2025-01-31 | €1,550.00 | $500.00 |
| 2025-02-28 | €1,150.00 | $500.00 |
`
	if got != want {
		t.Errorf("NetWorthMarkdown:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestNetWorthMarkdownNoAccounts(t *testing.T) {
	doc := moneyguru.NewDocument()

	got := NetWorthMarkdown(doc, january, moneyguru.Monthly)
	if !strings.Contains(got, "No balance sheet accounts.") {
		t.Errorf("got %q, want a no-accounts notice", got)
	}
}

func TestCashFlowMarkdown(t *testing.T) {
	doc := reportDocument(t)

	got := CashFlowMarkdown(doc, january)
	want := `# Cash Flow from 2025-01-01 to 2025-01-31

## Income

| Account | Flow |
|:---|---:|
| Salary | €2,000.00 |

## Expenses

| Account | Flow |
|:---|---:|
| Groceries | €50.00 |
| Rent | €400.00 |

## Net Profit

| Currency | Profit |
|:---|---:|
| EUR | +€1,550.00 |

`
	if got != want {
		t.Errorf("CashFlowMarkdown:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestCashFlowMarkdownQuietRange(t *testing.T) {
	doc := reportDocument(t)

	// Nothing happens in 2024: no sections at all.
	rng := moneyguru.NewRange(day(2024, time.June, 1), day(2024, time.June, 30))
	got := CashFlowMarkdown(doc, rng)
	want := "# Cash Flow from 2024-06-01 to 2024-06-30\n\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSchedulesMarkdown(t *testing.T) {
	doc := reportDocument(t)

	got := SchedulesMarkdown(doc, january)
	want := `# Schedules

| ID | Description | Repeat | Every | Start | Stop |
|---:|:---|:---|---:|:---|:---|
| 1 | rent | weekly | 1 | 2025-01-07 | - |

## Upcoming from 2025-01-01 to 2025-01-31

| Date | Description | Amount |
|:---|:---|---:|
| 2025-01-07 | rent | €100.00 |
| 2025-01-14 | rent | €100.00 |
| 2025-01-21 | rent | €100.00 |
| 2025-01-28 | rent | €100.00 |
`
	if got != want {
		t.Errorf("SchedulesMarkdown:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestSchedulesMarkdownEmptyDocument(t *testing.T) {
	doc := moneyguru.NewDocument()

	got := SchedulesMarkdown(doc, january)
	want := "# Schedules\n\nNo schedules.\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRegisterMarkdown(t *testing.T) {
	doc := reportDocument(t)
	checking := doc.FindAccount("Checking")

	got := RegisterMarkdown(doc, checking, january)
	want := `# Register: Checking

| Date | Description | Transfer | Amount | Balance |
|:---|:---|:---|---:|---:|
| 2025-01-06 | salary | Salary | €2,000.00 | €2,000.00 |
| 2025-01-07 | rent | Rent | -€100.00 | €1,900.00 |
| 2025-01-10 ✓ | market | Groceries | -€50.00 | €1,850.00 |
| 2025-01-12 | stash | Savings | -€300.00 | €1,550.00 |
| 2025-01-14 | rent | Rent | -€100.00 | €1,450.00 |
| 2025-01-21 | rent | Rent | -€100.00 | €1,350.00 |
| 2025-01-28 | rent | Rent | -€100.00 | €1,250.00 |

Balance on 2025-01-31: €1,250.00
`
	if got != want {
		t.Errorf("RegisterMarkdown:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestRegisterMarkdownQuietRange(t *testing.T) {
	doc := reportDocument(t)
	savings := doc.FindAccount("Savings")

	rng := moneyguru.NewRange(day(2024, time.June, 1), day(2024, time.June, 30))
	got := RegisterMarkdown(doc, savings, rng)
	want := "# Register: Savings\n\nBalance on 2024-06-30: €0.00\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTransactionLine(t *testing.T) {
	doc := moneyguru.NewDocument()
	checking := mustAccount(t, doc, "Checking", moneyguru.Asset, "EUR")
	groceries := mustAccount(t, doc, "Groceries", moneyguru.Expense, "EUR")
	broker := mustAccount(t, doc, "Broker", moneyguru.Asset, "USD")

	market := moneyguru.NewSimpleTransaction(day(2025, time.January, 10), "market", checking, groceries, eur(50))

	acme := moneyguru.NewSimpleTransaction(day(2025, time.January, 10), "", checking, groceries, eur(50))
	payee := "ACME"
	if err := acme.Change(&moneyguru.TransactionPatch{Payee: &payee}); err != nil {
		t.Fatalf("Change: %v", err)
	}

	wire := moneyguru.NewSimpleTransaction(day(2025, time.January, 20), "wire", nil, broker, usd(500))

	deposit := moneyguru.NewTransaction(day(2025, time.January, 5))
	deposit.AddSplit(moneyguru.NewSplit(checking, eur(25)))

	fx := moneyguru.NewTransaction(day(2025, time.January, 5))
	fx.AddSplit(moneyguru.NewSplit(checking, eur(-10)))
	fx.AddSplit(moneyguru.NewSplit(broker, usd(11)))
	desc := "fx"
	if err := fx.Change(&moneyguru.TransactionPatch{Description: &desc}); err != nil {
		t.Fatalf("Change: %v", err)
	}

	tests := []struct {
		name string
		txn  *moneyguru.Transaction
		want string
	}{
		{"simple", market, "2025-01-10 market: €50.00 from Checking to Groceries"},
		{"payee fallback", acme, "2025-01-10 ACME: €50.00 from Checking to Groceries"},
		{"unassigned side", wire, "2025-01-20 wire: $500.00 from (unassigned) to Broker"},
		{"single split", deposit, "2025-01-05 (no description): €25.00 to Checking"},
		{"multi currency", fx, "2025-01-05 fx: multi-currency, 2 splits"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Transaction(test.txn); got != test.want {
				t.Errorf("got %q, want %q", got, test.want)
			}
		})
	}
}

func TestTransactionLineSpawn(t *testing.T) {
	doc := reportDocument(t)

	var spawn *moneyguru.Transaction
	for _, txn := range doc.CookedTransactions(moneyguru.In(january)) {
		if txn.IsSpawn() {
			spawn = txn
			break
		}
	}
	if spawn == nil {
		t.Fatal("no spawn in January")
	}
	want := "2025-01-07 rent: €100.00 from Checking to Rent (scheduled)"
	if got := Transaction(spawn); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTransactionsList(t *testing.T) {
	doc := reportDocument(t)

	var txns []*moneyguru.Transaction
	firstWeek := moneyguru.NewRange(day(2025, 1, 6), day(2025, 1, 10))
	for _, txn := range doc.CookedTransactions(moneyguru.In(firstWeek)) {
		txns = append(txns, txn)
	}

	want := `# Transactions

1. 2025-01-06 salary: €2,000.00 from Salary to Checking
2. 2025-01-07 rent: €100.00 from Checking to Rent (scheduled)
3. 2025-01-10 market: €50.00 from Checking to Groceries
`
	if got := Transactions(txns); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestTransactionsListEmpty(t *testing.T) {
	want := "# Transactions\n\nNo transactions.\n"
	if got := Transactions(nil); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
