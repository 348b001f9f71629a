package moneyguru

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// The document file is JSONL: one command object per line, human-readable
// and git-friendly. The first line is the "doc" command carrying the
// format version, the document id and the settings; then come groups,
// accounts, real transactions and schedules, in that order. Accounts are
// referenced by name everywhere else, so account lines must precede the
// lines using them.
//
// Spawns are never persisted: they are regenerated from the schedule
// lines. A schedule's materialized occurrences are stored as a date list
// and rebound on decode to the transaction at that date.

// documentFormatVersion is the current file format version. Decoding
// rejects files from a newer format.
const documentFormatVersion = 1

const (
	cmdDoc         = "doc"
	cmdGroup       = "group"
	cmdAccount     = "account"
	cmdTransaction = "transaction"
	cmdSchedule    = "schedule"
)

// encodeCommand writes one JSONL line: the command discriminator first,
// then the object's own fields merged in flat.
func encodeCommand(w io.Writer, command string, v any) error {
	var line jsonObjectWriter
	line.Append("command", command)
	line.EmbedFrom(v)
	data, err := line.MarshalJSON()
	if err != nil {
		return fmt.Errorf("persist error: cannot marshal %s line: %w", command, err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("persist error: cannot write %s line: %w", command, err)
	}
	return nil
}

// EncodeDocument writes the snapshot to the writer in JSONL format.
func EncodeDocument(w io.Writer, snap *Snapshot) error {
	var head jsonObjectWriter
	head.Append("command", cmdDoc)
	head.Append("version", documentFormatVersion)
	head.Optional("id", snap.DocumentID)
	head.EmbedFrom(snap.Properties)
	data, err := head.MarshalJSON()
	if err != nil {
		return fmt.Errorf("persist error: cannot marshal doc line: %w", err)
	}
	if _, err := fmt.Fprintf(w, "%s\n\n", data); err != nil {
		return fmt.Errorf("persist error: cannot write doc line: %w", err)
	}

	for _, g := range snap.Groups {
		if err := encodeCommand(w, cmdGroup, g); err != nil {
			return err
		}
	}
	for _, a := range snap.Accounts {
		if err := encodeCommand(w, cmdAccount, a); err != nil {
			return err
		}
	}
	for _, t := range snap.Transactions {
		if err := encodeCommand(w, cmdTransaction, t); err != nil {
			return err
		}
	}
	for _, s := range snap.Schedules {
		if err := encodeCommand(w, cmdSchedule, s); err != nil {
			return err
		}
	}
	return nil
}

// jsplit and jtxn are the decode-side shapes of split and transaction
// lines. Encoding goes through the models' own MarshalJSON, so the tags
// here must mirror those key names.
type jsplit struct {
	Account            string `json:"account"`
	Amount             Amount `json:"amount"`
	Memo               string `json:"memo"`
	Reference          string `json:"reference"`
	ReconciliationDate Date   `json:"reconciliation_date"`
}

type jtxn struct {
	Date        Date     `json:"date"`
	Description string   `json:"description"`
	Payee       string   `json:"payee"`
	Checkno     string   `json:"checkno"`
	Notes       string   `json:"notes"`
	Position    int      `json:"position"`
	MTime       int64    `json:"mtime"`
	Splits      []jsplit `json:"splits"`
}

type jschedule struct {
	ID           int64      `json:"id"`
	Ref          jtxn       `json:"ref"`
	Repeat       RepeatType `json:"repeat"`
	Every        int        `json:"every"`
	Stop         Date       `json:"stop"`
	Suppressed   []Date     `json:"suppressed"`
	Materialized []Date     `json:"materialized"`
}

// decoder carries the per-stream decode state: the snapshot being built
// and the name index over decoded accounts.
type decoder struct {
	snap     *Snapshot
	accounts map[string]*Account
	claimed  map[*Transaction]bool
	sawDoc   bool
}

// DecodeDocument reads a JSONL document stream into a snapshot. The result
// goes live through Document.RestoreSnapshot.
func DecodeDocument(r io.Reader) (*Snapshot, error) {
	dec := &decoder{
		snap:     &Snapshot{Properties: DefaultProperties()},
		accounts: make(map[string]*Account),
		claimed:  make(map[*Transaction]bool),
	}
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		if err := dec.decodeLine(line, lineno); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("parse error: cannot read input: %w", err)
	}
	if !dec.sawDoc {
		return nil, fmt.Errorf("parse error: not a document file: missing the %q line", cmdDoc)
	}
	return dec.snap, nil
}

func (dec *decoder) decodeLine(line []byte, lineno int) error {
	var identifier struct {
		Command string `json:"command"`
	}
	if err := json.Unmarshal(line, &identifier); err != nil {
		return fmt.Errorf("parse error line %d: not a correct json: %w", lineno, err)
	}
	if !dec.sawDoc && identifier.Command != cmdDoc {
		return fmt.Errorf("parse error line %d: the first line must be the %q command, got %q", lineno, cmdDoc, identifier.Command)
	}
	switch identifier.Command {
	case cmdDoc:
		return dec.decodeDoc(line, lineno)
	case cmdGroup:
		return dec.decodeGroup(line, lineno)
	case cmdAccount:
		return dec.decodeAccount(line, lineno)
	case cmdTransaction:
		return dec.decodeTransaction(line, lineno)
	case cmdSchedule:
		return dec.decodeSchedule(line, lineno)
	default:
		return fmt.Errorf("parse error line %d: unknown command %q", lineno, identifier.Command)
	}
}

func (dec *decoder) decodeDoc(line []byte, lineno int) error {
	if dec.sawDoc {
		return fmt.Errorf("parse error line %d: duplicate %q line", lineno, cmdDoc)
	}
	def := DefaultProperties()
	jd := struct {
		Version         int    `json:"version"`
		ID              string `json:"id"`
		DefaultCurrency string `json:"default_currency"`
		FirstWeekday    int    `json:"first_weekday"`
		AheadMonths     int    `json:"ahead_months"`
		YearStartMonth  int    `json:"year_start_month"`
	}{
		Version:         documentFormatVersion,
		DefaultCurrency: def.DefaultCurrency,
		FirstWeekday:    int(def.FirstWeekday),
		AheadMonths:     def.AheadMonths,
		YearStartMonth:  int(def.YearStartMonth),
	}
	if err := json.Unmarshal(line, &jd); err != nil {
		return fmt.Errorf("parse error line %d: invalid doc line: %w", lineno, err)
	}
	if jd.Version > documentFormatVersion {
		return fmt.Errorf("parse error line %d: file format version %d is newer than the supported %d", lineno, jd.Version, documentFormatVersion)
	}
	if jd.FirstWeekday < 0 || jd.FirstWeekday > 6 {
		return fmt.Errorf("parse error line %d: first_weekday must be within 0..6, got %d", lineno, jd.FirstWeekday)
	}
	if jd.YearStartMonth < 1 || jd.YearStartMonth > 12 {
		return fmt.Errorf("parse error line %d: year_start_month must be within 1..12, got %d", lineno, jd.YearStartMonth)
	}
	dec.snap.DocumentID = jd.ID
	dec.snap.Properties = Properties{
		DefaultCurrency: jd.DefaultCurrency,
		FirstWeekday:    time.Weekday(jd.FirstWeekday),
		AheadMonths:     jd.AheadMonths,
		YearStartMonth:  time.Month(jd.YearStartMonth),
	}
	dec.sawDoc = true
	return nil
}

func (dec *decoder) decodeGroup(line []byte, lineno int) error {
	g := new(Group)
	if err := json.Unmarshal(line, g); err != nil {
		return fmt.Errorf("parse error line %d: invalid group line: %w", lineno, err)
	}
	dec.snap.Groups = append(dec.snap.Groups, g)
	return nil
}

func (dec *decoder) decodeAccount(line []byte, lineno int) error {
	a := new(Account)
	if err := json.Unmarshal(line, a); err != nil {
		return fmt.Errorf("parse error line %d: invalid account line: %w", lineno, err)
	}
	key := accountKey(a.name)
	if key == "" {
		return fmt.Errorf("parse error line %d: account line without a name", lineno)
	}
	if _, exists := dec.accounts[key]; exists {
		return fmt.Errorf("parse error line %d: account %q is already defined", lineno, a.name)
	}
	dec.accounts[key] = a
	dec.snap.Accounts = append(dec.snap.Accounts, a)
	return nil
}

func (dec *decoder) decodeTransaction(line []byte, lineno int) error {
	var jt jtxn
	if err := json.Unmarshal(line, &jt); err != nil {
		return fmt.Errorf("parse error line %d: invalid transaction line: %w", lineno, err)
	}
	t, err := dec.buildTransaction(jt, lineno)
	if err != nil {
		return err
	}
	dec.snap.Transactions = append(dec.snap.Transactions, t)
	return nil
}

func (dec *decoder) decodeSchedule(line []byte, lineno int) error {
	var js jschedule
	if err := json.Unmarshal(line, &js); err != nil {
		return fmt.Errorf("parse error line %d: invalid schedule line: %w", lineno, err)
	}
	if js.Every < 1 {
		return fmt.Errorf("parse error line %d: schedule interval must be at least 1, got %d", lineno, js.Every)
	}
	ref, err := dec.buildTransaction(js.Ref, lineno)
	if err != nil {
		return err
	}
	s := NewRecurrence(ref, js.Repeat, js.Every)
	s.id = js.ID
	s.stop = js.Stop
	for _, date := range js.Suppressed {
		s.suppressed[date] = true
	}
	for _, date := range js.Materialized {
		if t := dec.claimTransactionAt(date); t != nil {
			s.materialized[date] = t
		} else {
			s.suppressed[date] = true
		}
	}
	dec.snap.Schedules = append(dec.snap.Schedules, s)
	return nil
}

// claimTransactionAt binds a materialized date to the first decoded
// transaction on that date not already claimed by a schedule.
func (dec *decoder) claimTransactionAt(date Date) *Transaction {
	for _, t := range dec.snap.Transactions {
		if t.date == date && !dec.claimed[t] {
			dec.claimed[t] = true
			return t
		}
	}
	return nil
}

func (dec *decoder) buildTransaction(jt jtxn, lineno int) (*Transaction, error) {
	if jt.Date.IsZero() {
		return nil, fmt.Errorf("parse error line %d: transaction without a date", lineno)
	}
	t := &Transaction{
		date:        jt.Date,
		description: jt.Description,
		payee:       jt.Payee,
		checkno:     jt.Checkno,
		notes:       jt.Notes,
		position:    jt.Position,
	}
	if jt.MTime != 0 {
		t.mtime = time.Unix(jt.MTime, 0)
	}
	for _, jsp := range jt.Splits {
		s := &Split{
			amount:             jsp.Amount,
			memo:               jsp.Memo,
			reference:          jsp.Reference,
			reconciliationDate: jsp.ReconciliationDate,
		}
		if name := strings.TrimSpace(jsp.Account); name != "" {
			account, ok := dec.accounts[accountKey(name)]
			if !ok {
				return nil, fmt.Errorf("parse error line %d: split references unknown account %q", lineno, name)
			}
			s.account = account
		}
		t.splits = append(t.splits, s)
	}
	return t, nil
}

// accountKey normalizes an account name for lookup, matching the registry's
// case-insensitive name rules.
func accountKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SaveDocument writes the snapshot to a file.
func SaveDocument(filename string, snap *Snapshot) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("persist error: cannot create file %q: %w", filename, err)
	}
	defer f.Close()
	log.Printf("save-document name=%q accounts=%d transactions=%d schedules=%d",
		filename, len(snap.Accounts), len(snap.Transactions), len(snap.Schedules))
	if err := EncodeDocument(f, snap); err != nil {
		return err
	}
	return f.Close()
}

// LoadDocument reads a document file into a snapshot.
func LoadDocument(filename string) (*Snapshot, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("load error: cannot open file %q: %w", filename, err)
	}
	defer f.Close()
	snap, err := DecodeDocument(f)
	if err != nil {
		return nil, fmt.Errorf("load error in %q: %w", filename, err)
	}
	log.Printf("load-document name=%q accounts=%d transactions=%d schedules=%d",
		filename, len(snap.Accounts), len(snap.Transactions), len(snap.Schedules))
	return snap, nil
}
