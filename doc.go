// Package moneyguru implements the core ledger engine of a personal-finance
// document: accounts, double-entry transactions, recurring schedules, and an
// undo/redo history for a single open document.
//
// The core functionalities include:
//   - Exact Money: currency-tagged amounts with exact decimal arithmetic,
//     where only the zero amount is currency-agnostic.
//   - Double-Entry Transactions: ordered splits that must sum to zero per
//     currency, with automatic balancing for single-currency transactions
//     and explicit, rate-based balancing for multi-currency ones.
//   - Recurring Schedules: repeat rules projected into virtual "spawn"
//     transactions over a date window, with per-occurrence exceptions
//     (suppressed or materialized into real transactions).
//   - Cooking: the incremental merge of real transactions and spawns into a
//     date-ordered, balance-annotated view consumed by presentation code.
//   - Undo/Redo: composite mutations recorded as invertible actions that
//     splice the very same entities back in place, so references held
//     outside the engine stay valid across undo and redo.
//
// The Document type orchestrates every mutation and owns the account,
// transaction and schedule lists. Persistence encoding, rate retrieval and
// scope prompting are collaborators behind small interfaces; the engine
// itself performs no I/O.
//
// This package serves as the foundational logic for the `mg` command-line
// tool.
package moneyguru
