// Package models defines the core domain models for splitledger.
//
// # Ledger
//
//   - Expense: a shared cost, optionally owned by a Group
//   - LedgerEntry: one user's role on one expense, Paid (money fronted) or
//     Owes (share of the cost)
//   - Settlement: a recorded payment between two users, realised as a
//     synthetic expense with a balancing pair of entries
//
// # Derived values
//
// Transfer, MemberBalance and DebtDetail are computed from entries and never
// stored.
//
// # Design Principles
//
//  1. Money is github.com/shopspring/decimal, never float64
//  2. Relationships use ID strings instead of pointers
//  3. Entries are never mutated; balances are always recomputed from entries
package models
