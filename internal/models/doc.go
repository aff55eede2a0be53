// Package models defines the domain models for SplitFree.
//
// # Remote models
//
// Groups, members, expenses and balances are owned by the remote SplitFree
// API. Their shapes follow that API's JSON exactly:
//   - User: the signed-in account (GET /auth/get-user/)
//   - Member: a group member, identified by a numeric id
//   - Group: a group and its members
//   - Expense: a persisted expense with its split detail
//   - Balance: a server-computed "who owes whom" row
//
// # Local models
//
// The BFF persists only what the remote API does not:
//   - Draft: an expense being composed or edited, with its allocation
//   - Session: a signed-in browser session and the remote token it acts with
//
// Money is always shopspring/decimal; the remote API sends amounts either as
// JSON strings or numbers and decimal accepts both.
package models
