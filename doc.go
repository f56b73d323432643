// Package brokerage computes the realized profit of brokerage portfolios
// from their raw transaction history.
//
// The pipeline starts from four flat record streams: securities,
// transactions, per-transaction cash flows, and cash-flow events (coupons,
// dividends, taxes, redemptions, derivative settlements). From those it
// builds, per security:
//
//   - matched lots, pairing opening and closing trades first-in-first-out
//     (MatchLots),
//   - income attribution, splitting each payment across the lots that held
//     the security when it was paid (AttributeInterest),
//   - a daily mark-to-market ledger for derivative contracts (MarkToMarket),
//   - the profit figures themselves, converted into a single reporting
//     currency at realization-date exchange rates (CalculateProfit),
//   - a money-weighted annualized return from the dated cash-flow series
//     (XIRR).
//
// All monetary amounts are exact decimals; nothing in the pipeline rounds
// until a value is formatted for display. Records are persisted as JSON
// Lines, one self-describing record per line, so a book file can be
// inspected, diffed and merged with ordinary text tools.
package brokerage
