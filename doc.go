// Package vdatax computes the capital gains tax due on virtual digital asset
// transactions under a strict regime: a flat rate on gains, no set-off of
// losses and mandatory first-in-first-out cost basis.
//
// The package is organized as a pipeline:
//   - Validation: a Validator turns raw records (decoded JSON, import
//     adapters) into Transactions, collecting every field error.
//   - Inventory: per asset FIFO queues of acquisition lots, consumed on
//     disposal.
//   - Computation: Compute replays transactions in date order and produces a
//     TaxReport with one audit line per disposal or income, each classified
//     by the law map (see Classify).
//   - Simulation: Simulate re-aggregates a report's line profits under an
//     alternate Scenario (rate, loss set-off) without replaying FIFO.
//
// Computation is a pure function of its inputs: it reads no configuration,
// performs no I/O and never logs. All arithmetic is exact decimal arithmetic.
//
// This package is the foundation of the `vdt` command-line tool.
package vdatax
