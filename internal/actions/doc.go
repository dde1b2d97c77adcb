// Package actions provides high-level business logic for CLI commands.
//
// Each action corresponds to a slotting command (solve, check, report)
// and orchestrates the records, model, engine and validate packages.
//
// Key patterns:
//   - Actions accept runtime.Context which provides Config, Splog and the run id
//   - Actions are stateless; everything they need is read from files each run
//   - Actions handle user interaction through the tui package
package actions
