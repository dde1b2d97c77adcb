// Package config manages slotting configuration.
//
// Values are layered, later layers winning:
//   - Built-in defaults
//   - The YAML config file (--config, ./slotting.yaml or ~/.slotting/config.yaml)
//   - SLOTTING_* environment variables (solver.workers is SLOTTING_SOLVER_WORKERS)
//   - Command-line flags bound with BindFlag
package config
