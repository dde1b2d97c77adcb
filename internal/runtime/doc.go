// Package runtime provides the execution context for slotting commands.
//
// It carries the shared dependencies actions need: the decoded
// configuration, the console/file logger and the run identifier that ties
// log lines, checkpoints and metrics of one invocation together.
package runtime
