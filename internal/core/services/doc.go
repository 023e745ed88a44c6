// Package services implements the driving port interfaces.
// Services contain the workflow logic and orchestrate
// calls to driven ports (adapters).
//
// Services never touch the terminal or the network directly; both
// are reached through driven ports so tests can substitute fakes.
package services
