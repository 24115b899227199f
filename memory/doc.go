// Package memory implements the byte addressable RAM and ROM of the tiny8
// system.
//
// Every stored cell is a byte. Writes and ROM loads mask their input with
// 0xFF, addresses are bounds checked, and each actual change of a stored
// byte is appended to a per-region change log for diagnostics.
package memory
