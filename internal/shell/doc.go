// Package shell decides which shell executable backs a terminal session and
// classifies an executable path into a shell identity.
//
// Resolution never fails: a missing preferred shell degrades to the platform
// default rather than returning an error. Classification is advisory — it is
// consumed by collaborators to generate shell-appropriate command syntax and
// is never load-bearing for process supervision.
package shell
