// Package scratch owns the temporary containers of a single invocation.
//
// Every Workspace is a private directory named ecalib-<uuid> below the
// configured scratch root. Input containers are written into it, output
// container paths are allocated inside it, and Close removes the directory
// with everything the external tool left there. CleanStale sweeps workspaces
// abandoned by processes that were killed before Close ran.
package scratch
