// Package deps resolves external executables on PATH or at explicit paths.
package deps
