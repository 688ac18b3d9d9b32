// Package cfl reads and writes BART array containers.
//
// A container is a pair of files sharing a base path: <base>.hdr is a text
// header whose "# Dimensions" section lists the array shape, and <base>.cfl
// holds the samples as little-endian float32 (real, imaginary) pairs in
// column-major order. Writers pad the shape to MaxDims entries; readers accept
// any number of entries up to MaxDims and drop trailing singleton dimensions.
//
// The package never interprets sample values beyond Summarize, which reports
// magnitude statistics for logs and the inspect command.
package cfl
