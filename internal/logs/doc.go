// Package logs reads back ecalib.log.
//
// Lines are matched by invocation id and component in either log format, so
// everything one calibration run wrote can be pulled out of a shared log
// file. Tail keeps bounded memory by holding only the last N matches; Follow
// polls for appended lines until its context ends.
package logs
