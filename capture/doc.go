// Package capture turns uploaded files, data URLs and camera snapshots into
// decoded in-memory images ready for analysis.
//
// A camera stream is a scoped resource: FromCamera opens it, takes a single
// snapshot and closes it again on every exit path.
package capture
