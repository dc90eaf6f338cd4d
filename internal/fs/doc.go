// Package fs abstracts the file operations the container layer needs, so
// tests can inject I/O failures.
//
//   - [File]: an open container file (sequential writes for payload streams,
//     positioned writes for image regions and the directory)
//   - [FileSystem]: opens and removes container files
//
// Production code uses [Default] (backed by the os package). Tests wrap it in
// a [FaultyFS] to fail writes after a byte budget, or to fail Sync or Close:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.SetFault(fs.Fault{FailAfterBytes: 1024})
//
// Operations take no context.Context: local file writes are not meaningfully
// cancellable below the syscall.
package fs
