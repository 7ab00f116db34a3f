// Package storage provides the spillover Buffer used while a message is
// compiled. Text is collected in memory until something needs a real file,
// at which point the Buffer moves its content into a backing file and carries
// on writing there:
//
//	buf := storage.New("")
//	defer func() { _ = buf.Clear() }()
//
//	_ = buf.Write(func(w *storage.Writer) error {
//		return w.WriteLine("Subject: hello")
//	})
//
//	_ = buf.Capture(func(path string) error {
//		// an external process may append to path here
//		return nil
//	})
package storage
