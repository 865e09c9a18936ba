package hostfuse

import (
	"fmt"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"

	"github.com/dendrascience/mcrawfs/internal/logging"
)

// Mounted is a live FUSE attachment: the bazil.org/fuse connection plus the
// FS being served over it.
type Mounted struct {
	conn *fuse.Conn
	fs   *FS
	path string

	serveErr chan error
}

// Mount attaches fs at mountPath and starts serving it on a background
// goroutine. It returns once the FUSE connection is established; the
// in-process fs.Serve loop runs until the connection is closed.
func Mount(mountPath string, fs *FS) (*Mounted, error) {
	conn, err := fuse.Mount(
		mountPath,
		fuse.FSName("mcrawfs"),
		fuse.Subtype("mcrawfs"),
		fuse.ReadOnly(),
		fuse.AsyncRead(),
	)
	if err != nil {
		return nil, fmt.Errorf("hostfuse: mount %s: %w", mountPath, err)
	}

	m := &Mounted{conn: conn, fs: fs, path: mountPath, serveErr: make(chan error, 1)}
	go func() {
		m.serveErr <- fusefs.Serve(conn, fs)
	}()
	return m, nil
}

// Unmount detaches the mount and blocks until the serve goroutine has
// exited, returning its error. Registry.Unmount calls this before closing
// the mount's core.
func (m *Mounted) Unmount() error {
	if err := fuse.Unmount(m.path); err != nil {
		logging.Warnf("hostfuse: unmount %s: %v", m.path, err)
	}
	if err := m.conn.Close(); err != nil {
		logging.Warnf("hostfuse: closing fuse connection for %s: %v", m.path, err)
	}
	return <-m.serveErr
}
