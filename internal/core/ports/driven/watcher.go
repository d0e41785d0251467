package driven

import "context"

// DirectoryWatcher reports changes to files in a directory.
type DirectoryWatcher interface {
	// Watch emits the path of every created, written, removed or renamed
	// file in dir until ctx is cancelled, then closes the channel.
	Watch(ctx context.Context, dir string) (<-chan string, error)
}
