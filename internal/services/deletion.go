package services

import "sync/atomic"

// DeletionFlag marks that the visitor history was purged by an admin.
// It lives only as long as the process and is local to one instance.
type DeletionFlag struct {
	deleted atomic.Bool
}

func (f *DeletionFlag) MarkDeleted() {
	f.deleted.Store(true)
}

func (f *DeletionFlag) IsDeleted() bool {
	return f.deleted.Load()
}

// Reset clears the flag; the visitor store calls it after a successful write.
func (f *DeletionFlag) Reset() {
	f.deleted.Store(false)
}
