// Package deletion removes the current media file from the rotation and from
// disk, and keeps an append-only audit trail of what was deleted.
//
// The in-memory removal always happens first and is never undone: a file that
// cannot be deleted (locked, read-only share) still leaves the rotation, and
// the failure is reported as a *DiskError.
package deletion
