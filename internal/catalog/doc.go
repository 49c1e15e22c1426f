// Package catalog discovers media files under the configured roots and keeps
// them in an ordered, duplicate-free list that the sequencer walks.
//
// A scan runs depth-first on one background goroutine: each directory's files
// are added in name order before its subdirectories are visited. Paths with
// extensions outside the allow-list, and anything inside a Windows recycle
// bin, are ignored. Roots that do not exist are skipped, and a root that is a
// .wpl playlist contributes the playlist's media in playlist order.
//
// Readers such as Count, EntryAt and IndexOf never block, even while the scan
// is appending. WaitForIndex lets a caller block until a given index has been
// discovered or the scan has ended.
//
// Basic usage:
//
//	c := catalog.New()
//	if err := c.StartScan(ctx, roots); err != nil {
//		return err
//	}
//	if ok, _ := c.WaitForIndex(ctx, 0); ok {
//		entry, _ := c.EntryAt(0)
//		fmt.Println(entry.Path)
//	}
package catalog
