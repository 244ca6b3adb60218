//go:build linux

package scanner

import (
	"time"

	"golang.org/x/sys/unix"
)

// birthTime returns the creation time of path. Linux only exposes it through
// statx, and only on filesystems that record it (ext4, xfs, btrfs).
func birthTime(path string) *time.Time {
	var stx unix.Statx_t
	err := unix.Statx(unix.AT_FDCWD, path, unix.AT_SYMLINK_NOFOLLOW, unix.STATX_BTIME, &stx)
	if err != nil || stx.Mask&unix.STATX_BTIME == 0 {
		return nil
	}
	t := time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec))
	return &t
}
