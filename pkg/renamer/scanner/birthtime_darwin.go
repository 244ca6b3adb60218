//go:build darwin

package scanner

import (
	"time"

	"golang.org/x/sys/unix"
)

// birthTime returns the creation time of path from Birthtimespec.
func birthTime(path string) *time.Time {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return nil
	}
	t := time.Unix(st.Birthtimespec.Sec, st.Birthtimespec.Nsec)
	return &t
}
