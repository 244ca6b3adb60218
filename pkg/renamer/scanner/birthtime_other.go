//go:build !darwin && !linux

package scanner

import "time"

// birthTime is unknown on this platform.
func birthTime(string) *time.Time {
	return nil
}
