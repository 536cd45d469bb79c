// Package perfclock measures wall, user and system CPU time around a code
// region. Wall time alone hides page-fault and syscall cost, which is where
// cache-hostile structures lose; the split makes it visible.
package perfclock

import (
	"time"

	"golang.org/x/sys/unix"
)

// Interval captures the times spent between Before and After.
type Interval struct {
	wallBefore time.Time
	usrBefore  int64
	sysBefore  int64

	wall int64
	usr  int64
	sys  int64
}

func cpuTimes() (usr, sys int64) {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0, 0
	}
	return ru.Utime.Nano(), ru.Stime.Nano()
}

func (iv *Interval) Before() {
	iv.usrBefore, iv.sysBefore = cpuTimes()
	iv.wallBefore = time.Now()
}

func (iv *Interval) After() {
	iv.wall = time.Since(iv.wallBefore).Nanoseconds()
	usr, sys := cpuTimes()
	iv.usr = usr - iv.usrBefore
	iv.sys = sys - iv.sysBefore
}

// WallTime returns elapsed wall-clock nanoseconds.
func (iv *Interval) WallTime() int64 { return iv.wall }

// UsrTime returns elapsed user CPU nanoseconds.
func (iv *Interval) UsrTime() int64 { return iv.usr }

// SysTime returns elapsed system CPU nanoseconds.
func (iv *Interval) SysTime() int64 { return iv.sys }
