package mount

import (
	"strconv"
	"strings"
)

// MountOptions captures the boolean mount flags and the tmpfs size
// limit (0 means unlimited).
type MountOptions struct {
	ReadOnly  bool
	NoAtime   bool
	NoExec    bool
	NoSuid    bool
	NoDev     bool
	SizeLimit uint64
}

// ParseMountOptions parses a comma-separated option string such as
// "ro,noexec,noatime,size=1G". Unknown options are ignored.
func ParseMountOptions(options string) MountOptions {
	var opts MountOptions
	for _, opt := range strings.Split(options, ",") {
		opt = strings.TrimSpace(opt)
		switch {
		case opt == "ro" || opt == "readonly":
			opts.ReadOnly = true
		case opt == "rw" || opt == "readwrite":
			opts.ReadOnly = false
		case opt == "noatime":
			opts.NoAtime = true
		case opt == "noexec":
			opts.NoExec = true
		case opt == "nosuid":
			opts.NoSuid = true
		case opt == "nodev":
			opts.NoDev = true
		case strings.HasPrefix(opt, "size="):
			if size, ok := parseSize(opt[5:]); ok {
				opts.SizeLimit = size
			}
		}
	}
	return opts
}

// String renders the options back to comma-separated form, appending
// "size=N" when a size limit is set.
func (o MountOptions) String() string {
	var parts []string
	if o.ReadOnly {
		parts = append(parts, "ro")
	} else {
		parts = append(parts, "rw")
	}
	if o.NoAtime {
		parts = append(parts, "noatime")
	}
	if o.NoExec {
		parts = append(parts, "noexec")
	}
	if o.NoSuid {
		parts = append(parts, "nosuid")
	}
	if o.NoDev {
		parts = append(parts, "nodev")
	}
	s := strings.Join(parts, ",")
	if o.SizeLimit > 0 {
		s += ",size=" + strconv.FormatUint(o.SizeLimit, 10)
	}
	return s
}

// parseSize parses a size string such as "1024", "512K", "1G" (case
// insensitive suffix) into a byte count.
func parseSize(s string) (uint64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	multiplier := uint64(1)
	numStr := s
	if suffix := s[len(s)-1]; suffix == 'G' || suffix == 'g' {
		multiplier = 1024 * 1024 * 1024
		numStr = s[:len(s)-1]
	} else if suffix == 'M' || suffix == 'm' {
		multiplier = 1024 * 1024
		numStr = s[:len(s)-1]
	} else if suffix == 'K' || suffix == 'k' {
		multiplier = 1024
		numStr = s[:len(s)-1]
	}

	n, err := strconv.ParseUint(numStr, 10, 64)
	if err != nil {
		return 0, false
	}
	return n * multiplier, true
}
