// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/apidir/blob/master/LICENSE.txt.

package netutil

import (
	"net"
	"strings"

	"github.com/tigerwill90/apidir/internal/iterutil"
)

// StripHostPort returns h without any trailing ":<port>". It also removes trailing period in the hostname.
// Per RFC 3696, The DNS specification permits a trailing period to be used to denote the root, e.g., "a.b.c" and "a.b.c."
// are equivalent, but the latter is more explicit and is required to be accepted by applications.
func StripHostPort(h string) string {
	if h == "" {
		return h
	}
	// If no port on host, return unchanged
	if !strings.Contains(h, ":") {
		return strings.TrimSuffix(h, ".")
	}

	host, _, err := net.SplitHostPort(h)
	if err != nil {
		return h // on error, return unchanged
	}
	return strings.TrimSuffix(host, ".")
}

// IsLocalIPv4 reports whether host is a dotted IPv4 address whose first octet is 0, 10, 127 or 192.
// Octets are not range checked: "10.999.1.1" is still considered local.
func IsLocalIPv4(host string) bool {
	octets := 0
	for part := range iterutil.SplitStringSeq(host, ".") {
		if part == "" || strings.Trim(part, "0123456789") != "" {
			return false
		}
		octets++
	}
	if octets != 4 {
		return false
	}

	first, _ := iterutil.At(iterutil.SplitStringSeq(host, "."), 0)
	switch first {
	case "0", "10", "127", "192":
		return true
	default:
		return false
	}
}
