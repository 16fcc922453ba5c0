// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/apidir/blob/master/LICENSE.txt.

package netutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripHostPort(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "host with port",
			input: "example.com:8080",
			want:  "example.com",
		},
		{
			name:  "host without port",
			input: "example.com",
			want:  "example.com",
		},
		{
			name:  "host with trailing dot",
			input: "example.com.",
			want:  "example.com",
		},
		{
			name:  "host with port and trailing dot",
			input: "example.com.:8080",
			want:  "example.com",
		},
		{
			name:  "ipv4 with port",
			input: "192.168.1.1:80",
			want:  "192.168.1.1",
		},
		{
			name:  "ipv6 with port",
			input: "[::1]:8080",
			want:  "::1",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "invalid host port returns unchanged",
			input: "[invalid",
			want:  "[invalid",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StripHostPort(tc.input))
		})
	}
}

func TestIsLocalIPv4(t *testing.T) {
	cases := []struct {
		name string
		host string
		want bool
	}{
		{name: "loopback", host: "127.0.0.1", want: true},
		{name: "private class a", host: "10.1.2.3", want: true},
		{name: "private class c", host: "192.168.1.1", want: true},
		{name: "unspecified", host: "0.0.0.0", want: true},
		{name: "octets are not range checked", host: "10.999.1.1", want: true},
		{name: "public address", host: "8.8.8.8", want: false},
		{name: "first octet prefix only", host: "100.1.1.1", want: false},
		{name: "too few octets", host: "10.1.1", want: false},
		{name: "too many octets", host: "10.1.1.1.1", want: false},
		{name: "empty octet", host: "10..1.1", want: false},
		{name: "hostname", host: "10.example.com.io", want: false},
		{name: "empty", host: "", want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsLocalIPv4(tc.host))
		})
	}
}
