// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/apidir/blob/master/LICENSE.txt.

package loader

import (
	"net/url"
	"slices"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/tigerwill90/apidir"
	"github.com/tigerwill90/apidir/internal/netutil"
)

// ShouldIndexURL reports whether a server URL designates a public address worth indexing. Relative URLs,
// localhost and mDNS addresses, local network IPv4 addresses and single label hostnames are not indexed:
// a specification can still use them, but looking them up would be meaningless.
func ShouldIndexURL(rawURL string) bool {
	if rawURL == "" || strings.HasPrefix(rawURL, "/") {
		return false
	}

	lower := strings.ToLower(rawURL)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		rawURL = "https://" + rawURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	host := strings.ToLower(u.Hostname())
	switch {
	case host == "localhost", strings.HasSuffix(host, ".localhost"):
		return false
	case strings.HasSuffix(host, ".local"):
		return false
	case netutil.IsLocalIPv4(host):
		return false
	case !strings.Contains(host, "."):
		return false
	}
	return true
}

// ExpandServerURL returns every concrete URL of server: each variable is replaced in turn by its default and
// enum values. Variables are expanded in name order and duplicated values are ignored. A URL still holding a
// template expression afterward, e.g. because a variable has no value, is dropped.
func ExpandServerURL(server *openapi3.Server) []string {
	if server == nil {
		return nil
	}

	names := make([]string, 0, len(server.Variables))
	for name := range server.Variables {
		names = append(names, name)
	}
	slices.Sort(names)

	urls := []string{server.URL}
	for _, name := range names {
		variable := server.Variables[name]
		if variable == nil {
			continue
		}

		values := make([]string, 0, len(variable.Enum)+1)
		for _, v := range append([]string{variable.Default}, variable.Enum...) {
			if v != "" && !slices.Contains(values, v) {
				values = append(values, v)
			}
		}

		placeholder := "{" + name + "}"
		expanded := make([]string, 0, len(urls)*len(values))
		for _, u := range urls {
			if !strings.Contains(u, placeholder) {
				expanded = append(expanded, u)
				continue
			}
			for _, v := range values {
				expanded = append(expanded, strings.ReplaceAll(u, placeholder, v))
			}
		}
		urls = expanded
	}

	return slices.DeleteFunc(urls, func(u string) bool {
		return strings.ContainsAny(u, "{}")
	})
}

// indexableURLs expands every server, and returns the distinct indexable URLs, lower-cased and without scheme.
func indexableURLs(servers openapi3.Servers) []string {
	urls := make([]string, 0, len(servers))
	for _, server := range servers {
		for _, u := range ExpandServerURL(server) {
			u = apidir.NormalizeURL(u)
			if ShouldIndexURL(u) && !slices.Contains(urls, u) {
				urls = append(urls, u)
			}
		}
	}
	return urls
}
