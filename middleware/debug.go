// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/apidir/blob/master/LICENSE.txt.

package middleware

import (
	"iter"
	"net/http"
	"net/http/httputil"
	"runtime"
	"strconv"
	"strings"

	"github.com/tigerwill90/apidir"
)

// Inspector is a [Finder] which can also list its keys. It is implemented by [apidir.Index].
type Inspector interface {
	Finder
	Len() int
	All() iter.Seq2[string, apidir.Value]
}

// DebugHandler returns a [http.Handler] that responds with the content of the index and the resolution of
// the request. If a "url" query parameter is provided, it is resolved instead of the request host and path.
// This handler may leak the layout of the index and is only useful for debugging purposes.
func DebugHandler(idx Inspector) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(dumpIndexInfo(idx, r)))
	})
}

func dumpIndexInfo(idx Inspector, r *http.Request) string {
	var (
		target string
		v      apidir.Value
		ok     bool
	)
	if target = r.URL.Query().Get("url"); target != "" {
		v, ok = idx.FindAPI(target)
	} else {
		target = r.Host + r.URL.Path
		v, ok = Resolve(idx, r)
	}

	requestDump, err := httputil.DumpRequest(r, false)
	if err != nil {
		requestDump = []byte("Failed to dump request")
	}

	var builder strings.Builder
	builder.WriteString("Index Information:\n")
	builder.WriteString("Entries: ")
	builder.WriteString(strconv.Itoa(idx.Len()))
	builder.WriteByte('\n')
	builder.WriteString("Registered keys:\n")
	for k, value := range idx.All() {
		builder.WriteString("- ")
		builder.WriteString(k)
		builder.WriteString(" -> ")
		builder.WriteString(value.String())
		builder.WriteByte('\n')
	}

	builder.WriteString("\n\nResolution:\n")
	builder.WriteString("URL: ")
	builder.WriteString(target)
	builder.WriteByte('\n')
	builder.WriteString("Normalized: ")
	builder.WriteString(apidir.NormalizeURL(target))
	builder.WriteByte('\n')
	builder.WriteString("Specification: ")
	switch {
	case !ok:
		builder.WriteString("none")
	case v.IsTie():
		builder.WriteString(v.String())
		builder.WriteString(" (tie)")
	default:
		builder.WriteString(v.ID())
	}
	builder.WriteByte('\n')

	builder.WriteString("\n\nFull Request Dump:\n")
	builder.Write(requestDump)
	builder.WriteString("\nSystem Information:\n")
	builder.WriteString("Go Version: ")
	builder.WriteString(runtime.Version())
	builder.WriteByte('\n')
	builder.WriteString("Number of Goroutines: ")
	builder.WriteString(strconv.Itoa(runtime.NumGoroutine()))
	builder.WriteByte('\n')
	return builder.String()
}
