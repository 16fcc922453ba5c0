// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/apidir/blob/master/LICENSE.txt.

// Package middleware resolves the API specification of incoming requests with an [apidir.Index].
package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tigerwill90/apidir"
	"github.com/tigerwill90/apidir/internal/netutil"
)

// ContextKey is the key under which [Gin] stores the matched [apidir.Value] in the gin.Context.
const ContextKey = "apidir.value"

type key struct{}

// valueKey is the key that holds the matched apidir.Value in a context.Context.
var valueKey = key{}

// Finder resolves a normalized URL, host and path without scheme, to the specifications describing it.
// It is implemented by [apidir.Index].
type Finder interface {
	FindAPI(url string) (apidir.Value, bool)
}

// FromContext returns the value matched for the request by [Handler], if any.
func FromContext(ctx context.Context) (apidir.Value, bool) {
	v, ok := ctx.Value(valueKey).(apidir.Value)
	return v, ok
}

// Resolve returns the specifications matching r, looked up with the request host, without port, followed by
// the request path.
func Resolve(f Finder, r *http.Request) (apidir.Value, bool) {
	host := r.Host
	if host == "" {
		host = r.URL.Host
	}
	return f.FindAPI(netutil.StripHostPort(host) + r.URL.Path)
}

// Handler returns a [http.Handler] which resolves the specifications of each request before calling next.
// On a match, the value is available to next with [FromContext].
func Handler(f Finder, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if v, ok := Resolve(f, r); ok {
			r = r.WithContext(context.WithValue(r.Context(), valueKey, v))
		}
		next.ServeHTTP(w, r)
	})
}

// Gin returns a gin middleware which resolves the specifications of each request. On a match, the value is
// stored in the gin.Context under [ContextKey].
func Gin(f Finder) gin.HandlerFunc {
	return func(c *gin.Context) {
		if v, ok := Resolve(f, c.Request); ok {
			c.Set(ContextKey, v)
		}
		c.Next()
	}
}
