package cache

import (
	"context"
	"reflect"
	"runtime"
	"time"
)

// Memoize wraps fn so that results are served from c when present. The key is
// derived via Key from namespace, the qualified name of fn and the call
// argument, so distinct functions sharing a namespace never share entries. On a
// miss fn runs without holding the cache lock and a successful result is
// stored with ttl (non-positive means the cache default). Errors are returned
// and never cached.
//
// Concurrent misses on the same key may each invoke fn; the last write wins.
func Memoize[A, V any](c *Cache[V], namespace string, ttl time.Duration, fn func(context.Context, A) (V, error)) func(context.Context, A) (V, error) {
	identity := funcName(fn)
	return func(ctx context.Context, arg A) (V, error) {
		key := Key(namespace, identity, arg)
		if v, ok := c.Get(key); ok {
			return v, nil
		}

		v, err := fn(ctx, arg)
		if err != nil {
			return v, err
		}

		c.SetWithTTL(key, v, ttl)
		return v, nil
	}
}

// funcName returns the package-qualified name of fn, e.g.
// "github.com/x/pkg.(*T).Method" or "github.com/x/pkg.TestFoo.func1".
func funcName(fn any) string {
	if f := runtime.FuncForPC(reflect.ValueOf(fn).Pointer()); f != nil {
		return f.Name()
	}
	return ""
}
