package middleware

import (
	stdhttp "net/http"
	"runtime/debug"
	"strings"

	perr "querygate/internal/platform/errors"
	"querygate/internal/platform/logger"
	pnet "querygate/internal/platform/net"
	phttp "querygate/internal/platform/net/http"
)

// RecoverJSON converts panics into a 500 envelope and logs stack with request id
func RecoverJSON(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == stdhttp.ErrAbortHandler {
				panic(v)
			}

			// format stack like chi recover
			stack := strings.Join(strings.Split(string(debug.Stack()), "\n"), "\n\t")
			logger.C(r.Context()).Error().
				Interface("panic", v).
				Str("path", r.URL.Path).
				Msgf("panic recovered\n%s", stack)

			status, env := pnet.Error(perr.PanicErrf("panic recovered"))
			phttp.RespondEnvelope(w, status, env)
		}()
		next.ServeHTTP(w, r)
	})
}
