package chi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	logpkg "github.com/kailas-cloud/torna-mcp/internal/logger"
)

// publicPaths stay reachable without a key: service info, liveness, readiness, metrics.
var publicPaths = []string{"/", "/health", "/ready", "/metrics"}

// keyring guards the tool routes with static bearer keys.
type keyring struct {
	keys   map[string]struct{}
	public map[string]struct{}
	logger *zap.Logger
}

// newKeyring drops blank keys. A keyring without keys lets every request through.
func newKeyring(apiKeys []string, logger *zap.Logger) *keyring {
	k := &keyring{
		keys:   make(map[string]struct{}, len(apiKeys)),
		public: make(map[string]struct{}, len(publicPaths)),
		logger: logger,
	}
	for _, key := range apiKeys {
		if key = strings.TrimSpace(key); key != "" {
			k.keys[key] = struct{}{}
		}
	}
	for _, p := range publicPaths {
		k.public[p] = struct{}{}
	}
	return k
}

// check returns why r is rejected, or "" when it carries an accepted key.
func (k *keyring) check(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "missing authorization header"
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "authorization header must use the Bearer scheme"
	}
	if _, ok := k.keys[strings.TrimSpace(token)]; !ok {
		return "invalid api key"
	}
	return ""
}

// Middleware answers 401 with an errorResponse for guarded routes without a valid key.
func (k *keyring) Middleware(next http.Handler) http.Handler {
	if len(k.keys) == 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := k.public[r.URL.Path]; ok {
			next.ServeHTTP(w, r)
			return
		}
		if reason := k.check(r); reason != "" {
			logpkg.Scoped(r.Context(), k.logger).Warn("request rejected",
				zap.String("path", r.URL.Path), zap.String("reason", reason))
			w.Header().Set("WWW-Authenticate", `Bearer realm="torna-mcp"`)
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized", Message: reason})
			return
		}
		next.ServeHTTP(w, r)
	})
}
