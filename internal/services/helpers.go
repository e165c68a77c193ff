package services

import (
	"context"
	"sort"

	"github.com/harentsoaR/apoio-comunitario-api/internal/common"
)

// actorEmail is the email of the authenticated caller, if any.
func actorEmail(ctx context.Context) string {
	if id, ok := common.IdentityFromContext(ctx); ok {
		return id.Email
	}
	return ""
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
