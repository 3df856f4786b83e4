package context

import (
	"context"

	"github.com/rentkaro/rentcore/constant"
)

func GetUserID(ctx context.Context) (uint64, bool) {
	v := ctx.Value(constant.UserIDKey)
	if v == nil {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok
}

func GetRole(ctx context.Context) (constant.Role, bool) {
	v := ctx.Value(constant.RoleKey)
	if v == nil {
		return "", false
	}
	role, ok := v.(constant.Role)
	return role, ok
}
