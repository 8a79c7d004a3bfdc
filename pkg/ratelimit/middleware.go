package ratelimit

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// Middleware 令牌耗尽时直接返回 429
func Middleware(tb *TokenBucket) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		if !tb.Allow() {
			ctx.AbortWithStatusJSON(consts.StatusTooManyRequests, utils.H{"error": "请求过于频繁，请稍后再试"})
			return
		}
		ctx.Next(c)
	}
}
