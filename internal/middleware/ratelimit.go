package middleware

import (
	"fmt"
	"net/http"
	"time"

	rediskey "loja_backend/pkg/redis"

	"github.com/gin-gonic/gin"
	rd "github.com/redis/go-redis/v9"
)

// luaRateLimit: janela deslizante em Redis via Lua (operação atômica).
// KEYS[1]=chave de limite, ARGV[1]=agora, ARGV[2]=início da janela,
// ARGV[3]=janela em segundos, ARGV[4]=membro, ARGV[5]=limite.
// Retorna a contagem na janela, ou -1 quando o limite foi atingido.
const luaRateLimit = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local windowStart = tonumber(ARGV[2])
local windowSec = tonumber(ARGV[3])
local member = ARGV[4]

redis.call('ZREMRANGEBYSCORE', key, '0', windowStart)

local count = redis.call('ZCARD', key)

if count < tonumber(ARGV[5]) then
  redis.call('ZADD', key, now, member)
  redis.call('EXPIRE', key, windowSec)
  return count + 1
else
  return -1
end
`

// RedisRateLimit limita requisições por usuário autenticado (fallback
// por IP quando a rota é pública). A contagem vive no Redis para valer
// entre múltiplas instâncias do servidor.
func RedisRateLimit(rdb *rd.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var key string
		if userID := UserID(c); userID > 0 {
			key = rediskey.RateLimitUserKey(userID, c.FullPath())
		} else {
			key = rediskey.RateLimitIPKey(c.ClientIP(), c.FullPath())
		}

		now := time.Now().Unix()
		windowSec := int64(window.Seconds())
		windowStart := now - windowSec
		member := fmt.Sprintf("%d-%d", now, time.Now().UnixNano())

		res, err := rdb.Eval(c.Request.Context(), luaRateLimit, []string{key},
			now, windowStart, windowSec, member, limit).Int()

		if err != nil {
			// Redis indisponível: deixa passar (degradação controlada).
			c.Next()
			return
		}

		if res < 0 {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "muitas requisições, tente novamente em instantes",
			})
			return
		}
		c.Next()
	}
}
