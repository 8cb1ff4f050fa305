package redis

import "fmt"

// RateLimitUserKey padroniza a chave de limite por usuário e rota.
func RateLimitUserKey(userID uint, route string) string {
	return fmt.Sprintf("loja:rate_limit:user:%d:%s", userID, route)
}

// RateLimitIPKey é o fallback por IP para rotas sem autenticação.
func RateLimitIPKey(ip, route string) string {
	return fmt.Sprintf("loja:rate_limit:ip:%s:%s", ip, route)
}

// PaymentEventKey marca um evento de gateway já processado (dedup).
func PaymentEventKey(eventID string) string {
	return fmt.Sprintf("loja:payment:event:%s", eventID)
}
