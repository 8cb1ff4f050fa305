package checkout

import (
	"errors"
	"fmt"
)

// Erros de domínio do checkout, traduzidos para HTTP na borda.
var (
	ErrEmptyCart          = errors.New("carrinho vazio")
	ErrAddressNotFound    = errors.New("endereço não encontrado")
	ErrInvalidCoupon      = errors.New("cupom inválido ou expirado")
	ErrOrderNotFound      = errors.New("pedido não encontrado")
	ErrNotOwner           = errors.New("pedido pertence a outro usuário")
	ErrPaymentNotFound    = errors.New("pagamento não encontrado")
	ErrInvalidTransition  = errors.New("transição de status inválida")
	ErrProductUnavailable = errors.New("produto indisponível")
)

// InsufficientStockError identifica o produto sem estoque suficiente;
// o nome vai na mensagem de erro do caller.
type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("estoque insuficiente para %q", e.ProductName)
}
