package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// Result registra o resultado HTTP de um checkout, para agregação.
type Result struct {
	Status int
	Body   string
	Err    error
}

// Hammer de concorrência do checkout: N usuários disputam o estoque de
// um único produto e, no final, o estoque remanescente é conferido —
// nunca pode ficar negativo nem haver mais pedidos criados que estoque.
func main() {
	baseURL := flag.String("base", "http://localhost:8080", "server base url")
	productID := flag.Int("product", 1, "product id")
	nUsers := flag.Int("users", 50, "distinct users")
	concurrency := flag.Int("c", 25, "max concurrency")
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}

	// Prepara cada usuário fora da janela de medição: conta, endereço e
	// carrinho com 1 unidade do produto disputado.
	tokens := make([]string, *nUsers)
	addresses := make([]uint, *nUsers)
	for i := 0; i < *nUsers; i++ {
		token, addrID, err := setupUser(client, *baseURL, i, *productID)
		if err != nil {
			panic(fmt.Sprintf("setup user %d: %v", i, err))
		}
		tokens[i] = token
		addresses[i] = addrID
	}
	fmt.Printf("setup ok: %d users ready\n", *nUsers)

	before, err := getStock(client, *baseURL, *productID)
	if err != nil {
		panic(fmt.Sprintf("stock before: %v", err))
	}
	fmt.Printf("start checkout test: product=%d stock=%d users=%d concurrency=%d\n",
		*productID, before, *nUsers, *concurrency)

	sem := make(chan struct{}, *concurrency)
	var wg sync.WaitGroup
	results := make([]Result, *nUsers)
	for i := 0; i < *nUsers; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()
			results[idx] = checkoutOnce(client, *baseURL, tokens[idx], addresses[idx])
		}(i)
	}
	wg.Wait()

	printSummary("checkout", results)

	after, err := getStock(client, *baseURL, *productID)
	if err != nil {
		fmt.Println("stock check err:", err)
		return
	}
	created := 0
	for _, r := range results {
		if r.Status == http.StatusCreated {
			created++
		}
	}
	fmt.Printf("final stock: %d (was %d, orders created %d)\n", after, before, created)
	if after < 0 || int64(created) != before-after {
		fmt.Println("OVERSELL DETECTED")
	} else {
		fmt.Println("no oversell")
	}
}

// setupUser cria conta, endereço e carrinho e devolve token + endereço.
func setupUser(client *http.Client, baseURL string, idx, productID int) (string, uint, error) {
	email := fmt.Sprintf("loadtest-%d-%d@example.com", time.Now().UnixNano(), idx)
	var reg struct {
		Token string `json:"token"`
	}
	err := doJSON(client, http.MethodPost, baseURL+"/auth/registrar", "", map[string]any{
		"nome": fmt.Sprintf("Load Tester %d", idx), "email": email, "senha": "loadtest-senha",
	}, &reg)
	if err != nil {
		return "", 0, err
	}

	var addr struct {
		Endereco struct {
			ID uint `json:"id"`
		} `json:"endereco"`
	}
	err = doJSON(client, http.MethodPost, baseURL+"/enderecos", reg.Token, map[string]any{
		"rua": "Rua do Teste", "numero": "42", "cidade": "São Paulo", "estado": "SP", "cep": "01000-000",
	}, &addr)
	if err != nil {
		return "", 0, err
	}

	err = doJSON(client, http.MethodPost, baseURL+"/carrinho/itens", reg.Token, map[string]any{
		"produto_id": productID, "quantidade": 1,
	}, nil)
	if err != nil {
		return "", 0, err
	}
	return reg.Token, addr.Endereco.ID, nil
}

func checkoutOnce(client *http.Client, baseURL, token string, addressID uint) Result {
	b, _ := json.Marshal(map[string]any{
		"enderecoId": addressID, "metodoPagamento": "PIX",
	})
	req, _ := http.NewRequest(http.MethodPost, baseURL+"/pedidos/criar", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		return Result{Err: err}
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return Result{Status: resp.StatusCode, Body: string(body)}
}

// printSummary agrega a distribuição de status HTTP.
func printSummary(name string, results []Result) {
	count := map[int]int{}
	errCount := 0
	for _, r := range results {
		if r.Err != nil {
			errCount++
			continue
		}
		count[r.Status]++
	}
	fmt.Printf("[%s] http status summary:\n", name)
	for _, code := range []int{201, 400, 404, 429, 500} {
		if count[code] > 0 {
			fmt.Printf("  %d -> %d\n", code, count[code])
		}
	}
	if errCount > 0 {
		fmt.Printf("  errors -> %d\n", errCount)
	}
}

// doJSON envia uma requisição JSON autenticada e decodifica a resposta.
func doJSON(client *http.Client, method, url, token string, body any, out any) error {
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req, _ := http.NewRequest(method, url, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(b))
	}
	if out != nil {
		return json.Unmarshal(b, out)
	}
	return nil
}

// getStock lê o estoque atual pelo endpoint público de produto.
func getStock(client *http.Client, baseURL string, productID int) (int64, error) {
	resp, err := client.Get(fmt.Sprintf("%s/produtos/%d", baseURL, productID))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return 0, fmt.Errorf("status=%d body=%s", resp.StatusCode, string(b))
	}
	var out struct {
		Produto struct {
			Stock int64 `json:"estoque"`
		} `json:"produto"`
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return 0, err
	}
	return out.Produto.Stock, nil
}
