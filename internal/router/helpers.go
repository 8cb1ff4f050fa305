package router

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// fail responde o envelope de erro padrão {success:false, message}.
func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "message": msg})
}

// internalErr suprime a mensagem interna fora do modo debug.
func internalErr(c *gin.Context, debug bool, err error) {
	msg := "erro interno"
	if debug && err != nil {
		msg = err.Error()
	}
	fail(c, http.StatusInternalServerError, msg)
}

// pagination lê page/limit da query string com limites sãos.
func pagination(c *gin.Context) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit, (page - 1) * limit
}

// paramID converte o parâmetro de rota :id (ou outro nome) em uint.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		fail(c, http.StatusBadRequest, "identificador inválido")
		return 0, false
	}
	return uint(id), true
}
