package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dveiculos/backoffice/internal/api/dealer"
)

type senhaRequest struct {
	Senha string `json:"senha" binding:"required"`
}

// Login checks the dashboard password against the backend and keeps the
// session token on the dealer client.
func (h *Handler) Login(c *gin.Context) {
	var req senhaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Informe a senha"})
		return
	}

	token, err := h.api.Login(c.Request.Context(), req.Senha)
	if err != nil {
		var apiErr *dealer.APIError
		if errors.As(err, &apiErr) {
			c.JSON(apiErr.StatusCode, gin.H{"error": apiErr.Body})
			return
		}
		h.writeError(c, err)
		return
	}

	h.logger.Info("Login succeeded")
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// CriarSenha sets the initial dashboard password.
func (h *Handler) CriarSenha(c *gin.Context) {
	var req senhaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Informe a senha"})
		return
	}

	if err := h.api.CriarSenha(c.Request.Context(), req.Senha); err != nil {
		var apiErr *dealer.APIError
		if errors.As(err, &apiErr) {
			c.JSON(apiErr.StatusCode, gin.H{"error": apiErr.Body})
			return
		}
		h.writeError(c, err)
		return
	}

	h.logger.Info("Password created")
	c.JSON(http.StatusOK, gin.H{"message": "Senha criada com sucesso"})
}
