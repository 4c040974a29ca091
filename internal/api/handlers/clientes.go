package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dveiculos/backoffice/internal/forms"
)

// ListClientes serves the decorated client view. The collections are fetched
// on first hit or when reload=true, vehicles before clients.
func (h *Handler) ListClientes(c *gin.Context) {
	if c.Query("reload") == "true" || h.clients.Len() == 0 {
		if err := h.clientScreen.Load(c.Request.Context()); err != nil {
			h.writeError(c, err)
			return
		}
	}

	h.clientScreen.SetQuery(c.Query("search"))
	h.clientScreen.SetFilter(c.Query("filtro"))
	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		h.clientScreen.SetPage(page)
	}

	c.JSON(http.StatusOK, gin.H{"data": h.clientScreen.Page()})
}

// CreateCliente validates and creates a client.
func (h *Handler) CreateCliente(c *gin.Context) {
	var form forms.ClientForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Corpo da requisição inválido"})
		return
	}

	saved, err := h.clientScreen.Submit(c.Request.Context(), form, 0)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": saved})
}

// UpdateCliente validates and updates a client.
func (h *Handler) UpdateCliente(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID inválido"})
		return
	}

	var form forms.ClientForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Corpo da requisição inválido"})
		return
	}

	saved, err := h.clientScreen.Submit(c.Request.Context(), form, id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": saved})
}

// DeleteCliente removes a client.
func (h *Handler) DeleteCliente(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID inválido"})
		return
	}

	if err := h.clientScreen.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cliente excluído"})
}

// DownloadProcuracao streams the client's power-of-attorney document. A
// client without an assigned vehicle gets the guidance message, no remote
// call made.
func (h *Handler) DownloadProcuracao(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID inválido"})
		return
	}

	doc, err := h.clientScreen.Procuracao(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	writeDocument(c, doc)
}
