package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dveiculos/backoffice/internal/forms"
)

// ListVendas serves the searched, paginated sales view. All three
// collections are fetched concurrently on first hit or when reload=true.
func (h *Handler) ListVendas(c *gin.Context) {
	if c.Query("reload") == "true" || h.sales.Len() == 0 {
		if err := h.saleScreen.Load(c.Request.Context()); err != nil {
			h.writeError(c, err)
			return
		}
	}

	h.saleScreen.SetQuery(c.Query("search"))
	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		h.saleScreen.SetPage(page)
	}

	c.JSON(http.StatusOK, gin.H{"data": h.saleScreen.Page()})
}

// VeiculosDisponiveis lists the vehicles the sale form may offer. The
// editing query param names the sale being edited, keeping its own vehicle
// selectable.
func (h *Handler) VeiculosDisponiveis(c *gin.Context) {
	editingID, _ := strconv.ParseInt(c.Query("editing"), 10, 64)
	c.JSON(http.StatusOK, gin.H{"data": h.saleScreen.AvailableVehicles(editingID)})
}

// CreateVenda validates and creates a sale.
func (h *Handler) CreateVenda(c *gin.Context) {
	var form forms.SaleForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Corpo da requisição inválido"})
		return
	}

	saved, err := h.saleScreen.Submit(c.Request.Context(), form, 0)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": saved})
}

// UpdateVenda validates and updates a sale.
func (h *Handler) UpdateVenda(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID inválido"})
		return
	}

	var form forms.SaleForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Corpo da requisição inválido"})
		return
	}

	saved, err := h.saleScreen.Submit(c.Request.Context(), form, id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": saved})
}

// DeleteVenda removes a sale and releases its vehicle.
func (h *Handler) DeleteVenda(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID inválido"})
		return
	}

	if err := h.saleScreen.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Venda excluída"})
}

// DownloadContrato streams the sale contract.
func (h *Handler) DownloadContrato(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID inválido"})
		return
	}

	doc, err := h.saleScreen.Contrato(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	writeDocument(c, doc)
}

// DownloadATPV streams the ATPV transfer document.
func (h *Handler) DownloadATPV(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID inválido"})
		return
	}

	doc, err := h.saleScreen.ATPV(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	writeDocument(c, doc)
}
