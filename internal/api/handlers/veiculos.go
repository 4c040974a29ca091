package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dveiculos/backoffice/internal/forms"
)

// ListVeiculos serves the searched, filtered, paginated vehicle view. The
// collection is fetched on first hit or when reload=true; search and paging
// run against the local mirror.
func (h *Handler) ListVeiculos(c *gin.Context) {
	if c.Query("reload") == "true" || h.vehicles.Len() == 0 {
		if err := h.vehicleScreen.Load(c.Request.Context()); err != nil {
			h.writeError(c, err)
			return
		}
	}

	h.vehicleScreen.SetQuery(c.Query("search"))
	h.vehicleScreen.SetFilter(c.Query("filtro"))
	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		h.vehicleScreen.SetPage(page)
	}

	c.JSON(http.StatusOK, gin.H{"data": h.vehicleScreen.Page()})
}

// CreateVeiculo validates and creates a vehicle.
func (h *Handler) CreateVeiculo(c *gin.Context) {
	var form forms.VehicleForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Corpo da requisição inválido"})
		return
	}

	saved, err := h.vehicleScreen.Submit(c.Request.Context(), form, 0)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": saved})
}

// UpdateVeiculo validates and updates a vehicle.
func (h *Handler) UpdateVeiculo(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID inválido"})
		return
	}

	var form forms.VehicleForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Corpo da requisição inválido"})
		return
	}

	saved, err := h.vehicleScreen.Submit(c.Request.Context(), form, id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": saved})
}

// DeleteVeiculo removes a vehicle.
func (h *Handler) DeleteVeiculo(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID inválido"})
		return
	}

	if err := h.vehicleScreen.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Veículo excluído"})
}

// StatusVeiculos snapshots every tracked vehicle's status machine.
func (h *Handler) StatusVeiculos(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.machines.AllStatuses()})
}
