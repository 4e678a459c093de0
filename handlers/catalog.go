package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"skinscan/models"
	"skinscan/recommend"
)

func (h *Handler) GetIngredients(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ingredients": recommend.Catalog(),
		"guidelines":  recommend.Guidelines(),
	})
}

// GetProfileOptions lists the accepted intake labels.
func (h *Handler) GetProfileOptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"skin_colors":  models.SkinColors,
		"skin_types":   models.SkinTypes,
		"conditions":   models.Conditions,
		"environments": models.Environments,
	})
}
