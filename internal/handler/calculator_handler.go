package handler

import (
	"errors"
	"net/http"

	"github.com/cabpool/internal/service"
	"github.com/gin-gonic/gin"
)

// CalculateSavings 计算拼车相对独乘的节省金额。
func (a *API) CalculateSavings(c *gin.Context) {
	var input service.SavingsInput
	if err := c.ShouldBindQuery(&input); err != nil {
		respondError(c, http.StatusBadRequest, "distance, riders and trips must be numbers")
		return
	}

	estimate, err := service.CalculateSavings(input)
	if err != nil {
		if errors.Is(err, service.ErrCalculatorInput) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to calculate savings")
		return
	}

	c.JSON(http.StatusOK, gin.H{"input": input, "estimate": estimate})
}
