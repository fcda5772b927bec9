package routes

import (
	"net/http"

	"quotation_service/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathAPI        = "/api"
	PathQuotations = "/quotations"
	PathProposal   = "/proposal"
)

func addPingRoutes(rg *gin.RouterGroup) {
	rg.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
}

func addQuotationRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc, h *handlers.QuotationHandler) {
	quotations := rg.Group(PathQuotations, auth)
	{
		quotations.POST("", h.CreateQuotation)
		quotations.GET("", h.ListQuotations)
		quotations.GET("/:id", h.GetQuotation)
		quotations.PUT("/:id", h.UpdateQuotation)
		quotations.DELETE("/:id", h.DeleteQuotation)
		quotations.POST("/:id/send", h.SendQuotation)
	}
}

// addProposalRoutes mounts the public proposal link. It is never behind auth.
func addProposalRoutes(rg *gin.RouterGroup, h *handlers.ProposalHandler, limit ...gin.HandlerFunc) {
	handlersChain := append(limit, h.GetProposal)
	rg.GET(PathProposal+"/:proposalId", handlersChain...)
}
