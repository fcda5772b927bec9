package handlers

import (
	"errors"
	"net/http"

	response "quotation_service/internal/adapter/http/dto/response"
	"quotation_service/internal/usecase"
	"quotation_service/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errProposalNotFound = pkg.NewDomainErrorSimple("PROPOSAL_NOT_FOUND", "Quotation not found or link has expired", http.StatusNotFound)
)

// ProposalHandler serves the unauthenticated proposal link.
type ProposalHandler struct {
	usecase usecase.IQuotationUseCase
}

func NewProposalHandler(uc usecase.IQuotationUseCase) *ProposalHandler {
	return &ProposalHandler{usecase: uc}
}

// GetProposal godoc
// @Summary      View a proposal by its public id
// @Description  No authentication. The first view of a sent quotation marks it viewed.
// @Tags         proposals
// @Produce      json
// @Param        proposalId  path      string  true  "10 character proposal id"
// @Success      200         {object}  response.Envelope
// @Failure      404         {object}  pkg.HTTPError
// @Failure      500         {object}  pkg.HTTPError
// @Router       /proposal/{proposalId} [get]
func (h *ProposalHandler) GetProposal(c *gin.Context) {
	q, err := h.usecase.ViewByProposalID(c.Request.Context(), c.Param("proposalId"))
	if err != nil {
		if errors.Is(err, usecase.ErrQuotationNotFound) {
			fail(c, errProposalNotFound)
			return
		}
		fail(c, pkg.NewDomainError("PROPOSAL_LOAD_FAILED", "Server error while loading quotation", err, http.StatusInternalServerError))
		return
	}
	c.JSON(http.StatusOK, response.NewPublicEnvelope(q))
}
