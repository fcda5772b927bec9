package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	request "quotation_service/internal/adapter/http/dto/request"
	response "quotation_service/internal/adapter/http/dto/response"
	"quotation_service/internal/adapter/http/middleware"
	"quotation_service/internal/domain/entities"
	"quotation_service/internal/usecase"
	"quotation_service/pkg"

	"github.com/gin-gonic/gin"
)

const (
	msgForbiddenAccess = "Not authorized to access this quotation"
	msgForbiddenUpdate = "Not authorized to update this quotation"
	msgForbidden       = "Not authorized"
)

var errInvalidQuotationPayload = pkg.NewDomainErrorSimple("INVALID_QUOTATION_INPUT", "Request body must be a JSON object", http.StatusBadRequest)

// QuotationHandler serves the owner-scoped quotation endpoints. Every route is
// expected behind middleware.Auth.
type QuotationHandler struct {
	usecase usecase.IQuotationUseCase
}

func NewQuotationHandler(uc usecase.IQuotationUseCase) *QuotationHandler {
	return &QuotationHandler{usecase: uc}
}

// CreateQuotation godoc
// @Summary      Create a quotation
// @Description  Stores a draft quotation owned by the caller and returns its public link.
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        quotation  body      object  true  "Quotation fields; unknown keys are kept as details"
// @Success      201        {object}  response.Envelope
// @Failure      400        {object}  pkg.HTTPError
// @Failure      401        {object}  pkg.HTTPError
// @Router       /api/quotations [post]
func (h *QuotationHandler) CreateQuotation(c *gin.Context) {
	var payload request.QuotationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		fail(c, errInvalidQuotationPayload)
		return
	}

	q, err := payload.ToQuotation()
	if err != nil {
		fail(c, mapPayloadError(err))
		return
	}

	created, err := h.usecase.Create(c.Request.Context(), middleware.CallerID(c), q)
	if err != nil {
		fail(c, mapQuotationError(err, msgForbidden))
		return
	}

	c.JSON(http.StatusCreated, response.NewCreatedEnvelope(created, h.usecase.PublicLink(created.ProposalID)))
}

// ListQuotations godoc
// @Summary      List the caller's quotations
// @Tags         quotations
// @Produce      json
// @Security     Bearer
// @Success      200  {object}  response.Envelope
// @Failure      401  {object}  pkg.HTTPError
// @Router       /api/quotations [get]
func (h *QuotationHandler) ListQuotations(c *gin.Context) {
	items, err := h.usecase.ListByOwner(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		fail(c, mapQuotationError(err, msgForbidden))
		return
	}
	c.JSON(http.StatusOK, response.NewListEnvelope(items))
}

// GetQuotation godoc
// @Summary      Get one of the caller's quotations
// @Tags         quotations
// @Produce      json
// @Security     Bearer
// @Param        id   path      string  true  "Quotation id"
// @Success      200  {object}  response.Envelope
// @Failure      403  {object}  pkg.HTTPError
// @Failure      404  {object}  pkg.HTTPError
// @Router       /api/quotations/{id} [get]
func (h *QuotationHandler) GetQuotation(c *gin.Context) {
	q, err := h.usecase.GetByID(c.Request.Context(), middleware.CallerID(c), c.Param("id"))
	if err != nil {
		fail(c, mapQuotationError(err, msgForbiddenAccess))
		return
	}
	c.JSON(http.StatusOK, response.NewQuotationEnvelope(q))
}

// UpdateQuotation godoc
// @Summary      Update a quotation
// @Description  proposalId, createdBy and status are ignored. A null value clears a field.
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id         path      string  true  "Quotation id"
// @Param        quotation  body      object  true  "Fields to change"
// @Success      200        {object}  response.Envelope
// @Failure      400        {object}  pkg.HTTPError
// @Failure      403        {object}  pkg.HTTPError
// @Failure      404        {object}  pkg.HTTPError
// @Router       /api/quotations/{id} [put]
func (h *QuotationHandler) UpdateQuotation(c *gin.Context) {
	var payload request.QuotationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		fail(c, errInvalidQuotationPayload)
		return
	}

	patch, err := payload.ToPatch()
	if err != nil {
		fail(c, mapPayloadError(err))
		return
	}

	updated, err := h.usecase.Update(c.Request.Context(), middleware.CallerID(c), c.Param("id"), patch)
	if err != nil {
		fail(c, mapQuotationError(err, msgForbiddenUpdate))
		return
	}
	c.JSON(http.StatusOK, response.NewUpdatedEnvelope(updated, h.usecase.PublicLink(updated.ProposalID)))
}

// DeleteQuotation godoc
// @Summary      Delete a quotation
// @Tags         quotations
// @Produce      json
// @Security     Bearer
// @Param        id   path      string  true  "Quotation id"
// @Success      200  {object}  response.Envelope
// @Failure      403  {object}  pkg.HTTPError
// @Failure      404  {object}  pkg.HTTPError
// @Router       /api/quotations/{id} [delete]
func (h *QuotationHandler) DeleteQuotation(c *gin.Context) {
	if err := h.usecase.Delete(c.Request.Context(), middleware.CallerID(c), c.Param("id")); err != nil {
		fail(c, mapQuotationError(err, msgForbidden))
		return
	}
	c.JSON(http.StatusOK, response.NewDeletedEnvelope())
}

// SendQuotation godoc
// @Summary      Mark a quotation as sent
// @Description  Records that the owner shared the public link. Only drafts can be sent.
// @Tags         quotations
// @Produce      json
// @Security     Bearer
// @Param        id   path      string  true  "Quotation id"
// @Success      200  {object}  response.Envelope
// @Failure      400  {object}  pkg.HTTPError
// @Failure      403  {object}  pkg.HTTPError
// @Failure      404  {object}  pkg.HTTPError
// @Router       /api/quotations/{id}/send [post]
func (h *QuotationHandler) SendQuotation(c *gin.Context) {
	sent, err := h.usecase.MarkSent(c.Request.Context(), middleware.CallerID(c), c.Param("id"))
	if err != nil {
		fail(c, mapQuotationError(err, msgForbidden))
		return
	}
	c.JSON(http.StatusOK, response.NewSentEnvelope(sent, h.usecase.PublicLink(sent.ProposalID)))
}

func fail(c *gin.Context, appErr *pkg.AppError) {
	_ = c.Error(appErr)
	c.Abort()
}

func mapPayloadError(err error) *pkg.AppError {
	var verr *request.ValidationError
	if errors.As(err, &verr) {
		return pkg.NewDomainErrorSimple("INVALID_QUOTATION_INPUT", verr.Message, http.StatusBadRequest)
	}
	return errInvalidQuotationPayload
}

func mapQuotationError(err error, forbiddenMessage string) *pkg.AppError {
	var terr *usecase.TransitionError
	switch {
	case errors.Is(err, usecase.ErrMissingCaller):
		return pkg.NewDomainErrorSimple("NOT_AUTHORIZED", "Not authorized, no token", http.StatusUnauthorized)
	case errors.Is(err, usecase.ErrQuotationValidation):
		detail := strings.TrimPrefix(err.Error(), entities.ErrInvalidQuotation.Error()+": ")
		return pkg.NewDomainError("QUOTATION_VALIDATION_FAILED", "Quotation validation failed: "+detail, err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrQuotationNotFound):
		return pkg.NewDomainErrorSimple("QUOTATION_NOT_FOUND", "Quotation not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrQuotationForbidden):
		return pkg.NewDomainErrorSimple("QUOTATION_FORBIDDEN", forbiddenMessage, http.StatusForbidden)
	case errors.Is(err, usecase.ErrQuotationAlreadySent):
		return pkg.NewDomainErrorSimple("QUOTATION_ALREADY_SENT", "Quotation has already been sent or accepted", http.StatusBadRequest)
	case errors.As(err, &terr):
		return pkg.NewDomainErrorSimple("INVALID_STATUS_TRANSITION", fmt.Sprintf("Quotation cannot be sent from status %s", terr.From), http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidStatusTransition):
		return pkg.NewDomainError("QUOTATION_STATUS_CHANGED", "Quotation status changed, please retry", err, http.StatusConflict)
	case errors.Is(err, usecase.ErrProposalIDConflict):
		return pkg.NewDomainError("PROPOSAL_ID_CONFLICT", "Proposal id already in use, please retry", err, http.StatusConflict)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
