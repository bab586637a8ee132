package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Mcdonalid/Lychee/internal/service/contact"
	"github.com/Mcdonalid/Lychee/internal/store"
)

// ContactHandlers provides HTTP handlers for the contact form endpoints.
type ContactHandlers struct {
	service *contact.Service
	log     *zerolog.Logger
}

// NewContactHandlers creates a new contact handlers instance.
func NewContactHandlers(svc *contact.Service, logger *zerolog.Logger) *ContactHandlers {
	return &ContactHandlers{
		service: svc,
		log:     logger,
	}
}

// SubmitContactRequest represents the public submission body. Field rules
// are enforced by the service so violations report as 422, not 400.
type SubmitContactRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Message        string `json:"message"`
	SecurityAnswer string `json:"security_answer"`
	ConsentAgreed  bool   `json:"consent_agreed"`
}

// SubmitContactResponse represents the submission acknowledgement.
type SubmitContactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// UpdateContactRequest represents the mark-as-read request body.
type UpdateContactRequest struct {
	ID     int64 `json:"id" binding:"required"`
	IsRead *bool `json:"is_read" binding:"required"`
}

// DeleteContactRequest represents the delete request body.
type DeleteContactRequest struct {
	ID int64 `json:"id" binding:"required"`
}

// ContactMessageResource is the boundary projection of a message.
// The requester's IP address and user agent are never part of it.
type ContactMessageResource struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Message   string `json:"message"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

// ContactMessageCollectionResource is one page of the admin inbox.
type ContactMessageCollectionResource struct {
	Data        []ContactMessageResource `json:"data"`
	Total       int64                    `json:"total"`
	PerPage     int                      `json:"per_page"`
	CurrentPage int                      `json:"current_page"`
}

// ValidationErrorResponse reports field violations of a submission.
type ValidationErrorResponse struct {
	Error  string               `json:"error"`
	Errors []contact.FieldError `json:"errors,omitempty"`
}

func messageToResource(m *store.ContactMessage) ContactMessageResource {
	return ContactMessageResource{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Message:   m.Message,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
}

// Init serves the contact form configuration.
// GET /api/contact/init
func (h *ContactHandlers) Init(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Init(c.Request.Context()))
}

// Submit handles a public contact form submission.
// POST /api/contact
func (h *ContactHandlers) Submit(c *gin.Context) {
	var req SubmitContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid submit request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	sub := &contact.Submission{
		Name:           req.Name,
		Email:          req.Email,
		Message:        req.Message,
		SecurityAnswer: req.SecurityAnswer,
		ConsentAgreed:  req.ConsentAgreed,
		IPAddress:      c.ClientIP(),
		UserAgent:      c.Request.UserAgent(),
	}

	confirmation, err := h.service.Submit(c.Request.Context(), sub)
	if err != nil {
		var verrs contact.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			c.JSON(http.StatusUnprocessableEntity, ValidationErrorResponse{Error: "validation failed", Errors: verrs})
		case errors.Is(err, contact.ErrSecurityAnswerMismatch):
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "incorrect answer to the security question"})
		case errors.Is(err, contact.ErrConsentRequired):
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "you must agree to the privacy policy"})
		case errors.Is(err, contact.ErrFormDisabled):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "contact form is disabled"})
		default:
			h.log.Error().Err(err).Msg("failed to store contact message")
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		}
		return
	}

	h.log.Info().Str("email", req.Email).Msg("contact message submitted")
	c.JSON(http.StatusOK, SubmitContactResponse{Success: true, Message: confirmation})
}

// List handles the admin inbox listing.
// GET /api/contact?page=&per_page=&search=&is_read=
func (h *ContactHandlers) List(c *gin.Context) {
	opts := contact.ListOptions{
		Search: c.Query("search"),
	}

	// Absent or malformed numbers fall back to the service defaults.
	opts.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	opts.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))

	if raw := c.Query("is_read"); raw != "" {
		isRead, _ := strconv.ParseBool(raw)
		opts.IsRead = &isRead
	}

	page, err := h.service.List(c.Request.Context(), identityFromContext(c), opts)
	if err != nil {
		h.writeServiceError(c, err, "failed to list contact messages")
		return
	}

	data := make([]ContactMessageResource, 0, len(page.Messages))
	for _, m := range page.Messages {
		data = append(data, messageToResource(m))
	}

	c.JSON(http.StatusOK, ContactMessageCollectionResource{
		Data:        data,
		Total:       page.Total,
		PerPage:     page.PerPage,
		CurrentPage: page.CurrentPage,
	})
}

// Update handles marking a message as read or unread.
// PATCH /api/contact
func (h *ContactHandlers) Update(c *gin.Context) {
	var req UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid update request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	msg, err := h.service.MarkRead(c.Request.Context(), identityFromContext(c), req.ID, *req.IsRead)
	if err != nil {
		h.writeServiceError(c, err, "failed to update contact message")
		return
	}

	c.JSON(http.StatusOK, messageToResource(msg))
}

// Delete handles permanent removal of a message.
// DELETE /api/contact
func (h *ContactHandlers) Delete(c *gin.Context) {
	var req DeleteContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid delete request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), identityFromContext(c), req.ID); err != nil {
		h.writeServiceError(c, err, "failed to delete contact message")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ContactHandlers) writeServiceError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, contact.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	case errors.Is(err, contact.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
	case errors.Is(err, contact.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "contact message not found"})
	default:
		h.log.Error().Err(err).Msg(logMsg)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}
