package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-staffing-service/internal/api/dto"
	"github.com/spec-kit/event-staffing-service/internal/service"
	apperrors "github.com/spec-kit/event-staffing-service/pkg/util/errorutil"
)

// AccountsHandler exposes login, admin owner provisioning and the
// owner's credential-delivery roster view.
type AccountsHandler struct {
	authSvc  *service.AuthService
	accounts *service.AccountService
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(authSvc *service.AuthService, accounts *service.AccountService) *AccountsHandler {
	return &AccountsHandler{authSvc: authSvc, accounts: accounts}
}

// Login handles POST /auth/login.
func (h *AccountsHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}

	user, token, expiresAt, err := h.authSvc.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.AuthResponse{Token: token, ExpiresAt: expiresAt},
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"role":     string(user.Role),
		},
	})
}

// ProvisionOwner handles POST /admin/owners.
func (h *AccountsHandler) ProvisionOwner(c *fiber.Ctx) error {
	actor, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req dto.ProvisionOwnerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}

	creds, err := h.accounts.ProvisionOwner(c.Context(), actor, req.Username, req.Password, req.Phone, req.ExpiresAt)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.ProvisionedCredentialsResponse{
			Username: creds.User.Username,
			Password: creds.Password,
		},
	})
}

// ListOwners handles GET /admin/owners.
func (h *AccountsHandler) ListOwners(c *fiber.Ctx) error {
	actor, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	owners, err := h.accounts.ListOwners(c.Context(), actor)
	if err != nil {
		return err
	}

	resp := make([]dto.OwnerResponse, 0, len(owners))
	for _, owner := range owners {
		resp = append(resp, dto.OwnerResponse{
			ID:        owner.ID,
			Username:  owner.Username,
			Phone:     owner.Phone,
			ExpiresAt: owner.ExpiresAt,
			CreatedAt: owner.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": resp})
}

// StaffRoster handles GET /staff/roster.
func (h *AccountsHandler) StaffRoster(c *fiber.Ctx) error {
	actor, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	entries, err := h.accounts.ListProvisionedStaff(c.Context(), actor)
	if err != nil {
		return err
	}

	resp := make([]dto.StaffRosterResponse, 0, len(entries))
	for _, entry := range entries {
		phone := ""
		if entry.User.Phone != nil {
			phone = *entry.User.Phone
		}
		resp = append(resp, dto.StaffRosterResponse{
			ID:              entry.User.ID,
			Username:        entry.User.Username,
			Password:        entry.Secret,
			Phone:           phone,
			Role:            string(entry.User.Role),
			SentCredentials: entry.User.SentCredentials,
			EventID:         entry.EventID,
			EventTitle:      entry.EventTitle,
		})
	}
	return c.JSON(fiber.Map{"data": resp})
}

// MarkCredentialsSent handles POST /staff/roster/sent-credentials.
func (h *AccountsHandler) MarkCredentialsSent(c *fiber.Ctx) error {
	actor, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req dto.SentCredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}

	staff, err := h.accounts.MarkCredentialsSent(c.Context(), actor, req.StaffID, req.SentCredentials)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": fiber.Map{
		"id":               staff.ID,
		"sent_credentials": staff.SentCredentials,
	}})
}
