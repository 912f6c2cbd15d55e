package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-staffing-service/internal/api/dto"
	"github.com/spec-kit/event-staffing-service/internal/domain"
	"github.com/spec-kit/event-staffing-service/internal/service"
	apperrors "github.com/spec-kit/event-staffing-service/pkg/util/errorutil"
)

// DonationsHandler exposes donation recording and listing for an
// event's desk operators.
type DonationsHandler struct {
	donations *service.DonationService
}

// NewDonationsHandler constructs handler.
func NewDonationsHandler(donations *service.DonationService) *DonationsHandler {
	return &DonationsHandler{donations: donations}
}

// Record handles POST /events/:id/donations.
func (h *DonationsHandler) Record(c *fiber.Ctx) error {
	actor, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req dto.DonationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}

	result, err := h.donations.Record(c.Context(), actor, c.Params("id"), service.DonationInput{
		DonorName:       req.DonorName,
		DonorPhone:      req.DonorPhone,
		GiftItem:        req.GiftItem,
		Amount:          req.Amount,
		Notes:           req.Notes,
		RequestTemplate: req.SendSMS,
	})
	if err != nil {
		return err
	}

	body := fiber.Map{"data": donationResponse(result.Donation)}
	if req.SendSMS {
		body["template"] = result.Template
	}
	return c.Status(http.StatusCreated).JSON(body)
}

// List handles GET /events/:id/donations.
func (h *DonationsHandler) List(c *fiber.Ctx) error {
	actor, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	donations, err := h.donations.List(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}

	resp := make([]dto.DonationResponse, 0, len(donations))
	for i := range donations {
		resp = append(resp, donationResponse(&donations[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

func donationResponse(donation *domain.Donation) dto.DonationResponse {
	return dto.DonationResponse{
		ID:         donation.ID,
		EventID:    donation.EventID,
		DonorName:  donation.DonorName,
		DonorPhone: donation.DonorPhone,
		GiftItem:   donation.GiftItem,
		Amount:     donation.Amount,
		Notes:      donation.Notes,
		Status:     string(donation.Status),
		CreatedAt:  donation.CreatedAt,
	}
}
