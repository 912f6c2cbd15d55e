package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-staffing-service/internal/api/dto"
	"github.com/spec-kit/event-staffing-service/internal/auth"
	"github.com/spec-kit/event-staffing-service/internal/domain"
	"github.com/spec-kit/event-staffing-service/internal/service"
	apperrors "github.com/spec-kit/event-staffing-service/pkg/util/errorutil"
)

// EventsHandler exposes event CRUD plus the staffing reconciliation
// entry points.
type EventsHandler struct {
	events    *service.EventService
	templates *service.TemplateService
}

// NewEventsHandler constructs handler.
func NewEventsHandler(events *service.EventService, templates *service.TemplateService) *EventsHandler {
	return &EventsHandler{events: events, templates: templates}
}

// Create handles POST /events (multipart form).
func (h *EventsHandler) Create(c *fiber.Ctx) error {
	actor, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	input := service.CreateEventInput{
		Title:       c.FormValue("title"),
		Type:        c.FormValue("type"),
		SMSTemplate: c.FormValue("sms_template"),
	}
	if loc := c.FormValue("location"); loc != "" {
		input.Location = &loc
	}
	if input.Date, err = parseEventDate(c.FormValue("date")); err != nil {
		return err
	}
	if input.Presenters, err = parseRoster(c.FormValue("presenters")); err != nil {
		return err
	}
	if input.DeskOperators, err = parseRoster(c.FormValue("desk_operators")); err != nil {
		return err
	}
	if input.Image, err = parseImageAction(c); err != nil {
		return err
	}

	event, err := h.events.CreateEvent(c.Context(), actor, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": eventResponse(event)})
}

// Update handles PUT /events/:id (multipart form).
func (h *EventsHandler) Update(c *fiber.Ctx) error {
	actor, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	input := service.UpdateEventInput{
		Title:       c.FormValue("title"),
		Type:        c.FormValue("type"),
		SMSTemplate: c.FormValue("sms_template"),
	}
	if loc := c.FormValue("location"); loc != "" {
		input.Location = &loc
	}
	if input.Date, err = parseEventDate(c.FormValue("date")); err != nil {
		return err
	}
	if input.Presenters, err = parseRoster(c.FormValue("presenters")); err != nil {
		return err
	}
	if input.DeskOperators, err = parseRoster(c.FormValue("desk_operators")); err != nil {
		return err
	}
	if input.RemovedPresenters, err = parseIDList(c.FormValue("removed_presenters")); err != nil {
		return err
	}
	if input.RemovedDeskOperators, err = parseIDList(c.FormValue("removed_desk_operators")); err != nil {
		return err
	}
	if input.Image, err = parseImageAction(c); err != nil {
		return err
	}

	event, err := h.events.UpdateEvent(c.Context(), actor, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": eventResponse(event)})
}

// Get handles GET /events/:id.
func (h *EventsHandler) Get(c *fiber.Ctx) error {
	actor, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	detail, err := h.events.GetEvent(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}

	resp := dto.EventDetailResponse{
		EventResponse: eventResponse(detail.Event),
		Presenters:    rosterResponse(detail.Presenters),
		DeskOperators: rosterResponse(detail.DeskOperators),
	}
	return c.JSON(fiber.Map{"data": resp})
}

// List handles GET /events.
func (h *EventsHandler) List(c *fiber.Ctx) error {
	actor, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	eventsList, err := h.events.ListEvents(c.Context(), actor)
	if err != nil {
		return err
	}

	resp := make([]dto.EventResponse, 0, len(eventsList))
	for i := range eventsList {
		resp = append(resp, eventResponse(&eventsList[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Delete handles DELETE /events/:id.
func (h *EventsHandler) Delete(c *fiber.Ctx) error {
	actor, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	if err := h.events.DeleteEvent(c.Context(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "deleted"}})
}

// CurrentTemplate handles GET /events/:id/template.
func (h *EventsHandler) CurrentTemplate(c *fiber.Ctx) error {
	if _, err := requirePrincipal(c); err != nil {
		return err
	}
	content, err := h.templates.Current(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TemplateResponse{Content: content}})
}

func requirePrincipal(c *fiber.Ctx) (*domain.User, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal.User, nil
}

func parseRoster(raw string) ([]service.RosterEntry, error) {
	if raw == "" {
		return nil, nil
	}
	var reqs []dto.RosterEntryRequest
	if err := json.Unmarshal([]byte(raw), &reqs); err != nil {
		return nil, apperrors.NewValidationError("invalid roster payload", nil)
	}
	entries := make([]service.RosterEntry, 0, len(reqs))
	for _, req := range reqs {
		entries = append(entries, service.RosterEntry{
			ID:       req.ID,
			Username: req.Username,
			Password: req.Password,
			Phone:    req.Phone,
		})
	}
	return entries, nil
}

func parseIDList(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, apperrors.NewValidationError("invalid removal list", nil)
	}
	return ids, nil
}

func parseEventDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return &parsed, nil
		}
	}
	return nil, apperrors.NewValidationError("invalid date", nil)
}

func parseImageAction(c *fiber.Ctx) (service.ImageAction, error) {
	var action service.ImageAction
	if removeRaw := c.FormValue("remove_image"); removeRaw != "" {
		remove, err := strconv.ParseBool(removeRaw)
		if err != nil {
			return action, apperrors.NewValidationError("invalid remove_image flag", nil)
		}
		action.Remove = remove
	}

	header, err := c.FormFile("image")
	if err != nil {
		// No file part; remove-only or no-change action.
		return action, nil
	}

	file, err := header.Open()
	if err != nil {
		return action, apperrors.NewValidationError("unreadable image upload", nil)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return action, apperrors.NewValidationError("unreadable image upload", nil)
	}
	if len(data) == 0 {
		return action, apperrors.NewValidationError("image file is empty", nil)
	}

	action.Data = data
	action.ContentType = header.Header.Get("Content-Type")
	action.Filename = header.Filename
	return action, nil
}

func eventResponse(event *domain.Event) dto.EventResponse {
	return dto.EventResponse{
		ID:        event.ID,
		Title:     event.Title,
		Location:  event.Location,
		Date:      event.Date,
		Type:      event.Type,
		ImageURL:  event.ImageURL,
		CreatedAt: event.CreatedAt,
		UpdatedAt: event.UpdatedAt,
	}
}

func rosterResponse(members []domain.User) []dto.RosterMemberResponse {
	resp := make([]dto.RosterMemberResponse, 0, len(members))
	for _, member := range members {
		phone := ""
		if member.Phone != nil {
			phone = *member.Phone
		}
		resp = append(resp, dto.RosterMemberResponse{
			ID:       member.ID,
			Username: member.Username,
			Phone:    phone,
		})
	}
	return resp
}
