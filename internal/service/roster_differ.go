package service

import (
	"strings"

	"github.com/spec-kit/event-staffing-service/internal/domain"
	apperrors "github.com/spec-kit/event-staffing-service/pkg/util/errorutil"
)

// RosterEntry is one desired member of a role group. ID is empty for
// members that have not been provisioned yet. Password is only
// required for new members; for existing ones a non-empty password
// requests a credential rotation.
type RosterEntry struct {
	ID       string
	Username string
	Password string
	Phone    string
}

// RosterUpdate pairs an existing account with the field values the
// desired roster asks for. Password is empty when unchanged.
type RosterUpdate struct {
	Existing domain.User
	Username string
	Phone    string
	Password string
}

// RosterPlan is the minimal set of operations that turns the current
// role-group membership into the desired one.
type RosterPlan struct {
	Creates  []RosterEntry
	Updates  []RosterUpdate
	Detaches []string
}

// Empty reports whether the plan contains no operations.
func (p RosterPlan) Empty() bool {
	return len(p.Creates) == 0 && len(p.Updates) == 0 && len(p.Detaches) == 0
}

// DiffRoster computes the create/update/detach plan for one role group.
//
// Desired entries missing a username or phone are silently dropped, as
// are new entries missing a password. Entries match existing members by
// id when present, otherwise by username. Explicit removals always win:
// an id listed for removal is detached even if the desired roster also
// carries an update for it.
//
// Ambiguity is rejected rather than guessed at: if a username matches
// more than one existing member, or two desired entries resolve to the
// same existing member, or two desired entries would create the same
// username, DiffRoster returns a conflict error.
func DiffRoster(existing []domain.User, desired []RosterEntry, removals []string) (RosterPlan, error) {
	var plan RosterPlan

	removed := make(map[string]struct{}, len(removals))
	for _, id := range removals {
		if id == "" {
			continue
		}
		removed[id] = struct{}{}
		plan.Detaches = append(plan.Detaches, id)
	}

	byID := make(map[string]*domain.User, len(existing))
	byUsername := make(map[string][]*domain.User, len(existing))
	for i := range existing {
		member := &existing[i]
		byID[member.ID] = member
		byUsername[member.Username] = append(byUsername[member.Username], member)
	}

	claimed := make(map[string]string, len(desired))
	createNames := make(map[string]struct{}, len(desired))

	for _, entry := range desired {
		entry.Username = strings.TrimSpace(entry.Username)
		entry.Phone = strings.TrimSpace(entry.Phone)
		if entry.Username == "" || entry.Phone == "" {
			continue
		}

		var match *domain.User
		if entry.ID != "" {
			match = byID[entry.ID]
		} else {
			candidates := byUsername[entry.Username]
			if len(candidates) > 1 {
				return RosterPlan{}, apperrors.NewConflict("ambiguous roster match", map[string]any{
					"username": entry.Username,
				})
			}
			if len(candidates) == 1 {
				match = candidates[0]
			}
		}

		if match == nil {
			if entry.Password == "" {
				continue
			}
			if _, dup := createNames[entry.Username]; dup {
				return RosterPlan{}, apperrors.NewConflict("duplicate username in roster", map[string]any{
					"username": entry.Username,
				})
			}
			createNames[entry.Username] = struct{}{}
			plan.Creates = append(plan.Creates, entry)
			continue
		}

		if prior, dup := claimed[match.ID]; dup {
			return RosterPlan{}, apperrors.NewConflict("duplicate roster entries for one member", map[string]any{
				"member_id": match.ID,
				"usernames": []string{prior, entry.Username},
			})
		}
		claimed[match.ID] = entry.Username

		// Removal is authoritative; drop any update payload.
		if _, gone := removed[match.ID]; gone {
			continue
		}

		update := RosterUpdate{
			Existing: *match,
			Username: entry.Username,
			Phone:    entry.Phone,
			Password: entry.Password,
		}
		if !updateChangesMember(update) {
			continue
		}
		plan.Updates = append(plan.Updates, update)
	}

	return plan, nil
}

func updateChangesMember(update RosterUpdate) bool {
	if update.Password != "" {
		return true
	}
	if update.Username != update.Existing.Username {
		return true
	}
	currentPhone := ""
	if update.Existing.Phone != nil {
		currentPhone = *update.Existing.Phone
	}
	return update.Phone != currentPhone
}
