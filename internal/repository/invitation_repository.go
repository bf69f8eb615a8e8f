package repository

import (
	"fmt"
	"time"

	"github.com/workspacehq/workspace-api/internal/cache"
	"github.com/workspacehq/workspace-api/internal/constants"
	"github.com/workspacehq/workspace-api/internal/models"
)

// InvitationRepository stores invitations in the ephemeral store under
// invitation:<id>, with a per-email index under user_invitations:<email>.
// Record and index carry the same TTL; they are not transactional with each
// other, so readers tolerate index entries whose record is already gone.
type InvitationRepository interface {
	// Save persists an invitation and appends its id to the invitee's index
	Save(inv *models.Invitation) error

	// Get fetches an invitation by id. Expired records are deleted on read
	// and reported as absent.
	Get(id string) (*models.Invitation, error)

	// Delete removes an invitation and its index entry
	Delete(inv *models.Invitation) error

	// FindPending returns the pending invitation for (email, workspace), or
	// nil if none exists
	FindPending(email string, workspaceID uint64) (*models.Invitation, error)
}

type cacheInvitationRepository struct {
	store cache.Store
}

// NewInvitationRepository creates an InvitationRepository on the given store.
func NewInvitationRepository(store cache.Store) InvitationRepository {
	return &cacheInvitationRepository{store: store}
}

func invitationKey(id string) string {
	return fmt.Sprintf("invitation:%s", id)
}

func userInvitationsKey(email string) string {
	return fmt.Sprintf("user_invitations:%s", email)
}

// Save persists an invitation and appends its id to the invitee's index
func (r *cacheInvitationRepository) Save(inv *models.Invitation) error {
	ttl := time.Until(inv.ExpiresAt)
	if ttl <= 0 {
		ttl = constants.InvitationTTL
	}

	if err := r.store.SetJSON(invitationKey(inv.ID), inv, ttl); err != nil {
		return err
	}

	var ids []string
	if _, err := r.store.GetJSON(userInvitationsKey(inv.Email), &ids); err != nil {
		return err
	}
	for _, id := range ids {
		if id == inv.ID {
			return nil
		}
	}
	ids = append(ids, inv.ID)
	return r.store.SetJSON(userInvitationsKey(inv.Email), ids, constants.InvitationTTL)
}

// Get fetches an invitation by id, lazily deleting expired records
func (r *cacheInvitationRepository) Get(id string) (*models.Invitation, error) {
	var inv models.Invitation
	found, err := r.store.GetJSON(invitationKey(id), &inv)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	if inv.Expired() {
		// self-heal: the TTL should have removed this already
		if err := r.Delete(&inv); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return &inv, nil
}

// Delete removes an invitation and drops its id from the invitee's index
func (r *cacheInvitationRepository) Delete(inv *models.Invitation) error {
	if err := r.store.Delete(invitationKey(inv.ID)); err != nil {
		return err
	}

	var ids []string
	found, err := r.store.GetJSON(userInvitationsKey(inv.Email), &ids)
	if err != nil || !found {
		return err
	}

	remaining := ids[:0]
	for _, id := range ids {
		if id != inv.ID {
			remaining = append(remaining, id)
		}
	}
	if len(remaining) == 0 {
		return r.store.Delete(userInvitationsKey(inv.Email))
	}
	return r.store.SetJSON(userInvitationsKey(inv.Email), remaining, constants.InvitationTTL)
}

// FindPending scans the invitee's index for a pending invitation to the
// workspace, tolerating index entries whose record has already expired
func (r *cacheInvitationRepository) FindPending(email string, workspaceID uint64) (*models.Invitation, error) {
	var ids []string
	found, err := r.store.GetJSON(userInvitationsKey(email), &ids)
	if err != nil || !found {
		return nil, err
	}

	for _, id := range ids {
		inv, err := r.Get(id)
		if err != nil {
			return nil, err
		}
		if inv != nil && inv.WorkspaceID == workspaceID && inv.Status == models.InvitationPending {
			return inv, nil
		}
	}
	return nil, nil
}
