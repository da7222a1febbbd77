package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"securesphere/internal/apperr"
	"securesphere/internal/model"
	"securesphere/internal/notify"
	"securesphere/internal/repository"
)

const invitationTTL = 7 * 24 * time.Hour

// InviteService issues and manages registration invitations.
type InviteService struct {
	inviteRepo   repository.InvitationRepo
	userRepo     repository.UserRepo
	notifier     notify.Notifier
	externalBase string
	log          *slog.Logger
}

// NewInviteService creates an invitation service. externalBase is the public
// URL prefix used to build accept links.
func NewInviteService(inviteRepo repository.InvitationRepo, userRepo repository.UserRepo, notifier notify.Notifier, externalBase string, log *slog.Logger) *InviteService {
	return &InviteService{
		inviteRepo:   inviteRepo,
		userRepo:     userRepo,
		notifier:     notifier,
		externalBase: strings.TrimRight(externalBase, "/"),
		log:          log,
	}
}

// InviteResult reports the created invitation and whether the email went out.
type InviteResult struct {
	Invitation *model.Invitation `json:"invitation"`
	EmailSent  bool              `json:"emailSent"`
}

// Invite creates a single-use invitation for an email address. Only client
// and lead accounts can be created this way; superusers are seeded.
func (s *InviteService) Invite(ctx context.Context, inviter *model.User, email string, role model.Role, organization string) (*InviteResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperr.Validation("email", "a valid email address is required")
	}
	if role != model.RoleClient && role != model.RoleLead {
		return nil, apperr.Validation("role", fmt.Sprintf("cannot invite role %q", role))
	}

	if existing, err := s.userRepo.GetByEmail(ctx, email); err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	} else if existing != nil {
		return nil, apperr.Conflict("an account with this email already exists")
	}
	if pending, err := s.inviteRepo.GetPendingByEmail(ctx, email); err != nil {
		return nil, fmt.Errorf("check pending invitations: %w", err)
	} else if pending != nil {
		return nil, apperr.Conflict("an invitation for this email is already pending")
	}

	token, err := newInviteToken()
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	inv := &model.Invitation{
		Token:        token,
		Email:        email,
		Role:         role,
		Organization: organization,
		InvitedBy:    inviter.ID,
		ExpiresAt:    time.Now().Add(invitationTTL),
	}
	if err := s.inviteRepo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("create invitation: %w", err)
	}

	acceptLink := s.externalBase + "/register?token=" + token
	sent := s.notifier.SendInvitation(email, string(role), acceptLink, inviter.DisplayName())
	if !sent {
		s.log.Warn("invitation email not delivered", "email", email)
	}

	return &InviteResult{Invitation: inv, EmailSent: sent}, nil
}

// Revoke marks a pending invitation used so the token can no longer be
// redeemed.
func (s *InviteService) Revoke(ctx context.Context, invitationID string) error {
	inv, err := s.inviteRepo.GetByID(ctx, invitationID)
	if err != nil {
		return fmt.Errorf("load invitation: %w", err)
	}
	if inv == nil {
		return apperr.NotFound("invitation", invitationID)
	}
	if inv.IsUsed {
		return apperr.Conflict("invitation has already been used")
	}

	inv.IsUsed = true
	now := time.Now()
	inv.UsedAt = &now
	return s.inviteRepo.Update(ctx, inv)
}

// ListPending returns invitations that are unused and unexpired.
func (s *InviteService) ListPending(ctx context.Context) ([]*model.Invitation, error) {
	return s.inviteRepo.ListPending(ctx)
}

func newInviteToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
