package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pventura/congregation-admin/pkg/core/catalog"
	"github.com/pventura/congregation-admin/pkg/core/model"
	"github.com/pventura/congregation-admin/pkg/core/rotation"
)

// MemberStore defines the persistence operations needed for roster
// management.
type MemberStore interface {
	GetMembers(ctx context.Context) ([]*model.Member, error)
	ReplaceMembers(ctx context.Context, members []*model.Member) error
}

// MemberInput carries the editable fields of a member.
type MemberInput struct {
	Name        string
	Gender      string
	Eligibility map[catalog.BaseFunction]bool
	Relatives   []string
}

func validateMemberInput(in MemberInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("member name is required")
	}
	if in.Gender != model.GenderMale && in.Gender != model.GenderFemale {
		return fmt.Errorf("member gender must be %q or %q", model.GenderMale, model.GenderFemale)
	}
	for base := range in.Eligibility {
		if _, ok := catalog.ByBase(base); !ok {
			return fmt.Errorf("unknown duty function %q", base)
		}
	}
	return nil
}

// ListMembers returns the roster sorted by name.
func ListMembers(ctx context.Context, database MemberStore) ([]*model.Member, error) {
	members, err := database.GetMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch members: %w", err)
	}
	return members, nil
}

// AddMember creates a member with a fresh id and empty history.
// Relative links are stored on both sides.
func AddMember(
	ctx context.Context,
	database MemberStore,
	logger *zap.Logger,
	in MemberInput,
) (*model.Member, error) {
	if err := validateMemberInput(in); err != nil {
		return nil, err
	}

	roster, err := database.GetMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch members: %w", err)
	}

	member := &model.Member{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(in.Name),
		Gender:      in.Gender,
		Eligibility: in.Eligibility,
		Relatives:   make(map[string]bool),
		History:     make(map[string]catalog.FunctionKey),
	}
	if member.Eligibility == nil {
		member.Eligibility = make(map[catalog.BaseFunction]bool)
	}

	roster = append(roster, member)
	if err := linkRelatives(roster, member, in.Relatives); err != nil {
		return nil, err
	}

	if err := database.ReplaceMembers(ctx, roster); err != nil {
		return nil, fmt.Errorf("failed to save members: %w", err)
	}

	logger.Info("Member added",
		zap.String("member_id", member.ID),
		zap.String("name", member.Name))
	return member, nil
}

// UpdateMember edits a member's details in place. History is never
// touched here; use ResetMemberHistory for that.
func UpdateMember(
	ctx context.Context,
	database MemberStore,
	logger *zap.Logger,
	memberID string,
	in MemberInput,
) (*model.Member, error) {
	if err := validateMemberInput(in); err != nil {
		return nil, err
	}

	roster, err := database.GetMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch members: %w", err)
	}

	member := findMember(roster, memberID)
	if member == nil {
		return nil, fmt.Errorf("member %s not found", memberID)
	}

	member.Name = strings.TrimSpace(in.Name)
	member.Gender = in.Gender
	member.Eligibility = in.Eligibility
	if member.Eligibility == nil {
		member.Eligibility = make(map[catalog.BaseFunction]bool)
	}

	// Relative links are symmetric, so rebuild both sides.
	for _, other := range roster {
		delete(other.Relatives, member.ID)
	}
	member.Relatives = make(map[string]bool)
	if err := linkRelatives(roster, member, in.Relatives); err != nil {
		return nil, err
	}

	if err := database.ReplaceMembers(ctx, roster); err != nil {
		return nil, fmt.Errorf("failed to save members: %w", err)
	}

	logger.Info("Member updated", zap.String("member_id", memberID))
	return member, nil
}

// DeleteMember removes a member from the roster and from every other
// member's relative links. Existing schedules keep the stale id until
// they are regenerated or substituted.
func DeleteMember(
	ctx context.Context,
	database MemberStore,
	logger *zap.Logger,
	memberID string,
) error {
	roster, err := database.GetMembers(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch members: %w", err)
	}

	kept := make([]*model.Member, 0, len(roster))
	found := false
	for _, m := range roster {
		if m.ID == memberID {
			found = true
			continue
		}
		delete(m.Relatives, memberID)
		kept = append(kept, m)
	}
	if !found {
		return fmt.Errorf("member %s not found", memberID)
	}

	if err := database.ReplaceMembers(ctx, kept); err != nil {
		return fmt.Errorf("failed to save members: %w", err)
	}

	logger.Info("Member deleted", zap.String("member_id", memberID))
	return nil
}

// ResetMemberHistory wipes one member's rotation history so the
// selector treats them as never assigned.
func ResetMemberHistory(
	ctx context.Context,
	database MemberStore,
	logger *zap.Logger,
	memberID string,
) error {
	roster, err := database.GetMembers(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch members: %w", err)
	}

	member := findMember(roster, memberID)
	if member == nil {
		return fmt.Errorf("member %s not found", memberID)
	}
	rotation.ResetHistory(member)

	if err := database.ReplaceMembers(ctx, roster); err != nil {
		return fmt.Errorf("failed to save members: %w", err)
	}

	logger.Info("Member history reset", zap.String("member_id", memberID))
	return nil
}

func findMember(roster []*model.Member, id string) *model.Member {
	for _, m := range roster {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func linkRelatives(roster []*model.Member, member *model.Member, relativeIDs []string) error {
	for _, id := range relativeIDs {
		if id == member.ID {
			return fmt.Errorf("member cannot be their own relative")
		}
		other := findMember(roster, id)
		if other == nil {
			return fmt.Errorf("relative %s not found", id)
		}
		if member.Relatives == nil {
			member.Relatives = make(map[string]bool)
		}
		if other.Relatives == nil {
			other.Relatives = make(map[string]bool)
		}
		member.Relatives[other.ID] = true
		other.Relatives[member.ID] = true
	}
	return nil
}
