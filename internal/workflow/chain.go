package workflow

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"go-leave/internal/domain"

	"github.com/google/uuid"
)

// ApproverRole is the abstract role a chain level is resolved from.
type ApproverRole string

const (
	DirectManager    ApproverRole = "DIRECT_MANAGER"
	DepartmentHead   ApproverRole = "DEPARTMENT_HEAD"
	HRApprover       ApproverRole = "HR"
	Executive        ApproverRole = "EXECUTIVE"
	AnotherExecutive ApproverRole = "ANOTHER_EXECUTIVE"

	// LateBoundExecutive marks records created on the fly for a peer executive.
	LateBoundExecutive ApproverRole = "LATE_BOUND_EXECUTIVE"
)

var approverRoles = []ApproverRole{DirectManager, DepartmentHead, HRApprover, Executive, AnotherExecutive}

func (r ApproverRole) Valid() bool {
	return slices.Contains(approverRoles, r)
}

// DefaultChain is used when no active rule matches.
func DefaultChain(role domain.Role) []ApproverRole {
	switch role {
	case domain.RoleManager:
		return []ApproverRole{DepartmentHead}
	case domain.RoleDepartmentDirector, domain.RoleExecutive:
		return []ApproverRole{AnotherExecutive}
	default:
		return []ApproverRole{DirectManager}
	}
}

// Requester is the snapshot of the employee a chain is built for. Empty
// reference ids mean the reference is not set.
type Requester struct {
	ID           string
	CompanyID    string
	Role         domain.Role
	DepartmentID string
	ManagerID    string
	DirectorID   string
}

// Directory answers the employee lookups needed to resolve approvers.
type Directory interface {
	IsActiveEmployee(ctx context.Context, companyID, id string) (bool, error)
	// FirstActiveByRole returns a deterministic active holder of role other than excludeID.
	FirstActiveByRole(ctx context.Context, companyID string, role domain.Role, excludeID string) (string, bool, error)
}

type ChainInput struct {
	Requester   Requester
	LeaveTypeID string
	Days        int
	Rules       []Rule
}

type Level struct {
	Level        int
	ApproverID   string
	ApproverRole ApproverRole
}

type Chain struct {
	Levels []Level
	// RuleID is the matched rule, nil when the default chain was used.
	RuleID *uuid.UUID
}

// MatchRule returns the highest-priority active rule whose conditions all hold.
func MatchRule(rules []Rule, requester Requester, leaveTypeID string, days int) *Rule {
	candidates := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if r.IsActive {
			candidates = append(candidates, r)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Priority > candidates[j].Priority
	})

	for i := range candidates {
		r := candidates[i]
		if !matchesAny(r.RequesterRoles, string(requester.Role)) {
			continue
		}
		if !matchesAny(r.LeaveTypeIDs, leaveTypeID) {
			continue
		}
		if !matchesAny(r.DepartmentIDs, requester.DepartmentID) {
			continue
		}
		if r.DaysGreaterThan != nil && days <= *r.DaysGreaterThan {
			continue
		}
		if r.DaysLessThan != nil && days >= *r.DaysLessThan {
			continue
		}
		return &r
	}
	return nil
}

func matchesAny(list []string, v string) bool {
	return len(list) == 0 || slices.Contains(list, v)
}

// BuildChain resolves the abstract chain for a request into concrete
// approvers. Levels that cannot be resolved are dropped and the rest are
// renumbered from 1.
func BuildChain(ctx context.Context, dir Directory, in ChainInput) (Chain, error) {
	roles := DefaultChain(in.Requester.Role)
	skipDuplicates := false

	var chain Chain
	if rule := MatchRule(in.Rules, in.Requester, in.LeaveTypeID, in.Days); rule != nil {
		roles = make([]ApproverRole, 0, len(rule.ApprovalChain))
		for _, raw := range rule.ApprovalChain {
			roles = append(roles, ApproverRole(raw))
		}
		skipDuplicates = rule.SkipDuplicateSignatures
		id := rule.ID
		chain.RuleID = &id
	}

	seen := make(map[string]bool, len(roles))
	for _, role := range roles {
		approverID, ok, err := resolve(ctx, dir, in.Requester, role)
		if err != nil {
			return Chain{}, err
		}
		if !ok {
			continue
		}
		if skipDuplicates && seen[approverID] {
			continue
		}
		seen[approverID] = true
		chain.Levels = append(chain.Levels, Level{
			Level:        len(chain.Levels) + 1,
			ApproverID:   approverID,
			ApproverRole: role,
		})
	}
	return chain, nil
}

func resolve(ctx context.Context, dir Directory, req Requester, role ApproverRole) (string, bool, error) {
	switch role {
	case DirectManager:
		return resolveReference(ctx, dir, req, req.ManagerID)
	case DepartmentHead:
		return resolveReference(ctx, dir, req, req.DirectorID)
	case HRApprover:
		return dir.FirstActiveByRole(ctx, req.CompanyID, domain.RoleHR, req.ID)
	case Executive, AnotherExecutive:
		return dir.FirstActiveByRole(ctx, req.CompanyID, domain.RoleExecutive, req.ID)
	case LateBoundExecutive:
		// only ever assigned by the approval executor
		return "", false, nil
	default:
		return "", false, fmt.Errorf("unknown approver role %q", role)
	}
}

func resolveReference(ctx context.Context, dir Directory, req Requester, ref string) (string, bool, error) {
	if ref == "" || ref == req.ID {
		return "", false, nil
	}
	active, err := dir.IsActiveEmployee(ctx, req.CompanyID, ref)
	if err != nil || !active {
		return "", false, err
	}
	return ref, true, nil
}
