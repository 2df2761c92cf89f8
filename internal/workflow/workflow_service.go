package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go-leave/internal/domain"
	workflowerrors "go-leave/internal/workflow/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const ActiveRulesKeyPrefix = "workflow_rules:active:"

func ActiveRulesKey(companyID string) string {
	return ActiveRulesKeyPrefix + companyID
}

//go:generate mockgen -source=workflow_service.go -destination=mock/workflow_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req UpsertRuleRequest) (RuleResponse, error)
	Update(ctx context.Context, companyID, id string, req UpsertRuleRequest) (RuleResponse, error)
	Delete(ctx context.Context, companyID, id string) error
	GetAll(ctx context.Context, companyID string) ([]RuleResponse, error)
	GetByID(ctx context.Context, companyID, id string) (RuleResponse, error)
	// ActiveRules is the cached read used by the chain builder.
	ActiveRules(ctx context.Context, companyID string) ([]Rule, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	ttl    time.Duration
	sf     *singleflight.Group
	logger *zap.Logger
}

// NewService caches active rules in rdb for ttl. A nil rdb disables caching.
func NewService(repo Repository, rdb *redis.Client, ttl time.Duration, logger ...*zap.Logger) Service {
	l := zap.L().Named("workflow.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("workflow.service")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &service{repo: repo, rdb: rdb, ttl: ttl, sf: &singleflight.Group{}, logger: l}
}

func (s *service) Create(ctx context.Context, companyID string, req UpsertRuleRequest) (RuleResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return RuleResponse{}, workflowerrors.ErrInvalidCompanyID
	}
	rule := &Rule{CompanyID: companyUUID, IsActive: true}
	if err := applyRequest(rule, req); err != nil {
		return RuleResponse{}, err
	}

	if err := s.repo.Create(ctx, rule); err != nil {
		s.logger.Error("create workflow rule failed", zap.String("company_id", companyID), zap.Error(err))
		return RuleResponse{}, err
	}
	s.invalidate(ctx, companyID)

	s.logger.Info("create workflow rule success",
		zap.String("company_id", companyID),
		zap.String("rule_id", rule.ID.String()),
		zap.Int("priority", rule.Priority),
	)
	return mapToResponse(*rule), nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpsertRuleRequest) (RuleResponse, error) {
	rule, err := s.find(ctx, companyID, id)
	if err != nil {
		return RuleResponse{}, err
	}
	if err := applyRequest(rule, req); err != nil {
		return RuleResponse{}, err
	}

	if err := s.repo.Update(ctx, rule); err != nil {
		s.logger.Error("update workflow rule failed", zap.String("rule_id", id), zap.Error(err))
		return RuleResponse{}, err
	}
	s.invalidate(ctx, companyID)

	s.logger.Info("update workflow rule success", zap.String("rule_id", id))
	return mapToResponse(*rule), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return workflowerrors.ErrRuleNotFound
	}
	n, err := s.repo.Delete(ctx, companyID, id)
	if err != nil {
		s.logger.Error("delete workflow rule failed", zap.String("rule_id", id), zap.Error(err))
		return err
	}
	if n == 0 {
		return workflowerrors.ErrRuleNotFound
	}
	s.invalidate(ctx, companyID)
	return nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]RuleResponse, error) {
	rules, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	res := make([]RuleResponse, len(rules))
	for i, r := range rules {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (RuleResponse, error) {
	rule, err := s.find(ctx, companyID, id)
	if err != nil {
		return RuleResponse{}, err
	}
	return mapToResponse(*rule), nil
}

func (s *service) ActiveRules(ctx context.Context, companyID string) ([]Rule, error) {
	cacheKey := ActiveRulesKey(companyID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var rules []Rule
			if json.Unmarshal([]byte(cached), &rules) == nil {
				return rules, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("workflow rule cache read failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (any, error) {
		rules, err := s.repo.FindActiveByCompany(ctx, companyID)
		if err != nil {
			return nil, err
		}
		if s.rdb != nil {
			if raw, err := json.Marshal(rules); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, raw, s.ttl).Err(); err != nil {
					s.logger.Warn("workflow rule cache write failed", zap.String("key", cacheKey), zap.Error(err))
				}
			}
		}
		return rules, nil
	})
	if err != nil {
		s.logger.Error("load active workflow rules failed", zap.String("company_id", companyID), zap.Error(err))
		return nil, err
	}
	return v.([]Rule), nil
}

func (s *service) invalidate(ctx context.Context, companyID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := ActiveRulesKey(companyID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate workflow rule cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
	}
}

func (s *service) find(ctx context.Context, companyID, id string) (*Rule, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, workflowerrors.ErrRuleNotFound
	}
	rule, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workflowerrors.ErrRuleNotFound
		}
		return nil, err
	}
	return rule, nil
}

func applyRequest(rule *Rule, req UpsertRuleRequest) error {
	roles := make([]string, 0, len(req.RequesterRoles))
	for _, r := range req.RequesterRoles {
		role := domain.Role(strings.ToUpper(strings.TrimSpace(r)))
		if !role.Valid() {
			return workflowerrors.ErrInvalidRequesterRole
		}
		roles = append(roles, string(role))
	}

	chain := make([]string, 0, len(req.ApprovalChain))
	for _, r := range req.ApprovalChain {
		role := ApproverRole(strings.ToUpper(strings.TrimSpace(r)))
		if !role.Valid() {
			return workflowerrors.ErrInvalidApproverRole
		}
		chain = append(chain, string(role))
	}

	if req.DaysGreaterThan != nil && req.DaysLessThan != nil && *req.DaysGreaterThan >= *req.DaysLessThan {
		return workflowerrors.ErrInvalidDayBounds
	}

	rule.Name = strings.TrimSpace(req.Name)
	rule.Priority = req.Priority
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	rule.RequesterRoles = datatypes.JSONSlice[string](roles)
	rule.LeaveTypeIDs = datatypes.JSONSlice[string](nonNil(req.LeaveTypeIDs))
	rule.DepartmentIDs = datatypes.JSONSlice[string](nonNil(req.DepartmentIDs))
	rule.DaysGreaterThan = req.DaysGreaterThan
	rule.DaysLessThan = req.DaysLessThan
	rule.ApprovalChain = datatypes.JSONSlice[string](chain)
	rule.SkipDuplicateSignatures = req.SkipDuplicateSignatures
	return nil
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func mapToResponse(r Rule) RuleResponse {
	return RuleResponse{
		ID:                      r.ID.String(),
		Name:                    r.Name,
		Priority:                r.Priority,
		IsActive:                r.IsActive,
		RequesterRoles:          nonNil(r.RequesterRoles),
		LeaveTypeIDs:            nonNil(r.LeaveTypeIDs),
		DepartmentIDs:           nonNil(r.DepartmentIDs),
		DaysGreaterThan:         r.DaysGreaterThan,
		DaysLessThan:            r.DaysLessThan,
		ApprovalChain:           nonNil(r.ApprovalChain),
		SkipDuplicateSignatures: r.SkipDuplicateSignatures,
	}
}
