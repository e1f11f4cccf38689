package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/bukubesar/internal/apperrors"
	"github.com/SscSPs/bukubesar/internal/core/domain"
	portsrepo "github.com/SscSPs/bukubesar/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bukubesar/internal/core/ports/services"
	"github.com/SscSPs/bukubesar/internal/dto"
	"github.com/google/uuid"
)

// chartOfAccounts implements the AccountSvcFacade interface
type chartOfAccounts struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewChartOfAccounts creates the account registry service.
func NewChartOfAccounts(repo portsrepo.AccountRepositoryFacade, opts ...ServiceOption) portssvc.AccountSvcFacade {
	return &chartOfAccounts{
		BaseService: newBaseService(buildOptions(opts)),
		accountRepo: repo,
	}
}

// Ensure chartOfAccounts implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*chartOfAccounts)(nil)

func (s *chartOfAccounts) Resolve(ctx context.Context, codeOrID string) (*domain.Account, error) {
	first, second := s.accountRepo.FindAccountByCode, s.accountRepo.FindAccountByID
	if uuid.Validate(codeOrID) == nil {
		first, second = second, first
	}

	acc, err := first(ctx, codeOrID)
	if errors.Is(err, apperrors.ErrNotFound) {
		acc, err = second(ctx, codeOrID)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("account " + codeOrID)
		}
		return nil, fmt.Errorf("failed to resolve account %s: %w", codeOrID, err)
	}
	return acc, nil
}

func (s *chartOfAccounts) IsActive(account domain.Account) bool {
	return account.IsActive
}

func (s *chartOfAccounts) ResolveLines(ctx context.Context, lines []domain.JournalLine) (map[string]domain.Account, error) {
	resolved := make(map[string]domain.Account, len(lines))
	for i, line := range lines {
		if _, ok := resolved[line.AccountID]; ok {
			continue
		}
		acc, err := s.Resolve(ctx, line.AccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, &apperrors.UnknownAccountError{Index: i, Ref: line.AccountID}
			}
			return nil, err
		}
		if !s.IsActive(*acc) {
			return nil, &apperrors.UnknownAccountError{Index: i, Ref: line.AccountID, Inactive: true}
		}
		resolved[line.AccountID] = *acc
	}
	return resolved, nil
}

func (s *chartOfAccounts) ListAccounts(ctx context.Context, includeInactive bool) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, includeInactive)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

func (s *chartOfAccounts) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actor string) (*domain.Account, error) {
	if !domain.ValidAccountCode(req.Code) {
		return nil, apperrors.NewValidationError("account code %q is not a valid hierarchical code", req.Code)
	}
	if !req.AccountType.Valid() {
		return nil, apperrors.NewValidationError("account type %q is not valid", req.AccountType)
	}
	if req.Name == "" {
		return nil, apperrors.NewValidationError("account name is required")
	}
	normal := req.AccountType.NormalBalance()
	if req.NormalBalance != nil {
		if !req.NormalBalance.Valid() {
			return nil, apperrors.NewValidationError("normal balance %q is not valid", *req.NormalBalance)
		}
		normal = *req.NormalBalance
	}

	now := s.now()
	account := domain.Account{
		AccountID:     s.newID(),
		Code:          req.Code,
		Name:          req.Name,
		AccountType:   req.AccountType,
		NormalBalance: normal,
		Description:   req.Description,
		IsActive:      true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
			Version:       1,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			s.LogWarn(ctx, err, "Account code already in use", slog.String("code", req.Code))
			return nil, fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, req.Code)
		}
		s.LogError(ctx, err, "Failed to save account", slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

// UpdateAccount edits an account. Once a posted line references the account
// only its description may change.
func (s *chartOfAccounts) UpdateAccount(ctx context.Context, codeOrID string, req dto.UpdateAccountRequest, actor string) (*domain.Account, error) {
	account, err := s.Resolve(ctx, codeOrID)
	if err != nil {
		return nil, err
	}

	structural := req.Code != nil || req.Name != nil || req.AccountType != nil || req.NormalBalance != nil
	if structural {
		referenced, err := s.accountRepo.IsAccountReferenced(ctx, account.AccountID)
		if err != nil {
			return nil, fmt.Errorf("failed to check account usage: %w", err)
		}
		if referenced {
			return nil, fmt.Errorf("%w: account %s is referenced by posted journals", apperrors.ErrConflict, account.Code)
		}
	}

	if req.Code != nil {
		if !domain.ValidAccountCode(*req.Code) {
			return nil, apperrors.NewValidationError("account code %q is not a valid hierarchical code", *req.Code)
		}
		account.Code = *req.Code
	}
	if req.Name != nil {
		if *req.Name == "" {
			return nil, apperrors.NewValidationError("account name is required")
		}
		account.Name = *req.Name
	}
	if req.AccountType != nil {
		if !req.AccountType.Valid() {
			return nil, apperrors.NewValidationError("account type %q is not valid", *req.AccountType)
		}
		account.AccountType = *req.AccountType
		if req.NormalBalance == nil {
			account.NormalBalance = account.AccountType.NormalBalance()
		}
	}
	if req.NormalBalance != nil {
		if !req.NormalBalance.Valid() {
			return nil, apperrors.NewValidationError("normal balance %q is not valid", *req.NormalBalance)
		}
		account.NormalBalance = *req.NormalBalance
	}
	if req.Description != nil {
		account.Description = *req.Description
	}

	return s.save(ctx, account, actor)
}

func (s *chartOfAccounts) SetAccountActive(ctx context.Context, codeOrID string, active bool, actor string) (*domain.Account, error) {
	account, err := s.Resolve(ctx, codeOrID)
	if err != nil {
		return nil, err
	}
	if account.IsActive == active {
		return account, nil
	}
	account.IsActive = active
	return s.save(ctx, account, actor)
}

func (s *chartOfAccounts) save(ctx context.Context, account *domain.Account, actor string) (*domain.Account, error) {
	account.LastUpdatedAt = s.now()
	account.LastUpdatedBy = actor
	account.Version++
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, account.Code)
		}
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", account.AccountID))
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	s.LogInfo(ctx, "Account updated", slog.String("account_id", account.AccountID), slog.Bool("is_active", account.IsActive))
	return account, nil
}
