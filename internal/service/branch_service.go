package service

import (
	"errors"
	"fmt"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
	"go-retail-pos/pkg/validator"

	"github.com/google/uuid"
)

var ErrNoPricingGroup = errors.New("automated pricing requires at least one enabled pricing group")

type BranchService interface {
	CreateBranch(req *model.Branch, creatorID string) error
	UpdateBranch(id uuid.UUID, req *model.Branch, updaterID string) (*model.Branch, error)
	GetBranches() ([]model.Branch, error)
	GetBranch(id uuid.UUID) (*model.Branch, error)
}

type branchService struct {
	branchRepo repository.BranchRepository
	hub        broadcaster
}

func NewBranchService(branchRepo repository.BranchRepository, hub broadcaster) BranchService {
	return &branchService{
		branchRepo: branchRepo,
		hub:        hub,
	}
}

func validateBranchPolicy(branch *model.Branch) error {
	if branch.PricingType == model.PricingAutomated && !branch.RetailEnabled && !branch.WholesaleEnabled {
		return ErrNoPricingGroup
	}
	return nil
}

func (s *branchService) CreateBranch(req *model.Branch, creatorID string) error {
	// 1. Validate request
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	if err := validateBranchPolicy(req); err != nil {
		return err
	}

	// 2. Set audit fields
	req.CreatedBy = creatorID
	req.UpdatedBy = creatorID

	// 3. Persist
	if err := s.branchRepo.Create(req); err != nil {
		return err
	}

	go s.hub.BroadcastJSON(map[string]interface{}{
		"type":   "branch_update",
		"action": "branch_created",
		"branch": req,
	})

	return nil
}

func (s *branchService) UpdateBranch(id uuid.UUID, req *model.Branch, updaterID string) (*model.Branch, error) {
	if err := validateBranchPolicy(req); err != nil {
		return nil, err
	}

	branch, err := s.branchRepo.FindByID(id)
	if err != nil {
		return nil, ErrBranchNotFound
	}

	branch.Name = req.Name
	branch.Address = req.Address
	branch.PricingType = req.PricingType
	branch.RetailEnabled = req.RetailEnabled
	branch.WholesaleEnabled = req.WholesaleEnabled
	branch.UpdatedBy = updaterID

	if err := s.branchRepo.Update(branch); err != nil {
		return nil, err
	}

	// A pricing policy change affects every open cart at the branch; clients
	// re-resolve prices on their next add.
	go s.hub.BroadcastJSON(map[string]interface{}{
		"type":   "branch_update",
		"action": "branch_updated",
		"branch": branch,
	})

	return branch, nil
}

func (s *branchService) GetBranches() ([]model.Branch, error) {
	return s.branchRepo.FindAll()
}

func (s *branchService) GetBranch(id uuid.UUID) (*model.Branch, error) {
	branch, err := s.branchRepo.FindByID(id)
	if err != nil {
		return nil, ErrBranchNotFound
	}
	return branch, nil
}
