package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"doccompare/internal/domain"
	"doccompare/internal/service"
	"doccompare/mocks"
)

func strPtr(s string) *string { return &s }

func TestRuleService_Create(t *testing.T) {
	repo := new(mocks.MockRuleRepo)
	svc := service.NewRuleService(repo, service.NewOwnershipGuard(false))
	userID := uuid.New()
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.ComparisonRule")).Return(nil)

	rule, err := svc.Create(context.Background(), &service.CreateRuleInput{
		UserID:                 userID,
		Name:                   "  Weights  ",
		ComparisonInstructions: " Compare weights ",
		CriticalChecks:         []string{"weights match", " ", ""},
	})

	require.NoError(t, err)
	assert.Equal(t, "Weights", rule.Name)
	assert.Equal(t, "Compare weights", rule.ComparisonInstructions)
	assert.Equal(t, domain.StringList{"weights match"}, rule.CriticalChecks)
	assert.NotNil(t, rule.ExtractionFields)
	assert.False(t, rule.IsDefault)
	assert.Equal(t, userID, rule.UserID)
}

func TestRuleService_Create_RequiresNameAndInstructions(t *testing.T) {
	repo := new(mocks.MockRuleRepo)
	svc := service.NewRuleService(repo, service.NewOwnershipGuard(false))

	_, err := svc.Create(context.Background(), &service.CreateRuleInput{UserID: uuid.New(), Name: "x"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.Create(context.Background(), &service.CreateRuleInput{UserID: uuid.New(), ComparisonInstructions: "x"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRuleService_List_NeverNil(t *testing.T) {
	repo := new(mocks.MockRuleRepo)
	svc := service.NewRuleService(repo, service.NewOwnershipGuard(false))
	userID := uuid.New()
	repo.On("ListByUser", mock.Anything, userID).Return(nil, nil)
	repo.On("CreateDefault", mock.Anything, mock.AnythingOfType("*domain.ComparisonRule")).Return(false, nil)

	rules, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	assert.NotNil(t, rules)
}

func TestRuleService_List_ProvisionsDefaultRule(t *testing.T) {
	repo := new(mocks.MockRuleRepo)
	svc := service.NewRuleService(repo, service.NewOwnershipGuard(false))
	userID := uuid.New()

	var provisioned *domain.ComparisonRule
	repo.On("ListByUser", mock.Anything, userID).Return([]domain.ComparisonRule{}, nil).Once()
	repo.On("CreateDefault", mock.Anything, mock.AnythingOfType("*domain.ComparisonRule")).
		Run(func(args mock.Arguments) { provisioned = args.Get(1).(*domain.ComparisonRule) }).
		Return(true, nil).Once()
	stored := service.DefaultRule(userID)
	repo.On("ListByUser", mock.Anything, userID).Return([]domain.ComparisonRule{*stored}, nil).Once()

	rules, err := svc.List(context.Background(), userID)

	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.True(t, rules[0].IsDefault)
	require.NotNil(t, provisioned)
	assert.True(t, provisioned.IsDefault)
	assert.Equal(t, userID, provisioned.UserID)
	assert.NotEmpty(t, provisioned.ComparisonInstructions)
	assert.NotEmpty(t, provisioned.CriticalChecks)
	repo.AssertExpectations(t)
}

func TestRuleService_List_KeepsExistingDefault(t *testing.T) {
	repo := new(mocks.MockRuleRepo)
	svc := service.NewRuleService(repo, service.NewOwnershipGuard(false))
	userID := uuid.New()
	def := service.DefaultRule(userID)
	repo.On("ListByUser", mock.Anything, userID).Return([]domain.ComparisonRule{*def, *ownedRule(userID)}, nil).Once()

	rules, err := svc.List(context.Background(), userID)

	require.NoError(t, err)
	assert.Len(t, rules, 2)
	repo.AssertNotCalled(t, "CreateDefault", mock.Anything, mock.Anything)
}

func TestRuleService_ProvisionedDefaultRejectsChanges(t *testing.T) {
	repo := new(mocks.MockRuleRepo)
	svc := service.NewRuleService(repo, service.NewOwnershipGuard(false))
	userID := uuid.New()

	var provisioned *domain.ComparisonRule
	repo.On("ListByUser", mock.Anything, userID).Return([]domain.ComparisonRule{}, nil).Once()
	repo.On("CreateDefault", mock.Anything, mock.AnythingOfType("*domain.ComparisonRule")).
		Run(func(args mock.Arguments) { provisioned = args.Get(1).(*domain.ComparisonRule) }).
		Return(true, nil).Once()
	repo.On("ListByUser", mock.Anything, userID).Return([]domain.ComparisonRule{}, nil).Once()

	_, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, provisioned)
	repo.On("GetByID", mock.Anything, provisioned.ID).Return(provisioned, nil)

	_, err = svc.Update(context.Background(), &service.UpdateRuleInput{
		UserID: userID,
		RuleID: provisioned.ID,
		Name:   strPtr("Mine now"),
	})
	assert.ErrorIs(t, err, domain.ErrDefaultRuleImmutable)

	err = svc.Delete(context.Background(), userID, provisioned.ID)
	assert.ErrorIs(t, err, domain.ErrDefaultRuleImmutable)

	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestRuleService_Update(t *testing.T) {
	repo := new(mocks.MockRuleRepo)
	svc := service.NewRuleService(repo, service.NewOwnershipGuard(false))
	userID := uuid.New()
	rule := ownedRule(userID)
	repo.On("GetByID", mock.Anything, rule.ID).Return(rule, nil)
	repo.On("Update", mock.Anything, rule).Return(nil)

	updated, err := svc.Update(context.Background(), &service.UpdateRuleInput{
		UserID:         userID,
		RuleID:         rule.ID,
		Name:           strPtr("Renamed"),
		CriticalChecks: []string{},
	})

	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "Compare gross weights", updated.ComparisonInstructions)
	assert.Empty(t, updated.CriticalChecks)
}

func TestRuleService_DefaultRuleIsImmutable(t *testing.T) {
	repo := new(mocks.MockRuleRepo)
	svc := service.NewRuleService(repo, service.NewOwnershipGuard(false))
	userID := uuid.New()
	rule := ownedRule(userID)
	rule.IsDefault = true
	repo.On("GetByID", mock.Anything, rule.ID).Return(rule, nil)

	_, err := svc.Update(context.Background(), &service.UpdateRuleInput{UserID: userID, RuleID: rule.ID, Name: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrDefaultRuleImmutable)

	err = svc.Delete(context.Background(), userID, rule.ID)
	assert.ErrorIs(t, err, domain.ErrDefaultRuleImmutable)

	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestRuleService_Delete_ForeignRule(t *testing.T) {
	repo := new(mocks.MockRuleRepo)
	svc := service.NewRuleService(repo, service.NewOwnershipGuard(false))
	rule := ownedRule(uuid.New())
	repo.On("GetByID", mock.Anything, rule.ID).Return(rule, nil)

	err := svc.Delete(context.Background(), uuid.New(), rule.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestRuleService_Delete(t *testing.T) {
	repo := new(mocks.MockRuleRepo)
	svc := service.NewRuleService(repo, service.NewOwnershipGuard(false))
	userID := uuid.New()
	rule := ownedRule(userID)
	repo.On("GetByID", mock.Anything, rule.ID).Return(rule, nil)
	repo.On("Delete", mock.Anything, rule.ID).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), userID, rule.ID))
	repo.AssertExpectations(t)
}
