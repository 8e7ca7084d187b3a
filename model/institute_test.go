package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApproveFromPending(t *testing.T) {
	inst := &Institute{ApprovalStatus: ApprovalPending}
	now := time.Now()

	err := inst.Approve(3, "looks good", now)
	require.NoError(t, err)

	assert.Equal(t, ApprovalApproved, inst.ApprovalStatus)
	assert.Equal(t, "looks good", inst.ApprovalNotes)
	require.NotNil(t, inst.ApprovedByID)
	assert.Equal(t, uint(3), *inst.ApprovedByID)
	require.NotNil(t, inst.ApprovedAt)
	assert.Equal(t, now, *inst.ApprovedAt)
	assert.True(t, inst.PubliclyVisible())
}

func TestRejectFromPending(t *testing.T) {
	inst := &Institute{ApprovalStatus: ApprovalPending}

	err := inst.Reject(3, "incomplete details", time.Now())
	require.NoError(t, err)

	assert.Equal(t, ApprovalRejected, inst.ApprovalStatus)
	assert.False(t, inst.PubliclyVisible())
}

func TestDecisionsAreTerminal(t *testing.T) {
	now := time.Now()

	approved := &Institute{ApprovalStatus: ApprovalPending}
	require.NoError(t, approved.Approve(1, "", now))

	// No re-decide in either direction once approved
	assert.ErrorIs(t, approved.Approve(2, "", now), ErrDecisionAlreadyMade)
	assert.ErrorIs(t, approved.Reject(2, "", now), ErrDecisionAlreadyMade)
	assert.Equal(t, ApprovalApproved, approved.ApprovalStatus)
	require.NotNil(t, approved.ApprovedByID)
	assert.Equal(t, uint(1), *approved.ApprovedByID)

	rejected := &Institute{ApprovalStatus: ApprovalPending}
	require.NoError(t, rejected.Reject(1, "spam", now))
	assert.ErrorIs(t, rejected.Approve(2, "", now), ErrDecisionAlreadyMade)
	assert.Equal(t, "spam", rejected.ApprovalNotes)
}

func TestShopDecisionsMirrorInstitutes(t *testing.T) {
	shop := &Shop{ApprovalStatus: ApprovalPending}
	now := time.Now()

	require.NoError(t, shop.Approve(5, "verified on call", now))
	assert.True(t, shop.PubliclyVisible())
	assert.ErrorIs(t, shop.Reject(5, "", now), ErrDecisionAlreadyMade)
}

func TestValidateDomainAndType(t *testing.T) {
	valid := &Institute{
		Domain:         DomainEducation,
		Type:           "College",
		ApprovalStatus: ApprovalPending,
	}
	assert.NoError(t, valid.Validate())

	crossDomain := &Institute{
		Domain:         DomainHealthcare,
		Type:           "College", // education type
		ApprovalStatus: ApprovalPending,
	}
	err := crossDomain.Validate()
	require.Error(t, err)

	var violations FieldViolations
	require.ErrorAs(t, err, &violations)
	assert.Contains(t, violations, "type")
	assert.NotContains(t, violations, "domain")

	badDomain := &Institute{
		Domain:         "commerce",
		Type:           "College",
		ApprovalStatus: ApprovalPending,
	}
	err = badDomain.Validate()
	require.Error(t, err)
	require.ErrorAs(t, err, &violations)
	assert.Contains(t, violations, "domain")
}

func TestValidateApprovalStatus(t *testing.T) {
	inst := &Institute{
		Domain:         DomainEducation,
		Type:           "School",
		ApprovalStatus: "archived",
	}
	err := inst.Validate()
	require.Error(t, err)

	var violations FieldViolations
	require.ErrorAs(t, err, &violations)
	assert.Contains(t, violations, "approval_status")
}

func TestValidTypePerDomain(t *testing.T) {
	assert.True(t, ValidType(DomainEducation, "University"))
	assert.True(t, ValidType(DomainHealthcare, "Pharmacy"))
	assert.False(t, ValidType(DomainEducation, "Pharmacy"))
	assert.False(t, ValidType(DomainHealthcare, "School"))
	assert.False(t, ValidType("commerce", "Shop"))
}

func TestFieldViolationsError(t *testing.T) {
	v := FieldViolations{"name": "name is required"}
	assert.Equal(t, "name: name is required", v.Error())

	empty := FieldViolations{}
	assert.Equal(t, "validation failed", empty.Error())
}
