package booking

import (
	"testing"

	"fleetbooking/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kindsOf(steps []models.StepDescriptor) []models.StepKind {
	out := make([]models.StepKind, 0, len(steps))
	for _, s := range steps {
		out = append(out, s.ID)
	}
	return out
}

func TestComputeSteps_WithoutPreselectedService(t *testing.T) {
	steps := ComputeSteps(models.WorkflowContext{PartnerID: "P1"})

	require.Len(t, steps, 4)
	assert.Equal(t, []models.StepKind{models.StepVehicle, models.StepService, models.StepSlot, models.StepSummary}, kindsOf(steps))
	for i, s := range steps {
		assert.Equal(t, i+1, s.Ordinal)
		assert.NotEmpty(t, s.Label)
	}
}

func TestComputeSteps_WithPreselectedService(t *testing.T) {
	for _, id := range []string{"S1", "any-service"} {
		steps := ComputeSteps(models.WorkflowContext{PartnerID: "P1", PreselectedServiceID: ptr(id)})

		require.Len(t, steps, 3)
		assert.NotContains(t, kindsOf(steps), models.StepService)
		assert.Equal(t, models.StepSummary, steps[len(steps)-1].ID)
		assert.Equal(t, 3, steps[2].Ordinal)
	}
}

func TestComputeSteps_EmptyPreselectionCountsAsNone(t *testing.T) {
	steps := ComputeSteps(models.WorkflowContext{PartnerID: "P1", PreselectedServiceID: ptr("")})
	assert.Len(t, steps, 4)
}

func TestStepLookup(t *testing.T) {
	steps := ComputeSteps(models.WorkflowContext{PartnerID: "P1", PreselectedServiceID: ptr("S1")})

	ordinal, ok := StepOrdinal(steps, models.StepSlot)
	require.True(t, ok)
	assert.Equal(t, 2, ordinal)

	_, ok = StepOrdinal(steps, models.StepService)
	assert.False(t, ok)

	step, ok := StepAt(steps, 3)
	require.True(t, ok)
	assert.Equal(t, models.StepSummary, step.ID)

	_, ok = StepAt(steps, 0)
	assert.False(t, ok)
	_, ok = StepAt(steps, 4)
	assert.False(t, ok)
}
