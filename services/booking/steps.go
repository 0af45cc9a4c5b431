package booking

import "fleetbooking/models"

var stepLabels = map[models.StepKind]string{
	models.StepVehicle: "Vehicle",
	models.StepService: "Service",
	models.StepSlot:    "Date & time",
	models.StepSummary: "Summary",
}

// ComputeSteps returns the step sequence for a workflow. The service step is
// dropped when the service was preselected from the route.
func ComputeSteps(wctx models.WorkflowContext) []models.StepDescriptor {
	kinds := []models.StepKind{models.StepVehicle, models.StepService, models.StepSlot, models.StepSummary}
	if wctx.HasPreselectedService() {
		kinds = []models.StepKind{models.StepVehicle, models.StepSlot, models.StepSummary}
	}

	steps := make([]models.StepDescriptor, 0, len(kinds))
	for i, kind := range kinds {
		steps = append(steps, models.StepDescriptor{
			ID:      kind,
			Label:   stepLabels[kind],
			Ordinal: i + 1,
		})
	}
	return steps
}

// StepOrdinal resolves a step kind to its ordinal within steps.
func StepOrdinal(steps []models.StepDescriptor, kind models.StepKind) (int, bool) {
	for _, s := range steps {
		if s.ID == kind {
			return s.Ordinal, true
		}
	}
	return 0, false
}

// StepAt returns the step with the given ordinal.
func StepAt(steps []models.StepDescriptor, ordinal int) (models.StepDescriptor, bool) {
	if ordinal < 1 || ordinal > len(steps) {
		return models.StepDescriptor{}, false
	}
	return steps[ordinal-1], true
}
