package domain

import orderdomain "apex-tracker/internal/features/orders/domain"

var timelineSteps = []struct {
	status orderdomain.Status
	label  string
}{
	{orderdomain.StatusOrdered, "Order"},
	{orderdomain.StatusProcessing, "Processing"},
	{orderdomain.StatusInTransit, "In Transit"},
	{orderdomain.StatusDelivered, "Delivered"},
}

// position returns the timeline index of status, or -1 when it has none.
// On hold shipments have left "ordered" and sit at the processing step.
func position(status orderdomain.Status) int {
	if status == orderdomain.StatusOnHold {
		return 1
	}
	for i, step := range timelineSteps {
		if step.status == status {
			return i
		}
	}
	return -1
}

// Timeline returns the four progress steps for status. Steps up to and
// including the current one are completed; the current one is also active.
func Timeline(status orderdomain.Status) []TimelineStep {
	current := position(status)

	steps := make([]TimelineStep, len(timelineSteps))
	for i, s := range timelineSteps {
		steps[i] = TimelineStep{
			Status:    s.status,
			Label:     s.label,
			Completed: current >= 0 && i <= current,
			Active:    i == current,
		}
	}
	return steps
}

// Progress returns the completion percentage for status.
func Progress(status orderdomain.Status) int {
	p := position(status)
	if p < 0 {
		return 0
	}
	return (p + 1) * 100 / len(timelineSteps)
}
