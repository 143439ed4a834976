package domain

// Option is a value/label pair for the status and priority catalogs the
// frontend renders into selects.
type Option struct {
	Value string
	Label string
}

// StatusOptions feeds the create/edit form select. Archived is absent on
// purpose: tasks only reach that status through the archive action.
func StatusOptions() []Option {
	options := make([]Option, 0, len(TaskStatuses)-1)
	for _, status := range TaskStatuses {
		if status == TaskStatusArchived {
			continue
		}
		options = append(options, Option{Value: string(status), Label: status.Label()})
	}
	return options
}

func PriorityOptions() []Option {
	options := make([]Option, 0, len(TaskPriorities))
	for _, priority := range TaskPriorities {
		options = append(options, Option{Value: string(priority), Label: priority.Label()})
	}
	return options
}
