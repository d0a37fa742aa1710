// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"
)

// TodoTitle validates a todo title is non-empty after trimming whitespace.
func TodoTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title is required")
	}
	return nil
}

// TodoTitleField returns a criterio validator for todo titles.
func TodoTitleField(field, title string) error {
	return criterio.Run(field, title, TodoTitle)
}

// TodoID validates a todo id reference is non-empty after trimming.
func TodoID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("id is required")
	}
	return nil
}

// TodoIDField returns a criterio validator for todo id references.
func TodoIDField(field, id string) error {
	return criterio.Run(field, id, TodoID)
}
