package game

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalAction is returned when an action is rejected. The board is unchanged.
	ErrIllegalAction = errors.New("illegal action")

	// ErrSelectionCancelled is returned when a player cancels a target selection.
	ErrSelectionCancelled = errors.New("selection cancelled")

	// ErrChoicePending is returned when a second selection is requested while one is outstanding.
	ErrChoicePending = errors.New("choice already pending")
)

func illegal(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIllegalAction, fmt.Sprintf(format, args...))
}

// CatalogError describes a rejected card catalog entry.
type CatalogError struct {
	Key    string
	Reason string
}

func (e *CatalogError) Error() string {
	if e.Key == "" {
		return "catalog: " + e.Reason
	}
	return fmt.Sprintf("catalog entry %q: %s", e.Key, e.Reason)
}

// DeckError describes a rejected deck list.
type DeckError struct {
	Deck   string
	Reason string
}

func (e *DeckError) Error() string {
	return fmt.Sprintf("deck %q: %s", e.Deck, e.Reason)
}
