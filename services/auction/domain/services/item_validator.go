package services

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/ghuser/auctionhouse/services/auction/domain/models"
)

// ValidateName enforces business rules for ItemName beyond the structural
// constraints enforced by the ItemName constructor (length 1 to 255).
//
// Business rules:
//   - No leading or trailing whitespace
//   - No control characters (Unicode category Cc)
//   - No consecutive spaces
func ValidateName(name models.ItemName) error {
	s := name.String()

	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("item name must not be only whitespace")
	}

	if s != strings.TrimSpace(s) {
		return fmt.Errorf("item name must not have leading or trailing whitespace")
	}

	for _, r := range s {
		if unicode.IsControl(r) {
			return fmt.Errorf("item name must not contain control characters")
		}
	}

	if strings.Contains(s, "  ") {
		return fmt.Errorf("item name must not contain consecutive spaces")
	}

	return nil
}

// ValidateItemForCreation performs cross-field validation on an Item built
// via models.NewItem before it is persisted.
func ValidateItemForCreation(item *models.Item) error {
	if item == nil {
		return fmt.Errorf("item cannot be nil")
	}

	if err := ValidateName(item.Name); err != nil {
		return fmt.Errorf("invalid name: %w", err)
	}

	if item.OwnerID == uuid.Nil {
		return fmt.Errorf("owner_id must be set")
	}

	if item.ID == uuid.Nil {
		return fmt.Errorf("id must be set")
	}

	if item.HasWinner() || item.Notified {
		return fmt.Errorf("new item must not have a winner")
	}

	return nil
}
