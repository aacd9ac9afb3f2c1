// Copyright 2025 ShikiPilot
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"time"
)

// Validation limits, matching the catalog management surface.
const (
	MaxStoreNameLen   = 100
	MaxProductNameLen = 200
	MaxDescriptionLen = 5000
)

// ValidateStore validates a Store according to domain rules.
//
// Validation rules:
//   - OwnerID must not be empty
//   - Name must be 1..MaxStoreNameLen characters
//
// NOT validated:
//   - Slug (generated by the catalog layer)
//   - ID (0 is valid before persistence)
func ValidateStore(store *Store) error {
	if store == nil {
		return fmt.Errorf("%w: store is nil", ErrInvalidStore)
	}

	if store.OwnerID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidStore, ErrEmptyOwner)
	}

	if store.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidStore, ErrEmptyName)
	}

	if len(store.Name) > MaxStoreNameLen {
		return fmt.Errorf("%w: %w", ErrInvalidStore, ErrNameTooLong)
	}

	return nil
}

// ValidateProduct validates a Product according to domain rules.
//
// Validation rules:
//   - Name must be 1..MaxProductNameLen characters
//   - Description must be 1..MaxDescriptionLen characters
//   - Price and Stock must be non-negative
//   - Embedding must be nil or exactly EmbeddingDimensions long
//
// NOT validated:
//   - ID and StoreId (0 is valid before persistence)
func ValidateProduct(product *Product) error {
	if product == nil {
		return fmt.Errorf("%w: product is nil", ErrInvalidProduct)
	}

	if product.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, ErrEmptyName)
	}

	if len(product.Name) > MaxProductNameLen {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, ErrNameTooLong)
	}

	if product.Description == "" {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, ErrEmptyDescription)
	}

	if len(product.Description) > MaxDescriptionLen {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, ErrDescriptionTooLong)
	}

	if product.Price < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, ErrNegativePrice)
	}

	if product.Stock < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, ErrNegativeStock)
	}

	if product.Embedding != nil && len(product.Embedding) != EmbeddingDimensions {
		return fmt.Errorf("%w: %w: got %d", ErrInvalidProduct, ErrEmbeddingDimension, len(product.Embedding))
	}

	return nil
}

// ValidateMessage validates a Message according to domain rules.
//
// Validation rules:
//   - Content must not be empty
//   - Role must be valid (user or assistant)
//   - CreatedAt must not be in the future when set
func ValidateMessage(message *Message) error {
	if message == nil {
		return fmt.Errorf("%w: message is nil", ErrInvalidMessage)
	}

	if message.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, ErrEmptyContent)
	}

	if err := ValidateMessageRole(message.Role); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}

	if !message.CreatedAt.IsZero() && !IsValidTimestamp(message.CreatedAt) {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, ErrInvalidTimestamp)
	}

	return nil
}

// ValidateMessageRole validates that a MessageRole has a valid value.
func ValidateMessageRole(role MessageRole) error {
	if role != MessageRoleUser && role != MessageRoleAssistant {
		return fmt.Errorf("%w: value %d", ErrInvalidMessageRole, role)
	}
	return nil
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}
