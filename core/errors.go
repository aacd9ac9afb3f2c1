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

import "errors"

// Domain validation errors
var (
	// ErrInvalidStore indicates a Store failed validation.
	ErrInvalidStore = errors.New("invalid store")

	// ErrInvalidProduct indicates a Product failed validation.
	ErrInvalidProduct = errors.New("invalid product")

	// ErrInvalidMessage indicates a Message failed validation.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrEmptyName indicates a required name field is empty.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrNameTooLong indicates a name exceeds the maximum length.
	ErrNameTooLong = errors.New("name too long")

	// ErrEmptyOwner indicates the store owner identity is missing.
	ErrEmptyOwner = errors.New("owner identity cannot be empty")

	// ErrEmptyDescription indicates the product description is empty.
	ErrEmptyDescription = errors.New("description cannot be empty")

	// ErrDescriptionTooLong indicates a description exceeds the maximum length.
	ErrDescriptionTooLong = errors.New("description too long")

	// ErrNegativePrice indicates a negative product price.
	ErrNegativePrice = errors.New("price cannot be negative")

	// ErrNegativeStock indicates a negative stock count.
	ErrNegativeStock = errors.New("stock cannot be negative")

	// ErrEmbeddingDimension indicates an embedding that is neither absent
	// nor exactly EmbeddingDimensions long.
	ErrEmbeddingDimension = errors.New("embedding has wrong dimension")

	// ErrEmptyContent indicates the message Content field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidMessageRole indicates an invalid MessageRole value.
	ErrInvalidMessageRole = errors.New("invalid message role")

	// ErrInvalidTimestamp indicates a timestamp is in the future.
	ErrInvalidTimestamp = errors.New("timestamp cannot be in the future")

	// ErrTruncatedRecord indicates serialized record data that is too short.
	ErrTruncatedRecord = errors.New("truncated record data")
)
