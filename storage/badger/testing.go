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


package badger

import "github.com/Semara-26/shiki-pilot/storage"

// NewMemoryRepositories creates in-memory store, product, and chat
// repositories for testing.
// Caller must close all three repos and the backend when done.
func NewMemoryRepositories() (storage.StoreRepository, storage.ProductRepository, storage.ChatRepository, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	storeRepo, err := NewStoreRepository(backend)
	if err != nil {
		backend.Close()
		return nil, nil, nil, nil, err
	}

	productRepo, err := NewProductRepository(backend)
	if err != nil {
		storeRepo.Close()
		backend.Close()
		return nil, nil, nil, nil, err
	}

	chatRepo, err := NewChatRepository(backend)
	if err != nil {
		productRepo.Close()
		storeRepo.Close()
		backend.Close()
		return nil, nil, nil, nil, err
	}

	return storeRepo, productRepo, chatRepo, backend, nil
}
