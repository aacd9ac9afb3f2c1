package server

import "errors"

var (
	// ErrCatalogServiceRequired is returned when no catalog service is provided.
	ErrCatalogServiceRequired = errors.New("catalog service is required")

	// ErrSessionManagerRequired is returned when no session manager is provided.
	ErrSessionManagerRequired = errors.New("session manager is required")

	// ErrOrchestratorRequired is returned when no orchestrator is provided.
	ErrOrchestratorRequired = errors.New("orchestrator is required")

	// ErrStoreRepositoryRequired is returned when no store repository is provided.
	ErrStoreRepositoryRequired = errors.New("store repository is required")

	// ErrProductRepositoryRequired is returned when no product repository is provided.
	ErrProductRepositoryRequired = errors.New("product repository is required")
)
