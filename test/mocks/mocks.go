// test/mocks/mocks.go

// Package mocks contains generated mocks for the application's interfaces.
// To regenerate mocks, run `make mocks` from the root directory.
package mocks

//go:generate mockgen -source=../../internal/core/ports/packing_repository.go -destination=packing_repository_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/packing_service.go -destination=packing_service_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/cache.go -destination=cache_repository_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/services/directory.go -destination=token_issuer_mock.go -package=mocks TokenIssuer
