// Package mocks provides mock implementations for testing the dashboard services.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the ports interfaces. The mocks are generated using go:generate directives
// and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	source := mocks.NewMockPayloadSource(ctrl)
//	source.EXPECT().FetchSnapshot(gomock.Any()).Return(payload, nil)
package mocks

// Generate mock for PayloadSource interface from internal/ports.
// This creates MockPayloadSource with methods for all PayloadSource interface
// methods: FetchSnapshot, FetchDashboard, ExchangeCode
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=payload_source_mock.go github.com/classdash/classdash/internal/ports PayloadSource
