// Package mocks provides centralized mock implementations for testing.
//
// Each mock is a struct with one function field per interface method plus
// default return values, so a test sets only the behavior it cares about:
//
//	import "github.com/phrazzld/focus-api/internal/mocks"
//
//	func TestSomething(t *testing.T) {
//	    tasks := &mocks.MockTaskService{
//	        GetTaskFn: func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
//	            return nil, service.ErrTaskNotFound
//	        },
//	    }
//
//	    // Use the mock in your test...
//	}
//
// When adding a new mock to this package, create a new file named after the
// interface being mocked and add a compile-time assertion that the mock
// implements it.
package mocks
