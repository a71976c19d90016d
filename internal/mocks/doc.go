// Package mocks provides centralized mock implementations for testing.
//
// The in-memory stores (MockUserStore, MockTaskStore) behave like the
// Postgres stores closely enough for service and handler tests: they
// normalize emails, enforce email uniqueness, scope every task lookup by
// owner and hand out copies so callers cannot mutate stored records.
// Each method can be overridden through its ...Fn field.
//
// Usage:
//
//	import "github.com/taskr/taskr-api/internal/mocks"
//
//	func TestSomething(t *testing.T) {
//	    users := mocks.NewMockUserStore()
//	    jwtSvc := &mocks.MockJWTService{
//	        GenerateTokenFn: func(ctx context.Context, userID uuid.UUID) (string, error) {
//	            return "mocked-token", nil
//	        },
//	    }
//
//	    // Use the mocks in your test...
//	}
package mocks
