package httputil_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/workcard/pkg/httputil"
)

func ExampleDo() {
	calls := 0
	err := httputil.Do(context.Background(), httputil.Policy{Attempts: 3, Delay: time.Millisecond}, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return &httputil.RetryableError{Err: errors.New("503")}
		}
		return nil
	})
	fmt.Println("Calls:", calls)
	fmt.Println("Error:", err)
	// Output:
	// Calls: 3
	// Error: <nil>
}

func ExampleDo_permanent() {
	calls := 0
	err := httputil.Do(context.Background(), httputil.Policy{Attempts: 5, Delay: time.Millisecond}, func(ctx context.Context) error {
		calls++
		return errors.New("404")
	})
	fmt.Println("Calls:", calls)
	fmt.Println("Error:", err)
	// Output:
	// Calls: 1
	// Error: 404
}
