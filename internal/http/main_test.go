//go:build integration

package http

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/guttosm/rdcredit-service/internal/testutil"
)

// TestMain starts the shared MongoDB and Redis containers used by the HTTP
// integration tests.
func TestMain(m *testing.M) {
	ctx := context.Background()

	mongo, err := testutil.GetSharedMongoDB(ctx)
	if err != nil {
		panic(err)
	}
	redis, err := testutil.GetSharedRedis(ctx)
	if err != nil {
		_ = mongo.Cleanup(ctx)
		panic(err)
	}

	code := m.Run()

	for _, c := range []*testutil.Container{mongo, redis} {
		if err := c.Cleanup(ctx); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to cleanup container: %v\n", err)
		}
	}
	os.Exit(code)
}
