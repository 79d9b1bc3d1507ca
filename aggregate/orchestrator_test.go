package aggregate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/nexus/client"
	"github.com/zero-day-ai/nexus/entity"
	"github.com/zero-day-ai/nexus/platformerr"
)

// stubClient serves canned records or failures for fan-out tests.
type stubClient struct {
	records []entity.Record
	err     error
	delay   time.Duration
	hang    bool
}

func (s *stubClient) respond(ctx context.Context) ([]entity.Record, error) {
	if s.hang {
		// Ignores cancellation on purpose: models a transport that does
		// not cooperate with its context.
		select {}
	}
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.records, s.err
}

func (s *stubClient) FetchEntities(ctx context.Context) ([]entity.Record, error) {
	return s.respond(ctx)
}

func (s *stubClient) SearchEntities(ctx context.Context, _ string) ([]entity.Record, error) {
	return s.respond(ctx)
}

func (s *stubClient) CreateEntity(_ context.Context, r entity.Record) (entity.Record, error) {
	return r, s.err
}

func (s *stubClient) TestConnection(ctx context.Context) (entity.Record, error) {
	records, err := s.respond(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) > 0 {
		return records[0], nil
	}
	return entity.Record{}, nil
}

func records(ids ...string) []entity.Record {
	out := make([]entity.Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, entity.Record{"id": id, "name": "entity-" + id})
	}
	return out
}

func fetchFn(ctx context.Context, c client.Client) ([]entity.Record, error) {
	return c.FetchEntities(ctx)
}

func TestFetchAllMergesAndStamps(t *testing.T) {
	reg := client.NewRegistry()
	reg.Set("p1", &stubClient{records: records("a", "b")})
	reg.Set("p2", &stubClient{records: records("c")})

	result := New().FetchAll(context.Background(), reg, fetchFn, time.Second)

	assert.Empty(t, result.Errors)
	require.Len(t, result.Results, 3)
	assert.Equal(t, "p1", result.Results[0].PlatformID())
	assert.Equal(t, "p1", result.Results[1].PlatformID())
	assert.Equal(t, "p2", result.Results[2].PlatformID())
}

func TestFetchAllDeduplicatesFirstSeen(t *testing.T) {
	reg := client.NewRegistry()
	reg.Set("p1", &stubClient{records: records("dup", "only1")})
	reg.Set("p2", &stubClient{records: records("dup", "only2")})

	result := New().FetchAll(context.Background(), reg, fetchFn, time.Second)

	assert.Empty(t, result.Errors)
	require.Len(t, result.Results, 3)

	// The first platform in registry order wins the duplicate id,
	// regardless of which call finished first.
	byID := map[string]string{}
	for _, r := range result.Results {
		byID[entity.ID(r)] = r.PlatformID()
	}
	assert.Equal(t, "p1", byID["dup"])
	assert.Equal(t, "p1", byID["only1"])
	assert.Equal(t, "p2", byID["only2"])
}

func TestFetchAllDedupTieBreakIsRegistryOrderNotCompletionOrder(t *testing.T) {
	reg := client.NewRegistry()
	// p1 responds slower than p2 but still wins the duplicate.
	reg.Set("p1", &stubClient{records: records("dup"), delay: 50 * time.Millisecond})
	reg.Set("p2", &stubClient{records: records("dup")})

	result := New().FetchAll(context.Background(), reg, fetchFn, time.Second)

	require.Len(t, result.Results, 1)
	assert.Equal(t, "p1", result.Results[0].PlatformID())
}

func TestFetchAllIsolatesFailures(t *testing.T) {
	reg := client.NewRegistry()
	reg.Set("good", &stubClient{records: records("a")})
	reg.Set("bad", &stubClient{err: errors.New("boom")})
	reg.Set("alsogood", &stubClient{records: records("b")})

	result := New().FetchAll(context.Background(), reg, fetchFn, time.Second)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, "bad", result.Errors[0].PlatformID)
	assert.True(t, errors.Is(result.Errors[0].Err, &platformerr.Error{Code: platformerr.ErrCodeTransportFailure}))
	assert.Equal(t, "boom", result.Errors[0].Message())

	require.Len(t, result.Results, 2)
	for _, r := range result.Results {
		assert.NotEqual(t, "bad", r.PlatformID())
	}
}

func TestFetchAllTimeout(t *testing.T) {
	reg := client.NewRegistry()
	reg.Set("fast", &stubClient{records: records("a")})
	reg.Set("stuck", &stubClient{hang: true})

	start := time.Now()
	result := New().FetchAll(context.Background(), reg, fetchFn, 50*time.Millisecond)
	elapsed := time.Since(start)

	assert.Less(t, elapsed, time.Second, "join must not wait for the hung client")

	require.Len(t, result.Errors, 1)
	assert.Equal(t, "stuck", result.Errors[0].PlatformID)
	assert.True(t, errors.Is(result.Errors[0].Err, platformerr.ErrTimeout))

	require.Len(t, result.Results, 1)
	assert.Equal(t, "fast", result.Results[0].PlatformID())
}

func TestFetchAllEmptyRegistry(t *testing.T) {
	result := New().FetchAll(context.Background(), client.NewRegistry(), fetchFn, time.Second)
	assert.Empty(t, result.Results)
	assert.Empty(t, result.Errors)
}

func TestFetchAllDoesNotMutateCallerRecords(t *testing.T) {
	shared := entity.Record{"id": "a"}
	reg := client.NewRegistry()
	reg.Set("p1", &stubClient{records: []entity.Record{shared}})

	result := New().FetchAll(context.Background(), reg, fetchFn, time.Second)

	require.Len(t, result.Results, 1)
	assert.Equal(t, "p1", result.Results[0].PlatformID())
	_, stamped := shared[entity.PlatformIDKey]
	assert.False(t, stamped, "orchestrator must stamp a clone, not the client's record")
}

func TestSearchDoesNotDeduplicate(t *testing.T) {
	reg := client.NewRegistry()
	reg.Set("p1", &stubClient{records: records("x")})
	reg.Set("p2", &stubClient{records: records("x")})

	results, err := New().Search(context.Background(), reg, "", func(ctx context.Context, c client.Client) ([]entity.Record, error) {
		return c.SearchEntities(ctx, "term")
	}, time.Second)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "p1", results[0].PlatformID())
	assert.Equal(t, "p2", results[1].PlatformID())
	assert.Equal(t, "x", entity.ID(results[0]))
	assert.Equal(t, "x", entity.ID(results[1]))
}

func TestSearchSwallowsFailures(t *testing.T) {
	reg := client.NewRegistry()
	reg.Set("bad", &stubClient{err: errors.New("down")})
	reg.Set("good", &stubClient{records: records("a")})

	results, err := New().Search(context.Background(), reg, "", func(ctx context.Context, c client.Client) ([]entity.Record, error) {
		return c.SearchEntities(ctx, "term")
	}, time.Second)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "good", results[0].PlatformID())
}

func TestSearchSinglePlatform(t *testing.T) {
	reg := client.NewRegistry()
	reg.Set("p1", &stubClient{records: records("a")})
	reg.Set("p2", &stubClient{records: records("b")})

	results, err := New().Search(context.Background(), reg, "p2", func(ctx context.Context, c client.Client) ([]entity.Record, error) {
		return c.SearchEntities(ctx, "term")
	}, time.Second)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "p2", results[0].PlatformID())
}

func TestSearchUnknownPlatform(t *testing.T) {
	reg := client.NewRegistry()
	reg.Set("p1", &stubClient{})

	_, err := New().Search(context.Background(), reg, "missing", func(ctx context.Context, c client.Client) ([]entity.Record, error) {
		return c.SearchEntities(ctx, "term")
	}, time.Second)

	require.Error(t, err)
	assert.True(t, errors.Is(err, platformerr.ErrPlatformNotFound))
}

func TestFetchSingle(t *testing.T) {
	c := &stubClient{records: records("a")}

	results, err := New().FetchSingle(context.Background(), c, "p1", fetchFn)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "p1", results[0].PlatformID())
}

func TestFetchSingleTypedError(t *testing.T) {
	c := &stubClient{err: errors.New("token expired")}

	_, err := New().FetchSingle(context.Background(), c, "p1", fetchFn)
	require.Error(t, err)

	var pe *platformerr.Error
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, platformerr.ErrCodeTransportFailure, pe.Code)
	assert.Equal(t, "p1", pe.Platform)
	assert.Equal(t, "token expired", platformerr.UserMessage(err))
}

func TestCallHonorsParentCancellation(t *testing.T) {
	reg := client.NewRegistry()
	reg.Set("slow", &stubClient{records: records("a"), delay: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	result := New().FetchAll(ctx, reg, fetchFn, 5*time.Second)

	assert.Less(t, time.Since(start), time.Second)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "slow", result.Errors[0].PlatformID)
}
