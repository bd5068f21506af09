package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ozzus/pingdumb/internal/domain"
)

func TestJSONArg(t *testing.T) {
	v, err := jsonArg([]string{"1.1.1.1"}, false)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, `["1.1.1.1"]`, *v)

	v, err = jsonArg(nil, true)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestPostgresStore_RoundTrip(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping Postgres integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := New(ctx, dsn)
	require.NoError(t, err)
	defer s.Close()

	def := domain.CheckDefinition{
		ID:         uuid.NewString(),
		Name:       "resolvers",
		Kind:       domain.KindDNS,
		Target:     "example.com:AAAA",
		Interval:   60,
		Timeout:    3,
		Enabled:    true,
		DNSServers: []string{"9.9.9.9"},
		Parameters: map[string]interface{}{"note": "it"},
		CreatedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, s.SaveDefinition(ctx, def))
	t.Cleanup(func() {
		_ = s.DeleteResults(context.Background(), def.ID)
		_ = s.DeleteDefinition(context.Background(), def.ID)
	})

	got, err := s.GetDefinition(ctx, def.ID)
	require.NoError(t, err)
	assert.Equal(t, def.DNSServers, got.DNSServers)
	assert.Equal(t, "it", got.Parameters["note"])
	assert.Equal(t, domain.KindDNS, got.Kind)

	res := domain.Result{
		ID:           uuid.NewString(),
		ConfigID:     def.ID,
		Timestamp:    time.Now().UTC(),
		Success:      true,
		ResponseTime: 0.25,
		Data:         domain.HTTPPayload{StatusCode: 204},
	}
	require.NoError(t, s.SaveResult(ctx, res))

	since, err := s.ResultsSince(ctx, res.Timestamp.Add(-time.Second), 10)
	require.NoError(t, err)
	require.NotEmpty(t, since)

	var found bool
	for _, r := range since {
		if r.ID == res.ID {
			found = true
			raw, ok := r.Data.(json.RawMessage)
			require.True(t, ok)
			var p domain.HTTPPayload
			require.NoError(t, json.Unmarshal(raw, &p))
			assert.Equal(t, 204, p.StatusCode)
		}
	}
	assert.True(t, found)

	require.NoError(t, s.DeleteDefinition(ctx, def.ID))
	_, err = s.GetDefinition(ctx, def.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
