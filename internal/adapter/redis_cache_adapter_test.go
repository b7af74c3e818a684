package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"quizforge/internal/cache"
	"quizforge/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var responseKey = cache.ResponseKey("gemini:gemini-2.0-flash", "prompt")

func TestRedisCacheAdapter_Get(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(mock redismock.ClientMock)
		want    string
		wantErr error
	}{
		{
			name:  "hit",
			setup: func(mock redismock.ClientMock) { mock.ExpectGet(responseKey).SetVal(`{"title":"cached"}`) },
			want:  `{"title":"cached"}`,
		},
		{
			name:    "miss",
			setup:   func(mock redismock.ClientMock) { mock.ExpectGet(responseKey).RedisNil() },
			wantErr: domain.ErrCacheMiss,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, mock := redismock.NewClientMock()
			tt.setup(mock)

			got, err := NewRedisCacheAdapter(client).Get(context.Background(), responseKey)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRedisCacheAdapter_GetFailureIsNotAMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cause := errors.New("READONLY replica")
	mock.ExpectGet(responseKey).SetErr(cause)

	_, err := NewRedisCacheAdapter(client).Get(context.Background(), responseKey)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, domain.ErrCacheMiss)
	assert.NotErrorIs(t, err, redis.Nil)
	assert.Contains(t, err.Error(), responseKey)
}

func TestRedisCacheAdapter_Set(t *testing.T) {
	client, mock := redismock.NewClientMock()
	a := NewRedisCacheAdapter(client)
	ctx := context.Background()

	mock.ExpectSet(responseKey, "raw", time.Hour).SetVal("OK")
	assert.NoError(t, a.Set(ctx, responseKey, "raw", time.Hour))

	mock.ExpectSet(responseKey, "raw", 0).SetErr(errors.New("OOM"))
	assert.ErrorContains(t, a.Set(ctx, responseKey, "raw", 0), "OOM")

	assert.ErrorContains(t, a.Set(ctx, responseKey, "raw", -time.Second), "negative ttl")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_Delete(t *testing.T) {
	client, mock := redismock.NewClientMock()
	a := NewRedisCacheAdapter(client)

	mock.ExpectUnlink(responseKey).SetVal(1)
	assert.NoError(t, a.Delete(context.Background(), responseKey))

	mock.ExpectUnlink(responseKey).SetVal(0)
	assert.NoError(t, a.Delete(context.Background(), responseKey))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_Ping(t *testing.T) {
	client, mock := redismock.NewClientMock()
	a := NewRedisCacheAdapter(client)

	mock.ExpectPing().SetVal("PONG")
	assert.NoError(t, a.Ping(context.Background()))

	mock.ExpectPing().SetErr(errors.New("connection refused"))
	assert.Error(t, a.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_Purge(t *testing.T) {
	client, mock := redismock.NewClientMock()
	a := NewRedisCacheAdapter(client)
	pattern := cache.ResponsePattern()

	mock.ExpectScan(0, pattern, purgeBatchSize).SetVal([]string{"k1", "k2"}, 7)
	mock.ExpectUnlink("k1", "k2").SetVal(2)
	mock.ExpectScan(7, pattern, purgeBatchSize).SetVal([]string{}, 0)

	n, err := a.Purge(context.Background(), pattern)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_PurgeScanFailure(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectScan(0, "quizforge:*", purgeBatchSize).SetErr(errors.New("LOADING"))

	n, err := NewRedisCacheAdapter(client).Purge(context.Background(), "quizforge:*")
	assert.ErrorContains(t, err, "LOADING")
	assert.Zero(t, n)
}
