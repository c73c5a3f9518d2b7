package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name string `json:"name"`
}

func TestRedisCache_GetHit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedisCache(client, "hris:cache:", time.Minute)

	mock.ExpectHGet("hris:cache:unified-attendances", "all").SetVal(`{"name":"Mario"}`)

	var got payload
	err := c.Get(context.Background(), "unified-attendances", "all", &got)

	require.NoError(t, err)
	assert.Equal(t, "Mario", got.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_GetMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedisCache(client, "hris:cache:", time.Minute)

	mock.ExpectHGet("hris:cache:unified-attendances", "user-1").RedisNil()

	var got payload
	err := c.Get(context.Background(), "unified-attendances", "user-1", &got)

	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_Set(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedisCache(client, "hris:cache:", time.Minute)

	mock.ExpectEvalSha(setIfGeneration.Hash(),
		[]string{"hris:cache:unified-attendances", "hris:cache:gen:unified-attendances"},
		"3", "all", `{"name":"Mario"}`, "60000",
	).SetVal(int64(1))

	written, err := c.Set(context.Background(), "unified-attendances", "all", 3, payload{Name: "Mario"})

	require.NoError(t, err)
	assert.True(t, written)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_SetAfterInvalidationIsDropped(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedisCache(client, "hris:cache:", 0)

	mock.ExpectEvalSha(setIfGeneration.Hash(),
		[]string{"hris:cache:unified-attendances", "hris:cache:gen:unified-attendances"},
		"0", "all", `{"name":"stale"}`, "0",
	).SetVal(int64(0))

	written, err := c.Set(context.Background(), "unified-attendances", "all", 0, payload{Name: "stale"})

	require.NoError(t, err)
	assert.False(t, written)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_Generation(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedisCache(client, "hris:cache:", time.Minute)
	ctx := context.Background()

	mock.ExpectGet("hris:cache:gen:unified-attendances").RedisNil()
	mock.ExpectGet("hris:cache:gen:attendances").SetVal("7")

	gen, err := c.Generation(ctx, "unified-attendances")
	require.NoError(t, err)
	assert.Zero(t, gen)

	gen, err = c.Generation(ctx, "attendances")
	require.NoError(t, err)
	assert.Equal(t, int64(7), gen)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_InvalidateDeletesEveryKeyAtOnce(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedisCache(client, "hris:cache:", time.Minute)

	mock.ExpectTxPipeline()
	mock.ExpectDel(
		"hris:cache:unified-attendances",
		"hris:cache:attendances",
		"hris:cache:employee-status",
	).SetVal(2)
	mock.ExpectIncr("hris:cache:gen:unified-attendances").SetVal(1)
	mock.ExpectIncr("hris:cache:gen:attendances").SetVal(1)
	mock.ExpectIncr("hris:cache:gen:employee-status").SetVal(1)
	mock.ExpectTxPipelineExec()

	err := c.Invalidate(context.Background(), "unified-attendances", "attendances", "employee-status")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_InvalidateError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedisCache(client, "hris:cache:", time.Minute)

	mock.ExpectTxPipeline()
	mock.ExpectDel("hris:cache:attendances").SetErr(errors.New("connection refused"))

	err := c.Invalidate(context.Background(), "attendances")

	assert.ErrorContains(t, err, "connection refused")
}

func TestRedisCache_NilClient(t *testing.T) {
	c := NewRedisCache(nil, "hris:cache:", time.Minute)
	ctx := context.Background()

	var got payload
	assert.ErrorIs(t, c.Get(ctx, "attendances", "all", &got), ErrCacheMiss)
	gen, err := c.Generation(ctx, "attendances")
	assert.NoError(t, err)
	assert.Zero(t, gen)
	written, err := c.Set(ctx, "attendances", "all", gen, payload{})
	assert.NoError(t, err)
	assert.False(t, written)
	assert.NoError(t, c.Invalidate(ctx, "attendances"))
}

type recordingInvalidator struct {
	keys []string
	err  error
}

func (r *recordingInvalidator) Invalidate(_ context.Context, keys ...string) error {
	r.keys = append(r.keys, keys...)
	return r.err
}

func TestChain_CallsEveryMember(t *testing.T) {
	failing := &recordingInvalidator{err: errors.New("boom")}
	ok := &recordingInvalidator{}

	err := Chain{failing, ok}.Invalidate(context.Background(), "a", "b")

	assert.ErrorContains(t, err, "boom")
	assert.Equal(t, []string{"a", "b"}, failing.keys)
	assert.Equal(t, []string{"a", "b"}, ok.keys)
}
