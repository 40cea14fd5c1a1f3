package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/AlenaMolokova/passgen/internal/app/models"
	"github.com/gomodule/redigo/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer answers the handful of list commands the storage issues,
// including MULTI/EXEC transactions sent through the pipeline.
type fakeServer struct {
	mu    sync.Mutex
	lists map[string][][]byte
	fail  error
	// executed logs every command applied to the lists, with the
	// transaction it ran in (0 outside MULTI/EXEC).
	executed []executedCommand
	txCount  int
}

type executedCommand struct {
	name string
	tx   int
}

type pendingCommand struct {
	name string
	args []interface{}
}

func newFakeServer() *fakeServer {
	return &fakeServer{lists: make(map[string][][]byte)}
}

func (f *fakeServer) dial() (redis.Conn, error) {
	return &fakeConn{server: f}, nil
}

type fakeConn struct {
	server  *fakeServer
	pending []pendingCommand
	inTx    bool
	queued  []pendingCommand
}

func (c *fakeConn) Close() error { return nil }

func (c *fakeConn) Err() error { return nil }

func (c *fakeConn) Send(commandName string, args ...interface{}) error {
	c.pending = append(c.pending, pendingCommand{name: commandName, args: args})
	return nil
}

func (c *fakeConn) Flush() error { return nil }

func (c *fakeConn) Receive() (interface{}, error) { return nil, nil }

func (c *fakeConn) Do(commandName string, args ...interface{}) (interface{}, error) {
	f := c.server
	f.mu.Lock()
	defer f.mu.Unlock()

	pending := c.pending
	c.pending = nil
	for _, p := range pending {
		if _, err := c.handle(p.name, p.args); err != nil {
			return nil, err
		}
	}
	if commandName == "" {
		return nil, nil
	}
	return c.handle(commandName, args)
}

func (c *fakeConn) handle(name string, args []interface{}) (interface{}, error) {
	f := c.server
	if f.fail != nil {
		return nil, f.fail
	}

	switch name {
	case "MULTI":
		c.inTx = true
		c.queued = nil
		return "OK", nil
	case "DISCARD":
		c.inTx = false
		c.queued = nil
		return "OK", nil
	case "EXEC":
		if !c.inTx {
			return nil, errors.New("ERR EXEC without MULTI")
		}
		f.txCount++
		replies := make([]interface{}, 0, len(c.queued))
		for _, q := range c.queued {
			reply, err := f.apply(q.name, q.args, f.txCount)
			if err != nil {
				return nil, err
			}
			replies = append(replies, reply)
		}
		c.inTx = false
		c.queued = nil
		return replies, nil
	}

	if c.inTx {
		c.queued = append(c.queued, pendingCommand{name: name, args: args})
		return "QUEUED", nil
	}
	return f.apply(name, args, 0)
}

func (f *fakeServer) apply(name string, args []interface{}, tx int) (interface{}, error) {
	f.executed = append(f.executed, executedCommand{name: name, tx: tx})

	switch name {
	case "PING":
		return "PONG", nil
	case "LPUSH":
		key := args[0].(string)
		f.lists[key] = append([][]byte{args[1].([]byte)}, f.lists[key]...)
		return int64(len(f.lists[key])), nil
	case "LTRIM":
		key := args[0].(string)
		start, stop := args[1].(int), args[2].(int)
		list := f.lists[key]
		if stop+1 < len(list) {
			list = list[:stop+1]
		}
		f.lists[key] = list[start:]
		return "OK", nil
	case "LRANGE":
		key := args[0].(string)
		start, stop := args[1].(int), args[2].(int)
		list := f.lists[key]
		if stop+1 < len(list) {
			list = list[:stop+1]
		}
		reply := make([]interface{}, 0, len(list))
		for _, v := range list[start:] {
			reply = append(reply, v)
		}
		return reply, nil
	default:
		return nil, fmt.Errorf("unexpected command %s", name)
	}
}

func record(id string) models.HistoryRecord {
	return models.HistoryRecord{
		ID:        id,
		Length:    10,
		Classes:   []string{"digit"},
		Outcome:   models.OutcomeOK,
		Duration:  time.Millisecond,
		CreatedAt: time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC),
	}
}

func TestRedisStorage_SaveAndList(t *testing.T) {
	server := newFakeServer()
	storage := newWithDial(server.dial, 3)
	defer storage.Close()
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.NoError(t, storage.SaveRecord(ctx, record(fmt.Sprintf("rec%d", i))))
	}
	assert.Len(t, server.lists[HistoryKey], 3)

	records, err := storage.ListRecords(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "rec5", records[0].ID)
	assert.Equal(t, "rec3", records[2].ID)
	assert.Equal(t, []string{"digit"}, records[0].Classes)
	assert.Equal(t, time.Millisecond, records[0].Duration)

	records, err = storage.ListRecords(ctx, 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "rec5", records[0].ID)
}

func TestRedisStorage_SaveIsTransactional(t *testing.T) {
	server := newFakeServer()
	storage := newWithDial(server.dial, 2)
	defer storage.Close()
	ctx := context.Background()

	require.NoError(t, storage.SaveRecord(ctx, record("a")))
	require.NoError(t, storage.SaveRecord(ctx, record("b")))

	expected := []executedCommand{
		{name: "LPUSH", tx: 1},
		{name: "LTRIM", tx: 1},
		{name: "LPUSH", tx: 2},
		{name: "LTRIM", tx: 2},
	}
	assert.Equal(t, expected, server.executed)
}

func TestRedisStorage_ListEmpty(t *testing.T) {
	storage := newWithDial(newFakeServer().dial, 10)
	defer storage.Close()

	records, err := storage.ListRecords(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRedisStorage_CorruptRecord(t *testing.T) {
	server := newFakeServer()
	server.lists[HistoryKey] = [][]byte{[]byte("not json")}
	storage := newWithDial(server.dial, 10)
	defer storage.Close()

	_, err := storage.ListRecords(context.Background(), 5)
	assert.Error(t, err)
}

func TestRedisStorage_Errors(t *testing.T) {
	server := newFakeServer()
	server.fail = errors.New("READONLY replica")
	storage := newWithDial(server.dial, 10)
	defer storage.Close()
	ctx := context.Background()

	assert.Error(t, storage.SaveRecord(ctx, record("x")))
	_, err := storage.ListRecords(ctx, 1)
	assert.Error(t, err)
	assert.Error(t, storage.Ping(ctx))
}

func TestRedisStorage_DialError(t *testing.T) {
	storage := newWithDial(func() (redis.Conn, error) {
		return nil, errors.New("connection refused")
	}, 10)
	defer storage.Close()

	assert.Error(t, storage.Ping(context.Background()))
}

func TestRedisStorage_Ping(t *testing.T) {
	storage := newWithDial(newFakeServer().dial, 10)
	defer storage.Close()

	assert.NoError(t, storage.Ping(context.Background()))
}
