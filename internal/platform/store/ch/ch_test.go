package ch

import (
	"context"
	"testing"
)

func TestOpen_BadDSN(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), Config{URL: "://bad"})
	if err == nil {
		t.Fatalf("Open expected error for bad DSN")
	}
}

// Open is lazy; no server is needed to construct the client
func TestOpen_OK(t *testing.T) {
	t.Parallel()

	cl, err := Open(context.Background(), Config{
		URL:  "clickhouse://localhost:9000/default?dial_timeout=200ms",
		Role: "test",
	})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if cl == nil {
		t.Fatalf("Open returned nil client")
	}
	_ = cl.Close()
}

func TestInsert_UnsupportedShape(t *testing.T) {
	t.Parallel()

	cl, err := Open(context.Background(), Config{URL: "clickhouse://localhost:9000/default"})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer cl.Close()

	// shape check runs before any network work
	if err := cl.Insert(context.Background(), "t", 42); err == nil {
		t.Fatalf("Insert expected error for unsupported shape")
	}
	if err := cl.Insert(context.Background(), "t", map[string]any{"k": "v"}); err == nil {
		t.Fatalf("Insert expected error for map shape")
	}
}

func TestCheckInsertShape(t *testing.T) {
	t.Parallel()

	type row struct{ A int }

	if err := checkInsertShape([][]any{{1, "x"}}); err != nil {
		t.Fatalf("positional rows rejected: %v", err)
	}
	if err := checkInsertShape(row{A: 1}); err != nil {
		t.Fatalf("struct rejected: %v", err)
	}
	if err := checkInsertShape(&row{A: 1}); err != nil {
		t.Fatalf("struct pointer rejected: %v", err)
	}
	if err := checkInsertShape("nope"); err == nil {
		t.Fatalf("string accepted")
	}
}

func TestNilClient_Safe(t *testing.T) {
	t.Parallel()

	var c *CH
	if err := c.Close(); err != nil {
		t.Fatalf("nil Close returned error: %v", err)
	}
	if err := c.Ping(context.Background()); err == nil {
		t.Fatalf("nil Ping expected error")
	}
	if err := c.Insert(context.Background(), "t", [][]any{}); err == nil {
		t.Fatalf("nil Insert expected error")
	}
	if _, err := c.Query(context.Background(), "SELECT 1"); err == nil {
		t.Fatalf("nil Query expected error")
	}
}
