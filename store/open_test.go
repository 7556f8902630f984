package store

import (
	"os"
	"testing"

	c "github.com/relloyd/hotelpipe/constants"
	"github.com/relloyd/hotelpipe/logger"
	"github.com/relloyd/hotelpipe/rdbms/shared"
)

func TestOpen(t *testing.T) {
	log := logger.NewLogger("hotelpipe-test", "error", true)
	s, err := Open(log, shared.ConnectionDetails{Type: c.ConnectionTypeMemory, LogicalName: "mem"}, OpenOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*MemStore); !ok {
		t.Fatalf("expected a MemStore; got %T", s)
	}
	s, err = Open(log, shared.ConnectionDetails{Type: c.ConnectionTypeMockSql, LogicalName: "mock"}, OpenOptions{Schema: "star"})
	if err != nil {
		t.Fatal(err)
	}
	if ss, ok := s.(*SqlStore); !ok || ss.schema != "star" {
		t.Fatalf("expected a SqlStore with schema star; got %T", s)
	}
	if _, err = Open(log, shared.ConnectionDetails{Type: "oracle", LogicalName: "x"}, OpenOptions{}); err == nil {
		t.Fatal("expected an error for an unsupported connection type")
	}
}

func TestOpenRestUsesEnvironment(t *testing.T) {
	log := logger.NewLogger("hotelpipe-test", "error", true)
	defer os.Unsetenv(EnvSupabaseURL)
	defer os.Unsetenv(EnvSupabaseKey)
	_ = os.Setenv(EnvSupabaseURL, "https://example.supabase.co")
	_ = os.Setenv(EnvSupabaseKey, "anon")
	s, err := Open(log, shared.ConnectionDetails{Type: c.ConnectionTypeRest, LogicalName: "supabase"}, OpenOptions{})
	if err != nil {
		t.Fatal(err)
	}
	rs := s.(*RestStore)
	if rs.baseURL != "https://example.supabase.co/rest/v1" || rs.apiKey != "anon" {
		t.Fatalf("unexpected REST store settings %v %v", rs.baseURL, rs.apiKey)
	}
	os.Unsetenv(EnvSupabaseKey)
	if _, err = Open(log, shared.ConnectionDetails{Type: c.ConnectionTypeRest, LogicalName: "supabase"}, OpenOptions{}); err == nil {
		t.Fatal("expected an error without an API key")
	}
}
