package modules

import (
	"testing"
	"time"

	"github.com/louisbranch/signin/internal/services/web/modules/credentials"
	"github.com/louisbranch/signin/internal/services/web/session"
)

type staticModule struct {
	id      string
	healthy bool
}

func (m staticModule) ID() string            { return m.id }
func (m staticModule) Mount() (Mount, error) { return Mount{Prefix: "/" + m.id + "/"}, nil }
func (m staticModule) Healthy() bool         { return m.healthy }

func TestDefaultModulesHaveUniquePrefixes(t *testing.T) {
	t.Parallel()

	codec, err := session.NewCodec(session.CodecConfig{Secret: []byte("0123456789abcdef0123456789abcdef"), MaxAge: time.Hour})
	if err != nil {
		t.Fatalf("NewCodec() error = %v", err)
	}
	mods := Default(Dependencies{Adapter: credentials.NewAdapter(nil), Codec: codec})
	if len(mods) != 1 {
		t.Fatalf("module count = %d, want %d", len(mods), 1)
	}
	if got := mods[0].ID(); got != "auth-api" {
		t.Fatalf("module[0] id = %q, want %q", got, "auth-api")
	}

	seen := map[string]struct{}{}
	for _, m := range mods {
		mount, err := m.Mount()
		if err != nil {
			t.Fatalf("module %q mount error = %v", m.ID(), err)
		}
		if mount.Prefix == "" {
			t.Fatalf("module %q prefix is empty", m.ID())
		}
		if _, ok := seen[mount.Prefix]; ok {
			t.Fatalf("duplicate mount prefix %q", mount.Prefix)
		}
		seen[mount.Prefix] = struct{}{}
	}
}

func TestHealthy(t *testing.T) {
	t.Parallel()

	if !Healthy(nil) {
		t.Fatal("expected empty registry to be healthy")
	}
	if !Healthy([]Module{staticModule{id: "a", healthy: true}}) {
		t.Fatal("expected healthy module set")
	}
	if Healthy([]Module{staticModule{id: "a", healthy: true}, staticModule{id: "b"}}) {
		t.Fatal("expected unhealthy module to fail registry health")
	}
}
