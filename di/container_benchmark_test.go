package di

import "testing"

// Benchmarks cover the hot resolve paths: transient (build every call),
// container (cache hit), and graph (per-call map lifecycle).

func BenchmarkResolve_Transient(b *testing.B) {
	c := NewContainer(nil)
	key := NewInstanceKey("Session")
	_ = c.Register(key, ScopeTransient, func(_ Resolver, _ ...any) any {
		return &session{}
	})

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Resolve(key); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkResolve_ContainerHit(b *testing.B) {
	c := NewContainer(nil)
	key := NewInstanceKey("Session")
	_ = c.Register(key, ScopeContainer, func(_ Resolver, _ ...any) any {
		return &session{}
	})
	if _, err := c.Resolve(key); err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Resolve(key); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkResolve_GraphScope(b *testing.B) {
	c := NewContainer(nil)
	key := NewInstanceKey("Session")
	_ = c.Register(key, ScopeGraph, func(_ Resolver, _ ...any) any {
		return &session{}
	})

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Resolve(key); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkInstanceKey_Hash(b *testing.B) {
	key := NewInstanceKey("MovieManaging", "Int", "String")
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = key.Hash()
	}
}
