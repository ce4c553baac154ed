package enumerated

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-enumerated/enum"
)

func TestScope_RequiresDeclaration(t *testing.T) {
	ctx := context.Background()
	country := declareCountry(t, newCountryCache(t, "ua"))

	_, err := country.Scope(ctx, enum.Name("ua"))
	var cfgErr *enum.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigError without WithScope, got %v", err)
	}
}

func TestScope_ResolvesEveryInputShape(t *testing.T) {
	ctx := context.Background()
	cache := newCountryCache(t, "ua", "pl", "de")
	country := declareCountry(t, cache, WithScope[Country]())

	pl, _, err := cache.ByName(ctx, "pl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ids, err := country.resolveIDs(ctx, []enum.Value{
		enum.Name("ua"),
		enum.Of(pl),
		enum.ID(3),
		enum.Token(countryCode("ua")),
	})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	want := []int64{1, 2, 3, 1}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected ids %v, got %v", want, ids)
		}
	}

	crit, err := country.Scope(ctx, enum.Name("ua"), enum.ID(2))
	if err != nil {
		t.Fatalf("scope failed: %v", err)
	}
	if crit == nil {
		t.Fatal("expected a criteria function")
	}
}

func TestScope_MissIsAHardFailure(t *testing.T) {
	ctx := context.Background()
	country := declareCountry(t, newCountryCache(t, "ua"), WithScope[Country]())

	tests := []struct {
		name  string
		value enum.Value
	}{
		{name: "unknown name", value: enum.Name("xx")},
		{name: "unknown id", value: enum.ID(99)},
		{name: "none", value: enum.None()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := country.Scope(ctx, enum.Name("ua"), tt.value)
			var lookupErr *enum.LookupError
			if !errors.As(err, &lookupErr) {
				t.Fatalf("expected LookupError, got %v", err)
			}
			if lookupErr.Op != enum.OpScope {
				t.Errorf("expected the scope op, got %v", lookupErr.Op)
			}
		})
	}
}

func TestScope_NeedsValues(t *testing.T) {
	ctx := context.Background()
	country := declareCountry(t, newCountryCache(t, "ua"), WithScope[Country]())

	_, err := country.Scope(ctx)
	var cfgErr *enum.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigError for an empty value set, got %v", err)
	}
}

func TestScopeAny_CoercesAndRejects(t *testing.T) {
	ctx := context.Background()
	country := declareCountry(t, newCountryCache(t, "ua", "pl"), WithScope[Country]())

	if _, err := country.ScopeAny(ctx, "ua", 2); err != nil {
		t.Fatalf("scope failed: %v", err)
	}

	_, err := country.ScopeAny(ctx, "ua", 3.14)
	var typeErr *enum.TypeError
	if !errors.As(err, &typeErr) {
		t.Errorf("expected TypeError, got %v", err)
	}
}
