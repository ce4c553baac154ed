package enumerated

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-enumerated/enum"
)

// Country is the enumeration class used throughout these tests.
type Country struct {
	enum.Member
}

type countryCode string

// countryStore is an in-memory backing table.
type countryStore struct {
	mu     sync.Mutex
	rows   []Country
	nextID int64
}

func newCountryStore(names ...string) *countryStore {
	s := &countryStore{nextID: 1}
	for _, name := range names {
		s.rows = append(s.rows, Country{enum.Member{ID: s.nextID, Name: name}})
		s.nextID++
	}
	return s
}

func (s *countryStore) FetchAll(ctx context.Context) ([]Country, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Country(nil), s.rows...), nil
}

func (s *countryStore) Insert(ctx context.Context, rec Country) (Country, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.ID = s.nextID
	s.nextID++
	s.rows = append(s.rows, rec)
	return rec, nil
}

func (s *countryStore) Delete(ctx context.Context, id int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.rows {
		if r.ID == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (s *countryStore) DeleteAll(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.rows)
	s.rows = nil
	return n, nil
}

// order is the host record: a plain int64 foreign key plus the embedded
// per-instance state.
type order struct {
	ID        string
	CountryID int64

	Attrs
}

func newCountryCache(t *testing.T, names ...string) *enum.Cache[Country] {
	t.Helper()
	cache, err := enum.NewCache("countries", newCountryStore(names...), nil)
	if err != nil {
		t.Fatalf("failed to build cache: %v", err)
	}
	return cache
}

func declareCountry(t *testing.T, cache *enum.Cache[Country], opts ...Option[Country]) *Binding[Country] {
	t.Helper()
	b, err := Declare(nil, cache, "country", opts...)
	if err != nil {
		t.Fatalf("failed to declare attribute: %v", err)
	}
	return b
}

func TestBinding_SetResolvesEveryInputShape(t *testing.T) {
	ctx := context.Background()
	cache := newCountryCache(t, "ua", "pl")
	country := declareCountry(t, cache)

	ua, _, err := cache.ByName(ctx, "ua")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name  string
		input any
	}{
		{name: "record", input: ua},
		{name: "string", input: "ua"},
		{name: "token", input: countryCode("ua")},
		{name: "integer", input: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := &order{ID: "o-1"}
			if err := country.SetAny(ctx, host, tt.input); err != nil {
				t.Fatalf("set failed: %v", err)
			}
			if host.CountryID != 1 {
				t.Errorf("expected foreign key 1, got %d", host.CountryID)
			}

			res, err := country.Get(ctx, host)
			if err != nil {
				t.Fatalf("get failed: %v", err)
			}
			if !res.Present || res.Record != ua {
				t.Errorf("expected the ua record back, got %+v", res)
			}
		})
	}
}

func TestBinding_SetNoneClears(t *testing.T) {
	ctx := context.Background()
	country := declareCountry(t, newCountryCache(t, "ua"))
	host := &order{CountryID: 1}

	if err := country.Set(ctx, host, enum.None()); err != nil {
		t.Fatalf("set none failed: %v", err)
	}
	if host.CountryID != 0 {
		t.Errorf("expected the foreign key cleared, got %d", host.CountryID)
	}

	res, err := country.Get(ctx, host)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if res.Present || res.Invalid {
		t.Errorf("expected no value, got %+v", res)
	}
}

func TestBinding_InvalidWriteDefersToValidation(t *testing.T) {
	ctx := context.Background()
	country := declareCountry(t, newCountryCache(t, "ua"))
	host := &order{}

	if err := country.SetAny(ctx, host, "ua"); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	// The miss must not error, must not touch the foreign key, and must read
	// back exactly what the caller supplied.
	if err := country.SetAny(ctx, host, "xx"); err != nil {
		t.Fatalf("invalid set should defer, got %v", err)
	}
	if host.CountryID != 1 {
		t.Errorf("foreign key must stay untouched, got %d", host.CountryID)
	}

	res, err := country.Get(ctx, host)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !res.Invalid || res.Raw.Raw() != "xx" {
		t.Errorf("expected the raw invalid input back, got %+v", res)
	}

	err = country.Validate(host)
	verrs, ok := err.(validation.Errors)
	if !ok {
		t.Fatalf("expected validation.Errors, got %v", err)
	}
	if len(verrs) != 1 || verrs["country"] == nil {
		t.Errorf("expected exactly one error keyed by the attribute, got %v", verrs)
	}

	// Correcting the value clears the deferred state.
	if err := country.SetAny(ctx, host, "ua"); err != nil {
		t.Fatalf("correction failed: %v", err)
	}
	if err := country.Validate(host); err != nil {
		t.Errorf("expected no validation error after correction, got %v", err)
	}
	if host.CountryID != 1 {
		t.Errorf("expected foreign key 1, got %d", host.CountryID)
	}
}

func TestBinding_NoneClearsPendingState(t *testing.T) {
	ctx := context.Background()
	country := declareCountry(t, newCountryCache(t, "ua"))
	host := &order{}

	if err := country.SetAny(ctx, host, "xx"); err != nil {
		t.Fatalf("invalid set should defer, got %v", err)
	}
	if err := country.Set(ctx, host, enum.None()); err != nil {
		t.Fatalf("set none failed: %v", err)
	}
	if err := country.Validate(host); err != nil {
		t.Errorf("null-out must clear the deferred state, got %v", err)
	}
}

func TestBinding_EmptyNameNormalizesToNone(t *testing.T) {
	ctx := context.Background()
	country := declareCountry(t, newCountryCache(t, "ua"))
	host := &order{CountryID: 1}

	if err := country.SetAny(ctx, host, ""); err != nil {
		t.Fatalf("empty set failed: %v", err)
	}
	if host.CountryID != 0 {
		t.Errorf("empty string should clear the attribute, got fk=%d", host.CountryID)
	}
	if err := country.Validate(host); err != nil {
		t.Errorf("expected no validation error, got %v", err)
	}
}

func TestBinding_PermitEmptyNameLooksUp(t *testing.T) {
	ctx := context.Background()
	cache := newCountryCache(t, "", "ua")
	country := declareCountry(t, cache, WithPermitEmptyName[Country]())
	host := &order{}

	if err := country.SetAny(ctx, host, ""); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if host.CountryID != 1 {
		t.Errorf("expected the blank-named row resolved, got fk=%d", host.CountryID)
	}
}

func TestBinding_UnsupportedShapeFailsFast(t *testing.T) {
	ctx := context.Background()
	country := declareCountry(t, newCountryCache(t, "ua"))
	host := &order{CountryID: 1}

	err := country.SetAny(ctx, host, 3.14)
	var typeErr *enum.TypeError
	if !errors.As(err, &typeErr) {
		t.Fatalf("expected TypeError, got %v", err)
	}
	if host.CountryID != 1 {
		t.Errorf("programmer errors must not change state, got fk=%d", host.CountryID)
	}
	if err := country.Validate(host); err != nil {
		t.Errorf("programmer errors must not defer, got %v", err)
	}
}

func TestBinding_WrongClassRecordFailsFast(t *testing.T) {
	ctx := context.Background()
	country := declareCountry(t, newCountryCache(t, "ua"))
	host := &order{}

	err := country.Set(ctx, host, enum.Of(enum.Member{ID: 1, Name: "ua"}))
	var typeErr *enum.TypeError
	if !errors.As(err, &typeErr) {
		t.Errorf("expected TypeError for a record of another class, got %v", err)
	}
}

func TestBinding_ReadMissWithoutHandler(t *testing.T) {
	ctx := context.Background()
	country := declareCountry(t, newCountryCache(t, "ua"))
	host := &order{CountryID: 99}

	_, err := country.Get(ctx, host)
	var lookupErr *enum.LookupError
	if !errors.As(err, &lookupErr) {
		t.Fatalf("expected LookupError, got %v", err)
	}
	if lookupErr.Op != enum.OpRead || lookupErr.Attribute != "country" {
		t.Errorf("unexpected error detail: %+v", lookupErr)
	}
}

func TestBinding_ReadMissHandlerSubstitutes(t *testing.T) {
	ctx := context.Background()
	cache := newCountryCache(t, "ua")

	var got Failure
	handler := func(ctx context.Context, f Failure) (Country, bool, error) {
		got = f
		return Country{enum.Member{ID: -1, Name: "unknown"}}, true, nil
	}
	country := declareCountry(t, cache, WithOnLookupFailure(handler))
	host := &order{CountryID: 99}

	res, err := country.Get(ctx, host)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !res.Present || res.Record.Name != "unknown" {
		t.Errorf("expected the substitute record, got %+v", res)
	}
	if got.Op != enum.OpRead || got.Attribute != "country" || got.ForeignKey != "country_id" || got.Class != "countries" {
		t.Errorf("handler received wrong context: %+v", got)
	}
	if got.Value.Raw() != int64(99) {
		t.Errorf("handler should see the offending foreign key, got %v", got.Value)
	}
}

func TestBinding_ReadMissHandlerErrorPropagates(t *testing.T) {
	ctx := context.Background()
	wantErr := errors.New("refused")
	handler := func(ctx context.Context, f Failure) (Country, bool, error) {
		return Country{}, false, wantErr
	}
	country := declareCountry(t, newCountryCache(t, "ua"), WithOnLookupFailure(handler))
	host := &order{CountryID: 99}

	_, err := country.Get(ctx, host)
	if !errors.Is(err, wantErr) {
		t.Errorf("handler failures must propagate unchanged, got %v", err)
	}
}

func TestBinding_WriteMissHandlerAbsorbs(t *testing.T) {
	ctx := context.Background()

	var got Failure
	calls := 0
	handler := func(ctx context.Context, f Failure) (Country, bool, error) {
		calls++
		got = f
		return Country{}, false, nil
	}
	country := declareCountry(t, newCountryCache(t, "ua"), WithOnLookupFailure(handler))
	host := &order{CountryID: 1}

	if err := country.SetAny(ctx, host, "xx"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one handler call, got %d", calls)
	}
	if got.Op != enum.OpWrite || got.Value.Raw() != "xx" {
		t.Errorf("handler received wrong context: %+v", got)
	}
	if host.CountryID != 1 {
		t.Errorf("the handler owns side effects; foreign key must stay, got %d", host.CountryID)
	}
	if err := country.Validate(host); err != nil {
		t.Errorf("absorbed misses must not defer to validation, got %v", err)
	}
}

func TestBinding_ApplyDefault(t *testing.T) {
	ctx := context.Background()
	country := declareCountry(t, newCountryCache(t, "ua"), WithDefault[Country](enum.Name("ua")))

	host := &order{}
	if err := country.ApplyDefault(ctx, host); err != nil {
		t.Fatalf("apply default failed: %v", err)
	}
	res, err := country.Get(ctx, host)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !res.Present || res.Record.Name != "ua" {
		t.Errorf("expected the default applied, got %+v", res)
	}

	// An existing value wins over the default.
	host = &order{CountryID: 99}
	if err := country.ApplyDefault(ctx, host); err != nil {
		t.Fatalf("apply default failed: %v", err)
	}
	if host.CountryID != 99 {
		t.Errorf("default must not override an existing value, got %d", host.CountryID)
	}
}

// nullableOrder exercises the pointer and NullInt64 foreign-key kinds.
type nullableOrder struct {
	CountryID *int64

	Attrs
}

type sqlOrder struct {
	CountryID sql.NullInt64 `bun:"country_id"`

	Attrs
}

func TestBinding_NullableForeignKeys(t *testing.T) {
	ctx := context.Background()
	country := declareCountry(t, newCountryCache(t, "ua"))

	t.Run("pointer", func(t *testing.T) {
		host := &nullableOrder{}
		res, err := country.Get(ctx, host)
		if err != nil || res.Present {
			t.Fatalf("nil pointer should read as no value, got %+v, %v", res, err)
		}

		if err := country.SetAny(ctx, host, "ua"); err != nil {
			t.Fatalf("set failed: %v", err)
		}
		if host.CountryID == nil || *host.CountryID != 1 {
			t.Errorf("expected *int64 foreign key set to 1, got %v", host.CountryID)
		}

		if err := country.Set(ctx, host, enum.None()); err != nil {
			t.Fatalf("clear failed: %v", err)
		}
		if host.CountryID != nil {
			t.Errorf("expected the pointer cleared, got %v", host.CountryID)
		}
	})

	t.Run("null int64", func(t *testing.T) {
		host := &sqlOrder{}
		if err := country.SetAny(ctx, host, "ua"); err != nil {
			t.Fatalf("set failed: %v", err)
		}
		if !host.CountryID.Valid || host.CountryID.Int64 != 1 {
			t.Errorf("expected a valid NullInt64 of 1, got %+v", host.CountryID)
		}

		if err := country.Set(ctx, host, enum.None()); err != nil {
			t.Fatalf("clear failed: %v", err)
		}
		if host.CountryID.Valid {
			t.Errorf("expected the NullInt64 invalidated, got %+v", host.CountryID)
		}
	})
}

func TestBinding_HostWithoutStateRejected(t *testing.T) {
	ctx := context.Background()
	country := declareCountry(t, newCountryCache(t, "ua"))

	type bare struct{ CountryID int64 }
	err := country.SetAny(ctx, &bare{}, "ua")
	var cfgErr *enum.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigError for a host without embedded Attrs, got %v", err)
	}
}

func TestRule_ComposesWithOzzo(t *testing.T) {
	ctx := context.Background()
	country := declareCountry(t, newCountryCache(t, "ua"))
	host := &order{}

	rule := Rule(country, host)
	if err := rule.Validate(host.CountryID); err != nil {
		t.Errorf("expected no error before any write, got %v", err)
	}

	if err := country.SetAny(ctx, host, "xx"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	verr, ok := rule.Validate(host.CountryID).(validation.Error)
	if !ok || verr.Code() != ErrInvalidValue.Code() {
		t.Errorf("expected ErrInvalidValue, got %v", verr)
	}
}
